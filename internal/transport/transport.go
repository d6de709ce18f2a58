// Package transport defines the interface for the surfaces the demo is served
// on.
//
// Each transport (HTTP page + JSON API, gRPC) implements this interface and is
// handed the same Service. Transports don't know about the synthesizer; they
// only turn their wire format into events and events back into responses.
package transport

import (
	"context"

	"github.com/nadzzz/orpheusdemo/internal/message"
	"github.com/nadzzz/orpheusdemo/internal/ui"
)

// Service is what every transport serves. *dispatch.Dispatcher implements it.
type Service interface {
	// Handle processes one UI event.
	Handle(ctx context.Context, ev *message.Event) (*message.EventResult, error)

	// Page returns the component tree and binding table being served.
	Page() *ui.Page
}

// Transport is the interface that every transport adapter must implement.
type Transport interface {
	// Name returns the transport identifier (e.g., "http", "grpc").
	Name() string

	// Listen starts accepting requests and routes them to svc.
	// It blocks until the context is cancelled.
	Listen(ctx context.Context, svc Service) error

	// Close gracefully shuts down the transport, draining in-flight work.
	Close() error
}

// Generate runs a decoded request through the generate binding, so API calls
// get the same widget constraints and logging as a click on the page.
func Generate(ctx context.Context, svc Service, req message.SynthesisRequest) (*message.GenerateResponse, error) {
	ev := message.NewEvent(ui.IDGenerate, ui.EncodeRequest(req))
	res, err := svc.Handle(ctx, ev)
	if err != nil {
		return nil, err
	}
	return &message.GenerateResponse{
		EventID:     res.EventID,
		Description: res.Outputs[ui.IDDescription],
		Metrics:     res.Outputs[ui.IDMetrics],
	}, nil
}

// APIRequest returns the starting point for decoding an API request: the
// form defaults with empty text, so omitted fields behave like untouched
// widgets.
func APIRequest() message.SynthesisRequest {
	req := message.DefaultRequest()
	req.Text = ""
	return req
}
