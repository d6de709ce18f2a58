// Package dispatch routes UI events through the binding table.
//
// The dispatcher receives an event from a transport, finds the binding for the
// control that fired, decodes the bound inputs the way the widgets constrain
// them, runs the synthesizer and maps its result onto the bound outputs.
// Every event is handled synchronously and independently of any other.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nadzzz/orpheusdemo/internal/message"
	"github.com/nadzzz/orpheusdemo/internal/tts"
	"github.com/nadzzz/orpheusdemo/internal/ui"
)

// ErrUnknownTrigger is returned for events whose trigger has no binding.
var ErrUnknownTrigger = errors.New("unknown trigger")

// Dispatcher is the event routing engine.
type Dispatcher struct {
	page        *ui.Page
	synthesizer tts.Synthesizer
}

// New creates a Dispatcher for the given page and synthesizer backend.
func New(page *ui.Page, synthesizer tts.Synthesizer) *Dispatcher {
	return &Dispatcher{page: page, synthesizer: synthesizer}
}

// Page returns the page whose bindings this dispatcher serves.
func (d *Dispatcher) Page() *ui.Page { return d.page }

// Handle processes a single event. Every transport serves the dispatcher as
// its transport.Service.
func (d *Dispatcher) Handle(ctx context.Context, ev *message.Event) (*message.EventResult, error) {
	start := time.Now()
	logger := slog.With("event_id", ev.ID, "trigger", ev.Trigger)

	binding, ok := d.page.Binding(ev.Trigger)
	if !ok {
		logger.Warn("no binding for trigger")
		return nil, fmt.Errorf("%w: %q", ErrUnknownTrigger, ev.Trigger)
	}

	// Only the bound inputs are visible to the handler.
	inputs := make(map[string]string, len(binding.Inputs))
	for _, id := range binding.Inputs {
		if v, ok := ev.Inputs[id]; ok {
			inputs[id] = v
		}
	}
	req := d.page.DecodeRequest(inputs)
	logger.Info("event started", "text_length", len([]rune(req.Text)), "voice", req.Voice, "emotion", req.Emotion)

	res, err := d.synthesize(ctx, req)
	if err != nil {
		logger.Error("synthesis failed", "error", err)
		return nil, err
	}

	result := &message.EventResult{
		EventID: ev.ID,
		Outputs: bindOutputs(binding.Outputs, res.Description, res.Metrics),
	}

	logger.Info("event complete", "duration", time.Since(start), "outputs", len(result.Outputs))
	return result, nil
}

// synthesize runs a decoded request through the backend, naming the backend
// in any error.
func (d *Dispatcher) synthesize(ctx context.Context, req message.SynthesisRequest) (*message.SynthesisResult, error) {
	res, err := d.synthesizer.Synthesize(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s synthesize: %w", d.synthesizer.Name(), err)
	}
	return res, nil
}

func bindOutputs(ids []string, values ...string) map[string]string {
	out := make(map[string]string, len(ids))
	for i, id := range ids {
		if i < len(values) {
			out[id] = values[i]
		}
	}
	return out
}
