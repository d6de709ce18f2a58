// Package http implements the HTTP transport for the demo.
//
// It serves the rendered page, accepts form posts from it, exposes a small
// JSON API for scripted use, and hosts the Swagger UI for that API.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/nadzzz/orpheusdemo/docs"
	"github.com/nadzzz/orpheusdemo/internal/dispatch"
	"github.com/nadzzz/orpheusdemo/internal/message"
	"github.com/nadzzz/orpheusdemo/internal/transport"
	"github.com/nadzzz/orpheusdemo/internal/ui"
)

const maxBodyBytes = 1 << 20

// Transport implements transport.Transport over HTTP.
type Transport struct {
	host string
	port int

	mu     sync.Mutex // guards server; Close may race with Listen
	server *http.Server
}

// New creates a new HTTP transport bound to host:port.
func New(host string, port int) *Transport {
	return &Transport{host: host, port: port}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "http" }

// Addr returns the bind address.
func (t *Transport) Addr() string {
	return net.JoinHostPort(t.host, strconv.Itoa(t.port))
}

// Handler builds the router for svc.
func (t *Transport) Handler(svc transport.Service) http.Handler {
	mux := http.NewServeMux()

	// GET /: the page with its initial values.
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		render(w, svc.Page(), ui.State{}, http.StatusOK)
	})

	// POST /run/{trigger}: a form submission from the page.
	mux.HandleFunc("POST /run/{trigger}", func(w http.ResponseWriter, r *http.Request) {
		t.handleRun(w, r, svc)
	})

	mux.HandleFunc("POST /api/generate", func(w http.ResponseWriter, r *http.Request) {
		t.handleGenerate(w, r, svc)
	})

	mux.HandleFunc("GET /api/options", func(w http.ResponseWriter, r *http.Request) {
		t.handleOptions(w, r, svc)
	})

	// Swagger UI, serving the generated OpenAPI docs.
	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return mux
}

// Listen starts the HTTP server and routes incoming requests to svc.
func (t *Transport) Listen(ctx context.Context, svc transport.Service) error {
	server := &http.Server{
		Addr:              t.Addr(),
		Handler:           t.Handler(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}
	t.mu.Lock()
	t.server = server
	t.mu.Unlock()

	slog.Info("http transport listening", "addr", server.Addr)

	go func() {
		<-ctx.Done()
		slog.Info("http transport shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http listen: %w", err)
	}
	return nil
}

// handleRun processes a form post from the page and re-renders it with the
// outputs filled in. The form keeps the values as the widgets constrained them.
func (t *Transport) handleRun(w http.ResponseWriter, r *http.Request, svc transport.Service) {
	page := svc.Page()

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		render(w, page, ui.State{Error: "无法解析表单: " + err.Error()}, http.StatusBadRequest)
		return
	}

	inputs := make(map[string]string, len(r.PostForm))
	for k := range r.PostForm {
		inputs[k] = r.PostForm.Get(k)
	}

	ev := message.NewEvent(r.PathValue("trigger"), inputs)
	res, err := svc.Handle(r.Context(), ev)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, dispatch.ErrUnknownTrigger) {
			status = http.StatusNotFound
		}
		slog.Error("run failed", "event_id", ev.ID, "error", err)
		render(w, page, ui.State{Values: inputs, Error: "处理失败"}, status)
		return
	}

	values := ui.EncodeRequest(page.DecodeRequest(inputs))
	for id, v := range res.Outputs {
		values[id] = v
	}
	render(w, page, ui.State{Values: values, EventID: res.EventID}, http.StatusOK)
}

// handleGenerate processes a POST /api/generate request.
//
// @Summary     Generate a placeholder synthesis result
// @Description Runs the text and parameters through the placeholder generator. No model is loaded and no audio is produced.
// @Description Omitted fields take the page defaults (empty text). Out-of-range values are constrained like the page widgets.
// @Tags        generate
// @Accept      json
// @Produce     json
// @Param       request  body      message.SynthesisRequest  true  "Text, voice, emotion and sampling parameters"
// @Success     200      {object}  message.GenerateResponse  "Description and metrics JSON text"
// @Failure     400      {string}  string  "Invalid request body"
// @Failure     500      {string}  string  "Internal processing error"
// @Router      /api/generate [post]
func (t *Transport) handleGenerate(w http.ResponseWriter, r *http.Request, svc transport.Service) {
	req := transport.APIRequest()
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := transport.Generate(r.Context(), svc, req)
	if err != nil {
		slog.Error("generate failed", "error", err)
		http.Error(w, "generate error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, resp)
}

// optionsResponse describes the selectable values of the page controls.
type optionsResponse struct {
	Model    string                   `json:"model"`
	Voices   []string                 `json:"voices"`
	Emotions []string                 `json:"emotions"`
	Sliders  []ui.SliderSpec          `json:"sliders"`
	Defaults message.SynthesisRequest `json:"defaults"`
}

// handleOptions processes a GET /api/options request.
//
// @Summary     List control options
// @Description Returns the model label, the voice and emotion choices, slider ranges and form defaults.
// @Tags        generate
// @Produce     json
// @Success     200  {object}  optionsResponse
// @Router      /api/options [get]
func (t *Transport) handleOptions(w http.ResponseWriter, _ *http.Request, svc transport.Service) {
	page := svc.Page()
	voice, _ := page.Component(ui.IDVoice)
	emotion, _ := page.Component(ui.IDEmotion)

	writeJSON(w, optionsResponse{
		Model:    message.ModelName,
		Voices:   voice.Choices,
		Emotions: emotion.Choices,
		Sliders:  page.Sliders(),
		Defaults: message.DefaultRequest(),
	})
}

// Close gracefully shuts down the HTTP server.
func (t *Transport) Close() error {
	t.mu.Lock()
	server := t.server
	t.mu.Unlock()

	if server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}

func render(w http.ResponseWriter, page *ui.Page, st ui.State, status int) {
	var buf bytes.Buffer
	if err := page.Render(&buf, st); err != nil {
		slog.Error("render failed", "error", err)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
