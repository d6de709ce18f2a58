// Package tts defines the interface for text-to-speech backends.
//
// The demo ships a single backend, placeholder, which fabricates a plausible
// description and metrics block without loading a model or producing audio.
// The dispatcher only depends on this interface.
package tts

import (
	"context"

	"github.com/nadzzz/orpheusdemo/internal/message"
)

// Synthesizer turns a synthesis request into a displayable result.
type Synthesizer interface {
	// Name returns the backend identifier (e.g., "placeholder").
	Name() string

	// Synthesize runs one request to completion.
	Synthesize(ctx context.Context, req message.SynthesisRequest) (*message.SynthesisResult, error)

	// Close releases any resources held by the synthesizer.
	Close() error
}
