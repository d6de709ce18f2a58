// Package message defines the data types flowing between the UI, the
// dispatcher and the synthesizer backend.
package message

import (
	"time"

	"github.com/google/uuid"
)

// ModelName is the label of the model the demo pretends to run.
const ModelName = "Orpheus-3B-0.1-ft-Q4_K_M-GGUF"

// Voices lists the selectable voice labels, in display order.
var Voices = []string{
	"tara（通用女声）",
	"leah（温柔女声）",
	"jess（明亮女声）",
	"leo（青年男声）",
	"dan（沉稳男声）",
	"mia（活泼女声）",
	"zac（低沉男声）",
	"zoe（少年音）",
}

// Emotions lists the selectable emotion tags, in display order.
var Emotions = []string{
	"中性 <neutral>",
	"愉悦 <laugh>",
	"悲伤 <cry>",
	"惊讶 <gasp>",
	"思考 <hmm>",
}

// SampleText is the text the input box starts with.
const SampleText = "在本地环境中，我们使用 Orpheus-3B 模型合成具有情感与节奏控制的高质量语音。"

// SynthesisRequest carries the values of the six input controls for one
// generate trigger. Ranges are constrained by the input widgets, not here.
type SynthesisRequest struct {
	// Text is the text to "synthesize". May be empty or whitespace-only.
	Text string `json:"text"`

	// Voice is one of Voices.
	Voice string `json:"voice"`

	// Emotion is one of Emotions.
	Emotion string `json:"emotion"`

	// Speed is the speaking rate ratio, 0.7 to 1.4.
	Speed float64 `json:"speed"`

	// Temperature is the sampling temperature, 0.1 to 1.5.
	Temperature float64 `json:"temperature"`

	// TopP is the nucleus sampling cutoff, 0.1 to 1.0.
	TopP float64 `json:"top_p"`
}

// DefaultRequest returns the values the form is initialised with.
func DefaultRequest() SynthesisRequest {
	return SynthesisRequest{
		Text:        SampleText,
		Voice:       Voices[0],
		Emotion:     Emotions[0],
		Speed:       1.0,
		Temperature: 0.6,
		TopP:        0.9,
	}
}

// SynthesisResult is what the generator hands back for display.
type SynthesisResult struct {
	// Description is the human-readable placeholder description.
	Description string `json:"description"`

	// Metrics is the metrics mapping, already serialized as indented JSON.
	Metrics string `json:"metrics"`
}

// Event is a single UI trigger, e.g. one click of the run button.
type Event struct {
	// ID is a unique identifier for this event (UUID).
	ID string `json:"id"`

	// Trigger is the ID of the control that fired.
	Trigger string `json:"trigger"`

	// Inputs maps input component IDs to their raw submitted values.
	Inputs map[string]string `json:"inputs"`

	// Timestamp is when the event was received.
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent stamps a new event for the given trigger.
func NewEvent(trigger string, inputs map[string]string) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Trigger:   trigger,
		Inputs:    inputs,
		Timestamp: time.Now(),
	}
}

// EventResult maps output component IDs to the values they should display.
type EventResult struct {
	// EventID is the originating event ID.
	EventID string `json:"event_id"`

	// Outputs maps output component IDs to their new contents.
	Outputs map[string]string `json:"outputs"`
}

// GenerateResponse is the reply of the JSON and gRPC generate APIs.
type GenerateResponse struct {
	// EventID identifies the event that produced this response.
	EventID string `json:"event_id"`

	// Description is the human-readable placeholder description.
	Description string `json:"description"`

	// Metrics is the metrics block serialized as indented JSON text.
	Metrics string `json:"metrics"`
}
