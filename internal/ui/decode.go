package ui

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/nadzzz/orpheusdemo/internal/message"
)

// DecodeRequest turns raw submitted values into a synthesis request the way
// the widgets would constrain them: dropdowns only accept their choices,
// sliders are clamped to their range. Missing or invalid values fall back to
// the component's initial value. Text is passed through untouched.
func (p *Page) DecodeRequest(inputs map[string]string) message.SynthesisRequest {
	return message.SynthesisRequest{
		Text:        p.textValue(IDText, inputs),
		Voice:       p.choiceValue(IDVoice, inputs),
		Emotion:     p.choiceValue(IDEmotion, inputs),
		Speed:       p.sliderValue(IDSpeed, inputs),
		Temperature: p.sliderValue(IDTemperature, inputs),
		TopP:        p.sliderValue(IDTopP, inputs),
	}
}

// EncodeRequest is the inverse of DecodeRequest, used to keep the form
// populated after a submission.
func EncodeRequest(req message.SynthesisRequest) map[string]string {
	return map[string]string{
		IDText:        req.Text,
		IDVoice:       req.Voice,
		IDEmotion:     req.Emotion,
		IDSpeed:       formatFloat(req.Speed),
		IDTemperature: formatFloat(req.Temperature),
		IDTopP:        formatFloat(req.TopP),
	}
}

func (p *Page) textValue(id string, inputs map[string]string) string {
	if v, ok := inputs[id]; ok {
		return v
	}
	return p.index[id].Value
}

func (p *Page) choiceValue(id string, inputs map[string]string) string {
	c := p.index[id]
	if v, ok := inputs[id]; ok && slices.Contains(c.Choices, v) {
		return v
	}
	return c.Value
}

func (p *Page) sliderValue(id string, inputs map[string]string) float64 {
	c := p.index[id]
	def, _ := strconv.ParseFloat(c.Value, 64)

	raw, ok := inputs[id]
	if !ok {
		return def
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) {
		return def
	}
	return max(c.Min, min(c.Max, v))
}
