package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadzzz/orpheusdemo/internal/message"
)

func TestBuildTree(t *testing.T) {
	p := Build(Options{})

	assert.Equal(t, message.ModelName+" WebUI Demo", p.Title())
	assert.Equal(t, KindColumn, p.Root().Kind)

	for _, id := range []string{IDText, IDVoice, IDEmotion, IDSpeed, IDTemperature, IDTopP, IDGenerate, IDDescription, IDMetrics} {
		_, ok := p.Component(id)
		assert.True(t, ok, id)
	}

	voice, _ := p.Component(IDVoice)
	assert.Equal(t, KindDropdown, voice.Kind)
	assert.Len(t, voice.Choices, 8)
	assert.Equal(t, message.Voices[0], voice.Value)

	emotion, _ := p.Component(IDEmotion)
	assert.Len(t, emotion.Choices, 5)

	metrics, _ := p.Component(IDMetrics)
	assert.Equal(t, KindCode, metrics.Kind)
	assert.Equal(t, "json", metrics.Language)

	desc, _ := p.Component(IDDescription)
	assert.True(t, desc.ReadOnly)
}

func TestBuildTitleOverride(t *testing.T) {
	assert.Equal(t, "custom", Build(Options{Title: "custom"}).Title())
}

func TestBindings(t *testing.T) {
	p := Build(Options{})

	bindings := p.Bindings()
	require.Len(t, bindings, 1)

	b, ok := p.Binding(IDGenerate)
	require.True(t, ok)
	assert.Equal(t, []string{IDText, IDVoice, IDEmotion, IDSpeed, IDTemperature, IDTopP}, b.Inputs)
	assert.Equal(t, []string{IDDescription, IDMetrics}, b.Outputs)

	_, ok = p.Binding("nope")
	assert.False(t, ok)

	// Mutating the returned copy leaves the page untouched.
	bindings[0].Trigger = "changed"
	_, ok = p.Binding(IDGenerate)
	assert.True(t, ok)
}

func TestPageReturnsCopies(t *testing.T) {
	p := Build(Options{})
	firstVoice := message.Voices[0]

	voice, _ := p.Component(IDVoice)
	voice.Choices[0] = "mutated"

	root := p.Root()
	root.Children[0].ID = "mutated"
	root.Children = nil

	b, _ := p.Binding(IDGenerate)
	b.Inputs[0] = "mutated"
	p.Bindings()[0].Outputs[0] = "mutated"

	again, _ := p.Component(IDVoice)
	assert.Equal(t, firstVoice, again.Choices[0])
	assert.Equal(t, firstVoice, message.Voices[0])
	assert.Len(t, p.Root().Children, 2)
	assert.Equal(t, "intro", p.Root().Children[0].ID)

	b, _ = p.Binding(IDGenerate)
	assert.Equal(t, IDText, b.Inputs[0])
	assert.Equal(t, IDDescription, b.Outputs[0])
}

func TestSliders(t *testing.T) {
	specs := Build(Options{}).Sliders()
	require.Len(t, specs, 3)

	assert.Equal(t, SliderSpec{ID: IDSpeed, Label: "语速倍率", Min: 0.7, Max: 1.4, Step: 0.05, Default: 1.0}, specs[0])
	assert.Equal(t, SliderSpec{ID: IDTemperature, Label: "temperature", Min: 0.1, Max: 1.5, Step: 0.05, Default: 0.6}, specs[1])
	assert.Equal(t, SliderSpec{ID: IDTopP, Label: "top_p", Min: 0.1, Max: 1.0, Step: 0.05, Default: 0.9}, specs[2])
}

func TestDecodeRequest(t *testing.T) {
	p := Build(Options{})
	defaults := message.DefaultRequest()

	tests := []struct {
		name   string
		inputs map[string]string
		want   message.SynthesisRequest
	}{
		{
			name:   "no inputs gives defaults",
			inputs: map[string]string{},
			want:   defaults,
		},
		{
			name: "valid values pass through",
			inputs: map[string]string{
				IDText: "  hi\n", IDVoice: message.Voices[3], IDEmotion: message.Emotions[2],
				IDSpeed: "1.25", IDTemperature: "0.1", IDTopP: "1",
			},
			want: message.SynthesisRequest{
				Text: "  hi\n", Voice: message.Voices[3], Emotion: message.Emotions[2],
				Speed: 1.25, Temperature: 0.1, TopP: 1,
			},
		},
		{
			name: "out of range sliders are clamped",
			inputs: map[string]string{
				IDText: "x", IDSpeed: "5", IDTemperature: "-1", IDTopP: "Inf",
			},
			want: message.SynthesisRequest{
				Text: "x", Voice: defaults.Voice, Emotion: defaults.Emotion,
				Speed: 1.4, Temperature: 0.1, TopP: 1.0,
			},
		},
		{
			name: "invalid values fall back",
			inputs: map[string]string{
				IDText: "", IDVoice: "robot", IDEmotion: "angry", IDSpeed: "fast", IDTemperature: "NaN",
			},
			want: message.SynthesisRequest{
				Text: "", Voice: defaults.Voice, Emotion: defaults.Emotion,
				Speed: 1.0, Temperature: 0.6, TopP: 0.9,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.DecodeRequest(tt.inputs))
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	p := Build(Options{})
	req := message.SynthesisRequest{
		Text: "text", Voice: message.Voices[7], Emotion: message.Emotions[4],
		Speed: 0.75, Temperature: 1.5, TopP: 0.35,
	}
	assert.Equal(t, req, p.DecodeRequest(EncodeRequest(req)))
}

func TestRenderDefaults(t *testing.T) {
	p := Build(Options{})

	var buf bytes.Buffer
	require.NoError(t, p.Render(&buf, State{}))
	html := buf.String()

	assert.Contains(t, html, "<title>"+message.ModelName+" WebUI Demo</title>")
	assert.Contains(t, html, `action="/run/generate"`)
	assert.Contains(t, html, `<h1>`)
	assert.Contains(t, html, message.SampleText)
	assert.Contains(t, html, `name="speed"`)
	assert.Contains(t, html, `min="0.7" max="1.4" step="0.05" value="1"`)
	assert.Equal(t, 8+5, strings.Count(html, "<option "))
	assert.Contains(t, html, "中性 &lt;neutral&gt;")
	assert.Contains(t, html, "selected")
	assert.NotContains(t, html, `class="chroma"`)
	assert.NotContains(t, html, `class="event"`)
}

func TestRenderState(t *testing.T) {
	p := Build(Options{})

	var buf bytes.Buffer
	err := p.Render(&buf, State{
		Values: map[string]string{
			IDText:        "<script>alert(1)</script>",
			IDEmotion:     message.Emotions[3],
			IDDescription: "described",
			IDMetrics:     "{\n  \"mode\": \"demo\"\n}",
		},
		EventID: "evt-1",
		Error:   "oops",
	})
	require.NoError(t, err)
	html := buf.String()

	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "described")
	assert.Contains(t, html, `class="chroma"`)
	assert.Contains(t, html, "demo")
	assert.Contains(t, html, "evt-1")
	assert.Contains(t, html, `<p class="error">oops</p>`)
	assert.Regexp(t, `<option value="惊讶 &lt;gasp&gt;" selected>`, html)
}

func TestHighlight(t *testing.T) {
	h, err := Highlight("json", `{"status": "ok"}`)
	require.NoError(t, err)
	assert.Contains(t, string(h), `class="chroma"`)
	assert.Contains(t, string(h), "status")

	h, err = Highlight("no-such-language", "plain")
	require.NoError(t, err)
	assert.Contains(t, string(h), "plain")
}
