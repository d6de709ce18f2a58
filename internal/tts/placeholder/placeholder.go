// Package placeholder implements a tts.Synthesizer that performs no synthesis.
//
// Every request produces a human-readable description of what a real
// Orpheus-3B deployment would have been asked to do, plus a metrics block with
// a cosmetic latency and a duration estimate derived from character count.
// Nothing is loaded, nothing is played and no request leaves the process.
package placeholder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/nadzzz/orpheusdemo/internal/message"
)

const (
	// EmptyInputPrompt is the description returned for blank text.
	EmptyInputPrompt = "请先在左侧输入一段需要合成的文本，再点击下方按钮触发占位推理。"

	emptyInputNote = "请先在左侧输入待合成的文本。"
	disclaimerNote = "当前为占位输出，用于界面与参数调节可视化展示，不调用真实 TTS 模型。"

	// Metrics status values.
	StatusOK         = "ok"
	StatusEmptyInput = "empty-input"

	// Mode is reported in every metrics block.
	Mode = "demo"

	previewLimit = 80
	ellipsis     = "…"

	charsPerSecond = 12.0
	minDurationS   = 1.5
	maxDurationS   = 18.0

	minJitterMS = 50
	maxJitterMS = 150
)

const descriptionTemplate = `【占位合成结果说明】

当前 WebUI 处于“轻量演示模式”，不会下载或加载任何真实的 Orpheus-3B 权重，也不会向外部服务发送请求。
下述内容仅用于帮助用户从界面层面理解文本转语音系统的配置方式与感知效果：

· 目标模型：%s
· 选定音色：%s
· 情感标签：%s
· 语速倍率：约为标准语速的 %.2f 倍
· 采样控制：temperature=%.2f, top_p=%.2f

· 文本摘要:" %s "

在真实部署环境中，本区域将展示：
1）生成语音的主观描述（音色、情感、语速等）；
2）若干客观指标（流式延迟、生成时长、输出长度等）；
3）与历史合成记录的对比结果，用于评估参数调节带来的差异。`

// Source is the randomness the generator consumes. *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// Decimal2 is a float rendered in JSON with exactly two decimal digits.
type Decimal2 float64

// MarshalJSON implements json.Marshaler.
func (d Decimal2) MarshalJSON() ([]byte, error) {
	f := float64(d)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'f', 2, 64), nil
}

// Sampling echoes the sampling parameters.
type Sampling struct {
	Temperature Decimal2 `json:"temperature"`
	TopP        Decimal2 `json:"top_p"`
}

// Metrics is the metrics block for a non-empty request. Field order is the
// serialized key order.
type Metrics struct {
	Mode                    string   `json:"mode"`
	Status                  string   `json:"status"`
	LatencyMS               int      `json:"latency_ms"`
	EstimatedAudioDurationS Decimal2 `json:"estimated_audio_duration_s"`
	Voice                   string   `json:"voice"`
	Emotion                 string   `json:"emotion"`
	SpeedRatio              Decimal2 `json:"speed_ratio"`
	Sampling                Sampling `json:"sampling"`
	Note                    string   `json:"note"`
}

// EmptyMetrics is the metrics block for blank input. It deliberately has no
// latency or duration fields.
type EmptyMetrics struct {
	Status string `json:"status"`
	Note   string `json:"note"`
	Mode   string `json:"mode"`
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock replaces time.Now as the generator's clock.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// Generator fabricates placeholder synthesis results.
type Generator struct {
	mu  sync.Mutex // guards rng; *rand.Rand is not safe for concurrent use
	rng Source
	now func() time.Time
}

// New creates a generator drawing latency jitter from rng.
func New(rng Source, opts ...Option) *Generator {
	g := &Generator{rng: rng, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewSeeded creates a generator backed by a PCG source. A zero seed is
// replaced by the current time.
func NewSeeded(seed uint64, opts ...Option) *Generator {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return New(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), opts...)
}

// Name returns the backend identifier.
func (g *Generator) Name() string { return "placeholder" }

// Synthesize implements tts.Synthesizer. It never returns an error.
func (g *Generator) Synthesize(_ context.Context, req message.SynthesisRequest) (*message.SynthesisResult, error) {
	description, metrics := g.Generate(req.Text, req.Voice, req.Emotion, req.Speed, req.Temperature, req.TopP)
	return &message.SynthesisResult{Description: description, Metrics: metrics}, nil
}

// Close is a no-op.
func (g *Generator) Close() error { return nil }

// Generate maps the six control values to a description and a JSON metrics
// string. Numeric ranges are not validated.
func (g *Generator) Generate(text, voice, emotion string, speed, temperature, topP float64) (string, string) {
	start := g.now()

	if trim(text) == "" {
		return EmptyInputPrompt, encode(EmptyMetrics{
			Status: StatusEmptyInput,
			Note:   emptyInputNote,
			Mode:   Mode,
		})
	}

	description := fmt.Sprintf(descriptionTemplate,
		message.ModelName, voice, emotion, speed, temperature, topP, Preview(text))

	latency := int(g.now().Sub(start).Milliseconds()) + g.jitter()
	duration := EstimateDuration(text)

	slog.Debug("placeholder synthesis",
		"text_length", utf8.RuneCountInString(text),
		"voice", voice,
		"latency_ms", latency,
		"estimated_audio_duration_s", duration)

	return description, encode(Metrics{
		Mode:                    Mode,
		Status:                  StatusOK,
		LatencyMS:               latency,
		EstimatedAudioDurationS: Decimal2(duration),
		Voice:                   voice,
		Emotion:                 emotion,
		SpeedRatio:              Decimal2(speed),
		Sampling: Sampling{
			Temperature: Decimal2(temperature),
			TopP:        Decimal2(topP),
		},
		Note: disclaimerNote,
	})
}

func (g *Generator) jitter() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return minJitterMS + g.rng.IntN(maxJitterMS-minJitterMS+1)
}

// Preview trims text, turns newlines into spaces and truncates it to 80
// characters, appending an ellipsis when something was cut.
func Preview(text string) string {
	preview := strings.ReplaceAll(trim(text), "\n", " ")
	runes := []rune(preview)
	if len(runes) > previewLimit {
		return string(runes[:previewLimit]) + ellipsis
	}
	return preview
}

// EstimateDuration derives a fake audio duration in seconds from the
// character count: chars/12, clamped to [1.5, 18.0], rounded to 2 decimals.
func EstimateDuration(text string) float64 {
	d := float64(utf8.RuneCountInString(text)) / charsPerSecond
	return Round2(max(minDurationS, min(maxDurationS, d)))
}

// Round2 rounds to two decimal places using the exact binary value, so
// 0.625 becomes 0.62 and 1.375 becomes 1.38, the same digits %.2f prints.
func Round2(f float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(f, 'f', 2, 64), 64)
	if err != nil {
		return f
	}
	return r
}

// trim strips leading and trailing whitespace. The information separators
// U+001C..U+001F count as whitespace here.
func trim(text string) string {
	return strings.TrimFunc(text, isSpace)
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

func encode(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		// Only reachable through a broken Marshaler; keep the contract.
		slog.Error("encoding metrics", "error", err)
		return "{}"
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
