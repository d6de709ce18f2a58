// Package ui describes the demo page as an immutable component tree plus a
// single event-binding table, and renders it to HTML.
//
// The tree is built once at startup by Build and never mutated afterwards.
// Per-request values (what the user typed, what the generator returned) live
// in a State passed to Render, so no session state is shared between clicks.
package ui

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/nadzzz/orpheusdemo/internal/message"
)

// Kind identifies the widget type of a component.
type Kind string

const (
	KindMarkdown Kind = "markdown"
	KindTextbox  Kind = "textbox"
	KindDropdown Kind = "dropdown"
	KindSlider   Kind = "slider"
	KindButton   Kind = "button"
	KindCode     Kind = "code"
	KindRow      Kind = "row"
	KindColumn   Kind = "column"
)

// Component IDs used by the demo page.
const (
	IDText        = "text"
	IDVoice       = "voice"
	IDEmotion     = "emotion"
	IDSpeed       = "speed"
	IDTemperature = "temperature"
	IDTopP        = "top_p"
	IDGenerate    = "generate"
	IDDescription = "description"
	IDMetrics     = "metrics"
)

// Component is one node of the page tree. Which fields matter depends on Kind.
type Component struct {
	ID          string
	Kind        Kind
	Label       string
	Value       string // initial value, or markdown source
	Placeholder string
	Lines       int
	Choices     []string
	Min         float64
	Max         float64
	Step        float64
	Language    string
	Scale       int
	Primary     bool
	ReadOnly    bool
	Children    []Component
}

// Binding wires one trigger control to the inputs it reads and the outputs
// it writes. Inputs are listed in handler argument order.
type Binding struct {
	Trigger string
	Inputs  []string
	Outputs []string
}

// SliderSpec is the public description of a slider, used by the options API.
type SliderSpec struct {
	ID      string  `json:"id"`
	Label   string  `json:"label"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Step    float64 `json:"step"`
	Default float64 `json:"default"`
}

// Page is the built component tree together with its binding table.
type Page struct {
	title    string
	root     Component
	bindings []Binding
	index    map[string]Component
}

// Options tweaks the page built by Build.
type Options struct {
	// Title overrides the browser title. Defaults to "<model> WebUI Demo".
	Title string
}

// Build constructs the demo page.
func Build(opts Options) *Page {
	title := opts.Title
	if title == "" {
		title = message.ModelName + " WebUI Demo"
	}

	defaults := message.DefaultRequest()

	intro := Component{
		ID:   "intro",
		Kind: KindMarkdown,
		Value: fmt.Sprintf(`# %s 文本转语音 WebUI 演示界面

本界面以占位推理的方式，展示 Orpheus-3B 量化模型在本地部署场景下的
典型交互流程，包括文本输入、音色与情感配置、采样参数调节以及合成结果的
结构化可视化。当前实现不加载任何真实权重，也不会访问外部推理服务。
`, message.ModelName),
	}

	inputs := Component{
		ID:    "inputs",
		Kind:  KindColumn,
		Scale: 2,
		Children: []Component{
			{ID: "inputs-heading", Kind: KindMarkdown, Value: "### 文本输入与参数配置"},
			{
				ID:          IDText,
				Kind:        KindTextbox,
				Label:       "待合成文本",
				Lines:       6,
				Placeholder: "例如：" + message.SampleText,
				Value:       defaults.Text,
			},
			{
				ID:      IDVoice,
				Kind:    KindDropdown,
				Label:   "音色选择（voice）",
				Choices: slices.Clone(message.Voices),
				Value:   defaults.Voice,
			},
			{
				ID:      IDEmotion,
				Kind:    KindDropdown,
				Label:   "情感标签（emotion tag）",
				Choices: slices.Clone(message.Emotions),
				Value:   defaults.Emotion,
			},
			{
				ID:   "sliders",
				Kind: KindRow,
				Children: []Component{
					slider(IDSpeed, "语速倍率", 0.7, 1.4, 0.05, defaults.Speed),
					slider(IDTemperature, "temperature", 0.1, 1.5, 0.05, defaults.Temperature),
					slider(IDTopP, "top_p", 0.1, 1.0, 0.05, defaults.TopP),
				},
			},
			{
				ID:      IDGenerate,
				Kind:    KindButton,
				Label:   "生成占位合成结果（不实际调用模型）",
				Primary: true,
			},
		},
	}

	outputs := Component{
		ID:    "outputs",
		Kind:  KindColumn,
		Scale: 3,
		Children: []Component{
			{ID: "outputs-heading", Kind: KindMarkdown, Value: "### 合成结果说明与指标可视化"},
			{
				ID:       IDDescription,
				Kind:     KindTextbox,
				Label:    "合成结果描述（占位）",
				Lines:    14,
				ReadOnly: true,
			},
			{
				ID:       IDMetrics,
				Kind:     KindCode,
				Label:    "推理指标/配置摘要（JSON，占位）",
				Language: "json",
				Lines:    14,
			},
		},
	}

	root := Component{
		ID:   "root",
		Kind: KindColumn,
		Children: []Component{
			intro,
			{ID: "main", Kind: KindRow, Children: []Component{inputs, outputs}},
		},
	}

	bindings := []Binding{{
		Trigger: IDGenerate,
		Inputs:  []string{IDText, IDVoice, IDEmotion, IDSpeed, IDTemperature, IDTopP},
		Outputs: []string{IDDescription, IDMetrics},
	}}

	p := &Page{
		title:    title,
		root:     root,
		bindings: bindings,
		index:    make(map[string]Component),
	}
	p.indexTree(root)
	return p
}

func slider(id, label string, lo, hi, step, def float64) Component {
	return Component{
		ID:    id,
		Kind:  KindSlider,
		Label: label,
		Min:   lo,
		Max:   hi,
		Step:  step,
		Value: formatFloat(def),
	}
}

func (p *Page) indexTree(c Component) {
	p.index[c.ID] = c
	for _, child := range c.Children {
		p.indexTree(child)
	}
}

// Title returns the page title.
func (p *Page) Title() string { return p.title }

// Root returns a copy of the component tree.
func (p *Page) Root() Component { return p.root.clone() }

// Component looks up a component by ID and returns a copy of its subtree.
func (p *Page) Component(id string) (Component, bool) {
	c, ok := p.index[id]
	if !ok {
		return Component{}, false
	}
	return c.clone(), true
}

func (c Component) clone() Component {
	c.Choices = slices.Clone(c.Choices)
	if c.Children != nil {
		children := make([]Component, len(c.Children))
		for i, child := range c.Children {
			children[i] = child.clone()
		}
		c.Children = children
	}
	return c
}

// Bindings returns a copy of the binding table.
func (p *Page) Bindings() []Binding {
	out := make([]Binding, len(p.bindings))
	for i, b := range p.bindings {
		out[i] = cloneBinding(b)
	}
	return out
}

func cloneBinding(b Binding) Binding {
	b.Inputs = slices.Clone(b.Inputs)
	b.Outputs = slices.Clone(b.Outputs)
	return b
}

// Binding returns a copy of the binding for the given trigger control.
func (p *Page) Binding(trigger string) (Binding, bool) {
	for _, b := range p.bindings {
		if b.Trigger == trigger {
			return cloneBinding(b), true
		}
	}
	return Binding{}, false
}

// Sliders lists the slider specs in tree order.
func (p *Page) Sliders() []SliderSpec {
	var specs []SliderSpec
	var walk func(Component)
	walk = func(c Component) {
		if c.Kind == KindSlider {
			def, _ := strconv.ParseFloat(c.Value, 64)
			specs = append(specs, SliderSpec{
				ID: c.ID, Label: c.Label, Min: c.Min, Max: c.Max, Step: c.Step, Default: def,
			})
		}
		for _, child := range c.Children {
			walk(child)
		}
	}
	walk(p.root)
	return specs
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
