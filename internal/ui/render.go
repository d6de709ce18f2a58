package ui

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"sync"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
)

//go:embed templates/page.html
var pageHTML string

var pageTmpl = template.Must(template.New("page").Parse(pageHTML))

const highlightStyle = "github"

var formatter = chromahtml.New(chromahtml.WithClasses(true))

// highlightCSS is the stylesheet for the classes emitted by formatter.
var highlightCSS = sync.OnceValue(func() template.CSS {
	var buf bytes.Buffer
	if err := formatter.WriteCSS(&buf, styles.Get(highlightStyle)); err != nil {
		return ""
	}
	return template.CSS(buf.String())
})

// State carries the per-request values shown on the page.
type State struct {
	// Values maps component IDs to their current contents. Components not
	// present show their initial value.
	Values map[string]string

	// EventID is the ID of the event that produced the outputs, if any.
	EventID string

	// Error is a user-facing message shown above the form.
	Error string
}

type view struct {
	Component
	Current     string
	Highlighted template.HTML
	Markdown    template.HTML
	Children    []view
}

type pageData struct {
	Title   string
	CSS     template.CSS
	Action  string
	EventID string
	Error   string
	Root    view
}

// Render writes the full HTML page for the given state.
func (p *Page) Render(w io.Writer, st State) error {
	root, err := p.buildView(p.root, st.Values)
	if err != nil {
		return err
	}

	action := ""
	if len(p.bindings) > 0 {
		action = "/run/" + p.bindings[0].Trigger
	}

	return pageTmpl.Execute(w, pageData{
		Title:   p.title,
		CSS:     highlightCSS(),
		Action:  action,
		EventID: st.EventID,
		Error:   st.Error,
		Root:    root,
	})
}

func (p *Page) buildView(c Component, values map[string]string) (view, error) {
	v := view{Component: c, Current: c.Value}
	if cur, ok := values[c.ID]; ok {
		v.Current = cur
	}

	switch c.Kind {
	case KindMarkdown:
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(c.Value), &buf); err != nil {
			return view{}, fmt.Errorf("rendering markdown %s: %w", c.ID, err)
		}
		v.Markdown = template.HTML(buf.String())
	case KindCode:
		if v.Current != "" {
			h, err := Highlight(c.Language, v.Current)
			if err != nil {
				return view{}, fmt.Errorf("highlighting %s: %w", c.ID, err)
			}
			v.Highlighted = h
		}
	}

	for _, child := range c.Children {
		cv, err := p.buildView(child, values)
		if err != nil {
			return view{}, err
		}
		v.Children = append(v.Children, cv)
	}
	return v, nil
}

// Highlight renders src as syntax-highlighted HTML using CSS classes.
func Highlight(language, src string) (template.HTML, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}

	it, err := chroma.Coalesce(lexer).Tokenise(nil, src)
	if err != nil {
		return "", fmt.Errorf("tokenising: %w", err)
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, styles.Get(highlightStyle), it); err != nil {
		return "", fmt.Errorf("formatting: %w", err)
	}
	return template.HTML(buf.String()), nil
}
