// Package render holds the display collaborators that turn retrieval
// results into text for a human or a program.
package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strings"

	"parasearch/internal/domain"
	"parasearch/internal/port"
)

const (
	FormatText = "text"
	FormatHTML = "html"
	FormatJSON = "json"
)

// New returns the renderer for format.
func New(format string, maxTextLen int) (port.Renderer, error) {
	switch strings.ToLower(format) {
	case FormatText, "":
		return &TextRenderer{MaxTextLen: maxTextLen}, nil
	case FormatHTML:
		return NewHTMLRenderer(), nil
	case FormatJSON:
		return &JSONRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// TextRenderer prints a numbered list for terminals. Paragraph text longer
// than MaxTextLen runes is truncated; zero disables truncation.
type TextRenderer struct {
	MaxTextLen int
}

func (r *TextRenderer) Render(w io.Writer, query string, results []domain.RenderedResult) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}

	if _, err := fmt.Fprintf(w, "Found %d results for: %s\n\n", len(results), query); err != nil {
		return err
	}
	for _, res := range results {
		text := res.Text
		if r.MaxTextLen > 0 {
			if runes := []rune(text); len(runes) > r.MaxTextLen {
				text = string(runes[:r.MaxTextLen]) + "..."
			}
		}
		_, err := fmt.Fprintf(w, "--- [%d] %s (distance: %.4f) ---\n%s\n\n", res.Rank, res.Title, res.Distance, text)
		if err != nil {
			return err
		}
	}
	return nil
}

var htmlTemplate = template.Must(template.New("results").Parse(
	`{{range .}}<h4>{{.Rank}}. {{.Title}}</h4><p>{{.Text}}</p>
{{end}}`))

// HTMLRenderer emits one heading and paragraph per result, escaped.
type HTMLRenderer struct {
	tmpl *template.Template
}

func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{tmpl: htmlTemplate}
}

func (r *HTMLRenderer) Render(w io.Writer, query string, results []domain.RenderedResult) error {
	return r.tmpl.Execute(w, results)
}

// JSONRenderer writes the results as an indented JSON array.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(w io.Writer, query string, results []domain.RenderedResult) error {
	if results == nil {
		results = []domain.RenderedResult{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
