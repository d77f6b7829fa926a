package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"parasearch/internal/domain"
)

var sample = []domain.RenderedResult{
	{Rank: 1, DocID: "doc1", Title: "Doc1", Text: "A", Distance: 0},
	{Rank: 2, DocID: "doc1", ParagraphOrder: 1, Title: "Doc1", Text: "B", Distance: 1},
}

func TestNew(t *testing.T) {
	for _, format := range []string{"text", "", "HTML", "json"} {
		if _, err := New(format, 0); err != nil {
			t.Errorf("New(%q) returned error: %v", format, err)
		}
	}
	if _, err := New("pdf", 0); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestHTMLRenderer(t *testing.T) {
	var buf bytes.Buffer
	if err := NewHTMLRenderer().Render(&buf, "q", sample); err != nil {
		t.Fatal(err)
	}
	expected := "<h4>1. Doc1</h4><p>A</p>\n<h4>2. Doc1</h4><p>B</p>\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func TestHTMLRenderer_Escapes(t *testing.T) {
	var buf bytes.Buffer
	results := []domain.RenderedResult{{Rank: 1, Title: "<script>", Text: "a & b"}}
	if err := NewHTMLRenderer().Render(&buf, "q", results); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "<script>") {
		t.Errorf("title not escaped: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "a &amp; b") {
		t.Errorf("text not escaped: %s", buf.String())
	}
}

func TestTextRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := &TextRenderer{MaxTextLen: 3}
	results := []domain.RenderedResult{{Rank: 1, Title: "Doc1", Text: "abcdef", Distance: 0.25}}
	if err := r.Render(&buf, "query", results); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "--- [1] Doc1 (distance: 0.2500) ---") {
		t.Errorf("missing header in %q", out)
	}
	if !strings.Contains(out, "abc...") || strings.Contains(out, "abcdef") {
		t.Errorf("text not truncated in %q", out)
	}
}

func TestTextRenderer_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TextRenderer{}).Render(&buf, "q", nil); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "No results found." {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONRenderer{}).Render(&buf, "q", sample); err != nil {
		t.Fatal(err)
	}
	var decoded []domain.RenderedResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded) != 2 || decoded[1].Text != "B" || decoded[1].ParagraphOrder != 1 {
		t.Errorf("unexpected decoded results %+v", decoded)
	}

	buf.Reset()
	(&JSONRenderer{}).Render(&buf, "q", nil)
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("expected empty array, got %q", buf.String())
	}
}
