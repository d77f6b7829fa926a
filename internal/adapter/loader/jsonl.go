// Package loader reads the preprocessed corpus (embedded paragraphs and
// document metadata) from JSON Lines files.
package loader

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"parasearch/internal/domain"
)

const maxLineBytes = 64 << 20

// ParagraphSink receives parsed paragraphs. memstore.ParagraphTable
// satisfies it.
type ParagraphSink interface {
	Put(p domain.Paragraph) error
}

// DocumentSink receives parsed documents in batches, one batch per file.
type DocumentSink interface {
	PutDocs(docs []domain.Document) error
}

type paragraphLine struct {
	PaperID        string    `json:"paper_id"`
	ParagraphOrder *int      `json:"paragraph_order"`
	ParagraphText  string    `json:"paragraph_text"`
	Vector         []float32 `json:"vector"`
}

// Loader parses corpus files. When progress is non-nil a progress bar per
// file is drawn on it.
type Loader struct {
	progress io.Writer
	logger   *zap.Logger
}

func New(progress io.Writer, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{progress: progress, logger: logger}
}

// LoadParagraphs reads paragraph lines from files into sink and returns the
// number loaded. All vectors must share one dimension; the first vector read
// fixes it.
func (l *Loader) LoadParagraphs(files []string, sink ParagraphSink) (int, error) {
	dimension := 0
	total := 0

	for _, path := range files {
		n, err := l.readLines(path, "Paragraphs", func(lineNo int, line []byte) error {
			var pl paragraphLine
			if err := json.Unmarshal(line, &pl); err != nil {
				return err
			}
			if pl.PaperID == "" {
				return fmt.Errorf("missing paper_id")
			}
			if pl.ParagraphOrder == nil {
				return fmt.Errorf("missing paragraph_order")
			}
			if len(pl.Vector) == 0 {
				return fmt.Errorf("missing vector")
			}
			if dimension == 0 {
				dimension = len(pl.Vector)
			} else if len(pl.Vector) != dimension {
				return fmt.Errorf("%w: vector has %d components, expected %d",
					domain.ErrDimensionMismatch, len(pl.Vector), dimension)
			}

			return sink.Put(domain.Paragraph{
				Key:    domain.ParagraphKey{DocID: pl.PaperID, Order: *pl.ParagraphOrder},
				Vector: pl.Vector,
				Text:   pl.ParagraphText,
			})
		})
		if err != nil {
			return total, err
		}
		total += n
	}

	l.logger.Info("loaded paragraphs",
		zap.Int("files", len(files)),
		zap.Int("paragraphs", total),
		zap.Int("dimension", dimension))
	return total, nil
}

// LoadDocuments reads document lines from files into sink and returns the
// number loaded.
func (l *Loader) LoadDocuments(files []string, sink DocumentSink) (int, error) {
	total := 0

	for _, path := range files {
		var batch []domain.Document
		_, err := l.readLines(path, "Documents", func(lineNo int, line []byte) error {
			var doc domain.Document
			if err := json.Unmarshal(line, &doc); err != nil {
				return err
			}
			if doc.ID == "" {
				return fmt.Errorf("missing paper_id")
			}
			batch = append(batch, doc)
			return nil
		})
		if err != nil {
			return total, err
		}
		if err := sink.PutDocs(batch); err != nil {
			return total, fmt.Errorf("failed to store documents from %s: %w", path, err)
		}
		total += len(batch)
	}

	l.logger.Info("loaded documents",
		zap.Int("files", len(files)),
		zap.Int("documents", total))
	return total, nil
}

// readLines calls fn for every non-blank line of path and returns the number
// of lines handled. Errors are annotated with file and line number.
func (l *Loader) readLines(path, label string, fn func(lineNo int, line []byte) error) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	var bar *progressbar.ProgressBar
	if l.progress != nil {
		info, err := f.Stat()
		if err != nil {
			return 0, err
		}
		bar = progressbar.NewOptions64(info.Size(),
			progressbar.OptionSetWriter(l.progress),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription(fmt.Sprintf("[cyan]%s[reset] %s", label, filepath.Base(path))),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(l.progress)
			}),
		)
		pr := progressbar.NewReader(f, bar)
		r = &pr
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	handled := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		if err := fn(lineNo, line); err != nil {
			return handled, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		handled++
	}
	if err := scanner.Err(); err != nil {
		return handled, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if bar != nil {
		bar.Finish()
	}
	return handled, nil
}
