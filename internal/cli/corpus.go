package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"parasearch/config"
	"parasearch/internal/adapter/embedding"
	"parasearch/internal/adapter/fs"
	"parasearch/internal/adapter/loader"
	"parasearch/internal/adapter/memstore"
	"parasearch/internal/adapter/store"
	"parasearch/internal/port"
)

// corpus is the pair of tables a retrieval runs against.
type corpus struct {
	paragraphs *memstore.ParagraphTable
	docs       port.DocumentCatalog
	close      func() error
}

// loadCorpus reads paragraphs from paragraphGlobs and documents from
// documentGlobs, falling back to the bbolt catalog when no document globs
// are given.
func loadCorpus(cfg *config.Config, dir string, paragraphGlobs, documentGlobs []string, progress io.Writer) (*corpus, error) {
	if !cfg.Corpus.Progress {
		progress = nil
	}
	globber := fs.NewGlobber(cfg.Corpus.Excludes)
	ld := loader.New(progress, GetLogger())

	paragraphFiles, err := globber.Expand(resolvePatterns(dir, paragraphGlobs))
	if err != nil {
		return nil, fmt.Errorf("paragraph files: %w", err)
	}
	paragraphs := memstore.NewParagraphTable()
	if _, err := ld.LoadParagraphs(paragraphFiles, paragraphs); err != nil {
		return nil, fmt.Errorf("failed to load paragraphs: %w", err)
	}

	if len(documentGlobs) > 0 {
		documentFiles, err := globber.Expand(resolvePatterns(dir, documentGlobs))
		if err != nil {
			return nil, fmt.Errorf("document files: %w", err)
		}
		docs := memstore.NewDocumentTable()
		if _, err := ld.LoadDocuments(documentFiles, docs); err != nil {
			return nil, fmt.Errorf("failed to load documents: %w", err)
		}
		return &corpus{paragraphs: paragraphs, docs: docs, close: func() error { return nil }}, nil
	}

	catalogPath := config.CatalogPath(dir)
	if _, err := os.Stat(catalogPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("no document catalog found. Run 'parasearch catalog import' first or pass --documents")
	}
	catalog, err := store.OpenCatalog(catalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	return &corpus{paragraphs: paragraphs, docs: catalog, close: catalog.Close}, nil
}

func resolvePatterns(dir string, patterns []string) []string {
	resolved := make([]string, len(patterns))
	for i, p := range patterns {
		if filepath.IsAbs(p) {
			resolved[i] = p
		} else {
			resolved[i] = filepath.Join(dir, p)
		}
	}
	return resolved
}

// newEmbedder creates the embedder named by the config.
func newEmbedder(cfg config.EmbeddingConfig) (port.Embedder, error) {
	switch cfg.Provider {
	case "bert":
		return embedding.NewBertServiceEmbedder(cfg.BaseURL, cfg.Dimension), nil
	case "openai":
		if cfg.BaseURL != "" {
			return embedding.NewOpenAICompatibleEmbedder(cfg.APIKeyEnv, cfg.Model, cfg.BaseURL)
		}
		return embedding.NewOpenAIEmbedder(cfg.APIKeyEnv, cfg.Model)
	case "ollama":
		return embedding.NewOllamaEmbedder(cfg.Model, cfg.BaseURL)
	case "mock":
		return embedding.NewMockEmbedder(cfg.Dimension), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}
