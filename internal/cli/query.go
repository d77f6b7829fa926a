package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"parasearch/internal/adapter/render"
	"parasearch/internal/adapter/retriever"
	"parasearch/internal/usecase"
)

var (
	queryText       string
	queryN          int
	queryFormat     string
	queryParagraphs []string
	queryDocuments  []string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Show the paragraphs closest to a query",
	Long: `Embed the query, rank every stored paragraph by cosine distance and show the
closest ones with their document titles. Paragraphs whose document is missing
from the catalog are skipped with a warning.

Examples:
  parasearch query -q "incubation period"
  parasearch query -q "mask efficacy" -n 10 --format html > results.html
  parasearch query -q "R0 estimates" --paragraphs 'out/**/*.jsonl' --documents meta.jsonl`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "search query (required)")
	queryCmd.Flags().IntVarP(&queryN, "top-n", "n", 0, "number of results (default from config)")
	queryCmd.Flags().StringVar(&queryFormat, "format", "", "output format: text, html, json (default from config)")
	queryCmd.Flags().StringSliceVar(&queryParagraphs, "paragraphs", nil, "paragraph JSONL glob patterns (default from config)")
	queryCmd.Flags().StringSliceVar(&queryDocuments, "documents", nil, "document JSONL glob patterns (default: catalog)")
	queryCmd.MarkFlagRequired("query")
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	format := cfg.Render.Format
	if queryFormat != "" {
		format = queryFormat
	}
	renderer, err := render.New(format, cfg.Render.MaxTextLen)
	if err != nil {
		return err
	}

	embedder, err := newEmbedder(cfg.Embedding)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	paragraphGlobs := cfg.Corpus.Paragraphs
	if len(queryParagraphs) > 0 {
		paragraphGlobs = queryParagraphs
	}
	documentGlobs := cfg.Corpus.Documents
	if len(queryDocuments) > 0 {
		documentGlobs = queryDocuments
	}

	c, err := loadCorpus(cfg, GetRootDir(), paragraphGlobs, documentGlobs, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer c.close()

	retrieveUC := usecase.NewRetrieveUseCase(
		retriever.NewNearestRetriever(embedder, GetLogger()),
		c.paragraphs,
		c.docs,
		renderer,
		cfg.Retrieve.TopN,
	)

	if err := retrieveUC.Display(cmd.OutOrStdout(), queryText, queryN); err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	return nil
}
