package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"parasearch/config"
	"parasearch/internal/adapter/fs"
	"parasearch/internal/adapter/loader"
	"parasearch/internal/adapter/store"
)

var catalogReplace bool

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the document catalog",
	Long: `The catalog maps document IDs to titles and other metadata. It is stored in
.parasearch/catalog.db under the root directory.`,
}

var catalogImportCmd = &cobra.Command{
	Use:   "import [glob...]",
	Short: "Import document metadata from JSONL files",
	Long: `Import documents from JSON Lines files with one object per line:
  {"paper_id": "...", "title": "...", "authors": [...], "abstract": "..."}

Examples:
  parasearch catalog import data/metadata.jsonl
  parasearch catalog import 'data/**/documents-*.jsonl' --replace`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCatalogImport,
}

var catalogStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalog statistics",
	Args:  cobra.NoArgs,
	RunE:  runCatalogStats,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogStatsCmd)
	catalogImportCmd.Flags().BoolVar(&catalogReplace, "replace", false, "clear the catalog before importing")
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	dir := GetRootDir()

	files, err := fs.NewGlobber(cfg.Corpus.Excludes).Expand(resolvePatterns(dir, args))
	if err != nil {
		return err
	}

	catalogPath := config.CatalogPath(dir)
	catalog, err := store.OpenCatalog(catalogPath)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer catalog.Close()

	if catalogReplace {
		if err := catalog.Clear(); err != nil {
			return fmt.Errorf("failed to clear catalog: %w", err)
		}
	}

	progress := cmd.ErrOrStderr()
	if !cfg.Corpus.Progress {
		progress = nil
	}
	n, err := loader.New(progress, GetLogger()).LoadDocuments(files, catalog)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	total, err := catalog.Count()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nImport complete:\n")
	fmt.Fprintf(out, "  Files read:        %d\n", len(files))
	fmt.Fprintf(out, "  Documents written: %d\n", n)
	fmt.Fprintf(out, "  Catalog size:      %d\n", total)
	fmt.Fprintf(out, "\nCatalog stored at: %s\n", filepath.Clean(catalogPath))
	return nil
}

func runCatalogStats(cmd *cobra.Command, args []string) error {
	catalog, err := store.OpenCatalog(config.CatalogPath(GetRootDir()))
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer catalog.Close()

	count, err := catalog.Count()
	if err != nil {
		return err
	}
	version, err := catalog.SchemaVersion()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Documents:      %d\nSchema version: %d\n", count, version)
	return nil
}
