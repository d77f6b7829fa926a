package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"parasearch/internal/adapter/retriever"
	"parasearch/internal/server"
	"parasearch/internal/usecase"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve retrieval over HTTP",
	Long: `Load the corpus once and answer GET /api/v1/search?q=...&n=... with JSON.

Examples:
  parasearch serve
  parasearch serve --addr :9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	log := GetLogger()

	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	embedder, err := newEmbedder(cfg.Embedding)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	c, err := loadCorpus(cfg, GetRootDir(), cfg.Corpus.Paragraphs, cfg.Corpus.Documents, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer c.close()

	retrieveUC := usecase.NewRetrieveUseCase(
		retriever.NewNearestRetriever(embedder, log),
		c.paragraphs,
		c.docs,
		nil,
		cfg.Retrieve.TopN,
	)

	srv := server.NewServer(retrieveUC, &cfg.Server, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case sig := <-sigCh:
		log.Info("Shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(ctx)
}
