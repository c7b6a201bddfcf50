package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/KacperZiemski-fixtra/company-news-api/internal/api"
	"github.com/KacperZiemski-fixtra/company-news-api/internal/logging"
	"github.com/KacperZiemski-fixtra/company-news-api/internal/pipeline"
	"github.com/KacperZiemski-fixtra/company-news-api/internal/store"
)

var (
	serveAddr string
	serveDSN  string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the curation pipeline over HTTP",
	Long: `Serve starts the HTTP API:
- POST /api/news/find  runs a curation pass and stores the result
- GET  /api/news       returns the stored articles for a company

Articles are persisted in Postgres per company/industry pairing.

Example:
  companynews serve --addr :8080 --dsn postgres://localhost/companynews`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
	serveCmd.Flags().StringVar(&serveDSN, "dsn", "", "Postgres DSN (default from config or DATABASE_URL)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveDSN != "" {
		cfg.Database.DSN = serveDSN
	}
	if cfg.Database.DSN == "" {
		return fmt.Errorf("no database configured: set --dsn, DATABASE_URL or database.dsn")
	}

	logger := logging.New(logLevel())

	st, err := store.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer st.Close()

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := st.Migrate(migrateCtx); err != nil {
		return err
	}

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("building pipeline: %w", err)
	}

	server := api.NewServer(p, st, cfg.Ranking.Cap, logger)
	logger.Info("listening", "addr", cfg.Server.Addr)

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return httpServer.ListenAndServe()
}
