package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/pokedex/internal/config"
	"github.com/jonathan/pokedex/internal/ratelimit"
	"github.com/jonathan/pokedex/internal/server"
	"github.com/jonathan/pokedex/internal/site"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Preview a generated site over HTTP",
	Long: `Serves the generated site directory together with a small JSON API:

  GET /health                         liveness probe
  GET /api/types                      known types in display order
  GET /api/matchup?types=fire,flying  defensive multipliers and buckets
  GET /api/runs/{id}                  recorded generate run (postgres backend only)`,
	RunE: runServe,
}

var (
	servePort int
	serveDir  string
)

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (default from PORT or 8080)")
	serveCmd.Flags().StringVar(&serveDir, "dir", "", "Site directory (default: directory of the index page)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, func(cfg *config.Config) {
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}
	})
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)

	dir := serveDir
	if dir == "" {
		dir = outputRoot(cfg)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("site directory %s not found; run generate first", dir)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srvCfg := server.Config{
		Port:      cfg.Port,
		SiteDir:   dir,
		RateLimit: ratelimit.DefaultConfig(),
		Logger:    logger,
	}

	// Only the postgres backend keeps a run history.
	if cfg.CacheBackend == config.BackendPostgres {
		store, err := site.OpenStore(ctx, cfg.CacheBackend, cfg, logger)
		if err != nil {
			return fmt.Errorf("opening cache failed: %w", err)
		}
		defer store.Close()
		if runs, ok := store.Recorder.(server.RunLookup); ok {
			srvCfg.Runs = runs
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on http://localhost:%d\n", dir, cfg.Port)
	return server.New(srvCfg).Start(ctx)
}
