package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/jonathan/pokedex/internal/cache"
	"github.com/jonathan/pokedex/internal/config"
	"github.com/jonathan/pokedex/internal/observability"
	"github.com/jonathan/pokedex/internal/site"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and migrate the response cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the number of cached responses",
	RunE:  runCacheStats,
}

var cacheCopyCmd = &cobra.Command{
	Use:   "copy",
	Short: "Copy cached responses between backends",
	Long:  "Loads every entry from the source backend and saves it to the destination backend, e.g. --from file --to sqlite --to-path cache.db.",
	RunE:  runCacheCopy,
}

var (
	cacheBackend string
	cachePath    string
	cacheFrom    string
	cacheTo      string
	cacheToPath  string
)

func init() {
	cacheCmd.PersistentFlags().StringVar(&cachePath, "cache", "", "Cache file or SQLite database path")

	cacheStatsCmd.Flags().StringVar(&cacheBackend, "backend", "", "Cache backend: file, sqlite or postgres")

	cacheCopyCmd.Flags().StringVar(&cacheFrom, "from", "", "Source backend (required)")
	cacheCopyCmd.Flags().StringVar(&cacheTo, "to", "", "Destination backend (required)")
	cacheCopyCmd.Flags().StringVar(&cacheToPath, "to-path", "", "Destination file or SQLite database path")
	if err := cacheCopyCmd.MarkFlagRequired("from"); err != nil {
		panic(fmt.Sprintf("failed to mark from flag as required: %v", err))
	}
	if err := cacheCopyCmd.MarkFlagRequired("to"); err != nil {
		panic(fmt.Sprintf("failed to mark to flag as required: %v", err))
	}

	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheCopyCmd)
	rootCmd.AddCommand(cacheCmd)
}

func cacheConfig(cmd *cobra.Command) (*config.Config, error) {
	return loadConfig(cmd, func(cfg *config.Config) {
		if cmd.Flags().Changed("cache") {
			cfg.CachePath = cachePath
		}
	})
}

func runCacheStats(cmd *cobra.Command, _ []string) error {
	cfg, err := cacheConfig(cmd)
	if err != nil {
		return err
	}
	backend := cfg.CacheBackend
	if cmd.Flags().Changed("backend") {
		backend = cacheBackend
	}

	ctx := cmd.Context()
	store, err := site.OpenStore(ctx, backend, cfg, newLogger(cmd, cfg))
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := loadEntries(ctx, store.Store)
	if err != nil {
		return err
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintCacheStats(store.Source, cache.Stats{Entries: len(entries)})
	return nil
}

func runCacheCopy(cmd *cobra.Command, _ []string) error {
	cfg, err := cacheConfig(cmd)
	if err != nil {
		return err
	}
	if cacheFrom == cacheTo && (cacheToPath == "" || cacheToPath == cfg.CachePath) {
		return fmt.Errorf("source and destination are the same store")
	}

	ctx := cmd.Context()
	logger := newLogger(cmd, cfg)

	src, err := site.OpenStore(ctx, cacheFrom, cfg, logger)
	if err != nil {
		return err
	}
	defer src.Close()

	dstCfg := *cfg
	if cacheToPath != "" {
		dstCfg.CachePath = cacheToPath
	}
	dst, err := site.OpenStore(ctx, cacheTo, &dstCfg, logger)
	if err != nil {
		return err
	}
	defer dst.Close()

	entries, err := loadEntries(ctx, src.Store)
	if err != nil {
		return err
	}
	if err := dst.Store.Save(ctx, entries); err != nil {
		return fmt.Errorf("failed to save entries to %s: %w", dst.Source, err)
	}

	logger.Info().Str("from", src.Source).Str("to", dst.Source).Int("entries", len(entries)).Msg("cache copied")
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Copied %d entries from %s to %s\n", len(entries), src.Source, dst.Source)
	return nil
}

// loadEntries reads a store, treating a missing cache file as empty.
func loadEntries(ctx context.Context, store cache.Store) ([]cache.Entry, error) {
	entries, err := store.Load(ctx)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}
	return entries, nil
}
