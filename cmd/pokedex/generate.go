package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/pokedex/internal/config"
	"github.com/jonathan/pokedex/internal/fetch"
	"github.com/jonathan/pokedex/internal/observability"
	"github.com/jonathan/pokedex/internal/schemas"
	"github.com/jonathan/pokedex/internal/site"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the static site",
	Long:  "Fetches the configured entries, regions and encounters through the response cache and writes the index page, one page per entry and the types page.",
	RunE:  runGenerate,
}

var (
	generateEntries           int
	generateOffset            int
	generateMainPage          string
	generateSubpageDir        string
	generateStylesheet        string
	generateSubpageStylesheet string
	generateDrawings          string
	generateRegions           []string
	generateVersions          []string
	generateCacheBackend      string
	generateCachePath         string
	generateTimeout           int
	generateVerify            bool
)

func init() {
	generateCmd.Flags().IntVarP(&generateEntries, "entries", "n", 0, "Number of entries to generate")
	generateCmd.Flags().IntVar(&generateOffset, "offset", 0, "Index of the first entry")
	generateCmd.Flags().StringVarP(&generateMainPage, "out", "o", "", "Path of the index page")
	generateCmd.Flags().StringVar(&generateSubpageDir, "subpage-dir", "", "Directory receiving one page per entry")
	generateCmd.Flags().StringVar(&generateStylesheet, "stylesheet", "", "Stylesheet href for the index and types pages")
	generateCmd.Flags().StringVar(&generateSubpageStylesheet, "subpage-stylesheet", "", "Stylesheet href for entry pages")
	generateCmd.Flags().StringVar(&generateDrawings, "drawings", "", "Directory holding Regions/, Areas/ and Locations/ drawings")
	generateCmd.Flags().StringSliceVar(&generateRegions, "regions", nil, "Regions whose locations are drawn")
	generateCmd.Flags().StringSliceVar(&generateVersions, "versions", nil, "Game versions whose encounters are shown")
	generateCmd.Flags().StringVar(&generateCacheBackend, "cache-backend", "", "Cache backend: file, sqlite or postgres")
	generateCmd.Flags().StringVar(&generateCachePath, "cache", "", "Cache file or SQLite database path")
	generateCmd.Flags().IntVar(&generateTimeout, "timeout", 0, "HTTP timeout in seconds")
	generateCmd.Flags().BoolVar(&generateVerify, "verify", false, "Check local links of the generated site afterwards")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	cfg, err := loadConfig(cmd, func(cfg *config.Config) {
		if flags.Changed("entries") {
			cfg.EntryCount = generateEntries
		}
		if flags.Changed("offset") {
			cfg.Offset = generateOffset
		}
		if flags.Changed("out") {
			cfg.MainPage = generateMainPage
		}
		if flags.Changed("subpage-dir") {
			cfg.SubpageDir = generateSubpageDir
		}
		if flags.Changed("stylesheet") {
			cfg.Stylesheet = generateStylesheet
		}
		if flags.Changed("subpage-stylesheet") {
			cfg.SubpageStylesheet = generateSubpageStylesheet
		}
		if flags.Changed("drawings") {
			cfg.DrawingRoot = generateDrawings
		}
		if flags.Changed("regions") {
			cfg.Regions = generateRegions
		}
		if flags.Changed("versions") {
			cfg.Versions = generateVersions
		}
		if flags.Changed("cache-backend") {
			cfg.CacheBackend = generateCacheBackend
		}
		if flags.Changed("cache") {
			cfg.CachePath = generateCachePath
		}
		if flags.Changed("timeout") {
			cfg.TimeoutSeconds = generateTimeout
		}
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	logger := newLogger(cmd, cfg)

	store, err := site.OpenStore(ctx, cfg.CacheBackend, cfg, logger)
	if err != nil {
		return fmt.Errorf("opening cache failed: %w", err)
	}
	defer store.Close()

	validator, err := schemas.NewValidator()
	if err != nil {
		return err
	}

	fetchOpts := fetch.DefaultOptions()
	fetchOpts.Timeout = cfg.Timeout()
	fetchOpts.RequestsPerSecond = cfg.RequestsPerSecond
	fetchOpts.Burst = cfg.Burst
	client := fetch.NewClient(fetchOpts)
	defer client.CloseIdleConnections()

	opts := site.OptionsFromConfig(cfg)
	opts.Fetcher = client
	opts.Store = store.Store
	opts.Recorder = store.Recorder
	opts.Validator = validator
	opts.Logger = logger

	result, err := site.Run(ctx, opts)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintRunSummary(&observability.RunSummary{
		RunID:    result.RunID.String(),
		Entries:  len(result.Pages),
		Pages:    result.Pages,
		Cache:    result.Stats,
		Elapsed:  result.Elapsed,
		MainPage: result.MainPage,
	})

	if generateVerify {
		return verifySite(cmd, outputRoot(cfg), logger)
	}
	return nil
}
