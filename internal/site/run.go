// Package site provides the high-level orchestration that turns upstream
// entries into the static site.
package site

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/jonathan/pokedex/internal/cache"
	"github.com/jonathan/pokedex/internal/config"
	"github.com/jonathan/pokedex/internal/db"
	"github.com/jonathan/pokedex/internal/locations"
	"github.com/jonathan/pokedex/internal/pokeapi"
	"github.com/jonathan/pokedex/internal/rendering"
	"github.com/jonathan/pokedex/internal/schemas"
	"github.com/jonathan/pokedex/internal/typechart"
	"github.com/jonathan/pokedex/internal/types"
)

// TypesPageName is the file written next to the main page holding one
// anchored section per category.
const TypesPageName = "types.html"

const (
	spriteURLFormat  = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/%d.png"
	artworkURLFormat = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/other/official-artwork/%d.png"
)

// statOrder is the row order of the stat bars.
var statOrder = []string{"hp", "attack", "defense", "special-attack", "special-defense", "speed"}

// ProgressEvent represents a progress update during generation
type ProgressEvent struct {
	RunID   string        `json:"run_id"`
	Index   int           `json:"index"`
	Total   int           `json:"total"`
	Name    string        `json:"name"`
	Elapsed time.Duration `json:"elapsed"`
	Fetches int           `json:"fetches"`
	Hits    int           `json:"hits"`
}

// ProgressCallback is called after each entry page is written
type ProgressCallback func(event ProgressEvent)

// RunRecorder persists run history. The Postgres store implements it.
type RunRecorder interface {
	CreateRun(ctx context.Context, id uuid.UUID, entryCount int) error
	CompleteRun(ctx context.Context, id uuid.UUID, status string, stats cache.Stats) error
}

// RunOptions holds configuration for one generation run
type RunOptions struct {
	MainPage          string
	SubpageDir        string
	Stylesheet        string
	SubpageStylesheet string
	DrawingRoot       string
	EntryCount        int
	Offset            int
	Regions           []string
	Versions          []string
	BaseURL           string

	Fetcher   cache.Fetcher      // Required: network access for cache misses
	Store     cache.Store        // Optional: loaded before and saved after the run
	Validator *schemas.Validator // Optional: upstream shape checks
	Chart     *typechart.Chart   // Defaults to typechart.Standard()
	Prober    locations.Prober   // Defaults to the local filesystem
	Recorder  RunRecorder        // Optional: run history

	Logger     zerolog.Logger
	OnProgress ProgressCallback
}

// OptionsFromConfig copies the page and data settings of cfg.
func OptionsFromConfig(cfg *config.Config) RunOptions {
	return RunOptions{
		MainPage:          cfg.MainPage,
		SubpageDir:        cfg.SubpageDir,
		Stylesheet:        cfg.Stylesheet,
		SubpageStylesheet: cfg.SubpageStylesheet,
		DrawingRoot:       cfg.DrawingRoot,
		EntryCount:        cfg.EntryCount,
		Offset:            cfg.Offset,
		Regions:           cfg.Regions,
		Versions:          cfg.Versions,
		BaseURL:           cfg.BaseURL,
		Logger:            zerolog.Nop(),
	}
}

// Result summarizes a finished run.
type Result struct {
	RunID     uuid.UUID
	MainPage  string
	TypesPage string
	Pages     []string
	Stats     cache.Stats
	Elapsed   time.Duration
}

// generator carries the per-run state shared by every entry.
type generator struct {
	opts      RunOptions
	client    *pokeapi.Client
	chart     *typechart.Chart
	resolver  *locations.Resolver
	dir       *types.RegionDirectory
	allowed   map[string]bool
	sanitizer *bluemonday.Policy
	typesHref string
}

// Run generates the index page, one page per entry and the types page. The
// cache is written back to the store only when every page was written.
func Run(ctx context.Context, opts RunOptions) (*Result, error) {
	if opts.Fetcher == nil {
		return nil, fmt.Errorf("run options: fetcher is required")
	}
	if opts.Chart == nil {
		opts.Chart = typechart.Standard()
	}

	start := time.Now()
	runID := uuid.New()
	logger := opts.Logger.With().Str("run_id", runID.String()).Logger()
	if cb := opts.OnProgress; cb != nil {
		opts.OnProgress = func(e ProgressEvent) {
			e.RunID = runID.String()
			cb(e)
		}
	}

	c := cache.New(opts.Fetcher)
	if err := loadCache(ctx, c, opts.Store, logger); err != nil {
		return nil, err
	}

	if opts.Recorder != nil {
		if err := opts.Recorder.CreateRun(ctx, runID, opts.EntryCount); err != nil {
			logger.Warn().Err(err).Msg("failed to record run start")
		}
	}

	result, err := generate(ctx, opts, c, logger)
	status := db.RunStatusCompleted
	if err != nil {
		status = db.RunStatusFailed
	}
	if opts.Recorder != nil {
		if recErr := opts.Recorder.CompleteRun(ctx, runID, status, c.Stats()); recErr != nil {
			logger.Warn().Err(recErr).Msg("failed to record run completion")
		}
	}
	if err != nil {
		logger.Error().Err(err).Msg("generation failed")
		return nil, err
	}

	if opts.Store != nil {
		if err := c.SaveTo(ctx, opts.Store); err != nil {
			return nil, fmt.Errorf("saving cache failed: %w", err)
		}
		logger.Info().Int("entries", c.Len()).Msg("cache saved")
	}

	result.RunID = runID
	result.Stats = c.Stats()
	result.Elapsed = time.Since(start)
	logger.Info().
		Int("pages", len(result.Pages)).
		Int("fetches", result.Stats.Fetches).
		Int("hits", result.Stats.Hits).
		Dur("elapsed", result.Elapsed).
		Msg("site generated")
	return result, nil
}

func loadCache(ctx context.Context, c *cache.Cache, store cache.Store, logger zerolog.Logger) error {
	if store == nil {
		return nil
	}
	if err := c.LoadFrom(ctx, store); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Info().Msg("no cache file yet, starting empty")
			return nil
		}
		return fmt.Errorf("loading cache failed: %w", err)
	}
	logger.Info().Int("entries", c.Len()).Msg("cache loaded")
	return nil
}

func generate(ctx context.Context, opts RunOptions, c *cache.Cache, logger zerolog.Logger) (*Result, error) {
	mainDir := filepath.Dir(opts.MainPage)
	typesPage := filepath.Join(mainDir, TypesPageName)
	for _, dir := range []string{mainDir, opts.SubpageDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}

	client := pokeapi.NewClient(c, opts.Validator, opts.BaseURL, logger)

	dir, err := client.RegionDirectory(ctx, opts.Regions)
	if err != nil {
		return nil, fmt.Errorf("loading regions failed: %w", err)
	}
	list, err := client.ListEntries(ctx, opts.Offset, opts.EntryCount)
	if err != nil {
		return nil, fmt.Errorf("listing entries failed: %w", err)
	}

	resolverOpts := []locations.Option{locations.WithLogger(logger)}
	if opts.Prober != nil {
		resolverOpts = append(resolverOpts, locations.WithProber(opts.Prober))
	}
	g := &generator{
		opts:      opts,
		client:    client,
		chart:     opts.Chart,
		resolver:  locations.NewResolver(opts.DrawingRoot, opts.SubpageDir, resolverOpts...),
		dir:       dir,
		allowed:   allowedSet(opts.Versions),
		sanitizer: bluemonday.StrictPolicy(),
		typesHref: relHref(opts.SubpageDir, typesPage),
	}

	start := time.Now()
	result := &Result{MainPage: opts.MainPage, TypesPage: typesPage}
	rows := make([]rendering.IndexRow, 0, len(list.Results))
	for i, ref := range list.Results {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, path, err := g.entry(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("entry %s failed: %w", ref.Name, err)
		}
		row.Href = relHref(mainDir, path)
		rows = append(rows, row)
		result.Pages = append(result.Pages, path)

		stats := c.Stats()
		logger.Info().
			Int("index", i+1).
			Int("total", len(list.Results)).
			Str("name", row.Name).
			Dur("elapsed", time.Since(start)).
			Int("fetches", stats.Fetches).
			Int("hits", stats.Hits).
			Msg("entry written")
		if opts.OnProgress != nil {
			opts.OnProgress(ProgressEvent{
				Index:   i + 1,
				Total:   len(list.Results),
				Name:    row.Name,
				Elapsed: time.Since(start),
				Fetches: stats.Fetches,
				Hits:    stats.Hits,
			})
		}
	}

	index, err := rendering.RenderIndex(rows, opts.Stylesheet)
	if err != nil {
		return nil, fmt.Errorf("rendering index failed: %w", err)
	}
	if err := writePage(opts.MainPage, index); err != nil {
		return nil, err
	}

	typesHTML, err := rendering.RenderTypesPage(g.chart, opts.Stylesheet)
	if err != nil {
		return nil, fmt.Errorf("rendering types page failed: %w", err)
	}
	if err := writePage(typesPage, typesHTML); err != nil {
		return nil, err
	}

	return result, nil
}

// entry writes one detail page and returns its index row and path.
func (g *generator) entry(ctx context.Context, ref types.NamedResource) (rendering.IndexRow, string, error) {
	detail, err := g.client.Entry(ctx, ref.URL)
	if err != nil {
		return rendering.IndexRow{}, "", err
	}

	name := g.sanitizer.Sanitize(detail.Name)
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return rendering.IndexRow{}, "", fmt.Errorf("unusable entry name %q", detail.Name)
	}

	categories, err := typechart.ParseCategories(detail.TypeNames())
	if err != nil {
		return rendering.IndexRow{}, "", err
	}
	profile := g.chart.Effectiveness(categories)

	encounters, err := g.client.Encounters(ctx, detail.LocationAreaEncounters)
	if err != nil {
		return rendering.IndexRow{}, "", err
	}
	for i := range encounters {
		encounters[i].Area = g.sanitizer.Sanitize(encounters[i].Area)
	}

	number, ok := types.IndexFromURL(ref.URL)
	if !ok {
		number = detail.ID
	}
	sprite := detail.Sprites.FrontDefault
	if sprite == "" {
		sprite = fmt.Sprintf(spriteURLFormat, number)
	}

	page := &rendering.EntryPage{
		Name:          name,
		DisplayName:   rendering.DisplayName(name),
		Stylesheet:    g.opts.SubpageStylesheet,
		SpriteURL:     sprite,
		TypeLinks:     rendering.TypeLinks(categories, g.typesHref),
		WeaknessTable: rendering.EffectivenessTable(profile),
		StatBars:      rendering.StatBars(orderedStats(detail.Stats)),
		Locations:     g.resolver.Resolve(encounters, g.dir, g.allowed),
	}
	html, err := rendering.RenderEntryPage(page)
	if err != nil {
		return rendering.IndexRow{}, "", err
	}

	path := filepath.Join(g.opts.SubpageDir, name+".html")
	if err := writePage(path, html); err != nil {
		return rendering.IndexRow{}, "", err
	}

	return rendering.IndexRow{
		Number:     fmt.Sprintf("#%03d", number),
		ArtworkURL: fmt.Sprintf(artworkURLFormat, number),
		Name:       page.DisplayName,
		TypeLinks:  rendering.TypeLinks(categories, TypesPageName),
	}, path, nil
}

// orderedStats returns the six base stats in display order. Missing stats
// render as zero.
func orderedStats(values []types.StatValue) []rendering.Stat {
	byName := make(map[string]int, len(values))
	for _, v := range values {
		byName[v.Stat.Name] = v.BaseStat
	}
	stats := make([]rendering.Stat, len(statOrder))
	for i, name := range statOrder {
		stats[i] = rendering.Stat{Label: rendering.StatLabels[name], Value: byName[name]}
	}
	return stats
}

func allowedSet(versions []string) map[string]bool {
	set := make(map[string]bool, len(versions))
	for _, v := range versions {
		set[v] = true
	}
	return set
}

// relHref is the link from a page in fromDir to target, with forward slashes.
func relHref(fromDir, target string) string {
	rel, err := filepath.Rel(fromDir, target)
	if err != nil {
		return filepath.ToSlash(target)
	}
	return filepath.ToSlash(rel)
}

func writePage(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
