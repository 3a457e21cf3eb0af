package locations

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/jonathan/pokedex/internal/rendering"
	"github.com/jonathan/pokedex/internal/types"
)

// Drawing directories under the drawing root.
const (
	RegionsDir   = "Regions"
	AreasDir     = "Areas"
	LocationsDir = "Locations"

	drawingExt = ".png"
)

// NoneFragment is rendered when there is nothing to place.
const NoneFragment = "<p>None</p>"

// AssetKind identifies which drawing was chosen for a placement.
type AssetKind int

const (
	TextFallback AssetKind = iota
	RegionAsset
	AreaAsset
	LocationAsset
)

func (k AssetKind) String() string {
	switch k {
	case RegionAsset:
		return "region"
	case AreaAsset:
		return "area"
	case LocationAsset:
		return "location"
	default:
		return "text"
	}
}

// Asset is the resolved representation of a region or placement.
type Asset struct {
	Kind AssetKind
	Name string
	Src  string
}

// Prober checks whether a drawing exists.
type Prober interface {
	Exists(path string) bool
}

// FileProber probes the local filesystem for regular files.
type FileProber struct{}

// Exists reports whether path names a regular file.
func (FileProber) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// strategy is one row of the placement decision table.
type strategy struct {
	kind AssetKind
	dir  string
	name func(Placement) string
}

// placementStrategies are tried in order once the region drawing exists.
var placementStrategies = []strategy{
	{kind: AreaAsset, dir: AreasDir, name: func(p Placement) string { return p.Area }},
	{kind: LocationAsset, dir: LocationsDir, name: func(p Placement) string { return p.Location }},
}

// Resolver renders the locations section of an entry page.
type Resolver struct {
	drawingRoot string
	srcRoot     string
	prober      Prober
	logger      zerolog.Logger
}

// Option customises a Resolver.
type Option func(*Resolver)

// WithProber replaces the filesystem prober.
func WithProber(p Prober) Option { return func(r *Resolver) { r.prober = p } }

// WithLogger sets the logger used for per-placement debug output.
func WithLogger(l zerolog.Logger) Option { return func(r *Resolver) { r.logger = l } }

// NewResolver creates a Resolver probing drawings under drawingRoot and
// emitting image sources relative to outputDir, the directory the rendered
// page is written to.
func NewResolver(drawingRoot, outputDir string, opts ...Option) *Resolver {
	r := &Resolver{
		drawingRoot: drawingRoot,
		srcRoot:     relativeRoot(outputDir, drawingRoot),
		prober:      FileProber{},
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func relativeRoot(outputDir, drawingRoot string) string {
	rel, err := filepath.Rel(outputDir, drawingRoot)
	if err != nil {
		return filepath.ToSlash(drawingRoot)
	}
	return filepath.ToSlash(rel)
}

// Resolve renders the locations fragment for encounters. Only encounters in
// an allowed version are placed.
func (r *Resolver) Resolve(encounters []types.Encounter, dir *types.RegionDirectory, allowed map[string]bool) string {
	kept := Filter(encounters, allowed)
	if len(kept) == 0 || dir.Len() == 0 {
		return NoneFragment
	}

	b := rendering.NewBuilder()
	var fallback []string

	for _, g := range Group(kept, dir) {
		region := r.regionAsset(g.Region)
		open := region.Kind == RegionAsset
		if open {
			b.Open(`div class="image-container"`)
			b.Text(image(region))
		}

		for _, p := range g.Placements {
			asset := r.decide(open, p)
			r.logger.Debug().
				Str("region", g.Region).
				Str("area", p.Area).
				Str("location", p.Location).
				Stringer("asset", asset.Kind).
				Msg("placed encounter")
			if asset.Kind == TextFallback {
				fallback = append(fallback, p.Area)
				continue
			}
			b.Text(image(asset))
		}

		if open {
			_ = b.Close()
		}
	}

	b.Open(`ul class="location-list"`)
	for _, area := range fallback {
		b.Element("li", area)
	}
	_ = b.Close()

	return b.String()
}

// Resolve renders the locations fragment using the local filesystem.
func Resolve(encounters []types.Encounter, dir *types.RegionDirectory, drawingRoot, outputDir string, allowed map[string]bool) string {
	return NewResolver(drawingRoot, outputDir).Resolve(encounters, dir, allowed)
}

func (r *Resolver) regionAsset(region string) Asset {
	if region == NoRegion {
		return Asset{Kind: TextFallback}
	}
	if r.prober.Exists(r.probePath(RegionsDir, region)) {
		return Asset{Kind: RegionAsset, Name: region, Src: r.src(RegionsDir, region)}
	}
	return Asset{Kind: TextFallback, Name: region}
}

// decide applies the placement decision table: without a region drawing the
// area is listed as text, otherwise the first existing drawing wins.
func (r *Resolver) decide(regionOpen bool, p Placement) Asset {
	if !regionOpen {
		return Asset{Kind: TextFallback, Name: p.Area}
	}
	for _, s := range placementStrategies {
		name := s.name(p)
		if name == "" {
			continue
		}
		if r.prober.Exists(r.probePath(s.dir, name)) {
			return Asset{Kind: s.kind, Name: name, Src: r.src(s.dir, name)}
		}
	}
	return Asset{Kind: TextFallback, Name: p.Area}
}

func (r *Resolver) probePath(dir, name string) string {
	return filepath.Join(r.drawingRoot, dir, name+drawingExt)
}

func (r *Resolver) src(dir, name string) string {
	return path.Join(r.srcRoot, dir, name+drawingExt)
}

func image(a Asset) string {
	return fmt.Sprintf(`<img src="%s" alt="%s"/>`, a.Src, a.Name)
}
