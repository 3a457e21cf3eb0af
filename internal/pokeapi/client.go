// Package pokeapi reads the upstream REST API through the response cache.
package pokeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jonathan/pokedex/internal/cache"
	"github.com/jonathan/pokedex/internal/schemas"
	"github.com/jonathan/pokedex/internal/types"
)

// DefaultBaseURL is the public API root.
const DefaultBaseURL = "https://pokeapi.co/api/v2"

// Client decodes upstream documents. Every request goes through the cache, so
// a URL is fetched from the network at most once.
type Client struct {
	cache     *cache.Cache
	validator *schemas.Validator
	baseURL   string
	logger    zerolog.Logger
}

// NewClient creates a Client. A nil validator skips shape validation.
func NewClient(c *cache.Cache, validator *schemas.Validator, baseURL string, logger zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		cache:     c,
		validator: validator,
		baseURL:   strings.TrimRight(baseURL, "/"),
		logger:    logger,
	}
}

// EntryListURL is the URL of one page of the entry listing.
func (c *Client) EntryListURL(offset, limit int) string {
	return fmt.Sprintf("%s/pokemon?offset=%d&limit=%d", c.baseURL, offset, limit)
}

// RegionURL is the URL of a region's detail document.
func (c *Client) RegionURL(name string) string {
	return fmt.Sprintf("%s/region/%s", c.baseURL, name)
}

// ListEntries returns one page of the entry listing.
func (c *Client) ListEntries(ctx context.Context, offset, limit int) (*types.EntryList, error) {
	var list types.EntryList
	if err := c.getJSON(ctx, schemas.EntryList, c.EntryListURL(offset, limit), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Entry returns the detail document at url.
func (c *Client) Entry(ctx context.Context, url string) (*types.EntryDetail, error) {
	var detail types.EntryDetail
	if err := c.getJSON(ctx, schemas.Entry, url, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Region returns the named region.
func (c *Client) Region(ctx context.Context, name string) (*types.Region, error) {
	var region types.Region
	if err := c.getJSON(ctx, schemas.Region, c.RegionURL(name), &region); err != nil {
		return nil, err
	}
	return &region, nil
}

// Encounters returns the encounter list at url.
func (c *Client) Encounters(ctx context.Context, url string) ([]types.Encounter, error) {
	var items []types.LocationAreaEncounter
	if err := c.getJSON(ctx, schemas.Encounters, url, &items); err != nil {
		return nil, err
	}
	return types.EncountersFromUpstream(items), nil
}

// RegionDirectory fetches each named region, in order.
func (c *Client) RegionDirectory(ctx context.Context, names []string) (*types.RegionDirectory, error) {
	dir := &types.RegionDirectory{}
	for _, name := range names {
		region, err := c.Region(ctx, name)
		if err != nil {
			return nil, err
		}
		dir.Add(region.Name, region.LocationNames())
		c.logger.Info().
			Str("region", region.Name).
			Int("locations", len(region.Locations)).
			Msg("region fetched")
	}
	return dir, nil
}

func (c *Client) getJSON(ctx context.Context, doc schemas.Document, url string, target any) error {
	body, err := c.cache.GetOrFetch(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", doc, err)
	}

	if c.validator != nil {
		if err := c.validator.Validate(doc, body); err != nil {
			c.logger.Error().Err(err).Str("url", url).Str("document", string(doc)).Msg("upstream document rejected")
			return fmt.Errorf("invalid %s document from %s: %w", doc, url, err)
		}
	}

	if err := json.Unmarshal([]byte(body), target); err != nil {
		return fmt.Errorf("failed to decode %s document from %s: %w", doc, url, err)
	}
	return nil
}
