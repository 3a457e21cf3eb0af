// Package cache memoizes upstream responses by URL so each URL is fetched at
// most once, within a run and across runs when a persisted cache is loaded.
package cache

import (
	"context"
	"fmt"
)

// Fetcher retrieves the body of a URL from the network.
type Fetcher interface {
	Get(ctx context.Context, url string) (string, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, url string) (string, error)

// Get calls f.
func (f FetcherFunc) Get(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

// Entry is one cached response.
type Entry struct {
	URL  string
	Body string
}

// Stats counts cache activity since the Cache was created.
type Stats struct {
	Fetches int
	Hits    int
	Entries int
}

// Cache maps URLs to response bodies. It is not safe for concurrent use.
type Cache struct {
	fetcher Fetcher
	bodies  map[string]string
	order   []string
	fetches int
	hits    int
}

// New creates an empty cache backed by fetcher.
func New(fetcher Fetcher) *Cache {
	return &Cache{
		fetcher: fetcher,
		bodies:  make(map[string]string),
	}
}

// GetOrFetch returns the cached body for url, fetching and storing it on a miss.
// A failed fetch leaves the cache unchanged.
func (c *Cache) GetOrFetch(ctx context.Context, url string) (string, error) {
	if body, ok := c.bodies[url]; ok {
		c.hits++
		return body, nil
	}
	if c.fetcher == nil {
		return "", fmt.Errorf("cache miss for %s with no fetcher", url)
	}

	body, err := c.fetcher.Get(ctx, url)
	if err != nil {
		return "", err
	}
	c.fetches++
	c.put(url, body)
	return body, nil
}

// Lookup returns the cached body without fetching or counting.
func (c *Cache) Lookup(url string) (string, bool) {
	body, ok := c.bodies[url]
	return body, ok
}

func (c *Cache) put(url, body string) {
	if _, ok := c.bodies[url]; !ok {
		c.order = append(c.order, url)
	}
	c.bodies[url] = body
}

// Add stores entries without counting them as fetches. Later duplicates replace
// earlier ones in place.
func (c *Cache) Add(entries ...Entry) {
	for _, e := range entries {
		c.put(e.URL, e.Body)
	}
}

// Entries returns every entry in insertion order.
func (c *Cache) Entries() []Entry {
	out := make([]Entry, len(c.order))
	for i, url := range c.order {
		out[i] = Entry{URL: url, Body: c.bodies[url]}
	}
	return out
}

// Len is the number of cached URLs.
func (c *Cache) Len() int {
	return len(c.order)
}

// Stats returns the fetch and hit counters.
func (c *Cache) Stats() Stats {
	return Stats{Fetches: c.fetches, Hits: c.hits, Entries: len(c.order)}
}

// LoadFrom adds every entry held by store.
func (c *Cache) LoadFrom(ctx context.Context, store Store) error {
	entries, err := store.Load(ctx)
	if err != nil {
		return err
	}
	c.Add(entries...)
	return nil
}

// SaveTo writes every entry to store.
func (c *Cache) SaveTo(ctx context.Context, store Store) error {
	return store.Save(ctx, c.Entries())
}
