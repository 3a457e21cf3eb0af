// Package types provides type definitions for the upstream documents and the
// domain records derived from them.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"sort"
	"strconv"
	"strings"
)

// NamedResource is the upstream reference shape: a name plus the URL of its detail document.
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// EntryList is one page of the paginated entry listing.
type EntryList struct {
	Count    int             `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  []NamedResource `json:"results"`
}

// TypeSlot binds a category to its position on an entry.
type TypeSlot struct {
	Slot int           `json:"slot"`
	Type NamedResource `json:"type"`
}

// StatValue is one base stat of an entry.
type StatValue struct {
	BaseStat int           `json:"base_stat"`
	Effort   int           `json:"effort"`
	Stat     NamedResource `json:"stat"`
}

// Sprites holds the image URLs of an entry.
type Sprites struct {
	FrontDefault string `json:"front_default"`
}

// EntryDetail is a single entry's detail document.
type EntryDetail struct {
	ID                     int         `json:"id"`
	Name                   string      `json:"name"`
	Types                  []TypeSlot  `json:"types"`
	Stats                  []StatValue `json:"stats"`
	Sprites                Sprites     `json:"sprites"`
	LocationAreaEncounters string      `json:"location_area_encounters"`
}

// TypeNames returns the entry's category names ordered by slot.
func (d *EntryDetail) TypeNames() []string {
	slots := make([]TypeSlot, len(d.Types))
	copy(slots, d.Types)
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].Slot < slots[j].Slot })

	names := make([]string, len(slots))
	for i, s := range slots {
		names[i] = s.Type.Name
	}
	return names
}

// Region is a region's detail document.
type Region struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	Locations []NamedResource `json:"locations"`
}

// LocationNames returns the names of every location in the region.
func (r *Region) LocationNames() []string {
	names := make([]string, len(r.Locations))
	for i, l := range r.Locations {
		names[i] = l.Name
	}
	return names
}

// VersionDetail names a game version in which an encounter happens.
type VersionDetail struct {
	MaxChance int           `json:"max_chance"`
	Version   NamedResource `json:"version"`
}

// LocationAreaEncounter is one item of an entry's encounter list.
type LocationAreaEncounter struct {
	LocationArea   NamedResource   `json:"location_area"`
	VersionDetails []VersionDetail `json:"version_details"`
}

// IndexFromURL extracts the numeric id from a resource URL such as
// "https://pokeapi.co/api/v2/pokemon/25/".
func IndexFromURL(url string) (int, bool) {
	parts := strings.Split(strings.TrimRight(url, "/"), "/")
	if len(parts) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0, false
	}
	return n, true
}
