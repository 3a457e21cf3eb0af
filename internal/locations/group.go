// Package locations groups encounter areas into regions and picks the best
// available drawing for each one.
package locations

import (
	"strings"

	"github.com/jonathan/pokedex/internal/types"
)

// NoRegion is the group key for encounters that match no region.
const NoRegion = ""

// Placement is an encounter area bound to the longest location name that
// prefixes it. Location is empty when the area matched no region.
type Placement struct {
	Area     string
	Location string
}

// RegionGroup holds the placements of one region, in encounter order.
type RegionGroup struct {
	Region     string
	Placements []Placement
}

// Filter keeps encounters available in at least one allowed version and drops
// repeated areas, keeping the first occurrence.
func Filter(encounters []types.Encounter, allowed map[string]bool) []types.Encounter {
	seen := make(map[string]bool, len(encounters))
	out := make([]types.Encounter, 0, len(encounters))
	for _, e := range encounters {
		if !e.AvailableIn(allowed) || seen[e.Area] {
			continue
		}
		seen[e.Area] = true
		out = append(out, e)
	}
	return out
}

// Group partitions encounters by region. Groups appear in the order their
// region was first seen while scanning encounters.
func Group(encounters []types.Encounter, dir *types.RegionDirectory) []RegionGroup {
	var groups []RegionGroup
	index := make(map[string]int)

	for _, e := range encounters {
		region, location := match(e.Area, dir)
		i, ok := index[region]
		if !ok {
			i = len(groups)
			index[region] = i
			groups = append(groups, RegionGroup{Region: region})
		}
		groups[i].Placements = append(groups[i].Placements, Placement{Area: e.Area, Location: location})
	}
	return groups
}

// match finds the first region owning a location that prefixes area, and the
// longest such location within it.
func match(area string, dir *types.RegionDirectory) (region, location string) {
	if dir == nil {
		return NoRegion, ""
	}
	for _, r := range dir.Regions {
		best := ""
		for _, loc := range r.Locations {
			if strings.HasPrefix(area, loc) && len(loc) > len(best) {
				best = loc
			}
		}
		if best != "" {
			return r.Name, best
		}
	}
	return NoRegion, ""
}
