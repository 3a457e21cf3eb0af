package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryDetail_Unmarshal(t *testing.T) {
	input := `{
		"id": 6,
		"name": "charizard",
		"types": [
			{"slot": 2, "type": {"name": "flying", "url": "https://pokeapi.co/api/v2/type/3/"}},
			{"slot": 1, "type": {"name": "fire", "url": "https://pokeapi.co/api/v2/type/10/"}}
		],
		"stats": [{"base_stat": 78, "effort": 0, "stat": {"name": "hp", "url": ""}}],
		"sprites": {"front_default": "https://example.com/6.png"},
		"location_area_encounters": "https://pokeapi.co/api/v2/pokemon/6/encounters"
	}`

	var detail EntryDetail
	require.NoError(t, json.Unmarshal([]byte(input), &detail))

	assert.Equal(t, 6, detail.ID)
	assert.Equal(t, []string{"fire", "flying"}, detail.TypeNames())
	assert.Equal(t, 78, detail.Stats[0].BaseStat)
	assert.Equal(t, "https://example.com/6.png", detail.Sprites.FrontDefault)
	assert.Equal(t, "https://pokeapi.co/api/v2/pokemon/6/encounters", detail.LocationAreaEncounters)
}

func TestEncountersFromUpstream(t *testing.T) {
	input := `[
		{"location_area": {"name": "viridian-forest-area", "url": ""},
		 "version_details": [{"max_chance": 5, "version": {"name": "red", "url": ""}},
		                     {"max_chance": 5, "version": {"name": "blue", "url": ""}}]},
		{"location_area": {"name": "kanto-route-2-south-towards-viridian-city", "url": ""},
		 "version_details": [{"max_chance": 10, "version": {"name": "yellow", "url": ""}}]}
	]`

	var items []LocationAreaEncounter
	require.NoError(t, json.Unmarshal([]byte(input), &items))

	got := EncountersFromUpstream(items)
	require.Len(t, got, 2)
	assert.Equal(t, Encounter{Area: "viridian-forest-area", Versions: []string{"red", "blue"}}, got[0])
	assert.Equal(t, "kanto-route-2-south-towards-viridian-city", got[1].Area)
}

func TestEncounter_AvailableIn(t *testing.T) {
	e := Encounter{Area: "a", Versions: []string{"gold", "silver"}}
	assert.True(t, e.AvailableIn(map[string]bool{"silver": true}))
	assert.False(t, e.AvailableIn(map[string]bool{"red": true}))
	assert.False(t, Encounter{Area: "b"}.AvailableIn(map[string]bool{"red": true}))
}

func TestRegionDirectory(t *testing.T) {
	d := NewRegionDirectory(
		&Region{Name: "kanto", Locations: []NamedResource{{Name: "pallet-town"}, {Name: "kanto-route-1"}}},
		&Region{Name: "johto", Locations: []NamedResource{{Name: "new-bark-town"}}},
	)
	require.Equal(t, 2, d.Len())
	assert.Equal(t, "kanto", d.Regions[0].Name)
	assert.Equal(t, []string{"pallet-town", "kanto-route-1"}, d.Regions[0].Locations)

	d.Add("kanto", []string{"cerulean-city"})
	assert.Equal(t, 2, d.Len())
	assert.Equal(t, []string{"cerulean-city"}, d.Regions[0].Locations)

	var nilDir *RegionDirectory
	assert.Equal(t, 0, nilDir.Len())
}

func TestIndexFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want int
		ok   bool
	}{
		{"https://pokeapi.co/api/v2/pokemon/25/", 25, true},
		{"https://pokeapi.co/api/v2/pokemon/151", 151, true},
		{"https://pokeapi.co/api/v2/pokemon/pikachu/", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, ok := IndexFromURL(tt.url)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
