package rendering

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/pokedex/internal/typechart"
)

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Mr Mime", DisplayName("mr-mime"))
	assert.Equal(t, "Pallet Town Area", DisplayName("pallet-town-area"))
	assert.Equal(t, "Bulbasaur", DisplayName("bulbasaur"))
}

func TestTypeLinks(t *testing.T) {
	got := TypeLinks([]typechart.Category{typechart.Grass, typechart.Poison}, "../types.html")
	assert.Equal(t, `<a href="../types.html#grass">grass</a>/<a href="../types.html#poison">poison</a>`, got)
}

func TestEffectivenessTable(t *testing.T) {
	profile, err := typechart.Standard().EffectivenessByName([]string{"fire", "flying"})
	require.NoError(t, err)

	table := EffectivenessTable(profile)
	assert.True(t, strings.HasPrefix(table, `<table class="resistance-table clearfix">`))
	assert.True(t, strings.HasSuffix(table, "</table>"))
	assert.Contains(t, table, `<th colspan="6">Weaknesses</th>`)
	assert.Contains(t, table, "<th>1/4x</th>")
	assert.Contains(t, table, "<td>ground</td><td>grass, bug</td>")
	assert.Contains(t, table, "<td>rock</td></tr></tbody></table>")
}

func TestStatBars(t *testing.T) {
	out := StatBars([]Stat{{Label: "HP", Value: 45}, {Label: "Speed", Value: 90}})
	assert.Equal(t,
		`<div class="bar-chart">`+
			`<div class="bar-container"><div class="bar-label">HP</div><div class="bar" style="width: 45px;">45</div></div>`+
			`<div class="bar-container"><div class="bar-label">Speed</div><div class="bar" style="width: 90px;">90</div></div>`+
			`</div>`,
		out)
}

func TestRenderEntryPage(t *testing.T) {
	out, err := RenderEntryPage(&EntryPage{
		Name:          "bulbasaur",
		DisplayName:   "Bulbasaur",
		Stylesheet:    "../sub.css",
		SpriteURL:     "https://example.com/1.png",
		TypeLinks:     `<a href="../types.html#grass">grass</a>`,
		WeaknessTable: "<table></table>",
		StatBars:      `<div class="bar-chart"></div>`,
		Locations:     "<p>None</p>",
	})
	require.NoError(t, err)

	assert.Contains(t, out, "<title>Bulbasaur</title>")
	assert.Contains(t, out, `<link rel="stylesheet" href="../sub.css">`)
	assert.Contains(t, out, `<img src="https://example.com/1.png" class="float-left" alt="bulbasaur"/>`)
	assert.Contains(t, out, `Type: <a href="../types.html#grass">grass</a>`)
	assert.Contains(t, out, "<h2>Locations</h2>\n        <p>None</p>")
}

func TestRenderEntryPage_Nil(t *testing.T) {
	_, err := RenderEntryPage(nil)
	var renderErr *RenderError
	assert.ErrorAs(t, err, &renderErr)
}

func TestRenderIndex(t *testing.T) {
	out, err := RenderIndex([]IndexRow{
		{Number: "#001", ArtworkURL: "a.png", Name: "bulbasaur", Href: "pokemon/bulbasaur.html", TypeLinks: "grass"},
	}, "style.css")
	require.NoError(t, err)

	assert.Contains(t, out, `<table><tr><td>#001</td><td><img src='a.png' alt=""/></td>`)
	assert.Contains(t, out, `<td><a href="pokemon/bulbasaur.html">bulbasaur</a></td><td>grass</td></tr></table></body></html>`)
}

func TestRenderTypesPage(t *testing.T) {
	out, err := RenderTypesPage(typechart.Standard(), "")
	require.NoError(t, err)

	for _, c := range typechart.All() {
		assert.Contains(t, out, `<section id="`+c.String()+`">`)
	}
	assert.Equal(t, typechart.NumCategories, strings.Count(out, "</section>"))
}
