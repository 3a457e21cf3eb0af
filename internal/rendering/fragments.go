package rendering

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jonathan/pokedex/internal/typechart"
)

var titleCaser = cases.Title(language.English)

// DisplayName turns an upstream slug such as "mr-mime" or "pallet-town-area"
// into a heading ("Mr Mime").
func DisplayName(slug string) string {
	return titleCaser.String(strings.ReplaceAll(slug, "-", " "))
}

// TypeLinks renders the entry's categories as links to their anchors on the
// types page, joined by "/".
func TypeLinks(categories []typechart.Category, typesPage string) string {
	links := make([]string, len(categories))
	for i, c := range categories {
		links[i] = fmt.Sprintf(`<a href="%s#%s">%s</a>`, typesPage, c, c)
	}
	return strings.Join(links, "/")
}

// EffectivenessTable renders a weakness table with one column per bucket.
func EffectivenessTable(profile typechart.Profile) string {
	b := NewBuilder()
	b.Open(`table class="resistance-table clearfix"`)

	b.Open("thead")
	b.Open("tr")
	b.Element(fmt.Sprintf(`th colspan="%d"`, len(typechart.BucketLabels)), "Weaknesses")
	_ = b.Close()
	b.Open("tr")
	for _, label := range typechart.BucketLabels {
		b.Element("th", label)
	}
	_ = b.Close()
	_ = b.Close()

	b.Open("tbody")
	b.Open("tr")
	for _, bucket := range profile.Buckets() {
		names := make([]string, len(bucket.Categories))
		for i, c := range bucket.Categories {
			names[i] = c.String()
		}
		b.Element("td", strings.Join(names, ", "))
	}
	b.CloseAll()

	return b.String()
}

// Stat is one base stat bar.
type Stat struct {
	Label string
	Value int
}

// StatLabels maps upstream stat names to display labels.
var StatLabels = map[string]string{
	"hp":              "HP",
	"attack":          "Attack",
	"defense":         "Defense",
	"special-attack":  "Special Attack",
	"special-defense": "Special Defense",
	"speed":           "Speed",
}

// StatBars renders a horizontal bar per stat, one pixel per point.
func StatBars(stats []Stat) string {
	b := NewBuilder()
	b.Open(`div class="bar-chart"`)
	for _, s := range stats {
		b.Open(`div class="bar-container"`)
		b.Element(`div class="bar-label"`, s.Label)
		b.Element(fmt.Sprintf(`div class="bar" style="width: %dpx;"`, s.Value), fmt.Sprint(s.Value))
		_ = b.Close()
	}
	_ = b.Close()
	return b.String()
}
