package rendering

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/jonathan/pokedex/internal/typechart"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var entryTemplate = template.Must(template.ParseFS(templateFS, "templates/entry.html.tmpl"))

// EntryPage is the data behind one entry's detail page. Every string field is
// inserted verbatim, so callers sanitize upstream text first.
type EntryPage struct {
	Name          string
	DisplayName   string
	Stylesheet    string
	SpriteURL     string
	TypeLinks     string
	WeaknessTable string
	StatBars      string
	Locations     string
}

// RenderEntryPage renders a complete detail page.
func RenderEntryPage(page *EntryPage) (string, error) {
	if page == nil {
		return "", &RenderError{Message: "entry page is nil"}
	}
	var sb strings.Builder
	if err := entryTemplate.ExecuteTemplate(&sb, "entry.html.tmpl", page); err != nil {
		return "", &TemplateError{
			Message: fmt.Sprintf("failed to execute entry template for %s", page.Name),
			Cause:   err,
		}
	}
	return sb.String(), nil
}

// IndexRow is one row of the main table.
type IndexRow struct {
	Number     string
	ArtworkURL string
	Name       string
	Href       string
	TypeLinks  string
}

// RenderIndex renders the main page listing every entry.
func RenderIndex(rows []IndexRow, stylesheet string) (string, error) {
	b := NewBuilder()
	b.OpenDocument("Pokedex", stylesheet)
	b.Text(`<h1 style="text-align: center">Pokedex</h1><p style="text-align: center">(First Generation)</p>`)
	b.Open("table")
	for _, row := range rows {
		b.Open("tr")
		b.Element("td", row.Number)
		b.Element("td", fmt.Sprintf(`<img src='%s' alt=""/>`, row.ArtworkURL))
		b.Element("td", fmt.Sprintf(`<a href="%s">%s</a>`, row.Href, row.Name))
		b.Element("td", row.TypeLinks)
		if err := b.Close(); err != nil {
			return "", err
		}
	}
	if err := b.Close(); err != nil {
		return "", err
	}
	if !b.Balanced() {
		return "", &RenderError{Message: fmt.Sprintf("index page left %d tags open", b.Depth())}
	}
	b.CloseDocument()
	return b.String(), nil
}

// RenderTypesPage renders one anchored section per category holding its
// defensive profile under chart.
func RenderTypesPage(chart *typechart.Chart, stylesheet string) (string, error) {
	b := NewBuilder()
	b.OpenDocument("Types", stylesheet)
	b.Element("h1", "Types")
	for _, c := range typechart.All() {
		b.Open(fmt.Sprintf(`section id="%s"`, c))
		b.Element("h2", DisplayName(c.String()))
		b.Text(EffectivenessTable(chart.Effectiveness([]typechart.Category{c})))
		if err := b.Close(); err != nil {
			return "", err
		}
	}
	if !b.Balanced() {
		return "", &RenderError{Message: fmt.Sprintf("types page left %d tags open", b.Depth())}
	}
	b.CloseDocument()
	return b.String(), nil
}
