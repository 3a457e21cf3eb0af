// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jonathan/pokedex/internal/cache"
	"github.com/jonathan/pokedex/internal/typechart"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI commands.
type Printer struct {
	out   io.Writer
	title lipgloss.Style
	muted lipgloss.Style
}

// NewPrinter creates a new Printer that writes to the given writer.
// Styling is dropped automatically when out is not a terminal.
func NewPrinter(out io.Writer) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out:   out,
		title: r.NewStyle().Bold(true),
		muted: r.NewStyle().Faint(true),
	}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(p.title.Render(title), boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if lipgloss.Width(line) > boxWidth-4 {
			line = truncate(line, boxWidth-4)
		}
		fmt.Fprintf(p.out, "│ %s │\n", pad(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad right-fills s to width display cells.
func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

// RunSummary describes a finished generation run.
type RunSummary struct {
	RunID    string
	Entries  int
	Pages    []string
	Cache    cache.Stats
	Elapsed  time.Duration
	MainPage string
}

// PrintRunSummary outputs the result of a generate run.
func (p *Printer) PrintRunSummary(s *RunSummary) {
	if s == nil {
		return
	}

	var sb strings.Builder
	if s.RunID != "" {
		sb.WriteString(fmt.Sprintf("Run:      %s\n", s.RunID))
	}
	sb.WriteString(fmt.Sprintf("Entries:  %d\n", s.Entries))
	sb.WriteString(fmt.Sprintf("Index:    %s\n", s.MainPage))
	sb.WriteString(fmt.Sprintf("Elapsed:  %s\n", s.Elapsed.Round(time.Millisecond)))
	sb.WriteString("\n")
	p.writeCacheStats(&sb, s.Cache)

	if len(s.Pages) > 0 {
		sb.WriteString("\nPages:\n")
		count := min(len(s.Pages), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", s.Pages[i]))
		}
		if len(s.Pages) > maxItemsToShow {
			sb.WriteString(p.muted.Render(fmt.Sprintf("  ... and %d more", len(s.Pages)-maxItemsToShow)))
			sb.WriteString("\n")
		}
	}

	p.printBox("SITE GENERATED", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCacheStats outputs the counters of a cache store.
func (p *Printer) PrintCacheStats(source string, stats cache.Stats) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Source:   %s\n", source))
	p.writeCacheStats(&sb, stats)
	p.printBox("RESPONSE CACHE", strings.TrimSuffix(sb.String(), "\n"))
}

func (p *Printer) writeCacheStats(sb *strings.Builder, stats cache.Stats) {
	sb.WriteString(fmt.Sprintf("Cached:   %d responses\n", stats.Entries))
	sb.WriteString(fmt.Sprintf("Fetched:  %d\n", stats.Fetches))
	sb.WriteString(fmt.Sprintf("Hits:     %d\n", stats.Hits))
	if total := stats.Fetches + stats.Hits; total > 0 {
		sb.WriteString(fmt.Sprintf("Hit rate: %.0f%%\n", 100*float64(stats.Hits)/float64(total)))
	}
}

// PrintMatchup outputs the effectiveness buckets of a defending combination.
func (p *Printer) PrintMatchup(defending []typechart.Category, profile typechart.Profile) {
	names := make([]string, len(defending))
	for i, c := range defending {
		names[i] = c.String()
	}

	var sb strings.Builder
	for _, b := range profile.Buckets() {
		row := make([]string, len(b.Categories))
		for i, c := range b.Categories {
			row[i] = c.String()
		}
		line := fmt.Sprintf("%-5s %s", b.Label, strings.Join(row, ", "))
		if len(row) == 0 {
			line = p.muted.Render(fmt.Sprintf("%-5s -", b.Label))
		}
		sb.WriteString(line + "\n")
	}

	p.printBox("DEFENDING "+strings.ToUpper(strings.Join(names, "/")), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintBrokenLinks outputs the result of a site verification.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintBrokenLinks(checked int, broken []string) {
	if len(broken) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %s │\n", pad(fmt.Sprintf("✅ %d PAGES, NO BROKEN LINKS", checked), boxWidth-4))
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d broken links in %d pages:\n\n", len(broken), checked))
	for _, b := range broken {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", b))
	}
	p.printBox("BROKEN LINKS", strings.TrimSuffix(sb.String(), "\n"))
}
