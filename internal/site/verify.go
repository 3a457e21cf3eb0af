package site

import (
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
)

// BrokenLink is a local reference whose target is missing.
type BrokenLink struct {
	Page   string
	Target string
	Reason string
}

func (b BrokenLink) String() string {
	return fmt.Sprintf("%s -> %s (%s)", b.Page, b.Target, b.Reason)
}

// VerifyReport is the outcome of checking a generated site.
type VerifyReport struct {
	Pages  int
	Links  int
	Broken []BrokenLink
}

// OK reports whether every local reference resolved.
func (r *VerifyReport) OK() bool {
	return len(r.Broken) == 0
}

// VerifyError represents a failure reading or parsing a generated page
type VerifyError struct {
	Path    string
	Message string
	Cause   error
}

func (e *VerifyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *VerifyError) Unwrap() error {
	return e.Cause
}

// linkAttrs are the attributes holding references, by selector.
var linkAttrs = []struct {
	selector string
	attr     string
}{
	{"a[href]", "href"},
	{"link[href]", "href"},
	{"img[src]", "src"},
}

// Verify parses every .html file under root and checks that local href and
// src targets exist. Fragments pointing into another page must name an id
// in that page. Remote URLs are not checked.
func Verify(root string, logger zerolog.Logger) (*VerifyReport, error) {
	pages := make(map[string]*goquery.Document)
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(p), ".html") {
			return nil
		}
		doc, err := parsePage(p)
		if err != nil {
			return err
		}
		pages[filepath.Clean(p)] = doc
		return nil
	})
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(pages))
	for p := range pages {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	report := &VerifyReport{Pages: len(paths)}
	for _, p := range paths {
		for _, ref := range localRefs(pages[p]) {
			report.Links++
			if reason := checkRef(p, ref, pages); reason != "" {
				report.Broken = append(report.Broken, BrokenLink{Page: p, Target: ref, Reason: reason})
			}
		}
	}

	logger.Info().
		Int("pages", report.Pages).
		Int("links", report.Links).
		Int("broken", len(report.Broken)).
		Msg("site verified")
	return report, nil
}

func parsePage(p string) (*goquery.Document, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, &VerifyError{Path: p, Message: "failed to open page", Cause: err}
	}
	defer func() { _ = f.Close() }()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, &VerifyError{Path: p, Message: "failed to parse HTML", Cause: err}
	}
	return doc, nil
}

// localRefs returns the references of doc that point into the site.
func localRefs(doc *goquery.Document) []string {
	var refs []string
	for _, la := range linkAttrs {
		doc.Find(la.selector).Each(func(_ int, s *goquery.Selection) {
			ref, exists := s.Attr(la.attr)
			if !exists || ref == "" {
				return
			}
			u, err := url.Parse(ref)
			if err != nil || u.Scheme != "" || u.Host != "" {
				return
			}
			refs = append(refs, ref)
		})
	}
	return refs
}

// checkRef returns why ref from page cannot be followed, or "".
func checkRef(page, ref string, pages map[string]*goquery.Document) string {
	u, err := url.Parse(ref)
	if err != nil {
		return "malformed reference"
	}

	target := page
	if u.Path != "" {
		rel := filepath.FromSlash(path.Clean(u.Path))
		target = filepath.Clean(filepath.Join(filepath.Dir(page), rel))
		info, err := os.Stat(target)
		if err != nil {
			return "missing file"
		}
		if info.IsDir() {
			return "target is a directory"
		}
	}

	if u.Fragment == "" {
		return ""
	}
	doc, ok := pages[target]
	if !ok {
		return ""
	}
	if doc.Find(fmt.Sprintf(`[id=%q]`, u.Fragment)).Length() == 0 {
		return "missing anchor"
	}
	return ""
}
