// Package extract pulls grinder calibration data out of parsed review pages:
// the grinder's name, its overall micron range, and the per-brew-method
// setting table.
package extract

import (
	"net/url"
	"strings"

	"github.com/brewkit/grindex/pkg/grindex/htmldoc"
	"github.com/brewkit/grindex/pkg/grindex/patterns"
	"github.com/brewkit/grindex/pkg/grindex/refdata"
)

// RawBrewMethod is one brew-method table row as read off the page, before
// calibration. Microns may come from a standard-table prior rather than the
// page itself; PriorSeeded records that so calibration knows the values are
// replaceable.
type RawBrewMethod struct {
	MethodName    string
	StartMicrons  *float64
	EndMicrons    *float64
	StartSetting  *string
	EndSetting    *string
	Compound      bool
	GrindCategory string
	PriorSeeded   bool
}

// RawGrinder is everything extracted from a single review page.
type RawGrinder struct {
	Name       string
	MinMicrons *float64
	MaxMicrons *float64
	URL        string
	Methods    []RawBrewMethod
}

// Extractor reads grinder data out of documents, using the reference tables
// to seed method micron priors.
type Extractor struct {
	ref *refdata.Reference
}

// New builds an Extractor over the given reference tables.
func New(ref *refdata.Reference) *Extractor {
	return &Extractor{ref: ref}
}

// Extract reads one review page. pageURL is used both as the stored source
// URL and as the name fallback when the page carries no usable heading.
func (e *Extractor) Extract(doc *htmldoc.Document, pageURL string) RawGrinder {
	g := RawGrinder{
		Name: e.grinderName(doc, pageURL),
		URL:  pageURL,
	}
	g.MinMicrons, g.MaxMicrons = micronRange(doc)
	g.Methods = e.brewMethods(doc)
	return g
}

// grinderName tries, in order: the entry-title heading, the URL slug, the
// page title, and finally a fixed placeholder.
func (e *Extractor) grinderName(doc *htmldoc.Document, pageURL string) string {
	if h1 := doc.First("h1", "entry-title"); h1 != nil {
		if name := h1.Text(); name != "" {
			return name
		}
	}
	if name := NameFromURL(pageURL); name != "" {
		return name
	}
	if title := doc.First("title", ""); title != nil {
		if name := cleanTitle(title.Text()); name != "" {
			return name
		}
	}
	return "Unknown Grinder"
}

// NameFromURL recovers a grinder name from a review URL slug. The slug's
// words before the "grind" marker are title-cased and joined, so
// ".../baratza-encore-grind-settings/" becomes "Baratza Encore".
func NameFromURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	slug := strings.Trim(u.Path, "/")
	if i := strings.LastIndex(slug, "/"); i >= 0 {
		slug = slug[i+1:]
	}
	if slug == "" {
		return ""
	}

	var words []string
	for _, w := range strings.Split(slug, "-") {
		if strings.EqualFold(w, "grind") {
			break
		}
		if w == "" {
			continue
		}
		words = append(words, strings.ToUpper(w[:1])+strings.ToLower(w[1:]))
	}
	return strings.Join(words, " ")
}

// cleanTitle strips the site suffix from a <title> text.
func cleanTitle(title string) string {
	for _, sep := range []string{" - ", " | "} {
		if i := strings.Index(title, sep); i >= 0 {
			title = title[:i]
		}
	}
	return strings.TrimSpace(title)
}

// micronRange scans paragraph text for the grinder's overall micron range.
// Paragraphs inside the article body are preferred; if nothing matches
// there, every paragraph on the page is tried.
func micronRange(doc *htmldoc.Document) (*float64, *float64) {
	var scopes [][]*htmldoc.Element
	if article := doc.First("article", ""); article != nil {
		for _, section := range article.Find("section") {
			scopes = append(scopes, section.Find("p"))
		}
	}
	scopes = append(scopes, doc.Find("p"))

	for _, paragraphs := range scopes {
		for _, p := range paragraphs {
			if lo, hi, ok := patterns.MicronRange(p.Text()); ok {
				return &lo, &hi
			}
		}
	}
	return nil, nil
}

// brewMethods parses the page's brew-method tables. A table qualifies when it
// has at least two rows and its header row mentions brewing. Rows with empty
// method names are still recorded so their settings can inform scale
// inference; persistence drops them later.
func (e *Extractor) brewMethods(doc *htmldoc.Document) []RawBrewMethod {
	var methods []RawBrewMethod
	for _, table := range doc.Find("table") {
		rows := table.Find("tr")
		if len(rows) < 2 {
			continue
		}
		header := strings.ToLower(rows[0].Text())
		if !strings.Contains(header, "brew") && !strings.Contains(header, "method") {
			continue
		}

		for _, row := range rows[1:] {
			cells := row.FindAny("th", "td")
			if len(cells) < 2 {
				continue
			}
			m := RawBrewMethod{MethodName: cells[0].Text()}
			if start, end, compound, ok := patterns.SettingRange(cells[1].Text()); ok {
				m.StartSetting = &start
				m.EndSetting = &end
				m.Compound = compound
			}
			if std, ok := e.ref.MatchStandard(m.MethodName); ok {
				lo, hi := std.MinMicrons, std.MaxMicrons
				m.StartMicrons = &lo
				m.EndMicrons = &hi
				m.GrindCategory = std.GrindCategory
				m.PriorSeeded = true
			}
			methods = append(methods, m)
		}
	}
	return methods
}

// ChartLinks collects grinder review links from the size-chart index page:
// hrefs mentioning grind settings or burrs, absolutized against baseURL and
// deduplicated in document order.
func ChartLinks(doc *htmldoc.Document, baseURL string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		base = nil
	}

	seen := make(map[string]bool)
	var links []string
	for _, a := range doc.Find("a") {
		href := a.Attr("href")
		if href == "" {
			continue
		}
		if !strings.Contains(href, "grind-settings") && !strings.Contains(href, "burrs") {
			continue
		}
		if base != nil {
			ref, err := url.Parse(href)
			if err != nil {
				continue
			}
			href = base.ResolveReference(ref).String()
		}
		if seen[href] {
			continue
		}
		seen[href] = true
		links = append(links, href)
	}
	return links
}
