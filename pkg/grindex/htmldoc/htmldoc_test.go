package htmldoc

import "testing"

const page = `<html><head><title>Test Page</title></head><body>
<h1 class="entry-title">Main Heading</h1>
<article>
<section><p>First   paragraph
with broken   whitespace.</p></section>
<table>
<tr><th>Brew Method</th><th>Setting</th></tr>
<tr><td>Espresso</td><td>5 - 20</td></tr>
<tr><th>French Press</th><td>25 - 30</td></tr>
</table>
</article>
<div class="widget sidebar"><a href="/baratza-encore-grind-settings/">Encore</a></div>
</body></html>`

func mustParse(t *testing.T, s string) *Document {
	t.Helper()
	doc, err := ParseString(s)
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestTextCollapsesWhitespace(t *testing.T) {
	doc := mustParse(t, page)
	p := doc.First("p", "")
	if p == nil {
		t.Fatal("no paragraph found")
	}
	want := "First paragraph with broken whitespace."
	if got := p.Text(); got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}

func TestFirstByClass(t *testing.T) {
	doc := mustParse(t, page)
	h1 := doc.First("h1", "entry-title")
	if h1 == nil {
		t.Fatal("no entry-title heading")
	}
	if h1.Text() != "Main Heading" {
		t.Errorf("heading text = %q", h1.Text())
	}
	if doc.First("h1", "missing-class") != nil {
		t.Error("First with absent class should return nil")
	}
}

func TestFindAnyMixedCells(t *testing.T) {
	doc := mustParse(t, page)
	tables := doc.Find("table")
	if len(tables) != 1 {
		t.Fatalf("found %d tables", len(tables))
	}
	rows := tables[0].Find("tr")
	if len(rows) != 3 {
		t.Fatalf("found %d rows", len(rows))
	}

	// The French Press row mixes th and td cells.
	cells := rows[2].FindAny("th", "td")
	if len(cells) != 2 {
		t.Fatalf("found %d cells", len(cells))
	}
	if cells[0].Text() != "French Press" || cells[1].Text() != "25 - 30" {
		t.Errorf("cells = %q, %q", cells[0].Text(), cells[1].Text())
	}
}

func TestHasClass(t *testing.T) {
	doc := mustParse(t, page)
	divs := doc.FindClass("sidebar")
	if len(divs) != 1 {
		t.Fatalf("found %d sidebar elements", len(divs))
	}
	if !divs[0].HasClass("widget") {
		t.Error("multi-class attribute should match each class")
	}
	if divs[0].HasClass("side") {
		t.Error("class matching must not use substrings")
	}
}

func TestAttr(t *testing.T) {
	doc := mustParse(t, page)
	links := doc.Find("a")
	if len(links) != 1 {
		t.Fatalf("found %d links", len(links))
	}
	if got := links[0].Attr("href"); got != "/baratza-encore-grind-settings/" {
		t.Errorf("href = %q", got)
	}
	if links[0].Attr("rel") != "" {
		t.Error("absent attribute should be empty")
	}
}
