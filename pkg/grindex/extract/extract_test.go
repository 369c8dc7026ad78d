package extract

import (
	"testing"

	"github.com/brewkit/grindex/pkg/grindex/htmldoc"
	"github.com/brewkit/grindex/pkg/grindex/refdata"
)

const reviewPage = `<html><head><title>Baratza Encore Review - Honest Coffee Guide</title></head><body>
<h1 class="entry-title">Baratza Encore</h1>
<article><section>
<p>The Encore grinds between 300 and 1200 microns.</p>
</section></article>
<table>
<tr><th>Brew Method</th><th>Grind Setting</th></tr>
<tr><td>Espresso</td><td>5 – 20</td></tr>
<tr><td>Mystery Brew</td><td>8 – 12</td></tr>
<tr><td></td><td>1 – 2</td></tr>
</table>
<table>
<tr><th>Burr</th><th>Size</th></tr>
<tr><td>Conical</td><td>40mm</td></tr>
</table>
</body></html>`

func mustParse(t *testing.T, s string) *htmldoc.Document {
	t.Helper()
	doc, err := htmldoc.ParseString(s)
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestExtractFullPage(t *testing.T) {
	ex := New(refdata.Default())
	doc := mustParse(t, reviewPage)

	g := ex.Extract(doc, "https://example.com/baratza-encore-grind-settings/")
	if g.Name != "Baratza Encore" {
		t.Errorf("Name = %q", g.Name)
	}
	if g.MinMicrons == nil || g.MaxMicrons == nil {
		t.Fatal("micron range not extracted")
	}
	if *g.MinMicrons != 300 || *g.MaxMicrons != 1200 {
		t.Errorf("micron range = (%g, %g)", *g.MinMicrons, *g.MaxMicrons)
	}

	// The burr-dimensions table has no brew header and contributes nothing.
	// The empty-name row is recorded (its settings still matter for scale
	// inference) and only dropped at persistence.
	if len(g.Methods) != 3 {
		t.Fatalf("extracted %d methods, want 3", len(g.Methods))
	}
	if g.Methods[2].MethodName != "" || g.Methods[2].StartSetting == nil {
		t.Errorf("empty-name row not recorded: %+v", g.Methods[2])
	}

	esp := g.Methods[0]
	if esp.MethodName != "Espresso" {
		t.Errorf("method name = %q", esp.MethodName)
	}
	if esp.StartSetting == nil || esp.EndSetting == nil {
		t.Fatal("espresso settings missing")
	}
	if *esp.StartSetting != "5" || *esp.EndSetting != "20" || esp.Compound {
		t.Errorf("espresso settings = (%q, %q, compound=%v)", *esp.StartSetting, *esp.EndSetting, esp.Compound)
	}
	// Standard-table prior.
	if !esp.PriorSeeded || esp.StartMicrons == nil || *esp.StartMicrons != 180 {
		t.Errorf("espresso prior not seeded: %+v", esp)
	}
	if esp.GrindCategory != "Fine" {
		t.Errorf("espresso category = %q", esp.GrindCategory)
	}

	mystery := g.Methods[1]
	if mystery.PriorSeeded || mystery.StartMicrons != nil {
		t.Errorf("unknown method should have no prior: %+v", mystery)
	}
}

func TestExtractMinimalPage(t *testing.T) {
	ex := New(refdata.Default())
	doc := mustParse(t, `<html><body><p>Nothing useful here.</p></body></html>`)

	g := ex.Extract(doc, "https://example.com/mystery-grinder-grind-settings/")
	if g.Name != "Mystery Grinder" {
		t.Errorf("Name = %q, want slug-derived name", g.Name)
	}
	if g.MinMicrons != nil || g.MaxMicrons != nil {
		t.Error("micron range should stay unset")
	}
	if len(g.Methods) != 0 {
		t.Errorf("extracted %d methods from empty page", len(g.Methods))
	}
}

func TestNameFromURL(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://example.com/baratza-encore-grind-settings/", "Baratza Encore"},
		{"https://example.com/1zpresso-jx-pro-grind-settings", "1zpresso Jx Pro"},
		{"https://example.com/", ""},
		{"://bad", ""},
	}
	for _, c := range cases {
		if got := NameFromURL(c.url); got != c.want {
			t.Errorf("NameFromURL(%q) = %q, want %q", c.url, got, c.want)
		}
	}
}

func TestNameFallsBackToTitle(t *testing.T) {
	ex := New(refdata.Default())
	doc := mustParse(t, `<html><head><title>Comandante C40 - Honest Coffee Guide</title></head><body></body></html>`)

	g := ex.Extract(doc, "https://example.com/")
	if g.Name != "Comandante C40" {
		t.Errorf("Name = %q, want title-derived name", g.Name)
	}
}

func TestChartLinks(t *testing.T) {
	doc := mustParse(t, `<html><body>
<a href="/baratza-encore-grind-settings/">Encore</a>
<a href="https://example.com/comandante-c40-grind-settings/">C40</a>
<a href="/flat-vs-conical-burrs/">Burrs</a>
<a href="/about/">About</a>
<a href="/baratza-encore-grind-settings/">Encore again</a>
</body></html>`)

	links := ChartLinks(doc, "https://example.com/coffee-grind-size-chart/")
	want := []string{
		"https://example.com/baratza-encore-grind-settings/",
		"https://example.com/comandante-c40-grind-settings/",
		"https://example.com/flat-vs-conical-burrs/",
	}
	if len(links) != len(want) {
		t.Fatalf("got %d links: %v", len(links), links)
	}
	for i := range want {
		if links[i] != want[i] {
			t.Errorf("link[%d] = %q, want %q", i, links[i], want[i])
		}
	}
}
