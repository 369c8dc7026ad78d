package refdata

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/brewkit/grindex/pkg/grindex/internalerr"
)

func TestMatchStandard(t *testing.T) {
	ref := Default()

	cases := []struct {
		method string
		want   string
	}{
		{"Espresso", "Espresso"},
		{"espresso (single shot)", "Espresso"},
		{"French Press", "French Press"},
		{"V60 Pour", "V60"},
		{"Cold Brew Concentrate", "Cold Brew"},
		// Reverse containment: "press" is a substring of the "espresso" key,
		// which sits before "aeropress" and "french press" in the table.
		{"press", "Espresso"},
	}
	for _, c := range cases {
		std, ok := ref.MatchStandard(c.method)
		if !ok {
			t.Errorf("MatchStandard(%q): no match", c.method)
			continue
		}
		if std.Name != c.want {
			t.Errorf("MatchStandard(%q) = %q, want %q", c.method, std.Name, c.want)
		}
	}
}

func TestMatchStandardMisses(t *testing.T) {
	ref := Default()
	for _, method := range []string{"", "  ", "nitro tap"} {
		if _, ok := ref.MatchStandard(method); ok {
			t.Errorf("MatchStandard(%q): unexpected match", method)
		}
	}
}

func TestClicksPerNumber(t *testing.T) {
	ref := Default()

	cases := []struct {
		grinder string
		want    int
	}{
		{"1Zpresso Q2", 3},
		{"1Zpresso JE-Plus", 3},
		{"1Zpresso J-Max", 3},
		// "JX-PRO" contains "J", and the J family sits earlier in the
		// override table, so it wins.
		{"1Zpresso JX-Pro", 3},
		{"1Zpresso K-Ultra", 10},
		{"Baratza Encore", 10},
		{"Comandante C40", 10},
		{"", 10},
	}
	for _, c := range cases {
		if got := ref.ClicksPerNumber(c.grinder); got != c.want {
			t.Errorf("ClicksPerNumber(%q) = %d, want %d", c.grinder, got, c.want)
		}
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ref.yaml")
	content := `
default_clicks: 12
grind_categories:
  - name: Fine
    min_microns: 0
    max_microns: 500
  - name: Coarse
    min_microns: 500
    max_microns: 1500
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	ref, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ref.DefaultClicks != 12 {
		t.Errorf("DefaultClicks = %d, want 12", ref.DefaultClicks)
	}
	if len(ref.Categories) != 2 {
		t.Fatalf("Categories = %d, want 2", len(ref.Categories))
	}
	// Sections the file omits keep the built-ins.
	if len(ref.StandardMethods) != len(Default().StandardMethods) {
		t.Errorf("StandardMethods should fall back to defaults")
	}
}

func TestLoadRejectsEmptyInterval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ref.yaml")
	content := `
grind_categories:
  - name: Broken
    min_microns: 500
    max_microns: 500
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("Load = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load should fail on a missing file")
	}
}
