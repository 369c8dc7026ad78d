// Package refdata holds the static reference tables the engine is calibrated
// against: standard brew-method micron ranges, the ordered grind-category
// buckets, and the clicks-per-number overrides for compound-dial grinders.
// The tables are plain data, injected into the components that need them.
package refdata

import "strings"

// StandardBrewMethod is a canonical brew method with its accepted micron range.
type StandardBrewMethod struct {
	Key           string  `yaml:"key"` // lowercase match key, e.g. "french press"
	Name          string  `yaml:"name"`
	MinMicrons    float64 `yaml:"min_microns"`
	MaxMicrons    float64 `yaml:"max_microns"`
	GrindCategory string  `yaml:"grind_category"`
}

// GrindCategory is one named coarseness bucket over a half-open micron
// interval [MinMicrons, MaxMicrons).
type GrindCategory struct {
	Name       string  `yaml:"name"`
	MinMicrons float64 `yaml:"min_microns"`
	MaxMicrons float64 `yaml:"max_microns"`
}

// ClicksOverride maps a grinder model family (substring of the upper-cased
// grinder name) to its clicks-per-number constant.
type ClicksOverride struct {
	Family string `yaml:"family"`
	Clicks int    `yaml:"clicks"`
}

// Reference bundles all static calibration tables.
type Reference struct {
	StandardMethods []StandardBrewMethod
	Categories      []GrindCategory // ordered fine → coarse
	ClicksOverrides []ClicksOverride
	DefaultClicks   int
}

// DefaultClicksPerNumber is the clicks-per-number constant for grinders
// without a model-family override.
const DefaultClicksPerNumber = 10

// Default returns the built-in reference tables.
func Default() *Reference {
	return &Reference{
		StandardMethods: []StandardBrewMethod{
			{Key: "turkish", Name: "Turkish", MinMicrons: 40, MaxMicrons: 220, GrindCategory: "Extra Fine"},
			{Key: "espresso", Name: "Espresso", MinMicrons: 180, MaxMicrons: 380, GrindCategory: "Fine"},
			{Key: "filter coffee machine", Name: "Filter Coffee Machine", MinMicrons: 300, MaxMicrons: 900, GrindCategory: "Medium Fine"},
			{Key: "aeropress", Name: "AeroPress", MinMicrons: 320, MaxMicrons: 960, GrindCategory: "Medium Fine"},
			{Key: "siphon", Name: "Siphon", MinMicrons: 375, MaxMicrons: 800, GrindCategory: "Medium Fine"},
			{Key: "v60", Name: "V60", MinMicrons: 400, MaxMicrons: 700, GrindCategory: "Medium Fine"},
			{Key: "pour-over", Name: "Pour-over", MinMicrons: 410, MaxMicrons: 930, GrindCategory: "Medium Fine"},
			{Key: "pour over", Name: "Pour Over", MinMicrons: 410, MaxMicrons: 930, GrindCategory: "Medium Fine"},
			{Key: "steep-and-release", Name: "Steep-and-release", MinMicrons: 450, MaxMicrons: 825, GrindCategory: "Medium Fine"},
			{Key: "steep and release", Name: "Steep and Release", MinMicrons: 450, MaxMicrons: 825, GrindCategory: "Medium Fine"},
			{Key: "cupping", Name: "Cupping", MinMicrons: 460, MaxMicrons: 850, GrindCategory: "Medium"},
			{Key: "french press", Name: "French Press", MinMicrons: 690, MaxMicrons: 1300, GrindCategory: "Medium Coarse"},
			{Key: "cold brew", Name: "Cold Brew", MinMicrons: 800, MaxMicrons: 1600, GrindCategory: "Coarse"},
			{Key: "cold drip", Name: "Cold Drip", MinMicrons: 820, MaxMicrons: 1270, GrindCategory: "Coarse"},
			{Key: "moka pot", Name: "Moka Pot", MinMicrons: 360, MaxMicrons: 660, GrindCategory: "Medium Fine"},
		},
		Categories: []GrindCategory{
			{Name: "Extra Fine", MinMicrons: 0, MaxMicrons: 200},
			{Name: "Fine", MinMicrons: 200, MaxMicrons: 400},
			{Name: "Medium Fine", MinMicrons: 400, MaxMicrons: 600},
			{Name: "Medium", MinMicrons: 600, MaxMicrons: 800},
			{Name: "Medium Coarse", MinMicrons: 800, MaxMicrons: 1000},
			{Name: "Coarse", MinMicrons: 1000, MaxMicrons: 1200},
			{Name: "Extra Coarse", MinMicrons: 1200, MaxMicrons: 1400},
		},
		// 1Zpresso model families. Order matters: first substring match wins,
		// so the bare "J" entry catches J, J-Max and JX models alike.
		ClicksOverrides: []ClicksOverride{
			{Family: "Q", Clicks: 3},
			{Family: "JE", Clicks: 3},
			{Family: "J", Clicks: 3},
			{Family: "JX-PRO", Clicks: 4},
			{Family: "JX-PRO S", Clicks: 4},
		},
		DefaultClicks: DefaultClicksPerNumber,
	}
}

// MatchStandard finds the standard brew method whose key matches the given
// method name by case-insensitive substring in either direction. The first
// table entry that matches wins.
func (r *Reference) MatchStandard(methodName string) (StandardBrewMethod, bool) {
	key := strings.ToLower(strings.TrimSpace(methodName))
	if key == "" {
		return StandardBrewMethod{}, false
	}
	for _, std := range r.StandardMethods {
		if strings.Contains(key, std.Key) || strings.Contains(std.Key, key) {
			return std, true
		}
	}
	return StandardBrewMethod{}, false
}

// ClicksPerNumber resolves the clicks-per-number constant for a grinder by
// name. Overrides only apply to the 1Zpresso family; everything else uses
// the default.
func (r *Reference) ClicksPerNumber(grinderName string) int {
	def := r.DefaultClicks
	if def <= 0 {
		def = DefaultClicksPerNumber
	}
	upper := strings.ToUpper(grinderName)
	if !strings.Contains(upper, "ZPRESSO") {
		return def
	}
	for _, ov := range r.ClicksOverrides {
		if strings.Contains(upper, ov.Family) {
			return ov.Clicks
		}
	}
	return def
}
