package refdata

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/brewkit/grindex/pkg/grindex/internalerr"
)

// fileFormat mirrors the YAML override file. Sections that are present
// replace the corresponding built-in table wholesale; absent sections keep
// the defaults.
type fileFormat struct {
	StandardMethods []StandardBrewMethod `yaml:"standard_methods"`
	GrindCategories []GrindCategory      `yaml:"grind_categories"`
	ClicksOverrides []ClicksOverride     `yaml:"clicks_overrides"`
	DefaultClicks   int                  `yaml:"default_clicks"`
}

// Load reads reference tables from a YAML file, falling back to the built-in
// defaults for any section the file omits.
func Load(path string) (*Reference, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reference data: %w", err)
	}

	var ff fileFormat
	if err := yaml.Unmarshal(data, &ff); err != nil {
		return nil, fmt.Errorf("parse reference data: %w", err)
	}

	ref := Default()
	if len(ff.StandardMethods) > 0 {
		ref.StandardMethods = ff.StandardMethods
	}
	if len(ff.GrindCategories) > 0 {
		ref.Categories = ff.GrindCategories
	}
	if len(ff.ClicksOverrides) > 0 {
		ref.ClicksOverrides = ff.ClicksOverrides
	}
	if ff.DefaultClicks > 0 {
		ref.DefaultClicks = ff.DefaultClicks
	}

	if err := validate(ref); err != nil {
		return nil, err
	}
	return ref, nil
}

func validate(ref *Reference) error {
	if len(ref.Categories) == 0 {
		return fmt.Errorf("%w: no grind categories", internalerr.ErrInvalidConfig)
	}
	for _, cat := range ref.Categories {
		if cat.MinMicrons >= cat.MaxMicrons {
			return fmt.Errorf("%w: grind category %q has empty interval", internalerr.ErrInvalidConfig, cat.Name)
		}
	}
	for _, std := range ref.StandardMethods {
		if std.Key == "" {
			return fmt.Errorf("%w: standard method %q has no match key", internalerr.ErrInvalidConfig, std.Name)
		}
		if std.MinMicrons >= std.MaxMicrons {
			return fmt.Errorf("%w: standard method %q has empty range", internalerr.ErrInvalidConfig, std.Name)
		}
	}
	return nil
}
