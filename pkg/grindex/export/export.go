// Package export serializes the calibration database to JSON for downstream
// consumers, with optional subsetting for development fixtures.
package export

import (
	"context"
	"encoding/json"
	"os"
	"sort"

	"github.com/brewkit/grindex/pkg/grindex/refdata"
	"github.com/brewkit/grindex/pkg/grindex/store"
)

// GrinderRecord is one exported grinder with its brew methods nested.
type GrinderRecord struct {
	ID              int64          `json:"id"`
	Name            string         `json:"name"`
	MinMicrons      *float64       `json:"min_microns"`
	MaxMicrons      *float64       `json:"max_microns"`
	URL             string         `json:"url"`
	ClicksPerNumber int            `json:"clicks_per_number"`
	BrewMethods     []MethodRecord `json:"brew_methods"`
}

// MethodRecord is one exported brew-method row.
type MethodRecord struct {
	ID            int64    `json:"id"`
	GrinderID     int64    `json:"grinder_id"`
	MethodName    string   `json:"method_name"`
	StartMicrons  *float64 `json:"start_microns"`
	EndMicrons    *float64 `json:"end_microns"`
	StartSetting  *string  `json:"start_setting"`
	EndSetting    *string  `json:"end_setting"`
	SettingFormat string   `json:"setting_format"`
	GrindCategory string   `json:"grind_category"`
}

// Metadata describes how the snapshot was cut. The limits are nil in a full
// export.
type Metadata struct {
	TotalGrinders int  `json:"total_grinders"`
	IsSubset      bool `json:"is_subset"`
	GrinderLimit  *int `json:"grinder_limit"`
	MethodsLimit  *int `json:"methods_limit"`
}

// Snapshot is the complete export document.
type Snapshot struct {
	Grinders []GrinderRecord `json:"grinders"`
	Metadata Metadata        `json:"metadata"`
}

// Options control subsetting. Zero limits mean no limit. When GrinderLimit is
// set, the grinders with the most brew methods are exported first.
type Options struct {
	GrinderLimit int
	MethodsLimit int
}

// Build assembles a snapshot from the store. Grinders are in name order for a
// full export; a limited export picks the most popular grinders (most brew
// methods, name breaking ties).
func Build(ctx context.Context, st store.Store, ref *refdata.Reference, opts Options) (*Snapshot, error) {
	grinders, err := st.ListGrinders(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]GrinderRecord, 0, len(grinders))
	methodCounts := make(map[int64]int)
	for _, g := range grinders {
		methods, err := st.BrewMethodsOf(ctx, g.ID)
		if err != nil {
			return nil, err
		}
		rec := GrinderRecord{
			ID:              g.ID,
			Name:            g.Name,
			MinMicrons:      g.MinMicrons,
			MaxMicrons:      g.MaxMicrons,
			URL:             g.URL,
			ClicksPerNumber: ref.ClicksPerNumber(g.Name),
			BrewMethods:     make([]MethodRecord, 0, len(methods)),
		}
		methodCounts[g.ID] = len(methods)
		for _, m := range methods {
			if opts.MethodsLimit > 0 && len(rec.BrewMethods) >= opts.MethodsLimit {
				break
			}
			rec.BrewMethods = append(rec.BrewMethods, MethodRecord{
				ID:            m.ID,
				GrinderID:     m.GrinderID,
				MethodName:    m.MethodName,
				StartMicrons:  m.StartMicrons,
				EndMicrons:    m.EndMicrons,
				StartSetting:  m.StartSetting,
				EndSetting:    m.EndSetting,
				SettingFormat: m.SettingFormat,
				GrindCategory: m.GrindCategory,
			})
		}
		records = append(records, rec)
	}

	if opts.GrinderLimit > 0 {
		// Popularity is judged on the full method count, not the truncated list.
		sort.SliceStable(records, func(i, j int) bool {
			ci, cj := methodCounts[records[i].ID], methodCounts[records[j].ID]
			if ci != cj {
				return ci > cj
			}
			return records[i].Name < records[j].Name
		})
		if len(records) > opts.GrinderLimit {
			records = records[:opts.GrinderLimit]
		}
	}

	snap := &Snapshot{
		Grinders: records,
		Metadata: Metadata{
			TotalGrinders: len(records),
			IsSubset:      opts.GrinderLimit > 0 || opts.MethodsLimit > 0,
		},
	}
	if opts.GrinderLimit > 0 {
		limit := opts.GrinderLimit
		snap.Metadata.GrinderLimit = &limit
	}
	if opts.MethodsLimit > 0 {
		limit := opts.MethodsLimit
		snap.Metadata.MethodsLimit = &limit
	}
	return snap, nil
}

// Write renders the snapshot as indented JSON at the given path.
func Write(snap *Snapshot, path string) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
