// Package grindex is the coffee grinder calibration engine facade. It ties
// page fetching, extraction, dial calibration and persistence together and
// answers micron-target queries against the stored data.
package grindex

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/brewkit/grindex/pkg/grindex/dial"
	"github.com/brewkit/grindex/pkg/grindex/extract"
	"github.com/brewkit/grindex/pkg/grindex/fetch"
	"github.com/brewkit/grindex/pkg/grindex/htmldoc"
	"github.com/brewkit/grindex/pkg/grindex/internalerr"
	"github.com/brewkit/grindex/pkg/grindex/recommend"
	"github.com/brewkit/grindex/pkg/grindex/refdata"
	"github.com/brewkit/grindex/pkg/grindex/store"
)

// Grindex is the main calibration engine facade
type Grindex struct {
	store     store.Store
	fetcher   fetch.Fetcher
	ref       *refdata.Reference
	extractor *extract.Extractor
	engine    *recommend.Engine
	log       zerolog.Logger
}

// Options configures a Grindex instance. Store and Fetcher are required;
// Reference defaults to the built-in tables.
type Options struct {
	Store     store.Store
	Fetcher   fetch.Fetcher
	Reference *refdata.Reference
	Logger    zerolog.Logger
}

// New creates a Grindex instance with the given dependencies
func New(opts Options) *Grindex {
	ref := opts.Reference
	if ref == nil {
		ref = refdata.Default()
	}
	return &Grindex{
		store:     opts.Store,
		fetcher:   opts.Fetcher,
		ref:       ref,
		extractor: extract.New(ref),
		engine:    recommend.New(ref),
		log:       opts.Logger,
	}
}

// Close cleanly shuts down the Grindex instance
func (g *Grindex) Close() error {
	return g.store.Close()
}

// ProcessPage fetches one grinder review page, extracts and calibrates its
// data, and persists the result. Brew-method rows with empty names are
// dropped before persistence. A page with no usable table or micron range
// still yields a minimal grinder record.
func (g *Grindex) ProcessPage(ctx context.Context, url string) (store.Grinder, error) {
	body, err := g.fetcher.Fetch(ctx, url)
	if err != nil {
		return store.Grinder{}, err
	}

	doc, err := htmldoc.ParseString(body)
	if err != nil {
		return store.Grinder{}, fmt.Errorf("%w: %s: %v", internalerr.ErrUnusableDocument, url, err)
	}

	raw := g.extractor.Extract(doc, url)
	g.calibrate(&raw)

	grinder := store.Grinder{
		Name:       raw.Name,
		MinMicrons: raw.MinMicrons,
		MaxMicrons: raw.MaxMicrons,
		URL:        raw.URL,
	}
	id, err := g.store.UpsertGrinder(ctx, grinder)
	if err != nil {
		return store.Grinder{}, err
	}
	grinder.ID = id

	saved := 0
	for _, m := range raw.Methods {
		if m.MethodName == "" {
			continue
		}
		format := dial.FormatSimple
		if m.Compound {
			format = dial.FormatCompound
		}
		_, err := g.store.UpsertBrewMethod(ctx, store.BrewMethod{
			GrinderID:     id,
			MethodName:    m.MethodName,
			StartMicrons:  m.StartMicrons,
			EndMicrons:    m.EndMicrons,
			StartSetting:  m.StartSetting,
			EndSetting:    m.EndSetting,
			SettingFormat: string(format),
			GrindCategory: m.GrindCategory,
		})
		if err != nil {
			return store.Grinder{}, err
		}
		saved++
	}

	g.log.Info().
		Str("grinder", grinder.Name).
		Str("url", url).
		Int("brew_methods", saved).
		Msg("processed page")
	return grinder, nil
}

// calibrate infers the grinder's overall setting range and back-fills micron
// values for methods that only carried settings, or whose microns were merely
// seeded from the standard table. Back-filled methods get their category
// reclassified from the range midpoint.
func (g *Grindex) calibrate(raw *extract.RawGrinder) {
	if raw.MinMicrons == nil || raw.MaxMicrons == nil {
		return
	}

	cpn := g.ref.ClicksPerNumber(raw.Name)
	var ranges []dial.MethodRange
	for _, m := range raw.Methods {
		if m.StartSetting == nil || m.EndSetting == nil {
			continue
		}
		format := dial.FormatSimple
		if m.Compound {
			format = dial.FormatCompound
		}
		ranges = append(ranges, dial.MethodRange{
			Start:  *m.StartSetting,
			End:    *m.EndSetting,
			Format: format,
		})
	}

	minSetting, maxSetting, format, ok := dial.InferScale(ranges, cpn)
	if !ok {
		return
	}
	scale := dial.Scale{
		MinSetting:      minSetting,
		MaxSetting:      maxSetting,
		MinMicrons:      *raw.MinMicrons,
		MaxMicrons:      *raw.MaxMicrons,
		ClicksPerNumber: cpn,
	}

	for i := range raw.Methods {
		m := &raw.Methods[i]
		if m.StartSetting == nil || m.EndSetting == nil {
			continue
		}
		if m.StartMicrons != nil && !m.PriorSeeded {
			continue
		}
		methodFormat := dial.FormatSimple
		if m.Compound {
			methodFormat = dial.FormatCompound
		}
		// A method whose notation differs from the inferred dominant
		// format cannot be placed on the grinder's linear axis.
		if methodFormat != format {
			continue
		}

		start, err1 := dial.Parse(*m.StartSetting, methodFormat)
		end, err2 := dial.Parse(*m.EndSetting, methodFormat)
		if err1 != nil || err2 != nil {
			continue
		}
		startM, err1 := scale.SettingToMicrons(start)
		endM, err2 := scale.SettingToMicrons(end)
		if err1 != nil || err2 != nil {
			g.log.Debug().
				Str("grinder", raw.Name).
				Str("method", m.MethodName).
				Msg("cannot back-fill method microns")
			continue
		}

		m.StartMicrons = &startM
		m.EndMicrons = &endM
		m.PriorSeeded = false
		m.GrindCategory = g.engine.Classifier().Classify((startM + endM) / 2)
	}
}

// Query answers a micron-target query against a stored grinder, matched by
// name substring. The grinder's dial scale is re-inferred from its persisted
// brew methods.
func (g *Grindex) Query(ctx context.Context, grinderName string, targetMicrons float64, methodFilter string) (recommend.Result, error) {
	grinder, found, err := g.store.FindGrinder(ctx, grinderName)
	if err != nil {
		return recommend.Result{}, err
	}
	if !found {
		return recommend.Result{}, fmt.Errorf("%w: grinder %q", internalerr.ErrNotFound, grinderName)
	}

	methods, err := g.store.BrewMethodsOf(ctx, grinder.ID)
	if err != nil {
		return recommend.Result{}, err
	}

	scale, format := g.scaleOf(grinder, methods)
	return g.engine.Recommend(recommend.Request{
		Grinder:       grinder,
		Methods:       methods,
		Scale:         scale,
		ScaleFormat:   format,
		TargetMicrons: targetMicrons,
		MethodFilter:  methodFilter,
	})
}

// scaleOf rebuilds the grinder's dial scale from its persisted rows. Returns
// a nil scale when the grinder's micron range is unknown or no setting range
// can be inferred.
func (g *Grindex) scaleOf(grinder store.Grinder, methods []store.BrewMethod) (*dial.Scale, dial.Format) {
	var ranges []dial.MethodRange
	for _, m := range methods {
		if m.StartSetting == nil || m.EndSetting == nil {
			continue
		}
		ranges = append(ranges, dial.MethodRange{
			Start:  *m.StartSetting,
			End:    *m.EndSetting,
			Format: dial.Format(m.SettingFormat),
		})
	}

	cpn := g.ref.ClicksPerNumber(grinder.Name)
	minSetting, maxSetting, format, ok := dial.InferScale(ranges, cpn)
	if !ok || grinder.MinMicrons == nil || grinder.MaxMicrons == nil {
		return nil, format
	}
	return &dial.Scale{
		MinSetting:      minSetting,
		MaxSetting:      maxSetting,
		MinMicrons:      *grinder.MinMicrons,
		MaxMicrons:      *grinder.MaxMicrons,
		ClicksPerNumber: cpn,
	}, format
}

// Crawl fetches the grind-size chart page, discovers grinder review links
// and processes each one. A failing page is logged and skipped; the return
// value is the number of pages successfully processed. limit <= 0 means no
// limit.
func (g *Grindex) Crawl(ctx context.Context, chartURL string, limit int) (int, error) {
	body, err := g.fetcher.Fetch(ctx, chartURL)
	if err != nil {
		return 0, err
	}
	doc, err := htmldoc.ParseString(body)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", internalerr.ErrUnusableDocument, chartURL, err)
	}

	links := extract.ChartLinks(doc, chartURL)
	if limit > 0 && len(links) > limit {
		links = links[:limit]
	}
	g.log.Info().Int("links", len(links)).Str("chart", chartURL).Msg("discovered grinder pages")

	processed := 0
	for _, link := range links {
		if ctx.Err() != nil {
			return processed, ctx.Err()
		}
		if _, err := g.ProcessPage(ctx, link); err != nil {
			g.log.Warn().Err(err).Str("url", link).Msg("skipping page")
			continue
		}
		processed++
	}
	return processed, nil
}
