// Package recommend ranks brew methods against a target particle size and
// classifies micron values into coarseness categories.
package recommend

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/brewkit/grindex/pkg/grindex/dial"
	"github.com/brewkit/grindex/pkg/grindex/internalerr"
	"github.com/brewkit/grindex/pkg/grindex/refdata"
	"github.com/brewkit/grindex/pkg/grindex/store"
)

// Classifier buckets micron values into the ordered grind categories.
type Classifier struct {
	categories []refdata.GrindCategory
}

// NewClassifier builds a Classifier over the given ordered category table.
func NewClassifier(categories []refdata.GrindCategory) *Classifier {
	return &Classifier{categories: categories}
}

// Classify returns the first category whose half-open interval [lo, hi)
// contains the value. Out-of-table values clamp to the nearest extreme
// category.
func (c *Classifier) Classify(microns float64) string {
	if len(c.categories) == 0 {
		return "Unknown"
	}
	if microns < c.categories[0].MinMicrons {
		return c.categories[0].Name
	}
	for _, cat := range c.categories {
		if microns >= cat.MinMicrons && microns < cat.MaxMicrons {
			return cat.Name
		}
	}
	return c.categories[len(c.categories)-1].Name
}

// specialty affinities: methods whose name contains the key get a scoring
// bonus when the target sits in the method's sweet-spot window.
var specialties = []struct {
	name   string
	lo, hi float64
}{
	{"v60", 450, 550},
	{"espresso", 200, 300},
	{"french press", 800, 1000},
}

// FitScore ranks how well a method's micron range suits the target; lower is
// better. An empty or inverted range is unrankable (+Inf). The score is the
// target's normalized distance from the range midpoint, penalized when the
// target sits in the outer 10% of the range and rewarded for specialty
// method/target affinities.
func FitScore(target, start, end float64, methodName string) float64 {
	span := end - start
	if span <= 0 {
		return math.Inf(1)
	}

	mid := (start + end) / 2
	score := math.Abs(target-mid) / span

	if target <= start+0.1*span || target >= end-0.1*span {
		score += 0.2
	}

	lower := strings.ToLower(methodName)
	for _, sp := range specialties {
		if strings.Contains(lower, sp.name) && target >= sp.lo && target <= sp.hi {
			score -= 0.3
			break
		}
	}
	return score
}

// QueryError is the structured rejection for a target outside the grinder's
// known micron range.
type QueryError struct {
	Grinder       string
	TargetMicrons float64
	MinMicrons    float64
	MaxMicrons    float64
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("target %g microns outside %s range %g to %g",
		e.TargetMicrons, e.Grinder, e.MinMicrons, e.MaxMicrons)
}

func (e *QueryError) Unwrap() error {
	return internalerr.ErrOutOfRange
}

// Request carries everything Recommend needs: the grinder facts, its
// persisted methods, the inferred dial scale (nil when unknown), the target
// and an optional method-name filter.
type Request struct {
	Grinder       store.Grinder
	Methods       []store.BrewMethod
	Scale         *dial.Scale
	ScaleFormat   dial.Format
	TargetMicrons float64
	MethodFilter  string
}

// Candidate is one ranked brew method in a query result.
type Candidate struct {
	MethodName    string
	StartMicrons  *float64
	EndMicrons    *float64
	StartSetting  *string
	EndSetting    *string
	SettingFormat string
	GrindCategory string
}

// Result is a complete query answer. CalculatedSetting is nil when the
// grinder's scale is unknown or the conversion fails.
type Result struct {
	ID                string
	Grinder           store.Grinder
	TargetMicrons     float64
	CalculatedSetting *string
	SettingFormat     string
	GrindCategory     string
	MatchingMethods   []Candidate
}

// Engine answers micron-target queries against a grinder's calibration data.
type Engine struct {
	ref        *refdata.Reference
	classifier *Classifier

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// New builds an Engine over the given reference tables.
func New(ref *refdata.Reference) *Engine {
	return &Engine{
		ref:        ref,
		classifier: NewClassifier(ref.Categories),
		entropy:    ulid.Monotonic(nil, 0),
	}
}

// Classifier exposes the engine's category classifier.
func (e *Engine) Classifier() *Classifier {
	return e.classifier
}

func (e *Engine) newID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ulid.MustNew(ulid.Now(), e.entropy).String()
}

// Recommend ranks the grinder's brew methods for the target. When no
// persisted method covers the target, candidates are synthesized from the
// standard brew-method table, with setting bounds computed against the
// grinder's scale when one is known. The returned candidates are sorted best
// fit first; equal scores keep collection order.
func (e *Engine) Recommend(req Request) (Result, error) {
	g := req.Grinder
	if g.MinMicrons != nil && g.MaxMicrons != nil {
		if req.TargetMicrons < *g.MinMicrons || req.TargetMicrons > *g.MaxMicrons {
			return Result{}, &QueryError{
				Grinder:       g.Name,
				TargetMicrons: req.TargetMicrons,
				MinMicrons:    *g.MinMicrons,
				MaxMicrons:    *g.MaxMicrons,
			}
		}
	}

	candidates := e.collect(req)
	if len(candidates) == 0 {
		candidates = e.synthesize(req)
	}
	candidates = filterByName(candidates, req.MethodFilter)

	type scored struct {
		cand  Candidate
		score float64
	}
	ranked := make([]scored, len(candidates))
	for i, c := range candidates {
		score := math.Inf(1)
		if c.StartMicrons != nil && c.EndMicrons != nil {
			score = FitScore(req.TargetMicrons, *c.StartMicrons, *c.EndMicrons, c.MethodName)
		}
		ranked[i] = scored{cand: c, score: score}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score < ranked[j].score
	})
	for i, r := range ranked {
		candidates[i] = r.cand
	}

	res := Result{
		ID:              e.newID(),
		Grinder:         g,
		TargetMicrons:   req.TargetMicrons,
		SettingFormat:   string(req.ScaleFormat),
		GrindCategory:   e.classifier.Classify(req.TargetMicrons),
		MatchingMethods: candidates,
	}

	if req.Scale != nil {
		if setting, err := req.Scale.MicronsToSetting(req.TargetMicrons); err == nil {
			rendered := setting.String()
			res.CalculatedSetting = &rendered
		}
	}
	return res, nil
}

// collect gathers persisted methods whose micron range contains the target.
func (e *Engine) collect(req Request) []Candidate {
	var out []Candidate
	for _, m := range req.Methods {
		if m.StartMicrons == nil || m.EndMicrons == nil {
			continue
		}
		if req.TargetMicrons < *m.StartMicrons || req.TargetMicrons > *m.EndMicrons {
			continue
		}
		out = append(out, Candidate{
			MethodName:    m.MethodName,
			StartMicrons:  m.StartMicrons,
			EndMicrons:    m.EndMicrons,
			StartSetting:  m.StartSetting,
			EndSetting:    m.EndSetting,
			SettingFormat: m.SettingFormat,
			GrindCategory: m.GrindCategory,
		})
	}
	return out
}

// synthesize builds fallback candidates from the standard brew-method table
// for ranges containing the target, deriving setting bounds from the
// grinder's scale when available.
func (e *Engine) synthesize(req Request) []Candidate {
	var out []Candidate
	for _, std := range e.ref.StandardMethods {
		if req.TargetMicrons < std.MinMicrons || req.TargetMicrons > std.MaxMicrons {
			continue
		}
		lo, hi := std.MinMicrons, std.MaxMicrons
		c := Candidate{
			MethodName:    std.Name,
			StartMicrons:  &lo,
			EndMicrons:    &hi,
			SettingFormat: string(dial.FormatSimple),
			GrindCategory: std.GrindCategory,
		}
		if req.Scale != nil {
			c.SettingFormat = string(req.ScaleFormat)
			if s, err := req.Scale.MicronsToSetting(lo); err == nil {
				rendered := s.String()
				c.StartSetting = &rendered
			}
			if s, err := req.Scale.MicronsToSetting(hi); err == nil {
				rendered := s.String()
				c.EndSetting = &rendered
			}
		}
		out = append(out, c)
	}
	return out
}

func filterByName(candidates []Candidate, filter string) []Candidate {
	if filter == "" {
		return candidates
	}
	needle := strings.ToLower(filter)
	var out []Candidate
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c.MethodName), needle) {
			out = append(out, c)
		}
	}
	return out
}
