package recommend

import (
	"errors"
	"math"
	"testing"

	"github.com/brewkit/grindex/pkg/grindex/dial"
	"github.com/brewkit/grindex/pkg/grindex/internalerr"
	"github.com/brewkit/grindex/pkg/grindex/refdata"
	"github.com/brewkit/grindex/pkg/grindex/store"
)

func fp(v float64) *float64 { return &v }

func TestClassify(t *testing.T) {
	c := NewClassifier(refdata.Default().Categories)

	cases := []struct {
		microns float64
		want    string
	}{
		{0, "Extra Fine"},
		{199, "Extra Fine"},
		{200, "Fine"}, // boundaries are inclusive-low
		{750, "Medium"},
		{850, "Medium Coarse"},
		{1399, "Extra Coarse"},
		{1400, "Extra Coarse"}, // above the table clamps to the last bucket
		{9000, "Extra Coarse"},
		{-5, "Extra Fine"}, // below the table clamps to the first bucket
	}
	for _, c2 := range cases {
		if got := c.Classify(c2.microns); got != c2.want {
			t.Errorf("Classify(%g) = %q, want %q", c2.microns, got, c2.want)
		}
	}
}

func TestClassifyEmptyTable(t *testing.T) {
	c := NewClassifier(nil)
	if got := c.Classify(500); got != "Unknown" {
		t.Errorf("Classify with no categories = %q", got)
	}
}

// A centered target must always beat an edge target over the same range width.
func TestFitScoreCenteredBeatsEdge(t *testing.T) {
	centered := FitScore(500, 400, 600, "pour over") // target exactly at midpoint
	edge := FitScore(405, 400, 600, "pour over")     // target near the low edge
	if centered >= edge {
		t.Errorf("centered %g should score below edge %g", centered, edge)
	}
}

func TestFitScoreEdgePenalty(t *testing.T) {
	inner := FitScore(450, 400, 600, "cupping")
	atEdge := FitScore(419, 400, 600, "cupping") // inside the first 10%
	if atEdge-inner < 0.2-0.001 {
		t.Errorf("edge penalty missing: inner=%g edge=%g", inner, atEdge)
	}
}

func TestFitScoreSpecialtyBonus(t *testing.T) {
	plain := FitScore(500, 400, 600, "cupping")
	v60 := FitScore(500, 400, 600, "V60 pour")
	if plain-v60 < 0.3-0.001 {
		t.Errorf("v60 bonus missing: plain=%g v60=%g", plain, v60)
	}

	// Outside the specialty window there is no bonus.
	outside := FitScore(600, 500, 700, "V60 pour")
	plainOutside := FitScore(600, 500, 700, "cupping")
	if outside != plainOutside {
		t.Errorf("bonus applied outside window: %g vs %g", outside, plainOutside)
	}
}

func TestFitScoreDegenerateRange(t *testing.T) {
	if !math.IsInf(FitScore(500, 600, 600, "x"), 1) {
		t.Error("zero range must be unrankable")
	}
	if !math.IsInf(FitScore(500, 700, 600, "x"), 1) {
		t.Error("inverted range must be unrankable")
	}
}

func testGrinder() store.Grinder {
	return store.Grinder{
		ID:         1,
		Name:       "Baratza Encore",
		MinMicrons: fp(300),
		MaxMicrons: fp(1200),
	}
}

func testScale() *dial.Scale {
	return &dial.Scale{
		MinSetting: dial.Simple(5),
		MaxSetting: dial.Simple(20),
		MinMicrons: 300,
		MaxMicrons: 1200,
	}
}

func TestRecommendOutOfRange(t *testing.T) {
	eng := New(refdata.Default())

	_, err := eng.Recommend(Request{
		Grinder:       testGrinder(),
		TargetMicrons: 2000,
	})
	if !errors.Is(err, internalerr.ErrOutOfRange) {
		t.Fatalf("err = %v, want ErrOutOfRange", err)
	}
	var qerr *QueryError
	if !errors.As(err, &qerr) {
		t.Fatal("error should carry query details")
	}
	if qerr.Grinder != "Baratza Encore" || qerr.TargetMicrons != 2000 {
		t.Errorf("query error fields: %+v", qerr)
	}
}

func TestRecommendRanksPersistedMethods(t *testing.T) {
	eng := New(refdata.Default())

	methods := []store.BrewMethod{
		{MethodName: "Edge Fit", StartMicrons: fp(740), EndMicrons: fp(940), SettingFormat: "simple"},
		{MethodName: "Centered Fit", StartMicrons: fp(650), EndMicrons: fp(850), SettingFormat: "simple"},
		{MethodName: "No Overlap", StartMicrons: fp(100), EndMicrons: fp(200), SettingFormat: "simple"},
	}

	res, err := eng.Recommend(Request{
		Grinder:       testGrinder(),
		Methods:       methods,
		Scale:         testScale(),
		ScaleFormat:   dial.FormatSimple,
		TargetMicrons: 750,
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(res.MatchingMethods) != 2 {
		t.Fatalf("got %d candidates: %+v", len(res.MatchingMethods), res.MatchingMethods)
	}
	if res.MatchingMethods[0].MethodName != "Centered Fit" {
		t.Errorf("best candidate = %q, want the centered range", res.MatchingMethods[0].MethodName)
	}

	if res.CalculatedSetting == nil || *res.CalculatedSetting != "13" {
		t.Errorf("calculated setting = %v, want 13", res.CalculatedSetting)
	}
	if res.GrindCategory != "Medium" {
		t.Errorf("category = %q, want Medium", res.GrindCategory)
	}
	if res.ID == "" {
		t.Error("result should carry an id")
	}
}

// With no persisted coverage, candidates come from the standard table with
// settings derived from the grinder's scale.
func TestRecommendSynthesizesFromStandards(t *testing.T) {
	eng := New(refdata.Default())

	res, err := eng.Recommend(Request{
		Grinder:       testGrinder(),
		Scale:         testScale(),
		ScaleFormat:   dial.FormatSimple,
		TargetMicrons: 750,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.MatchingMethods) == 0 {
		t.Fatal("no synthesized candidates")
	}
	for _, c := range res.MatchingMethods {
		if *c.StartMicrons > 750 || *c.EndMicrons < 750 {
			t.Errorf("candidate %q does not cover the target: %g-%g", c.MethodName, *c.StartMicrons, *c.EndMicrons)
		}
		if c.StartSetting == nil || c.EndSetting == nil {
			t.Errorf("candidate %q missing derived settings", c.MethodName)
		}
	}
}

func TestRecommendMethodFilter(t *testing.T) {
	eng := New(refdata.Default())

	methods := []store.BrewMethod{
		{MethodName: "French Press", StartMicrons: fp(690), EndMicrons: fp(1300), SettingFormat: "simple"},
		{MethodName: "Cupping", StartMicrons: fp(460), EndMicrons: fp(850), SettingFormat: "simple"},
	}

	res, err := eng.Recommend(Request{
		Grinder:       testGrinder(),
		Methods:       methods,
		TargetMicrons: 750,
		MethodFilter:  "french",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.MatchingMethods) != 1 || res.MatchingMethods[0].MethodName != "French Press" {
		t.Errorf("filter result: %+v", res.MatchingMethods)
	}
}

// Equal scores keep collection order.
func TestRecommendStableTies(t *testing.T) {
	eng := New(refdata.Default())

	methods := []store.BrewMethod{
		{MethodName: "First", StartMicrons: fp(650), EndMicrons: fp(850), SettingFormat: "simple"},
		{MethodName: "Second", StartMicrons: fp(650), EndMicrons: fp(850), SettingFormat: "simple"},
	}

	res, err := eng.Recommend(Request{
		Grinder:       testGrinder(),
		Methods:       methods,
		TargetMicrons: 750,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.MatchingMethods[0].MethodName != "First" || res.MatchingMethods[1].MethodName != "Second" {
		t.Errorf("tie order changed: %+v", res.MatchingMethods)
	}
}

func TestRecommendUnknownRangeSkipsBoundsCheck(t *testing.T) {
	eng := New(refdata.Default())

	g := store.Grinder{ID: 2, Name: "Mystery"}
	res, err := eng.Recommend(Request{Grinder: g, TargetMicrons: 5000})
	if err != nil {
		t.Fatalf("unknown range must not reject: %v", err)
	}
	if res.GrindCategory != "Extra Coarse" {
		t.Errorf("category = %q", res.GrindCategory)
	}
}
