package patterns

import "testing"

func TestMicronRangePhrases(t *testing.T) {
	cases := []struct {
		text   string
		lo, hi float64
	}{
		{"This grinder goes from 400 microns to 1400 microns easily.", 400, 1400},
		{"It spans from 200 to 1100 microns.", 200, 1100},
		{"with a range of 250 to 950 microns overall", 250, 950},
		{"somewhere between 300 and 1200 microns", 300, 1200},
		{"between a range of 0 – 1090 microns", 0, 1090},
		{"a range of 0 – 1090 microns", 0, 1090},
		{"grinds at 150 – 850 microns", 150, 850},
		{"grinds at 150-850 microns", 150, 850},
		{"Grinds between 300 AND 1200 Microns.", 300, 1200},
	}
	for _, c := range cases {
		lo, hi, ok := MicronRange(c.text)
		if !ok {
			t.Errorf("MicronRange(%q): no match", c.text)
			continue
		}
		if lo != c.lo || hi != c.hi {
			t.Errorf("MicronRange(%q) = (%g, %g), want (%g, %g)", c.text, lo, hi, c.lo, c.hi)
		}
	}
}

func TestMicronRangeNoMatch(t *testing.T) {
	for _, text := range []string{
		"",
		"no numbers here",
		"400 to 1400",
		"the burr is 40mm across",
	} {
		if _, _, ok := MicronRange(text); ok {
			t.Errorf("MicronRange(%q): unexpected match", text)
		}
	}
}

// A phrase pattern and a bare dash pair in the same block: the phrase pattern
// sits earlier in priority order, so its captures win.
func TestMicronRangePriority(t *testing.T) {
	text := "It covers 100 – 200 microns at first, but really goes from 400 microns to 1400 microns."
	lo, hi, ok := MicronRange(text)
	if !ok {
		t.Fatal("no match")
	}
	if lo != 400 || hi != 1400 {
		t.Errorf("got (%g, %g), want the phrase capture (400, 1400)", lo, hi)
	}
}

func TestSettingRangeSimple(t *testing.T) {
	start, end, compound, ok := SettingRange("5 – 20")
	if !ok || compound {
		t.Fatalf("SettingRange: ok=%v compound=%v", ok, compound)
	}
	if start != "5" || end != "20" {
		t.Errorf("got (%q, %q), want (5, 20)", start, end)
	}
}

func TestSettingRangeCompound(t *testing.T) {
	cases := []struct {
		text       string
		start, end string
	}{
		{"0.7.4 – 1.2.0", "0.7.4", "1.2.0"},
		{"0.7.4-1.2.0", "0.7.4", "1.2.0"},
		{"3.5 – 7.2", "3.5", "7.2"},
		{"0.7.4 – 1.2", "0.7.4", "1.2"},
	}
	for _, c := range cases {
		start, end, compound, ok := SettingRange(c.text)
		if !ok || !compound {
			t.Errorf("SettingRange(%q): ok=%v compound=%v", c.text, ok, compound)
			continue
		}
		if start != c.start || end != c.end {
			t.Errorf("SettingRange(%q) = (%q, %q), want (%q, %q)", c.text, start, end, c.start, c.end)
		}
	}
}

func TestSettingRangeNoMatch(t *testing.T) {
	if _, _, _, ok := SettingRange("adjust to taste"); ok {
		t.Error("unexpected match on prose")
	}
}
