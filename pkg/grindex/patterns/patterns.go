// Package patterns holds the fixed catalogue of regular expressions used to
// pull micron ranges and dial-setting ranges out of page text.
package patterns

import (
	"regexp"
	"strconv"
)

// micronPatterns are tried in this fixed priority order; the first pattern
// that matches within a text block wins and scanning of that block stops.
var micronPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\s*microns?\s*to\s*(\d+)\s*microns?`),                   // "400 microns to 1400 microns"
	regexp.MustCompile(`(?i)from\s*(\d+)\s*to\s*(\d+)\s*microns?`),                      // "from 400 to 1400 microns"
	regexp.MustCompile(`(?i)range\s*of\s*(\d+)\s*to\s*(\d+)\s*microns?`),                // "range of 400 to 1400 microns"
	regexp.MustCompile(`(?i)between\s*(\d+)\s*and\s*(\d+)\s*microns?`),                  // "between 400 and 1400 microns"
	regexp.MustCompile(`(?i)between\s*a\s*range\s*of\s*(\d+)\s*[–-]\s*(\d+)\s*microns?`), // "between a range of 0 – 1090 microns"
	regexp.MustCompile(`(?i)range\s*of\s*(\d+)\s*[–-]\s*(\d+)\s*microns?`),              // "range of 0 – 1090 microns"
	regexp.MustCompile(`(?i)(\d+)\s*[–-]\s*(\d+)\s*microns?`),                           // "0 – 1090 microns"
}

// Setting-range patterns. The compound forms are tried before the simple
// integer pair: a compound range like "0.7.4 – 1.2.0" would otherwise be
// chewed up digit-by-digit by the simple pattern.
var (
	compoundThreePart = regexp.MustCompile(`(\d+\.\d+\.\d+)\s*[–-]\s*(\d+\.\d+\.\d+)`)
	compoundMixed     = regexp.MustCompile(`(\d+\.\d+\.\d+|\d+\.\d+)\s*[–-]\s*(\d+\.\d+\.\d+|\d+\.\d+)`)
	simplePair        = regexp.MustCompile(`(\d+)\s*[–-]\s*(\d+)`)
)

// MicronRange extracts a (min, max) micron pair from one block of text.
// Patterns are applied in priority order; the first match wins.
func MicronRange(text string) (min, max float64, ok bool) {
	for _, re := range micronPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		lo, err1 := strconv.Atoi(m[1])
		hi, err2 := strconv.Atoi(m[2])
		if err1 != nil || err2 != nil {
			continue
		}
		return float64(lo), float64(hi), true
	}
	return 0, 0, false
}

// SettingRange extracts a dial-setting range from one table cell's text.
// Compound patterns (rotations.numbers.clicks, rotations.clicks) are tried
// first, then the simple integer pair. The returned strings are the raw
// captures; compound reports which encoding matched.
func SettingRange(text string) (start, end string, compound, ok bool) {
	if m := compoundThreePart.FindStringSubmatch(text); m != nil {
		return m[1], m[2], true, true
	}
	if m := compoundMixed.FindStringSubmatch(text); m != nil {
		return m[1], m[2], true, true
	}
	if m := simplePair.FindStringSubmatch(text); m != nil {
		return m[1], m[2], false, true
	}
	return "", "", false, false
}
