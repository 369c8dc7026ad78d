// Package dial converts between grinder dial settings and particle sizes in
// microns. Settings come in two encodings: a plain integer ("simple") and a
// dotted rotation/number/click string ("compound") used by hand grinders
// with stepped adjustment rings.
package dial

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/brewkit/grindex/pkg/grindex/internalerr"
)

// Format identifies a setting encoding.
type Format string

const (
	FormatSimple   Format = "simple"
	FormatCompound Format = "compound"
)

// Setting is a dial position in one of the two encodings. The zero value is
// an empty simple setting; construct values with Simple, Compound or Parse.
type Setting struct {
	format   Format
	simple   int
	compound string
}

// Simple builds an integer-encoded setting.
func Simple(n int) Setting {
	return Setting{format: FormatSimple, simple: n}
}

// Compound builds a dotted-string setting such as "0.7.4" or "3.5".
func Compound(s string) Setting {
	return Setting{format: FormatCompound, compound: s}
}

// Parse reads a persisted setting string back into a Setting of the given
// format.
func Parse(s string, f Format) (Setting, error) {
	switch f {
	case FormatSimple:
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return Setting{}, fmt.Errorf("parse simple setting %q: %w", s, err)
		}
		return Simple(n), nil
	case FormatCompound:
		s = strings.TrimSpace(s)
		if _, err := compoundSegments(s); err != nil {
			return Setting{}, err
		}
		return Compound(s), nil
	default:
		return Setting{}, fmt.Errorf("unknown setting format %q", f)
	}
}

// Format returns the setting's encoding.
func (s Setting) Format() Format {
	return s.format
}

// String renders the setting in its persisted form: decimal digits for
// simple, the dotted string for compound.
func (s Setting) String() string {
	if s.format == FormatCompound {
		return s.compound
	}
	return strconv.Itoa(s.simple)
}

// compoundSegments returns 2 or 3 for a well-formed compound string.
func compoundSegments(s string) (int, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q has %d segments", internalerr.ErrShapeMismatch, s, len(parts))
	}
	for _, p := range parts {
		if _, err := strconv.Atoi(p); err != nil {
			return 0, fmt.Errorf("%w: segment %q is not numeric", internalerr.ErrShapeMismatch, p)
		}
	}
	return len(parts), nil
}

// EncodeCompound converts a compound setting string to its total-clicks
// integer. Three segments encode rotations.numbers.clicks; two segments
// encode rotations.clicks. clicksPerNumber is the per-model constant
// (10 for most grinders).
func EncodeCompound(s string, clicksPerNumber int) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	switch len(parts) {
	case 3:
		r, err1 := strconv.Atoi(parts[0])
		n, err2 := strconv.Atoi(parts[1])
		c, err3 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil || err3 != nil {
			return 0, fmt.Errorf("%w: cannot encode %q", internalerr.ErrShapeMismatch, s)
		}
		return r*10*clicksPerNumber + n*clicksPerNumber + c, nil
	case 2:
		r, err1 := strconv.Atoi(parts[0])
		c, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil {
			return 0, fmt.Errorf("%w: cannot encode %q", internalerr.ErrShapeMismatch, s)
		}
		return r*10*clicksPerNumber + c, nil
	default:
		return 0, fmt.Errorf("%w: %q has %d segments", internalerr.ErrShapeMismatch, s, len(parts))
	}
}

// DecodeCompound converts a total-clicks integer back into a compound string
// of the requested shape (2 or 3 segments).
func DecodeCompound(total, clicksPerNumber, segments int) (string, error) {
	if clicksPerNumber <= 0 {
		return "", fmt.Errorf("%w: clicks per number %d", internalerr.ErrInvalidRange, clicksPerNumber)
	}
	perRotation := 10 * clicksPerNumber
	switch segments {
	case 3:
		rotations := total / perRotation
		remaining := total % perRotation
		numbers := remaining / clicksPerNumber
		clicks := remaining % clicksPerNumber
		return fmt.Sprintf("%d.%d.%d", rotations, numbers, clicks), nil
	case 2:
		rotations := total / perRotation
		clicks := total % perRotation
		return fmt.Sprintf("%d.%d", rotations, clicks), nil
	default:
		return "", fmt.Errorf("%w: %d segments", internalerr.ErrShapeMismatch, segments)
	}
}
