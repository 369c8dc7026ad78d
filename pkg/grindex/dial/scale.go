package dial

import (
	"fmt"
	"math"
	"strconv"

	"github.com/brewkit/grindex/pkg/grindex/internalerr"
)

// Scale is a grinder's calibration: the dial's setting range mapped onto its
// physical micron range. Both conversions are linear interpolations over the
// setting's numeric encoding.
//
// Rounding rule, fixed for both directions: setting→micron floors the
// interpolated value; micron→setting rounds half away from zero.
type Scale struct {
	MinSetting Setting
	MaxSetting Setting
	MinMicrons float64
	MaxMicrons float64

	// ClicksPerNumber is only consulted for compound settings; zero means
	// the default of 10.
	ClicksPerNumber int
}

func (sc Scale) clicksPerNumber() int {
	if sc.ClicksPerNumber > 0 {
		return sc.ClicksPerNumber
	}
	return 10
}

// encode maps a setting onto the linear integer axis used for interpolation.
func (sc Scale) encode(s Setting) (int, error) {
	if s.format == FormatCompound {
		return EncodeCompound(s.compound, sc.clicksPerNumber())
	}
	return s.simple, nil
}

// SettingToMicrons converts a dial position to a particle size. The setting
// must use the same encoding as the scale's bounds; a zero or inverted
// setting range yields ErrInvalidRange.
func (sc Scale) SettingToMicrons(s Setting) (float64, error) {
	val, err := sc.encode(s)
	if err != nil {
		return 0, err
	}
	lo, err := sc.encode(sc.MinSetting)
	if err != nil {
		return 0, err
	}
	hi, err := sc.encode(sc.MaxSetting)
	if err != nil {
		return 0, err
	}

	span := hi - lo
	if span <= 0 {
		return 0, fmt.Errorf("%w: settings %s to %s", internalerr.ErrInvalidRange, sc.MinSetting, sc.MaxSetting)
	}

	ratio := float64(val-lo) / float64(span)
	return math.Floor(sc.MinMicrons + ratio*(sc.MaxMicrons-sc.MinMicrons)), nil
}

// MicronsToSetting converts a particle size back to a dial position in the
// encoding of the scale's bounds. A zero or inverted micron range yields
// ErrInvalidRange; compound bounds of differing shapes yield
// ErrShapeMismatch.
func (sc Scale) MicronsToSetting(microns float64) (Setting, error) {
	micronSpan := sc.MaxMicrons - sc.MinMicrons
	if micronSpan <= 0 {
		return Setting{}, fmt.Errorf("%w: microns %g to %g", internalerr.ErrInvalidRange, sc.MinMicrons, sc.MaxMicrons)
	}
	ratio := (microns - sc.MinMicrons) / micronSpan

	lo, err := sc.encode(sc.MinSetting)
	if err != nil {
		return Setting{}, err
	}
	hi, err := sc.encode(sc.MaxSetting)
	if err != nil {
		return Setting{}, err
	}
	if hi-lo <= 0 {
		return Setting{}, fmt.Errorf("%w: settings %s to %s", internalerr.ErrInvalidRange, sc.MinSetting, sc.MaxSetting)
	}
	target := lo + int(math.Round(ratio*float64(hi-lo)))

	if sc.MinSetting.format != FormatCompound {
		return Simple(target), nil
	}

	// The output shape follows the shape of the bounds, which must agree.
	minSegs, err := compoundSegments(sc.MinSetting.compound)
	if err != nil {
		return Setting{}, err
	}
	maxSegs, err := compoundSegments(sc.MaxSetting.compound)
	if err != nil {
		return Setting{}, err
	}
	if minSegs != maxSegs {
		return Setting{}, fmt.Errorf("%w: bounds %s and %s", internalerr.ErrShapeMismatch, sc.MinSetting, sc.MaxSetting)
	}

	decoded, err := DecodeCompound(target, sc.clicksPerNumber(), minSegs)
	if err != nil {
		return Setting{}, err
	}
	return Compound(decoded), nil
}

// MethodRange is one brew method's raw setting range, input to InferScale.
type MethodRange struct {
	Start  string
	End    string
	Format Format
}

// InferScale derives a grinder's overall setting range from its brew-method
// rows. Simple-format rows contribute by ordinary numeric comparison. If any
// row is compound, the grinder's dominant format becomes compound and the
// bounds are instead the literal strings whose total-clicks encodings are
// minimal and maximal, first-seen winning ties.
func InferScale(methods []MethodRange, clicksPerNumber int) (minSetting, maxSetting Setting, format Format, ok bool) {
	var (
		haveSimple       bool
		simpleMin        int
		simpleMax        int
		compoundSettings []string
	)

	for _, m := range methods {
		switch m.Format {
		case FormatSimple:
			start, err1 := strconv.Atoi(m.Start)
			end, err2 := strconv.Atoi(m.End)
			if err1 != nil || err2 != nil {
				continue
			}
			if !haveSimple {
				simpleMin, simpleMax = start, end
				haveSimple = true
				continue
			}
			if start < simpleMin {
				simpleMin = start
			}
			if end > simpleMax {
				simpleMax = end
			}
		case FormatCompound:
			compoundSettings = append(compoundSettings, m.Start, m.End)
		}
	}

	if len(compoundSettings) > 0 {
		if clicksPerNumber <= 0 {
			clicksPerNumber = 10
		}
		var (
			minStr, maxStr string
			minVal, maxVal int
			found          bool
		)
		for _, s := range compoundSettings {
			val, err := EncodeCompound(s, clicksPerNumber)
			if err != nil {
				continue
			}
			if !found {
				minStr, maxStr = s, s
				minVal, maxVal = val, val
				found = true
				continue
			}
			if val < minVal {
				minStr, minVal = s, val
			}
			if val > maxVal {
				maxStr, maxVal = s, val
			}
		}
		if !found {
			return Setting{}, Setting{}, FormatCompound, false
		}
		return Compound(minStr), Compound(maxStr), FormatCompound, true
	}

	if !haveSimple {
		return Setting{}, Setting{}, FormatSimple, false
	}
	return Simple(simpleMin), Simple(simpleMax), FormatSimple, true
}
