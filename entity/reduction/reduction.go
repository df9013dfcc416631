package reduction

import "fmt"

// Reduction is the scalar a sweep stores per mesh cell.
type Reduction uint8

const (
	Lifetime Reduction = iota
	Amplitude
	Offset
	DecayTime
)

func UnmarshalText(text string) (Reduction, error) {
	switch text {
	case "lifetime", "tau":
		return Lifetime, nil
	case "amplitude", "a":
		return Amplitude, nil
	case "offset", "c":
		return Offset, nil
	case "decay_time", "decay":
		return DecayTime, nil
	default:
		return 0, fmt.Errorf("invalid reduction: %q", text)
	}
}

// IsFit reports whether the reduction is a component of a mono-exponential fit.
func (r Reduction) IsFit() bool {
	return r != DecayTime
}

func (r Reduction) String() string {
	switch r {
	case Lifetime:
		return "lifetime"
	case Amplitude:
		return "amplitude"
	case Offset:
		return "offset"
	case DecayTime:
		return "decay_time"
	default:
		return fmt.Sprintf("Reduction(%d)", uint8(r))
	}
}

// Label is the colour bar title used on charts.
func (r Reduction) Label() string {
	switch r {
	case Lifetime:
		return "Lifetime (ms)"
	case Amplitude:
		return "Amplitude (A.U.)"
	case Offset:
		return "Offset (A.U.)"
	case DecayTime:
		return "1/e decay time (ms)"
	default:
		return r.String()
	}
}
