package axis

import "fmt"

// Axis is a physical parameter that a sweep can vary.
type Axis uint8

const (
	Reflectance Axis = iota
	InitialFraction
	Coupling
)

func UnmarshalText(text string) (Axis, error) {
	switch text {
	case "r", "reflectance":
		return Reflectance, nil
	case "n20", "initial_fraction":
		return InitialFraction, nil
	case "alpha", "coupling":
		return Coupling, nil
	default:
		return 0, fmt.Errorf("invalid axis: %q", text)
	}
}

func (a Axis) String() string {
	switch a {
	case Reflectance:
		return "reflectance"
	case InitialFraction:
		return "initial_fraction"
	case Coupling:
		return "coupling"
	default:
		return fmt.Sprintf("Axis(%d)", uint8(a))
	}
}

// Label is the human readable axis title used on charts.
func (a Axis) Label() string {
	switch a {
	case Reflectance:
		return "Reflectance (%)"
	case InitialFraction:
		return "N2(0)/N"
	case Coupling:
		return "Alpha"
	default:
		return a.String()
	}
}

// Scale converts a raw axis value to the unit shown in Label.
func (a Axis) Scale(v float64) float64 {
	if a == Reflectance {
		return v * 100
	}
	return v
}
