package mode

import "fmt"

// Regime selects which closed-form solution of the rate equations is used.
type Regime uint8

const (
	// General includes the reflectance-dependent feedback coupling.
	General Regime = iota
	// Inversion is the population-inversion regime with a direct coupling alpha.
	Inversion
)

func UnmarshalText(text string) (Regime, error) {
	switch text {
	case "g", "general":
		return General, nil
	case "i", "inversion":
		return Inversion, nil
	default:
		return 0, fmt.Errorf("invalid regime: %q", text)
	}
}

func (r Regime) String() string {
	switch r {
	case General:
		return "general"
	case Inversion:
		return "inversion"
	default:
		return fmt.Sprintf("Regime(%d)", uint8(r))
	}
}
