package sweep

import (
	"errors"
	"fmt"

	"github.com/AnkushinDaniil/lambertdecay/entity/axis"
	"github.com/AnkushinDaniil/lambertdecay/entity/parameters"
)

var (
	ErrConfig = errors.New("invalid sweep configuration")
	// ErrPartial is returned together with a grid when ContinueOnError let
	// some cells fail.
	ErrPartial = errors.New("sweep finished with failed cells")
)

// CellError attributes a model or fit failure to one mesh cell. Z[Row][Col]
// sits at (X, Y).
type CellError struct {
	Row, Col     int
	XAxis, YAxis axis.Axis
	X, Y         float64
	Params       parameters.Parameters
	Err          error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("cell [%d][%d] %s=%g %s=%g: %v",
		e.Row, e.Col, e.XAxis, e.X, e.YAxis, e.Y, e.Err)
}

func (e *CellError) Unwrap() error {
	return e.Err
}
