package format

import "fmt"

type Format int8

const (
	HTML Format = iota
	Png
	Csv
)

func UnmarshalText(text string) (Format, error) {
	switch text {
	case "html":
		return HTML, nil
	case "png":
		return Png, nil
	case "csv":
		return Csv, nil
	default:
		return 0, fmt.Errorf("invalid format: %q", text)
	}
}

// Ext returns the file extension for the format, including the dot.
func (f Format) Ext() string {
	switch f {
	case Png:
		return ".png"
	case Csv:
		return ".csv"
	default:
		return ".html"
	}
}

func (f Format) String() string {
	return f.Ext()[1:]
}
