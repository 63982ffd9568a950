package format

import (
	"fmt"
	"io"

	"github.com/dhamidi/flatcss/css"
	"github.com/dhamidi/flatcss/flatten"
)

// Encoder writes a parsed stylesheet in one output format.
type Encoder interface {
	Encode(nodes []css.Node) error
}

// NewEncoder returns the encoder for name: "json", "nested" or "flat".
func NewEncoder(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "json":
		return NewASTJSONEncoder(w), nil
	case "nested":
		return NewCSSPrettyPrinter(w), nil
	case "flat":
		return NewFlatEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format %q", name)
}

// FlatEncoder writes the flattened stylesheet.
type FlatEncoder struct {
	w io.Writer
}

func NewFlatEncoder(w io.Writer) *FlatEncoder {
	return &FlatEncoder{w: w}
}

func (e *FlatEncoder) Encode(nodes []css.Node) error {
	_, err := io.WriteString(e.w, flatten.Join(flatten.Flatten(nodes, "")))
	return err
}
