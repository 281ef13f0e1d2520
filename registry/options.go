package registry

import (
	"go/token"
	"strings"

	"github.com/teranos/itemgen/errors"
)

// Shape selects how the tables are laid out.
type Shape string

const (
	// ShapeSplit emits one table of consts and one of vars
	ShapeSplit Shape = "split"
	// ShapeCombined emits a single table of both
	ShapeCombined Shape = "combined"
)

// DefaultAccessorName is the accessor name when none is configured.
const DefaultAccessorName = "iter"

// reserved are the identifiers a package-scope file declares besides the
// accessor, lower-cased.
var reserved = []string{"item", "itementry", "consts", "statics", "items"}

// Options control Build.
type Options struct {
	Tables       Shape
	Accessor     bool
	AccessorName string
	Strict       bool
}

// DefaultOptions returns split tables with the accessor named iter.
func DefaultOptions() Options {
	return Options{
		Tables:       ShapeSplit,
		Accessor:     true,
		AccessorName: DefaultAccessorName,
	}
}

func (o Options) withDefaults() Options {
	if o.Tables == "" {
		o.Tables = ShapeSplit
	}
	if o.AccessorName == "" {
		o.AccessorName = DefaultAccessorName
	}
	return o
}

// Validate reports options that cannot produce a valid file.
func (o Options) Validate() error {
	switch o.Tables {
	case ShapeSplit, ShapeCombined, "":
	default:
		return errors.Newf("unknown table shape %q (want %q or %q)", o.Tables, ShapeSplit, ShapeCombined)
	}
	if o.AccessorName != "" && !token.IsIdentifier(o.AccessorName) {
		return errors.WithHint(
			errors.Newf("accessor name %q is not a Go identifier", o.AccessorName),
			`use a plain name such as "iter" or "lookup"`)
	}
	for _, r := range reserved {
		if strings.EqualFold(o.AccessorName, r) {
			return errors.WithHint(
				errors.Newf("accessor name %q is reserved for the generated tables", o.AccessorName),
				`use a plain name such as "iter" or "lookup"`)
		}
	}
	return nil
}
