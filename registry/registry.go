// Package registry folds classified declarations into the tables itemgen
// emits: the variant set of the item union, the name/value tables and the
// lookup accessor.
//
// Build is the only entry point. It is a pure function of its input: the
// same declarations in the same order always produce an identical Registry.
package registry

import (
	"go/token"

	"github.com/teranos/itemgen/errors"
	"github.com/teranos/itemgen/typetag"
)

// Kind is the mutability category of a declaration.
type Kind int

const (
	// Const is a named compile-time value (a Go const)
	Const Kind = iota
	// Var is a named storage location with program lifetime (a Go var)
	Var
)

func (k Kind) String() string {
	switch k {
	case Const:
		return "const"
	case Var:
		return "var"
	default:
		return "unknown"
	}
}

// Decl is one eligible top-level declaration.
type Decl struct {
	Name string
	Kind Kind
	// Type is the declared type, for tag derivation
	Type typetag.Type
	// GoType is the declared type as Go source
	GoType string
	Pos    token.Position
}

// Payload returns the Go type stored in the declaration's variant:
// the declared type for a Const, a pointer to it for a Var.
func (d Decl) Payload() string {
	if d.Kind == Var {
		return "*" + d.GoType
	}
	return d.GoType
}

// Variant is one case of the generated union.
type Variant struct {
	Tag     string
	Payload string
	Kind    Kind
}

// Entry is one row of a table: a declaration name and the variant that
// wraps its value.
type Entry struct {
	Name string
	Tag  string
	Kind Kind
}

// Accessor describes the generated lookup function.
type Accessor struct {
	Name string
	// Refs lists every eligible declaration in source order
	Refs []Entry
}

// Collision records a tag derived by two declarations whose payloads
// differ. The later one won.
type Collision struct {
	Tag      string
	Name     string
	Previous Variant
	Current  Variant
}

// Registry is the result of Build.
type Registry struct {
	Shape Shape

	// Variants is ordered by first occurrence of each tag.
	Variants []Variant

	// Consts and Statics are set for ShapeSplit, Items for ShapeCombined.
	Consts  []Entry
	Statics []Entry
	Items   []Entry

	// Accessor is nil when disabled.
	Accessor *Accessor

	// Collisions lists overwritten variants in the order they happened.
	Collisions []Collision
}

// Len returns the number of declarations in the registry.
func (r *Registry) Len() int {
	if r.Shape == ShapeCombined {
		return len(r.Items)
	}
	return len(r.Consts) + len(r.Statics)
}

// Variant returns the variant with the given tag.
func (r *Registry) Variant(tag string) (Variant, bool) {
	for _, v := range r.Variants {
		if v.Tag == tag {
			return v, true
		}
	}
	return Variant{}, false
}

// Build derives a tag for every declaration and folds the results.
//
// Variants are keyed by tag. When two declarations derive the same tag the
// later one overwrites the variant's payload and kind, keeping the
// position of the first (last writer wins). With Options.Strict a
// collision whose payload or kind differs fails the build with
// errors.ErrTagCollision.
//
// Any failure aborts the whole build. No partial Registry is returned.
func Build(decls []Decl, opts Options) (*Registry, error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	tags := make([]string, len(decls))
	for i, d := range decls {
		tag, err := typetag.Derive(d.Type)
		if err != nil {
			return nil, errors.Wrapf(withPosition(err, d.Pos), "%s %s", d.Kind, d.Name)
		}
		tags[i] = tag
	}

	reg := &Registry{Shape: opts.Tables}

	index := make(map[string]int)
	for i, d := range decls {
		v := Variant{Tag: tags[i], Payload: d.Payload(), Kind: d.Kind}
		pos, seen := index[v.Tag]
		if !seen {
			index[v.Tag] = len(reg.Variants)
			reg.Variants = append(reg.Variants, v)
			continue
		}
		prev := reg.Variants[pos]
		if prev != v {
			if opts.Strict {
				err := errors.Mark(
					errors.Newf("%s: %s %s derives tag %q already used by payload %s",
						d.Pos, d.Kind, d.Name, v.Tag, prev.Payload),
					errors.ErrTagCollision)
				return nil, errors.WithHint(err, "rename one of the types or disable strict mode")
			}
			reg.Collisions = append(reg.Collisions, Collision{
				Tag: v.Tag, Name: d.Name, Previous: prev, Current: v,
			})
		}
		reg.Variants[pos] = v
	}

	for i, d := range decls {
		e := Entry{Name: d.Name, Tag: tags[i], Kind: d.Kind}
		switch {
		case opts.Tables == ShapeCombined:
			reg.Items = append(reg.Items, e)
		case d.Kind == Const:
			reg.Consts = append(reg.Consts, e)
		default:
			reg.Statics = append(reg.Statics, e)
		}
	}

	if opts.Accessor {
		acc := &Accessor{Name: opts.AccessorName, Refs: make([]Entry, len(decls))}
		for i, d := range decls {
			acc.Refs[i] = Entry{Name: d.Name, Tag: tags[i], Kind: d.Kind}
		}
		reg.Accessor = acc
	}

	return reg, nil
}

func withPosition(err error, pos token.Position) error {
	if !pos.IsValid() {
		return err
	}
	return errors.WithDetailf(err, "declared at %s", pos)
}
