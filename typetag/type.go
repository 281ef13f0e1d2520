// Package typetag names declared types.
//
// A Type is a structural description of a declared type: named types,
// arrays, struct "tuples", pointers, references, slices, maps and the never
// type. Derive turns a Type into a short identifier (its tag) that itemgen
// uses as the name of a union variant.
//
// Tags are a pure function of structure: identical shapes always produce
// the same tag. The reverse does not hold. Two unrelated types that share a
// terminal name (geo.Point and draw.Point) both derive "Point". Callers that
// key on tags accept that collision.
//
// The grammar is closed. Only this package implements Type, and every form
// has exactly one row in the naming table in tag.go.
package typetag

import (
	"strings"
)

// Type is a structural type description.
type Type interface {
	isType()
}

// Named is a type referred to by name, e.g. uint8 or time.Duration.
type Named struct {
	// Qualifier is the package name of a qualified type ("time"), empty otherwise
	Qualifier string
	// Name is the terminal path segment ("Duration")
	Name string
}

// Array is a fixed-length array. Len is the length expression as source text.
type Array struct {
	Elem Type
	Len  string
}

// Tuple is an ordered list of element types. Go struct types map here,
// one element per field name.
type Tuple struct {
	Elems []Type
}

// Pointer is a raw pointer.
type Pointer struct {
	Elem    Type
	Mutable bool
}

// Reference is a stable reference to a program-lifetime location.
type Reference struct {
	Elem Type
}

// Slice is a dynamically sized view of elements.
type Slice struct {
	Elem Type
}

// Never is the type of computations that never produce a value.
type Never struct{}

// Map is a key/value map.
type Map struct {
	Key   Type
	Value Type
}

func (Named) isType()     {}
func (Array) isType()     {}
func (Tuple) isType()     {}
func (Pointer) isType()   {}
func (Reference) isType() {}
func (Slice) isType()     {}
func (Never) isType()     {}
func (Map) isType()       {}

// String renders t in a compact Go-like notation for messages and
// descriptions. It is not guaranteed to be valid Go.
func String(t Type) string {
	var sb strings.Builder
	writeType(&sb, t)
	return sb.String()
}

func writeType(sb *strings.Builder, t Type) {
	switch t := t.(type) {
	case Named:
		if t.Qualifier != "" {
			sb.WriteString(t.Qualifier)
			sb.WriteByte('.')
		}
		sb.WriteString(t.Name)
	case Array:
		sb.WriteByte('[')
		sb.WriteString(t.Len)
		sb.WriteByte(']')
		writeType(sb, t.Elem)
	case Tuple:
		sb.WriteString("struct{")
		for i, e := range t.Elems {
			if i > 0 {
				sb.WriteString("; ")
			}
			writeType(sb, e)
		}
		sb.WriteByte('}')
	case Pointer:
		if t.Mutable {
			sb.WriteString("*mut ")
		} else {
			sb.WriteByte('*')
		}
		writeType(sb, t.Elem)
	case Reference:
		sb.WriteByte('&')
		writeType(sb, t.Elem)
	case Slice:
		sb.WriteString("[]")
		writeType(sb, t.Elem)
	case Never:
		sb.WriteByte('!')
	case Map:
		sb.WriteString("map[")
		writeType(sb, t.Key)
		sb.WriteByte(']')
		writeType(sb, t.Value)
	case nil:
		sb.WriteString("<nil>")
	default:
		sb.WriteString("<unknown>")
	}
}
