package typetag

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/teranos/itemgen/errors"
	"github.com/teranos/itemgen/internal/util"
)

// Fixed tags and suffixes. This is the whole naming table.
const (
	unitTag      = "Unit"
	neverTag     = "Never"
	mutPtrSuffix = "MutPtr"
	ptrSuffix    = "Ptr"
	refSuffix    = "Ref"
	sliceSuffix  = "Slice"
	mapSuffix    = "Map"
	arraySep     = "_"
)

// Derive returns the tag of t.
//
//	Named           terminal name, first rune upper-cased   uint8 -> Uint8
//	Array[T; N]     Tag(T) + "_" + N                        [3]T  -> T_3
//	Tuple[]         "Unit"
//	Tuple[T1..Tn]   Tag(T1) + ... + Tag(Tn)
//	Pointer(T)      Tag(T) + "Ptr", or + "MutPtr" when mutable
//	Reference(T)    Tag(T) + "Ref"
//	Slice(T)        Tag(T) + "Slice"
//	Never           "Never"
//	Map(K, V)       Tag(K) + Tag(V) + "Map"
//
// The first rune of the result is always upper-cased. Array lengths are
// embedded as written: a named constant length yields its name, and an
// expression yields its text with blanks removed and non-identifier runes
// replaced by "_". Changing such a length changes the tag.
func Derive(t Type) (string, error) {
	tag, err := derive(t)
	if err != nil {
		return "", err
	}
	return util.UpperFirst(tag), nil
}

func derive(t Type) (string, error) {
	switch t := t.(type) {
	case Named:
		if t.Name == "" {
			return "", unsupported(String(t), "named type without a name")
		}
		return util.UpperFirst(t.Name), nil

	case Array:
		elem, err := derive(t.Elem)
		if err != nil {
			return "", err
		}
		length := lengthText(t.Len)
		if length == "" {
			return "", unsupported(String(t), "array without a length")
		}
		return elem + arraySep + length, nil

	case Tuple:
		if len(t.Elems) == 0 {
			return unitTag, nil
		}
		var sb strings.Builder
		for _, e := range t.Elems {
			tag, err := derive(e)
			if err != nil {
				return "", err
			}
			sb.WriteString(tag)
		}
		return sb.String(), nil

	case Pointer:
		elem, err := derive(t.Elem)
		if err != nil {
			return "", err
		}
		if t.Mutable {
			return elem + mutPtrSuffix, nil
		}
		return elem + ptrSuffix, nil

	case Reference:
		elem, err := derive(t.Elem)
		if err != nil {
			return "", err
		}
		return elem + refSuffix, nil

	case Slice:
		elem, err := derive(t.Elem)
		if err != nil {
			return "", err
		}
		return elem + sliceSuffix, nil

	case Never:
		return neverTag, nil

	case Map:
		key, err := derive(t.Key)
		if err != nil {
			return "", err
		}
		val, err := derive(t.Value)
		if err != nil {
			return "", err
		}
		return key + val + mapSuffix, nil

	case nil:
		return "", unsupported("", "missing type")

	default:
		return "", unsupported(fmt.Sprintf("%T", t), "unknown type form")
	}
}

// lengthText turns an array length expression into identifier-safe text.
func lengthText(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
		case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
		default:
			sb.WriteString(arraySep)
		}
	}
	return sb.String()
}

// UnsupportedTypeError reports a type outside the grammar. It matches
// errors.ErrUnsupportedType.
type UnsupportedTypeError struct {
	// Expr is the textual rendering of the offending type
	Expr string
	// Reason says which rule rejected it
	Reason string
}

func (e *UnsupportedTypeError) Error() string {
	if e.Expr == "" {
		return "unsupported type: " + e.Reason
	}
	return fmt.Sprintf("unsupported type %s: %s", e.Expr, e.Reason)
}

// Is reports whether target is errors.ErrUnsupportedType.
func (e *UnsupportedTypeError) Is(target error) bool {
	return target == errors.ErrUnsupportedType
}

func unsupported(expr, reason string) error {
	return errors.Mark(&UnsupportedTypeError{Expr: expr, Reason: reason}, errors.ErrUnsupportedType)
}
