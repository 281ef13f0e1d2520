package typetag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/itemgen/errors"
)

func named(name string) Named { return Named{Name: name} }

func mustDerive(t *testing.T, typ Type) string {
	t.Helper()
	tag, err := Derive(typ)
	require.NoError(t, err)
	return tag
}

func TestDerive(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		want string
	}{
		{name: "builtin", typ: named("uint8"), want: "Uint8"},
		{name: "already upper", typ: named("Color"), want: "Color"},
		{name: "qualified keeps terminal segment", typ: Named{Qualifier: "time", Name: "Duration"}, want: "Duration"},
		{name: "unit tuple", typ: Tuple{}, want: "Unit"},
		{name: "tuple concatenates", typ: Tuple{Elems: []Type{named("int"), named("string")}}, want: "IntString"},
		{name: "immutable pointer", typ: Pointer{Elem: named("u8")}, want: "U8Ptr"},
		{name: "mutable pointer", typ: Pointer{Elem: named("u8"), Mutable: true}, want: "U8MutPtr"},
		{name: "reference", typ: Reference{Elem: named("str")}, want: "StrRef"},
		{name: "slice", typ: Slice{Elem: named("byte")}, want: "ByteSlice"},
		{name: "never", typ: Never{}, want: "Never"},
		{name: "map", typ: Map{Key: named("string"), Value: named("int")}, want: "StringIntMap"},
		{
			name: "array of 3 pointers to uint8",
			typ:  Array{Elem: Pointer{Elem: named("uint8")}, Len: "3"},
			want: "Uint8Ptr_3",
		},
		{
			name: "array with named constant length",
			typ:  Array{Elem: named("int"), Len: "Size"},
			want: "Int_Size",
		},
		{
			name: "array with expression length",
			typ:  Array{Elem: named("int"), Len: "N + 1"},
			want: "Int_N_1",
		},
		{
			name: "reference to unit",
			typ:  Reference{Elem: Tuple{}},
			want: "UnitRef",
		},
		{
			name: "nested composite",
			typ: Slice{Elem: Tuple{Elems: []Type{
				Array{Elem: named("byte"), Len: "4"},
				Pointer{Elem: Named{Qualifier: "geo", Name: "Point"}},
			}}},
			want: "Byte_4PointPtrSlice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Derive(tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDerive_Deterministic(t *testing.T) {
	build := func() Type {
		return Map{
			Key:   named("string"),
			Value: Slice{Elem: Array{Elem: Pointer{Elem: named("uint8")}, Len: "3"}},
		}
	}

	first := mustDerive(t, build())
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, mustDerive(t, build()))
	}
}

func TestDerive_DeepNesting(t *testing.T) {
	var typ Type = named("int")
	for i := 0; i < 500; i++ {
		typ = Pointer{Elem: typ}
	}

	tag, err := Derive(typ)
	require.NoError(t, err)
	assert.Equal(t, "Int"+strings.Repeat("Ptr", 500), tag)
}

func TestDerive_FirstRuneUpperCased(t *testing.T) {
	tag := mustDerive(t, Tuple{Elems: []Type{named("éclair")}})
	assert.Equal(t, "Éclair", tag)
}

func TestDerive_Rejects(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
	}{
		{name: "nil", typ: nil},
		{name: "unnamed", typ: Named{}},
		{name: "array without length", typ: Array{Elem: named("int")}},
		{name: "nested nil", typ: Slice{Elem: Pointer{}}},
		{name: "pointer form", typ: &Named{Name: "int"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, err := Derive(tt.typ)
			require.Error(t, err)
			assert.Empty(t, tag)
			assert.True(t, errors.IsUnsupportedType(err))

			var ute *UnsupportedTypeError
			assert.True(t, errors.As(err, &ute))
		})
	}
}

func TestString(t *testing.T) {
	typ := Map{
		Key: Named{Qualifier: "time", Name: "Duration"},
		Value: Tuple{Elems: []Type{
			Array{Elem: Pointer{Elem: named("u8"), Mutable: true}, Len: "3"},
			Reference{Elem: Never{}},
		}},
	}
	assert.Equal(t, "map[time.Duration]struct{[3]*mut u8; &!}", String(typ))
}
