package typetag

import (
	"go/ast"
	"go/parser"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/itemgen/errors"
)

func parseType(t *testing.T, src string) ast.Expr {
	t.Helper()
	expr, err := parser.ParseExpr(src)
	require.NoError(t, err, "parse %q", src)
	return expr
}

func TestFromExpr(t *testing.T) {
	tests := []struct {
		src     string
		want    Type
		wantTag string
	}{
		{src: "uint8", want: Named{Name: "uint8"}, wantTag: "Uint8"},
		{src: "time.Duration", want: Named{Qualifier: "time", Name: "Duration"}, wantTag: "Duration"},
		{src: "(int)", want: Named{Name: "int"}, wantTag: "Int"},
		{src: "error", want: Named{Name: "error"}, wantTag: "Error"},
		{src: "[]error", want: Slice{Elem: Named{Name: "error"}}, wantTag: "ErrorSlice"},
		{src: "*Color", want: Pointer{Elem: Named{Name: "Color"}}, wantTag: "ColorPtr"},
		{src: "[]string", want: Slice{Elem: Named{Name: "string"}}, wantTag: "StringSlice"},
		{
			src:     "[3]*uint8",
			want:    Array{Elem: Pointer{Elem: Named{Name: "uint8"}}, Len: "3"},
			wantTag: "Uint8Ptr_3",
		},
		{src: "[Size]byte", want: Array{Elem: Named{Name: "byte"}, Len: "Size"}, wantTag: "Byte_Size"},
		{src: "[N+1]int", want: Array{Elem: Named{Name: "int"}, Len: "N + 1"}, wantTag: "Int_N_1"},
		{src: "[0x10]int", want: Array{Elem: Named{Name: "int"}, Len: "0x10"}, wantTag: "Int_0x10"},
		{src: "struct{}", want: Tuple{}, wantTag: "Unit"},
		{
			src:     "struct{ X, Y int; Label string }",
			want:    Tuple{Elems: []Type{Named{Name: "int"}, Named{Name: "int"}, Named{Name: "string"}}},
			wantTag: "IntIntString",
		},
		{
			src:     "struct{ geo.Point; *Extra }",
			want:    Tuple{Elems: []Type{Named{Qualifier: "geo", Name: "Point"}, Pointer{Elem: Named{Name: "Extra"}}}},
			wantTag: "PointExtraPtr",
		},
		{
			src:     "map[string][]time.Duration",
			want:    Map{Key: Named{Name: "string"}, Value: Slice{Elem: Named{Qualifier: "time", Name: "Duration"}}},
			wantTag: "StringDurationSliceMap",
		},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := FromExpr(parseType(t, tt.src))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantTag, mustDerive(t, got))
		})
	}
}

func TestFromExpr_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		expr   ast.Expr
		reason string
	}{
		{name: "inferred", expr: nil, reason: "inferred"},
		{name: "any", expr: parseType(t, "any"), reason: "interface"},
		{name: "interface literal", expr: parseType(t, "interface{ Read() }"), reason: "interface"},
		{name: "func", expr: parseType(t, "func(int) error"), reason: "func"},
		{name: "chan", expr: parseType(t, "chan int"), reason: "channel"},
		{name: "generic", expr: parseType(t, "List[int]"), reason: "generic"},
		{name: "generic two args", expr: parseType(t, "Pair[int, string]"), reason: "generic"},
		{name: "nested in slice", expr: parseType(t, "[]func()"), reason: "func"},
		{name: "nested in struct", expr: parseType(t, "struct{ F any }"), reason: "interface"},
		{
			name:   "inferred array length",
			expr:   &ast.ArrayType{Len: &ast.Ellipsis{}, Elt: ast.NewIdent("int")},
			reason: "inferred",
		},
		{name: "non-type expression", expr: parseType(t, `"text"`), reason: "not a type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromExpr(tt.expr)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.True(t, errors.Is(err, errors.ErrUnsupportedType))
			assert.Contains(t, err.Error(), tt.reason)
		})
	}
}

func TestFromExpr_ErrorCarriesRendering(t *testing.T) {
	_, err := FromExpr(parseType(t, "map[string]chan<- int"))
	require.Error(t, err)

	var ute *UnsupportedTypeError
	require.True(t, errors.As(err, &ute))
	assert.Equal(t, "chan<- int", ute.Expr)
}
