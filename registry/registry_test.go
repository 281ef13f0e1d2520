package registry

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/itemgen/errors"
	"github.com/teranos/itemgen/typetag"
)

func decl(name string, kind Kind, goType string, typ typetag.Type) Decl {
	return Decl{Name: name, Kind: kind, Type: typ, GoType: goType}
}

var (
	u32    = typetag.Named{Name: "uint32"}
	str    = typetag.Named{Name: "string"}
	unit   = typetag.Tuple{}
	ptrArr = typetag.Array{Elem: typetag.Pointer{Elem: typetag.Named{Name: "uint8"}}, Len: "3"}
)

func mixedDecls() []Decl {
	return []Decl{
		decl("A", Const, "uint32", u32),
		decl("Greeting", Var, "string", str),
		decl("B", Const, "uint32", u32),
		decl("Empty", Const, "struct{}", unit),
		decl("Ptrs", Var, "[3]*uint8", ptrArr),
	}
}

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestBuild_Split(t *testing.T) {
	reg, err := Build(mixedDecls(), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, ShapeSplit, reg.Shape)
	assert.Equal(t, []string{"A", "B", "Empty"}, names(reg.Consts))
	assert.Equal(t, []string{"Greeting", "Ptrs"}, names(reg.Statics))
	assert.Empty(t, reg.Items)
	assert.Equal(t, 5, reg.Len())

	assert.Equal(t, []Variant{
		{Tag: "Uint32", Payload: "uint32", Kind: Const},
		{Tag: "String", Payload: "*string", Kind: Var},
		{Tag: "Unit", Payload: "struct{}", Kind: Const},
		{Tag: "Uint8Ptr_3", Payload: "*[3]*uint8", Kind: Var},
	}, reg.Variants)
	assert.Empty(t, reg.Collisions)
}

func TestBuild_Combined(t *testing.T) {
	opts := DefaultOptions()
	opts.Tables = ShapeCombined

	reg, err := Build(mixedDecls(), opts)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "Greeting", "B", "Empty", "Ptrs"}, names(reg.Items))
	assert.Empty(t, reg.Consts)
	assert.Empty(t, reg.Statics)
	assert.Equal(t, 5, reg.Len())
}

func TestBuild_PartitionIsComplete(t *testing.T) {
	decls := mixedDecls()
	reg, err := Build(decls, DefaultOptions())
	require.NoError(t, err)

	seen := map[string]int{}
	for _, e := range reg.Consts {
		assert.Equal(t, Const, e.Kind)
		seen[e.Name]++
	}
	for _, e := range reg.Statics {
		assert.Equal(t, Var, e.Kind)
		seen[e.Name]++
	}
	require.Len(t, seen, len(decls))
	for _, d := range decls {
		assert.Equal(t, 1, seen[d.Name], "%s must appear exactly once", d.Name)
	}
}

func TestBuild_Accessor(t *testing.T) {
	t.Run("default name", func(t *testing.T) {
		reg, err := Build(mixedDecls(), DefaultOptions())
		require.NoError(t, err)
		require.NotNil(t, reg.Accessor)
		assert.Equal(t, "iter", reg.Accessor.Name)
		assert.Equal(t, []string{"A", "Greeting", "B", "Empty", "Ptrs"}, names(reg.Accessor.Refs))
	})

	t.Run("custom name", func(t *testing.T) {
		opts := DefaultOptions()
		opts.AccessorName = "lookup"
		reg, err := Build(mixedDecls(), opts)
		require.NoError(t, err)
		assert.Equal(t, "lookup", reg.Accessor.Name)
	})

	t.Run("empty name falls back", func(t *testing.T) {
		reg, err := Build(mixedDecls(), Options{Accessor: true})
		require.NoError(t, err)
		assert.Equal(t, DefaultAccessorName, reg.Accessor.Name)
		assert.Equal(t, ShapeSplit, reg.Shape)
	})

	t.Run("disabled", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Accessor = false
		reg, err := Build(mixedDecls(), opts)
		require.NoError(t, err)
		assert.Nil(t, reg.Accessor)
	})
}

func TestBuild_Deterministic(t *testing.T) {
	first, err := Build(mixedDecls(), DefaultOptions())
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := Build(mixedDecls(), DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestBuild_RenameKeepsTags(t *testing.T) {
	decls := mixedDecls()
	before, err := Build(decls, DefaultOptions())
	require.NoError(t, err)

	renamed := mixedDecls()
	for i := range renamed {
		renamed[i].Name = "Renamed" + renamed[i].Name
	}
	after, err := Build(renamed, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, before.Variants, after.Variants)
	for i := range before.Consts {
		assert.Equal(t, before.Consts[i].Tag, after.Consts[i].Tag)
	}
}

func TestBuild_Empty(t *testing.T) {
	reg, err := Build(nil, DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, reg.Variants)
	assert.Empty(t, reg.Consts)
	assert.Empty(t, reg.Statics)
	assert.Equal(t, 0, reg.Len())
	require.NotNil(t, reg.Accessor)
	assert.Empty(t, reg.Accessor.Refs)
}

func TestBuild_Collisions(t *testing.T) {
	point := typetag.Named{Qualifier: "geo", Name: "Point"}
	other := typetag.Named{Qualifier: "draw", Name: "Point"}

	t.Run("same payload is not a collision", func(t *testing.T) {
		reg, err := Build([]Decl{
			decl("A", Const, "uint32", u32),
			decl("B", Const, "uint32", u32),
		}, Options{Strict: true})
		require.NoError(t, err)
		assert.Len(t, reg.Variants, 1)
		assert.Empty(t, reg.Collisions)
	})

	t.Run("last writer wins at first position", func(t *testing.T) {
		reg, err := Build([]Decl{
			decl("Origin", Var, "geo.Point", point),
			decl("Name", Var, "string", str),
			decl("Cursor", Var, "draw.Point", other),
		}, DefaultOptions())
		require.NoError(t, err)

		require.Len(t, reg.Variants, 2)
		assert.Equal(t, Variant{Tag: "Point", Payload: "*draw.Point", Kind: Var}, reg.Variants[0])
		assert.Equal(t, "String", reg.Variants[1].Tag)

		require.Len(t, reg.Collisions, 1)
		c := reg.Collisions[0]
		assert.Equal(t, "Point", c.Tag)
		assert.Equal(t, "Cursor", c.Name)
		assert.Equal(t, "*geo.Point", c.Previous.Payload)
		assert.Equal(t, "*draw.Point", c.Current.Payload)
	})

	t.Run("const and var of one type collide on kind", func(t *testing.T) {
		reg, err := Build([]Decl{
			decl("Max", Const, "uint32", u32),
			decl("Counter", Var, "uint32", u32),
		}, DefaultOptions())
		require.NoError(t, err)
		require.Len(t, reg.Variants, 1)
		assert.Equal(t, Variant{Tag: "Uint32", Payload: "*uint32", Kind: Var}, reg.Variants[0])
		require.Len(t, reg.Collisions, 1)
		c := reg.Collisions[0]
		assert.Equal(t, "Counter", c.Name)
		assert.Equal(t, Variant{Tag: "Uint32", Payload: "uint32", Kind: Const}, c.Previous)

		opts := DefaultOptions()
		opts.Strict = true
		_, err = Build([]Decl{
			decl("Max", Const, "uint32", u32),
			decl("Counter", Var, "uint32", u32),
		}, opts)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrTagCollision))
		assert.Contains(t, err.Error(), `var Counter derives tag "Uint32"`)
	})

	t.Run("strict rejects", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Strict = true
		reg, err := Build([]Decl{
			decl("Origin", Var, "geo.Point", point),
			decl("Cursor", Var, "draw.Point", other),
		}, opts)
		require.Error(t, err)
		assert.Nil(t, reg)
		assert.True(t, errors.Is(err, errors.ErrTagCollision))
		assert.Contains(t, err.Error(), "Cursor")
		assert.NotEmpty(t, errors.GetAllHints(err))
	})
}

func TestBuild_RejectsWholeInput(t *testing.T) {
	decls := mixedDecls()
	decls = append(decls, Decl{
		Name: "Broken",
		Kind: Var,
		Pos:  token.Position{Filename: "colors.go", Line: 12, Column: 5},
	})

	reg, err := Build(decls, DefaultOptions())
	require.Error(t, err)
	assert.Nil(t, reg)
	assert.True(t, errors.IsUnsupportedType(err))
	assert.Contains(t, err.Error(), "var Broken")
	assert.Contains(t, errors.FlattenDetails(err), "colors.go:12:5")
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{name: "defaults", opts: DefaultOptions()},
		{name: "zero value", opts: Options{}},
		{name: "combined", opts: Options{Tables: ShapeCombined}},
		{name: "unknown shape", opts: Options{Tables: "grid"}, wantErr: true},
		{name: "bad accessor name", opts: Options{AccessorName: "my iter"}, wantErr: true},
		{name: "keyword accessor name", opts: Options{AccessorName: "func"}, wantErr: true},
		{name: "table name", opts: Options{AccessorName: "consts"}, wantErr: true},
		{name: "union name", opts: Options{AccessorName: "item"}, wantErr: true},
		{name: "exported entry name", opts: Options{AccessorName: "ItemEntry"}, wantErr: true},
		{name: "prefixed name", opts: Options{AccessorName: "itemsOf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "const", Const.String())
	assert.Equal(t, "var", Var.String())
	assert.Equal(t, "unknown", Kind(7).String())
}
