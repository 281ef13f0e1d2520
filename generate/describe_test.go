package generate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/itemgen/config"
	itesting "github.com/teranos/itemgen/internal/testing"
)

func TestDescribe(t *testing.T) {
	fset, files := itesting.ParseSource(t, map[string]string{"a.go": `package p

type Level int

const Debug Level = 0

var Hosts []string

func helper() {}
`})

	res, err := GenerateFromFiles(fset, files, "/tmp/p", config.Default())
	require.NoError(t, err)

	d := Describe(res)
	assert.Equal(t, "p", d.Package)
	assert.Equal(t, "split", d.Shape)
	assert.Equal(t, "iter", d.Accessor)
	assert.Equal(t, 2, d.Skipped)
	assert.Equal(t, []DescribedVariant{
		{Type: "itemLevel", Tag: "Level", Payload: "Level"},
		{Type: "itemStringSlice", Tag: "StringSlice", Payload: "*[]string"},
	}, d.Variants)
	require.Len(t, d.Decls, 2)
	assert.Equal(t, DescribedDecl{Name: "Hosts", Kind: "var", Type: "[]string", Tag: "StringSlice", Pos: "a.go:7:5"}, d.Decls[1])
	assert.Empty(t, d.Collisions)

	for _, format := range []string{config.FormatTOML, config.FormatYAML, config.FormatJSON} {
		out, err := d.Marshal(format)
		require.NoError(t, err, format)
		assert.Contains(t, string(out), "StringSlice", format)
	}

	_, err = d.Marshal("xml")
	assert.Error(t, err)
}
