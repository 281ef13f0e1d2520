package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/itemgen/errors"
	itesting "github.com/teranos/itemgen/internal/testing"
)

func TestParseDirective(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Directive
		wantErr bool
	}{
		{name: "empty", line: "//itemgen:module", want: Directive{}},
		{name: "single", line: "//itemgen:module name=lookup", want: Directive{"name": "lookup"}},
		{
			name: "several with bare flag",
			line: "//itemgen:module name=lookup tables=combined strict",
			want: Directive{"name": "lookup", "tables": "combined", "strict": "true"},
		},
		{
			name: "quoted value",
			line: `//itemgen:module exclude="debug verbose" name='iter'`,
			want: Directive{"exclude": "debug verbose", "name": "iter"},
		},
		{name: "tab separated", line: "//itemgen:module\tname=x", want: Directive{"name": "x"}},
		{name: "other tool", line: "//itemgen:modules name=x", wantErr: true},
		{name: "not a directive", line: "// itemgen:module name=x", wantErr: true},
		{name: "unterminated quote", line: `//itemgen:module name="x`, wantErr: true},
		{name: "missing key", line: "//itemgen:module =x", wantErr: true},
		{name: "duplicate key", line: "//itemgen:module name=a name=b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDirective(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileDirective(t *testing.T) {
	t.Run("ignores comments after package clause", func(t *testing.T) {
		fset, files := itesting.ParseSource(t, map[string]string{
			"p.go": "// Package p does things.\n//itemgen:module name=a\npackage p\n\n//itemgen:module name=b\nconst A int = 1\n",
		})
		d, err := FileDirective(fset, files[0])
		require.NoError(t, err)
		assert.Equal(t, Directive{"name": "a"}, d)
	})

	t.Run("conflicting lines", func(t *testing.T) {
		fset, files := itesting.ParseSource(t, map[string]string{
			"p.go": "//itemgen:module name=a\n//itemgen:module name=b\npackage p\n",
		})
		_, err := FileDirective(fset, files[0])
		require.Error(t, err)
		assert.True(t, errors.IsInvalidTarget(err))
	})

	t.Run("malformed line reports position", func(t *testing.T) {
		fset, files := itesting.ParseSource(t, map[string]string{
			"p.go": "//itemgen:module name=\"a\npackage p\n",
		})
		_, err := FileDirective(fset, files[0])
		require.Error(t, err)
		assert.True(t, errors.IsInvalidTarget(err))
		assert.Contains(t, err.Error(), "p.go:1:1")
	})
}

func TestDirective_Merge(t *testing.T) {
	d := Directive{"name": "a"}
	require.NoError(t, d.Merge(Directive{"name": "a", "strict": "true"}))
	assert.Equal(t, []string{"name", "strict"}, d.Keys())

	err := d.Merge(Directive{"strict": "false"})
	assert.True(t, errors.IsInvalidTarget(err))
}
