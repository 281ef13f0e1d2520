// Package testing holds helpers shared by itemgen's tests.
package testing

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// ParseSource parses in-memory Go files, keyed by file name, in file name
// order (the order go list reports them).
func ParseSource(t *testing.T, files map[string]string) (*token.FileSet, []*ast.File) {
	t.Helper()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	fset := token.NewFileSet()
	parsed := make([]*ast.File, 0, len(names))
	for _, name := range names {
		f, err := parser.ParseFile(fset, name, files[name], parser.ParseComments)
		if err != nil {
			t.Fatalf("Failed to parse %s: %v", name, err)
		}
		parsed = append(parsed, f)
	}
	return fset, parsed
}

// TypeCheck type-checks the given files as one package and fails the test
// on any error. Standard library imports are resolved from source.
func TypeCheck(t *testing.T, files map[string]string) *types.Package {
	t.Helper()

	fset, parsed := ParseSource(t, files)

	var errs []error
	conf := types.Config{
		Importer: importer.ForCompiler(fset, "source", nil),
		Error:    func(err error) { errs = append(errs, err) },
	}
	pkg, _ := conf.Check(parsed[0].Name.Name, fset, parsed, nil)
	for _, err := range errs {
		t.Errorf("type error: %v", err)
	}
	if len(errs) > 0 {
		t.FailNow()
	}
	return pkg
}

// WritePackage writes files into a fresh module under t.TempDir and
// returns the package directory. The module is named example.com/fixture.
func WritePackage(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	gomod := "module example.com/fixture\n\ngo 1.23\n"
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte(gomod), 0o644); err != nil {
		t.Fatalf("Failed to write go.mod: %v", err)
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("Failed to create %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return dir
}
