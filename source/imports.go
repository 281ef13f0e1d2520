package source

import (
	"go/ast"
	"path"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/teranos/itemgen/errors"
)

// Import is an import the generated file needs.
type Import struct {
	// Name is the explicit local name, empty when the path's own name is used
	Name string
	Path string
}

// String renders the import as it appears in an import block.
func (i Import) String() string {
	if i.Name == "" {
		return strconv.Quote(i.Path)
	}
	return i.Name + " " + strconv.Quote(i.Path)
}

type importSet struct {
	lookup func(string) (string, bool)
	// qualifier -> import
	byQual map[string]Import
}

func newImportSet(lookup func(string) (string, bool)) *importSet {
	return &importSet{lookup: lookup, byQual: map[string]Import{}}
}

// use records the imports referenced by qualifiers in expr, resolved
// against the imports of the declaring file.
func (s *importSet) use(file *ast.File, expr ast.Expr) error {
	var err error
	ast.Inspect(expr, func(n ast.Node) bool {
		if err != nil {
			return false
		}
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		pkg, ok := sel.X.(*ast.Ident)
		if !ok {
			return true
		}
		err = s.add(file, pkg.Name)
		return false
	})
	return err
}

func (s *importSet) add(file *ast.File, qual string) error {
	imp, ok := s.resolve(file, qual)
	if !ok {
		return errors.WithHint(
			errors.NewInvalidTargetError("qualifier %s does not match any import of %s", qual, file.Name.Name),
			"give the import an explicit name matching the qualifier")
	}
	if prev, seen := s.byQual[qual]; seen && prev.Path != imp.Path {
		return errors.NewInvalidTargetError("qualifier %s refers to both %q and %q", qual, prev.Path, imp.Path)
	}
	s.byQual[qual] = imp
	return nil
}

func (s *importSet) resolve(file *ast.File, qual string) (Import, bool) {
	for _, spec := range file.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		if spec.Name != nil {
			if spec.Name.Name == qual {
				return Import{Name: qual, Path: p}, true
			}
			continue
		}
		if s.packageName(p) == qual {
			return Import{Path: p}, true
		}
	}
	return Import{}, false
}

func (s *importSet) packageName(p string) string {
	if s.lookup != nil {
		if name, ok := s.lookup(p); ok {
			return name
		}
	}
	return assumedName(p)
}

func (s *importSet) list() []Import {
	out := make([]Import, 0, len(s.byQual))
	for _, imp := range s.byQual {
		out = append(out, imp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// assumedName guesses a package name from its import path the way
// goimports does: the last element, skipping a major version suffix,
// without a "go-" prefix, cut at the first non-identifier rune.
func assumedName(importPath string) string {
	base := path.Base(importPath)
	if strings.HasPrefix(base, "v") {
		if _, err := strconv.Atoi(base[1:]); err == nil {
			if dir := path.Dir(importPath); dir != "." {
				base = path.Base(dir)
			}
		}
	}
	base = strings.TrimPrefix(base, "go-")
	if i := strings.IndexFunc(base, func(r rune) bool {
		return r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}); i >= 0 {
		base = base[:i]
	}
	return base
}
