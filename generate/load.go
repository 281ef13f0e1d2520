package generate

import (
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/teranos/itemgen/config"
	"github.com/teranos/itemgen/errors"
)

const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedSyntax | packages.NeedImports

// Load resolves patterns relative to dir into packages with syntax.
// Each package must be free of list and parse errors.
func Load(dir string, patterns ...string) ([]*packages.Package, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	cfg := &packages.Config{
		Mode: loadMode,
		Dir:  dir,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Mark(
			errors.Wrapf(err, "failed to load %s", strings.Join(patterns, " ")),
			errors.ErrInvalidTarget)
	}
	if len(pkgs) == 0 {
		return nil, errors.NewInvalidTargetError("no packages found for %s", strings.Join(patterns, " "))
	}

	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			msgs := make([]string, len(pkg.Errors))
			for i, e := range pkg.Errors {
				msgs[i] = e.Error()
			}
			return nil, errors.NewInvalidTargetError("package %s: %s", pkg.PkgPath, strings.Join(msgs, "; "))
		}
		if len(pkg.Syntax) == 0 {
			return nil, errors.WithHint(
				errors.NewInvalidTargetError("package %s has no Go files", pkg.PkgPath),
				"point itemgen at a package with Go source")
		}
	}

	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].PkgPath < pkgs[j].PkgPath })
	return pkgs, nil
}

// GenerateFromPackage loads the single package matching pattern and runs
// itemgen over it.
func GenerateFromPackage(pattern string, cfg *config.Config) (*Result, error) {
	pkgs, err := Load("", pattern)
	if err != nil {
		return nil, err
	}
	if len(pkgs) != 1 {
		return nil, errors.NewInvalidTargetError("pattern %s matches %d packages, want 1", pattern, len(pkgs))
	}
	return FromLoaded(pkgs[0], cfg)
}

// FromLoaded runs itemgen over an already loaded package.
func FromLoaded(pkg *packages.Package, cfg *config.Config) (*Result, error) {
	dir, err := pkgDir(pkg)
	if err != nil {
		return nil, err
	}

	res, err := generate(pkg.Fset, pkg.Syntax, dir, cfg, importNames(dir, pkg))
	if err != nil {
		return nil, errors.Wrapf(err, "%s", pkg.PkgPath)
	}
	res.PkgPath = pkg.PkgPath
	return res, nil
}

// TargetsFromLoaded runs every target of an already loaded package, see
// TargetsFromFiles.
func TargetsFromLoaded(pkg *packages.Package, cfg *config.Config) ([]*Result, error) {
	dir, err := pkgDir(pkg)
	if err != nil {
		return nil, err
	}

	results, err := targets(pkg.Fset, pkg.Syntax, dir, cfg, importNames(dir, pkg))
	if err != nil {
		return nil, errors.Wrapf(err, "%s", pkg.PkgPath)
	}
	for _, res := range results {
		res.PkgPath = pkg.PkgPath
	}
	return results, nil
}

func pkgDir(pkg *packages.Package) (string, error) {
	if len(pkg.GoFiles) == 0 {
		return "", errors.NewInvalidTargetError("package %s has no Go files", pkg.PkgPath)
	}
	return filepath.Dir(pkg.GoFiles[0]), nil
}

// importNames returns a lookup from import path to package name for the
// direct imports of pkg. Names are listed lazily, once, on first use.
func importNames(dir string, pkg *packages.Package) func(string) (string, bool) {
	var names map[string]string
	return func(path string) (string, bool) {
		if names == nil {
			names = listNames(dir, pkg)
		}
		name, ok := names[path]
		return name, ok
	}
}

func listNames(dir string, pkg *packages.Package) map[string]string {
	names := map[string]string{}
	paths := make([]string, 0, len(pkg.Imports))
	for path, imp := range pkg.Imports {
		if imp.Name != "" {
			names[path] = imp.Name
			continue
		}
		paths = append(paths, path)
	}
	if len(paths) == 0 {
		return names
	}
	sort.Strings(paths)

	deps, err := packages.Load(&packages.Config{Mode: packages.NeedName, Dir: dir}, paths...)
	if err != nil {
		return names
	}
	for _, d := range deps {
		if d.Name != "" {
			names[d.PkgPath] = d.Name
		}
	}
	return names
}
