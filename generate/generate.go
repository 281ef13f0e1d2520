// Package generate runs itemgen over Go packages.
//
// A run loads a package with golang.org/x/tools/go/packages, resolves the
// effective configuration from its directives, classifies the declarations,
// builds the registry and renders the output file. Nothing is written until
// every step succeeded.
package generate

import (
	"go/ast"
	"go/token"
	"path/filepath"

	"github.com/teranos/itemgen/config"
	"github.com/teranos/itemgen/emit"
	"github.com/teranos/itemgen/errors"
	"github.com/teranos/itemgen/logger"
	"github.com/teranos/itemgen/registry"
	"github.com/teranos/itemgen/source"
	"github.com/teranos/itemgen/version"
)

// Result holds the generated file for one target.
type Result struct {
	// Package is the Go package name
	Package string
	// PkgPath is the import path, empty for in-memory targets
	PkgPath string
	// Dir is the package directory
	Dir string
	// OutputPath is where the file belongs
	OutputPath string
	// Source is the formatted file content
	Source []byte

	Registry *registry.Registry
	Module   *source.Module
	// Config is the effective configuration, directives applied
	Config *config.Config
}

// GenerateFromFiles runs itemgen over parsed files of one package in dir.
func GenerateFromFiles(fset *token.FileSet, files []*ast.File, dir string, cfg *config.Config) (*Result, error) {
	return generate(fset, files, dir, cfg, nil)
}

// TargetsFromFiles runs every target of one package in dir: the package
// file for the files without a scope=file directive, then one file per
// file that has one. A package whose files all declare scope=file has no
// package file. With a target file or a scope flag set, it runs that one
// target like GenerateFromFiles.
func TargetsFromFiles(fset *token.FileSet, files []*ast.File, dir string, cfg *config.Config) ([]*Result, error) {
	return targets(fset, files, dir, cfg, nil)
}

func targets(fset *token.FileSet, files []*ast.File, dir string, cfg *config.Config, importName func(string) (string, bool)) ([]*Result, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if _, ok := cfg.Overrides[config.KeyScope]; ok || cfg.File != "" {
		res, err := generate(fset, files, dir, cfg, importName)
		if err != nil {
			return nil, err
		}
		return []*Result{res}, nil
	}

	scoped, err := FileTargets(fset, files)
	if err != nil {
		return nil, err
	}

	var results []*Result
	if len(scoped) == 0 || len(scoped) < countHandWritten(files) {
		res, err := generate(fset, files, dir, cfg, importName)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	for _, name := range scoped {
		fc := cfg.Clone()
		fc.File = name
		res, err := generate(fset, files, dir, fc, importName)
		if err != nil {
			return nil, errors.Wrapf(err, "%s", filepath.Base(name))
		}
		results = append(results, res)
	}
	return results, nil
}

func countHandWritten(files []*ast.File) int {
	n := 0
	for _, f := range files {
		if f != nil && !ast.IsGenerated(f) {
			n++
		}
	}
	return n
}

func generate(fset *token.FileSet, files []*ast.File, dir string, cfg *config.Config, importName func(string) (string, bool)) (*Result, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	all := files

	// A file-scoped target reads only its file and contributes only its
	// own directive. A package-scoped target leaves out every file that
	// asks for its own target.
	target, err := fileTarget(fset, files, cfg)
	if err != nil {
		return nil, err
	}
	switch {
	case target != nil:
		files = []*ast.File{target}
	case cfg.Overrides[config.KeyScope] == config.ScopePackage:
		// --scope package reads every file
	default:
		if files, err = packageFiles(fset, files); err != nil {
			return nil, err
		}
	}

	directive, err := source.PackageDirective(fset, files)
	if err != nil {
		return nil, err
	}
	eff, err := cfg.WithDirective(directive)
	if err != nil {
		return nil, err
	}
	if err := eff.CheckVersion(version.Get().Version); err != nil {
		return nil, err
	}

	if eff.Scope == config.ScopeFile && target == nil {
		f := findFile(fset, all, eff.File)
		if f == nil {
			return nil, errors.NewInvalidTargetError("file %s is not part of the package", filepath.Base(eff.File))
		}
		files = []*ast.File{f}
	}

	mod, err := source.Collect(fset, files, source.Options{
		Exclude:    eff.Exclude,
		ImportName: importName,
	})
	if err != nil {
		return nil, err
	}

	reg, err := registry.Build(mod.Decls, eff.RegistryOptions())
	if err != nil {
		return nil, err
	}

	log := logger.ForPackage(mod.Package)
	log.Debugw("Classified declarations",
		"files", len(mod.Files),
		logger.FieldDecls, len(mod.Decls),
		"skipped", mod.Skipped,
		logger.FieldVariants, len(reg.Variants),
		"shape", reg.Shape)
	for _, c := range reg.Collisions {
		log.Warnw("Type tag collision, last declaration wins",
			logger.FieldTag, c.Tag,
			logger.FieldName, c.Name,
			"previous", c.Previous.Payload,
			"current", c.Current.Payload)
	}

	out := eff.OutputName()
	spec := emit.FileSpec{
		Package:  mod.Package,
		Imports:  mod.Imports,
		Export:   eff.Export,
		Prefix:   eff.Prefix(),
		Filename: out,
	}
	if err := checkNames(fset, all, reg, spec); err != nil {
		return nil, err
	}
	src, err := emit.Render(reg, spec)
	if err != nil {
		return nil, errors.Wrapf(err, "rendering %s", out)
	}

	return &Result{
		Package:    mod.Package,
		Dir:        dir,
		OutputPath: filepath.Join(dir, out),
		Source:     src,
		Registry:   reg,
		Module:     mod,
		Config:     eff,
	}, nil
}

// fileTarget returns the file a file-scoped run reads, or nil for a
// package-scoped run. Flags decide over the file's own directive.
func fileTarget(fset *token.FileSet, files []*ast.File, cfg *config.Config) (*ast.File, error) {
	if cfg.File == "" {
		return nil, nil
	}
	f := findFile(fset, files, cfg.File)
	if f == nil {
		return nil, nil
	}
	fd, err := source.FileDirective(fset, f)
	if err != nil {
		return nil, err
	}
	scope := cfg.Scope
	if s, ok := fd[config.KeyScope]; ok {
		scope = s
	}
	if s, ok := cfg.Overrides[config.KeyScope]; ok {
		scope = s
	}
	if scope != config.ScopeFile {
		return nil, nil
	}
	return f, nil
}

// packageFiles drops the files that declare scope=file.
func packageFiles(fset *token.FileSet, files []*ast.File) ([]*ast.File, error) {
	var out []*ast.File
	for _, f := range files {
		scoped, err := isFileScoped(fset, f)
		if err != nil {
			return nil, err
		}
		if !scoped {
			out = append(out, f)
		}
	}
	if len(out) == 0 && len(files) > 0 {
		return nil, errors.WithHint(
			errors.NewInvalidTargetError("every file of the package declares scope=file"),
			"generate the files one at a time with --file, or run itemgen on the package path")
	}
	return out, nil
}

// FileTargets returns the names of the hand-written files that declare
// scope=file, in file order.
func FileTargets(fset *token.FileSet, files []*ast.File) ([]string, error) {
	var names []string
	for _, f := range files {
		scoped, err := isFileScoped(fset, f)
		if err != nil {
			return nil, err
		}
		if scoped {
			names = append(names, fset.Position(f.Package).Filename)
		}
	}
	return names, nil
}

func isFileScoped(fset *token.FileSet, f *ast.File) (bool, error) {
	if f == nil || ast.IsGenerated(f) {
		return false, nil
	}
	fd, err := source.FileDirective(fset, f)
	if err != nil {
		return false, err
	}
	return fd[config.KeyScope] == config.ScopeFile, nil
}

// checkNames rejects a target whose generated names are already declared
// in the package, by hand or by another generated file. The previous
// output of the same target does not count.
func checkNames(fset *token.FileSet, files []*ast.File, reg *registry.Registry, spec emit.FileSpec) error {
	var others []*ast.File
	for _, f := range files {
		if f != nil && filepath.Base(fset.Position(f.Package).Filename) != spec.Filename {
			others = append(others, f)
		}
	}
	declared := source.TopLevelNames(fset, others)
	for _, id := range emit.Identifiers(reg, spec) {
		if pos, ok := declared[id]; ok {
			return errors.WithHint(
				errors.NewInvalidTargetError("generated name %s is already declared at %s", id, pos),
				"rename the declaration, or choose another accessor name, scope or export setting")
		}
	}
	return nil
}

// findFile returns the file whose base name matches target.
func findFile(fset *token.FileSet, files []*ast.File, target string) *ast.File {
	base := filepath.Base(target)
	for _, f := range files {
		if f == nil {
			continue
		}
		if filepath.Base(fset.Position(f.Package).Filename) == base {
			return f
		}
	}
	return nil
}
