// Package source classifies the top-level declarations of a Go package.
//
// Collect walks parsed files in order and keeps every const and var with a
// declared type. Funcs, types, imports, blank names and excluded names are
// skipped. A const or var whose type is missing or outside the typetag
// grammar rejects the whole package.
package source

import (
	"bytes"
	"go/ast"
	"go/format"
	"go/token"
	"slices"

	"github.com/teranos/itemgen/errors"
	"github.com/teranos/itemgen/registry"
	"github.com/teranos/itemgen/typetag"
)

// Options control Collect.
type Options struct {
	// Exclude lists declaration names to skip
	Exclude []string

	// ImportName returns the package name of an import path when known.
	// Without it the name is guessed from the path.
	ImportName func(path string) (string, bool)
}

// Module is the classified content of one target.
type Module struct {
	// Package is the package name shared by all files
	Package string
	// Decls holds the eligible declarations in source order
	Decls []registry.Decl
	// Imports the payload types need, sorted by path
	Imports []Import
	// Directive merges the itemgen:module directives found
	Directive Directive
	// Files lists the files that were read, skipped generated ones excluded
	Files []string
	// Skipped counts ineligible top-level names that were passed over
	Skipped int
}

// Collect classifies the declarations of files. Files carrying a
// "Code generated ... DO NOT EDIT." header are ignored so a previous run's
// output never feeds back in.
func Collect(fset *token.FileSet, files []*ast.File, opts Options) (*Module, error) {
	if len(files) == 0 {
		return nil, errors.NewInvalidTargetError("no Go files to read")
	}

	directive, err := PackageDirective(fset, files)
	if err != nil {
		return nil, err
	}

	c := &collector{
		fset:    fset,
		opts:    opts,
		imports: newImportSet(opts.ImportName),
		mod:     &Module{Directive: directive},
	}

	for _, file := range files {
		if file == nil {
			continue
		}
		if ast.IsGenerated(file) {
			continue
		}
		if err := c.file(file); err != nil {
			return nil, err
		}
	}

	if len(c.mod.Files) == 0 {
		return nil, errors.NewInvalidTargetError("no hand-written Go files to read")
	}

	c.mod.Imports = c.imports.list()
	return c.mod, nil
}

type collector struct {
	fset    *token.FileSet
	opts    Options
	imports *importSet
	mod     *Module
}

func (c *collector) file(file *ast.File) error {
	pos := c.fset.Position(file.Package)
	name := file.Name.Name
	switch {
	case c.mod.Package == "":
		c.mod.Package = name
	case c.mod.Package != name:
		return errors.NewInvalidTargetError("%s: package %s, expected %s", pos, name, c.mod.Package)
	}
	c.mod.Files = append(c.mod.Files, pos.Filename)

	for _, d := range file.Decls {
		gen, ok := d.(*ast.GenDecl)
		if !ok {
			c.mod.Skipped++
			continue
		}
		switch gen.Tok {
		case token.CONST:
			if err := c.constGroup(file, gen); err != nil {
				return err
			}
		case token.VAR:
			if err := c.varGroup(file, gen); err != nil {
				return err
			}
		default:
			c.mod.Skipped += len(gen.Specs)
		}
	}
	return nil
}

// constGroup handles a const block. A spec with neither type nor values
// repeats the previous spec's type (implicit iota repetition).
func (c *collector) constGroup(file *ast.File, gen *ast.GenDecl) error {
	var current ast.Expr
	for _, spec := range gen.Specs {
		vs := spec.(*ast.ValueSpec)
		typ := vs.Type
		switch {
		case typ != nil:
			current = typ
		case len(vs.Values) == 0:
			typ = current
		default:
			current = nil
		}
		if err := c.values(file, registry.Const, vs, typ); err != nil {
			return err
		}
	}
	return nil
}

func (c *collector) varGroup(file *ast.File, gen *ast.GenDecl) error {
	for _, spec := range gen.Specs {
		vs := spec.(*ast.ValueSpec)
		if err := c.values(file, registry.Var, vs, vs.Type); err != nil {
			return err
		}
	}
	return nil
}

func (c *collector) values(file *ast.File, kind registry.Kind, vs *ast.ValueSpec, typ ast.Expr) error {
	var (
		parsed typetag.Type
		goType string
		done   bool
	)
	for _, ident := range vs.Names {
		if ident.Name == "_" || slices.Contains(c.opts.Exclude, ident.Name) {
			c.mod.Skipped++
			continue
		}
		pos := c.fset.Position(ident.Pos())

		if !done {
			var err error
			parsed, err = typetag.FromExpr(typ)
			if err != nil {
				err = errors.Wrapf(err, "%s: %s %s", pos, kind, ident.Name)
				return errors.WithHint(err, "declare an explicit supported type, or list the name in exclude")
			}
			goType, err = render(c.fset, typ)
			if err != nil {
				return errors.Wrapf(err, "%s: rendering type of %s", pos, ident.Name)
			}
			if err := c.imports.use(file, typ); err != nil {
				return errors.Wrapf(err, "%s: %s %s", pos, kind, ident.Name)
			}
			done = true
		}

		c.mod.Decls = append(c.mod.Decls, registry.Decl{
			Name:   ident.Name,
			Kind:   kind,
			Type:   parsed,
			GoType: goType,
			Pos:    pos,
		})
	}
	return nil
}

// render prints a type expression as Go source, struct tags included.
func render(fset *token.FileSet, expr ast.Expr) (string, error) {
	var buf bytes.Buffer
	if err := format.Node(&buf, fset, expr); err != nil {
		return "", err
	}
	return buf.String(), nil
}
