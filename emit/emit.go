// Package emit renders a registry as a Go source file.
//
// The file declares, in order: the item union and one struct per variant,
// the entry type, the tables and the lookup accessor. Output is formatted
// and byte-identical for identical input.
package emit

import (
	"bytes"
	"fmt"
	"go/token"
	"strings"
	"text/template"

	"golang.org/x/tools/imports"

	"github.com/teranos/itemgen/errors"
	"github.com/teranos/itemgen/internal/util"
	"github.com/teranos/itemgen/registry"
	"github.com/teranos/itemgen/source"
)

// Header is the first line of every generated file.
const Header = "// Code generated by itemgen. DO NOT EDIT."

// FileSpec describes the file around the registry.
type FileSpec struct {
	// Package is the package clause name
	Package string
	// Imports needed by payload types
	Imports []source.Import
	// Export selects exported names for the union, entry type and tables
	Export bool
	// Prefix starts every generated identifier but the accessor. Empty for
	// the package-wide file.
	Prefix string
	// Filename is used in formatter error messages only
	Filename string
}

// Names are the identifiers a file declares besides the accessor.
type Names struct {
	Item    string
	Entry   string
	Consts  string
	Statics string
	Items   string
}

// NamesFor returns the identifiers for the given prefix and visibility.
func NamesFor(prefix string, export bool) Names {
	name := func(s string) string {
		switch {
		case prefix != "" && export:
			return util.UpperFirst(prefix) + s
		case prefix != "":
			return util.LowerFirst(prefix) + s
		case export:
			return s
		}
		return util.LowerFirst(s)
	}
	return Names{
		Item:    name("Item"),
		Entry:   name("ItemEntry"),
		Consts:  name("Consts"),
		Statics: name("Statics"),
		Items:   name("Items"),
	}
}

// VariantType returns the struct type name of the variant with tag.
func (n Names) VariantType(tag string) string {
	return n.Item + tag
}

// Identifiers lists the top-level names the file for reg declares, in
// declaration order.
func Identifiers(reg *registry.Registry, file FileSpec) []string {
	names := NamesFor(file.Prefix, file.Export)
	ids := []string{names.Item}
	for _, v := range reg.Variants {
		ids = append(ids, names.VariantType(v.Tag))
	}
	ids = append(ids, names.Entry)
	if reg.Shape == registry.ShapeCombined {
		ids = append(ids, names.Items)
	} else {
		ids = append(ids, names.Consts, names.Statics)
	}
	if acc := reg.Accessor; acc != nil {
		refs, cp := accessorHelpers(acc.Name)
		ids = append(ids, refs, cp, acc.Name)
	}
	return ids
}

func accessorHelpers(name string) (refs, cp string) {
	base := util.LowerFirst(name)
	return base + "Refs", base + "Copy"
}

// Render returns the formatted Go source for reg.
func Render(reg *registry.Registry, file FileSpec) ([]byte, error) {
	if reg == nil {
		return nil, errors.AssertionFailedf("nil registry")
	}
	if !token.IsIdentifier(file.Package) {
		return nil, errors.NewInvalidTargetError("invalid package name %q", file.Package)
	}

	seen := make(map[string]bool)
	for _, id := range Identifiers(reg, file) {
		if seen[id] {
			return nil, errors.WithHint(
				errors.NewInvalidTargetError("generated name %s is declared twice", id),
				"choose another accessor name")
		}
		seen[id] = true
	}

	data, err := buildView(reg, file)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, errors.Wrap(err, "executing template")
	}

	filename := file.Filename
	if filename == "" {
		filename = "items_gen.go"
	}
	out, err := imports.Process(filename, buf.Bytes(), &imports.Options{
		FormatOnly: true,
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
	})
	if err != nil {
		return nil, errors.WithDetail(errors.Wrap(err, "formatting generated source"), buf.String())
	}
	return out, nil
}

type view struct {
	Package  string
	Imports  []importView
	Item     string
	Entry    string
	Variants []variantView
	Tables   []tableView
	Accessor *accessorView
}

type importView struct {
	Spec string
	// Blank puts an empty line before the import, between the standard
	// library group and the rest
	Blank bool
}

type variantView struct {
	Type    string
	Payload string
}

type tableView struct {
	Name string
	Type string
	Doc  string
	Rows []rowView
}

type rowView struct {
	Name string
	Expr string
}

type accessorView struct {
	Name string
	Refs string
	Copy string
	Rows []rowView
}

func buildView(reg *registry.Registry, file FileSpec) (*view, error) {
	names := NamesFor(file.Prefix, file.Export)
	v := &view{
		Package: file.Package,
		Imports: importViews(file.Imports),
		Item:    names.Item,
		Entry:   names.Entry,
	}

	for _, variant := range reg.Variants {
		v.Variants = append(v.Variants, variantView{
			Type:    names.VariantType(variant.Tag),
			Payload: variant.Payload,
		})
	}

	wrap := func(e registry.Entry) (rowView, error) {
		if _, ok := reg.Variant(e.Tag); !ok {
			return rowView{}, errors.AssertionFailedf("entry %s refers to unknown variant %s", e.Name, e.Tag)
		}
		return rowView{Name: e.Name, Expr: names.VariantType(e.Tag) + "{Value: " + valueExpr(e) + "}"}, nil
	}
	table := func(name, typ, doc string, entries []registry.Entry) error {
		t := tableView{Name: name, Type: typ, Doc: doc}
		for _, e := range entries {
			row, err := wrap(e)
			if err != nil {
				return err
			}
			t.Rows = append(t.Rows, row)
		}
		v.Tables = append(v.Tables, t)
		return nil
	}

	switch reg.Shape {
	case registry.ShapeCombined:
		if err := table(names.Items, "[]"+names.Entry,
			"lists the package's constants and variables in declaration order.", reg.Items); err != nil {
			return nil, err
		}
	default:
		if err := table(names.Consts, fmt.Sprintf("[%d]%s", len(reg.Consts), names.Entry),
			"lists the package's constants in declaration order.", reg.Consts); err != nil {
			return nil, err
		}
		if err := table(names.Statics, "[]"+names.Entry,
			"lists the package's variables in declaration order.", reg.Statics); err != nil {
			return nil, err
		}
	}

	if acc := reg.Accessor; acc != nil {
		refs, cp := accessorHelpers(acc.Name)
		av := &accessorView{Name: acc.Name, Refs: refs, Copy: cp}
		for _, e := range acc.Refs {
			expr := "&" + e.Name
			if e.Kind == registry.Const {
				expr = av.Copy + "(" + e.Name + ")"
			}
			av.Rows = append(av.Rows, rowView{Name: e.Name, Expr: expr})
		}
		v.Accessor = av
	}

	return v, nil
}

// valueExpr is the value stored in a variant: the constant itself, or the
// address of the variable.
func valueExpr(e registry.Entry) string {
	if e.Kind == registry.Var {
		return "&" + e.Name
	}
	return e.Name
}

func importViews(imps []source.Import) []importView {
	var std, other []importView
	for _, imp := range imps {
		iv := importView{Spec: imp.String()}
		if isStdlib(imp.Path) {
			std = append(std, iv)
		} else {
			other = append(other, iv)
		}
	}
	if len(std) > 0 && len(other) > 0 {
		other[0].Blank = true
	}
	return append(std, other...)
}

func isStdlib(path string) bool {
	first, _, _ := strings.Cut(path, "/")
	return !strings.Contains(first, ".")
}

var fileTemplate = template.Must(template.New("items").Parse(fileTemplateText))

const fileTemplateText = Header + `

package {{.Package}}
{{- if .Imports}}

import (
{{- range .Imports}}
{{- if .Blank}}
{{end}}
	{{.Spec}}
{{- end}}
)
{{- end}}

// {{.Item}} wraps one declaration of the package. Each variant holds a value
// of one declared type.
type {{.Item}} interface {
	isItem()
}
{{- range .Variants}}

type {{.Type}} struct {
	Value {{.Payload}}
}

func ({{.Type}}) isItem() {}
{{- end}}

// {{.Entry}} pairs a declaration name with its wrapped value.
type {{.Entry}} struct {
	Name  string
	Value {{.Item}}
}
{{- range .Tables}}

// {{.Name}} {{.Doc}}
var {{.Name}} = {{.Type}}{
{{- if .Rows}}
{{- range .Rows}}
	{Name: {{printf "%q" .Name}}, Value: {{.Expr}}},
{{- end}}
}
{{- else}}}
{{- end}}
{{- end}}
{{- with .Accessor}}

var {{.Refs}} = [{{len .Rows}}]struct {
	name  string
	value func() any
}{
{{- if .Rows}}
{{- range .Rows}}
	{name: {{printf "%q" .Name}}, value: func() any { return {{.Expr}} }},
{{- end}}
}
{{- else}}}
{{- end}}

func {{.Copy}}[T any](v T) *T { return &v }

// {{.Name}} returns a sequence of the name and address of every
// declaration whose type is exactly T, in declaration order. Constants
// yield the address of a fresh copy on each iteration.
func {{.Name}}[T any]() func(yield func(string, *T) bool) {
	return func(yield func(string, *T) bool) {
		for _, ref := range {{.Refs}} {
			if v, ok := ref.value().(*T); ok {
				if !yield(ref.name, v) {
					return
				}
			}
		}
	}
}
{{- end}}
`
