package generate

import (
	"github.com/teranos/itemgen/config"
	"github.com/teranos/itemgen/emit"
	"github.com/teranos/itemgen/registry"
)

// Description summarizes what a run would generate, without the source.
type Description struct {
	Package  string   `json:"package" yaml:"package" toml:"package"`
	Output   string   `json:"output" yaml:"output" toml:"output"`
	Files    []string `json:"files" yaml:"files" toml:"files"`
	Shape    string   `json:"shape" yaml:"shape" toml:"shape"`
	Accessor string   `json:"accessor,omitempty" yaml:"accessor,omitempty" toml:"accessor,omitempty"`
	Skipped  int      `json:"skipped" yaml:"skipped" toml:"skipped"`

	Variants   []DescribedVariant   `json:"variants" yaml:"variants" toml:"variants"`
	Decls      []DescribedDecl      `json:"decls" yaml:"decls" toml:"decls"`
	Collisions []DescribedCollision `json:"collisions,omitempty" yaml:"collisions,omitempty" toml:"collisions,omitempty"`
}

// DescribedVariant is one union case.
type DescribedVariant struct {
	Type    string `json:"type" yaml:"type" toml:"type"`
	Tag     string `json:"tag" yaml:"tag" toml:"tag"`
	Payload string `json:"payload" yaml:"payload" toml:"payload"`
}

// DescribedDecl is one classified declaration.
type DescribedDecl struct {
	Name string `json:"name" yaml:"name" toml:"name"`
	Kind string `json:"kind" yaml:"kind" toml:"kind"`
	Type string `json:"type" yaml:"type" toml:"type"`
	Tag  string `json:"tag" yaml:"tag" toml:"tag"`
	Pos  string `json:"pos" yaml:"pos" toml:"pos"`
}

// DescribedCollision is a tag claimed by two different payloads.
type DescribedCollision struct {
	Tag      string `json:"tag" yaml:"tag" toml:"tag"`
	Name     string `json:"name" yaml:"name" toml:"name"`
	Previous string `json:"previous" yaml:"previous" toml:"previous"`
	Current  string `json:"current" yaml:"current" toml:"current"`
}

// Describe builds the description of result.
func Describe(result *Result) *Description {
	reg := result.Registry
	names := emit.NamesFor(result.Config.Prefix(), result.Config.Export)

	d := &Description{
		Package:    result.Package,
		Output:     result.OutputPath,
		Files:      append([]string{}, result.Module.Files...),
		Shape:      string(reg.Shape),
		Skipped:    result.Module.Skipped,
		Variants:   []DescribedVariant{},
		Decls:      []DescribedDecl{},
		Collisions: []DescribedCollision{},
	}
	if reg.Accessor != nil {
		d.Accessor = reg.Accessor.Name
	}
	for _, v := range reg.Variants {
		d.Variants = append(d.Variants, DescribedVariant{
			Type:    names.VariantType(v.Tag),
			Tag:     v.Tag,
			Payload: v.Payload,
		})
	}
	for _, decl := range result.Module.Decls {
		d.Decls = append(d.Decls, DescribedDecl{
			Name: decl.Name,
			Kind: decl.Kind.String(),
			Type: decl.GoType,
			Tag:  tagOf(reg, decl.Name),
			Pos:  decl.Pos.String(),
		})
	}
	for _, c := range reg.Collisions {
		d.Collisions = append(d.Collisions, DescribedCollision{
			Tag:      c.Tag,
			Name:     c.Name,
			Previous: c.Previous.Payload,
			Current:  c.Current.Payload,
		})
	}
	return d
}

// Marshal encodes the description of result as toml, yaml or json.
func (d *Description) Marshal(format string) ([]byte, error) {
	return config.Marshal(d, format)
}

func tagOf(reg *registry.Registry, name string) string {
	for _, table := range [][]registry.Entry{reg.Consts, reg.Statics, reg.Items} {
		for _, e := range table {
			if e.Name == name {
				return e.Tag
			}
		}
	}
	return ""
}
