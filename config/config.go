// Package config resolves itemgen options.
//
// Sources, lowest to highest precedence:
//
//  1. Built-in defaults (SetDefaults)
//  2. itemgen.toml, found by walking up from the working directory
//  3. ITEMGEN_* environment variables
//  4. //itemgen:module directives in the target package
//  5. Command line flags
//
// Layers 1-3 are read by viper in Load. Layers 4 and 5 are applied on top
// per target with WithDirective.
package config

import (
	"go/token"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/itemgen/errors"
	"github.com/teranos/itemgen/internal/util"
	"github.com/teranos/itemgen/registry"
)

// Option keys, shared by itemgen.toml, ITEMGEN_* variables, directives
// and flags.
const (
	KeyName            = "name"
	KeyTables          = "tables"
	KeyAccessor        = "accessor"
	KeyStrict          = "strict"
	KeyExport          = "export"
	KeyScope           = "scope"
	KeyOutput          = "output"
	KeyExclude         = "exclude"
	KeyRequiredVersion = "required_version"
)

// Scopes
const (
	ScopePackage = "package"
	ScopeFile    = "file"
)

// DefaultOutput is the generated file name in package scope.
const DefaultOutput = "items_gen.go"

// FileName is the project configuration file name.
const FileName = "itemgen.toml"

// Config is the effective itemgen configuration.
type Config struct {
	// Name of the generated accessor
	Name string `mapstructure:"name" toml:"name" yaml:"name" json:"name"`
	// Tables is "split" (consts + statics) or "combined" (items)
	Tables string `mapstructure:"tables" toml:"tables" yaml:"tables" json:"tables"`
	// Accessor toggles the lookup accessor
	Accessor bool `mapstructure:"accessor" toml:"accessor" yaml:"accessor" json:"accessor"`
	// Strict makes tag collisions fatal
	Strict bool `mapstructure:"strict" toml:"strict" yaml:"strict" json:"strict"`
	// Export emits exported names for the union and tables
	Export bool `mapstructure:"export" toml:"export" yaml:"export" json:"export"`
	// Scope is "package" or "file"
	Scope string `mapstructure:"scope" toml:"scope" yaml:"scope" json:"scope"`
	// Output file name, relative to the package directory
	Output string `mapstructure:"output" toml:"output,omitempty" yaml:"output,omitempty" json:"output,omitempty"`
	// Exclude lists declaration names to skip
	Exclude []string `mapstructure:"exclude" toml:"exclude" yaml:"exclude" json:"exclude"`
	// RequiredVersion is a semver constraint on the itemgen version
	RequiredVersion string `mapstructure:"required_version" toml:"required_version,omitempty" yaml:"required_version,omitempty" json:"required_version,omitempty"`

	// File is the target file in file scope, usually $GOFILE
	File string `mapstructure:"-" toml:"-" yaml:"-" json:"-"`
	// Overrides hold command line values. They are re-applied after
	// directives so flags always win.
	Overrides map[string]string `mapstructure:"-" toml:"-" yaml:"-" json:"-"`
	// Source is the itemgen.toml that was read, if any
	Source string `mapstructure:"-" toml:"-" yaml:"-" json:"-"`
}

// Validate checks that the configuration can drive a generation run.
func (c *Config) Validate() error {
	if err := c.RegistryOptions().Validate(); err != nil {
		return err
	}
	switch c.Scope {
	case ScopePackage:
	case ScopeFile:
		if c.File == "" {
			return errors.WithHint(
				errors.New("scope = \"file\" needs a target file"),
				"run under go generate (which sets $GOFILE) or pass --file")
		}
	default:
		return errors.Newf("scope must be %q or %q, got %q", ScopePackage, ScopeFile, c.Scope)
	}
	if c.Output != "" {
		if filepath.Base(c.Output) != c.Output {
			return errors.Newf("output must be a file name in the package directory, got %q", c.Output)
		}
		if !strings.HasSuffix(c.Output, ".go") {
			return errors.Newf("output must end in .go, got %q", c.Output)
		}
		if strings.HasSuffix(c.Output, "_test.go") {
			return errors.Newf("output cannot be a test file, got %q", c.Output)
		}
	}
	if c.RequiredVersion != "" {
		if _, err := semver.NewConstraint(c.RequiredVersion); err != nil {
			return errors.Wrapf(err, "invalid required_version %q", c.RequiredVersion)
		}
	}
	return nil
}

// RegistryOptions maps the configuration onto registry.Options.
func (c *Config) RegistryOptions() registry.Options {
	return registry.Options{
		Tables:       registry.Shape(c.Tables),
		Accessor:     c.Accessor,
		AccessorName: c.Name,
		Strict:       c.Strict,
	}
}

// OutputName returns the generated file name.
func (c *Config) OutputName() string {
	if c.Output != "" {
		return c.Output
	}
	if c.Scope == ScopeFile && c.File != "" {
		return strings.TrimSuffix(filepath.Base(c.File), ".go") + "_" + DefaultOutput
	}
	return DefaultOutput
}

// Prefix returns the prefix of every generated identifier. It is empty in
// package scope. In file scope it is the target file name in lower camel
// case, so colors.go declares colorsItem, colorsConsts and so on, and
// several file targets can share one package.
func (c *Config) Prefix() string {
	if c.Scope != ScopeFile || c.File == "" {
		return ""
	}
	stem := strings.TrimSuffix(filepath.Base(c.File), ".go")
	parts := strings.FieldsFunc(stem, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var b strings.Builder
	for i, part := range parts {
		if i == 0 {
			b.WriteString(util.LowerFirst(part))
		} else {
			b.WriteString(util.UpperFirst(part))
		}
	}
	prefix := b.String()
	if !token.IsIdentifier(prefix) {
		// empty, a keyword or starting with a digit
		prefix = "file" + util.UpperFirst(prefix)
	}
	return prefix
}

// CheckVersion reports whether current satisfies RequiredVersion.
// Development builds always pass.
func (c *Config) CheckVersion(current string) error {
	if c.RequiredVersion == "" || current == "" || current == "dev" {
		return nil
	}
	v, err := semver.NewVersion(current)
	if err != nil {
		return errors.Wrapf(err, "invalid itemgen version %s", current)
	}
	constraint, err := semver.NewConstraint(c.RequiredVersion)
	if err != nil {
		return errors.Wrapf(err, "invalid required_version %q", c.RequiredVersion)
	}
	if !constraint.Check(v) {
		return errors.Mark(
			errors.Newf("project requires itemgen %s, but running %s", c.RequiredVersion, current),
			errors.ErrVersion)
	}
	return nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Exclude = append([]string(nil), c.Exclude...)
	if c.Overrides != nil {
		out.Overrides = make(map[string]string, len(c.Overrides))
		for k, v := range c.Overrides {
			out.Overrides[k] = v
		}
	}
	return &out
}

// WithDirective returns a copy with directive values applied, then the
// command line overrides, then validated.
func (c *Config) WithDirective(directive map[string]string) (*Config, error) {
	out := c.Clone()
	if err := out.Apply(directive); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "itemgen:module directive"), errors.ErrInvalidTarget)
	}
	if err := out.Apply(c.Overrides); err != nil {
		return nil, errors.Wrap(err, "command line")
	}
	// A name chosen for the target itself is kept. Names shared by every
	// target (defaults, itemgen.toml, environment) are prefixed in file
	// scope.
	if _, ok := directive[KeyName]; !ok {
		if _, ok := c.Overrides[KeyName]; !ok {
			if prefix := out.Prefix(); prefix != "" {
				out.Name = prefix + util.UpperFirst(out.Name)
			}
		}
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// Apply sets options from textual key/value pairs, in sorted key order.
// Booleans accept strconv.ParseBool forms; exclude is comma separated.
func (c *Config) Apply(values map[string]string) error {
	for _, key := range sortedKeys(values) {
		value := values[key]
		switch key {
		case KeyName:
			c.Name = value
		case KeyTables:
			c.Tables = value
		case KeyScope:
			c.Scope = value
		case KeyOutput:
			c.Output = value
		case KeyRequiredVersion:
			c.RequiredVersion = value
		case KeyExclude:
			c.Exclude = splitList(value)
		case KeyAccessor, KeyStrict, KeyExport:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return errors.Newf("%s must be a boolean, got %q", key, value)
			}
			switch key {
			case KeyAccessor:
				c.Accessor = b
			case KeyStrict:
				c.Strict = b
			case KeyExport:
				c.Export = b
			}
		default:
			return errors.WithHint(errors.Newf("unknown option %q", key),
				"known options: "+strings.Join(Keys(), ", "))
		}
	}
	return nil
}

// Keys lists every option key.
func Keys() []string {
	return []string{
		KeyName, KeyTables, KeyAccessor, KeyStrict, KeyExport,
		KeyScope, KeyOutput, KeyExclude, KeyRequiredVersion,
	}
}

func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
}
