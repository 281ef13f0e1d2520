package source

import (
	"go/ast"
	"go/token"
	"sort"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/teranos/itemgen/errors"
)

// DirectivePrefix starts a directive comment line.
const DirectivePrefix = "//itemgen:module"

// Directive holds key=value options from //itemgen:module comments.
//
//	//itemgen:module name=lookup tables=combined strict
//
// Arguments are split with shell quoting rules, so values may contain
// blanks when quoted. A bare key means key=true.
type Directive map[string]string

// ParseDirective parses the arguments of one directive line. The line
// must start with DirectivePrefix.
func ParseDirective(line string) (Directive, error) {
	rest, ok := strings.CutPrefix(line, DirectivePrefix)
	if !ok {
		return nil, errors.Newf("not an itemgen directive: %q", line)
	}
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return nil, errors.Newf("not an itemgen directive: %q", line)
	}

	args, err := shellquote.Split(rest)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing directive %q", line)
	}

	d := Directive{}
	for _, arg := range args {
		key, value, hasValue := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, errors.Newf("directive argument %q has no key", arg)
		}
		if !hasValue {
			value = "true"
		}
		if _, dup := d[key]; dup {
			return nil, errors.Newf("directive sets %s twice", key)
		}
		d[key] = value
	}
	return d, nil
}

// FileDirective returns the merged directives of file. Only comments
// before the package clause are considered.
func FileDirective(fset *token.FileSet, file *ast.File) (Directive, error) {
	d := Directive{}
	for _, group := range file.Comments {
		if group.Pos() >= file.Package {
			break
		}
		for _, c := range group.List {
			if !strings.HasPrefix(c.Text, DirectivePrefix) {
				continue
			}
			parsed, err := ParseDirective(c.Text)
			if err != nil {
				return nil, errors.Mark(
					errors.Wrapf(err, "%s", fset.Position(c.Pos())),
					errors.ErrInvalidTarget)
			}
			if err := d.Merge(parsed); err != nil {
				return nil, errors.Wrapf(err, "%s", fset.Position(c.Pos()))
			}
		}
	}
	return d, nil
}

// PackageDirective merges the directives of all hand-written files.
func PackageDirective(fset *token.FileSet, files []*ast.File) (Directive, error) {
	d := Directive{}
	for _, file := range files {
		if file == nil || ast.IsGenerated(file) {
			continue
		}
		fd, err := FileDirective(fset, file)
		if err != nil {
			return nil, err
		}
		if err := d.Merge(fd); err != nil {
			return nil, errors.Wrapf(err, "%s", fset.Position(file.Package).Filename)
		}
	}
	return d, nil
}

// Merge adds other's keys to d. Setting a key to two different values is
// an error.
func (d Directive) Merge(other Directive) error {
	for _, k := range other.Keys() {
		v := other[k]
		if prev, ok := d[k]; ok && prev != v {
			return errors.NewInvalidTargetError("conflicting directive values for %s: %q and %q", k, prev, v)
		}
		d[k] = v
	}
	return nil
}

// Keys returns the directive keys in sorted order.
func (d Directive) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
