package typetag

import (
	"go/ast"
	"go/types"
)

// FromExpr converts a Go type expression into a Type.
//
// Supported syntax: identifiers, qualified identifiers (pkg.T), pointers,
// arrays with an explicit length, slices, struct types (as tuples of their
// field types) and maps. A nil expression is an omitted type and is
// rejected like every other form outside the grammar.
//
// The check is syntactic. A named type whose underlying type is an
// interface passes, and so does the predeclared error; the interface
// literal forms and the predeclared any do not.
func FromExpr(expr ast.Expr) (Type, error) {
	switch e := expr.(type) {
	case nil:
		return nil, unsupported("", "no declared type; inferred types are not supported")

	case *ast.Ident:
		if e.Name == "any" {
			return nil, unsupported(e.Name, "interface types are not supported")
		}
		return Named{Name: e.Name}, nil

	case *ast.SelectorExpr:
		pkg, ok := e.X.(*ast.Ident)
		if !ok {
			return nil, unsupported(types.ExprString(e), "qualified type must be pkg.Name")
		}
		return Named{Qualifier: pkg.Name, Name: e.Sel.Name}, nil

	case *ast.ParenExpr:
		return FromExpr(e.X)

	case *ast.StarExpr:
		elem, err := FromExpr(e.X)
		if err != nil {
			return nil, err
		}
		return Pointer{Elem: elem}, nil

	case *ast.ArrayType:
		elem, err := FromExpr(e.Elt)
		if err != nil {
			return nil, err
		}
		if e.Len == nil {
			return Slice{Elem: elem}, nil
		}
		if _, ok := e.Len.(*ast.Ellipsis); ok {
			return nil, unsupported(types.ExprString(e), "array length is inferred; write it out")
		}
		return Array{Elem: elem, Len: types.ExprString(e.Len)}, nil

	case *ast.StructType:
		var elems []Type
		for _, field := range e.Fields.List {
			ft, err := FromExpr(field.Type)
			if err != nil {
				return nil, err
			}
			n := len(field.Names)
			if n == 0 {
				// Embedded field
				n = 1
			}
			for i := 0; i < n; i++ {
				elems = append(elems, ft)
			}
		}
		return Tuple{Elems: elems}, nil

	case *ast.MapType:
		key, err := FromExpr(e.Key)
		if err != nil {
			return nil, err
		}
		val, err := FromExpr(e.Value)
		if err != nil {
			return nil, err
		}
		return Map{Key: key, Value: val}, nil

	case *ast.InterfaceType:
		return nil, unsupported(types.ExprString(e), "interface types are not supported")
	case *ast.FuncType:
		return nil, unsupported(types.ExprString(e), "func types are not supported")
	case *ast.ChanType:
		return nil, unsupported(types.ExprString(e), "channel types are not supported")
	case *ast.IndexExpr, *ast.IndexListExpr:
		return nil, unsupported(types.ExprString(e), "generic instantiations are not supported")
	default:
		return nil, unsupported(types.ExprString(e), "not a type expression")
	}
}
