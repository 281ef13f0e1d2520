package source

import (
	"go/ast"
	"go/token"
)

// TopLevelNames maps every package-level name declared in files to its
// position. Methods and blank names are left out. Generated files count
// too, since their declarations share the package scope.
func TopLevelNames(fset *token.FileSet, files []*ast.File) map[string]token.Position {
	names := make(map[string]token.Position)
	add := func(id *ast.Ident) {
		if id == nil || id.Name == "_" {
			return
		}
		if _, ok := names[id.Name]; !ok {
			names[id.Name] = fset.Position(id.Pos())
		}
	}

	for _, file := range files {
		if file == nil {
			continue
		}
		for _, decl := range file.Decls {
			switch d := decl.(type) {
			case *ast.FuncDecl:
				if d.Recv == nil {
					add(d.Name)
				}
			case *ast.GenDecl:
				for _, spec := range d.Specs {
					switch s := spec.(type) {
					case *ast.TypeSpec:
						add(s.Name)
					case *ast.ValueSpec:
						for _, id := range s.Names {
							add(id)
						}
					}
				}
			}
		}
	}
	return names
}
