package logger

import "go.uber.org/zap"

// Field names for structured logging. Use these instead of raw strings so
// JSON logs stay consistent across packages.
const (
	FieldPackage  = "package"
	FieldPath     = "path"
	FieldFile     = "file"
	FieldDirs     = "dirs"
	FieldOp       = "op"
	FieldName     = "name"
	FieldTag      = "tag"
	FieldDecls    = "decls"
	FieldVariants = "variants"
	FieldError    = "error"
)

// ForPackage returns a logger that tags every line with the package name.
func ForPackage(pkg string) *zap.SugaredLogger {
	return Logger.With(FieldPackage, pkg)
}
