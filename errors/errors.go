// Package errors provides error handling for itemgen.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints ("add an explicit type")
//   - Marking, so callers can test for the failure class with Is
//
// Usage:
//
//	// Wrap with context
//	if err := loadPackage(); err != nil {
//	    return errors.Wrap(err, "failed to load package")
//	}
//
//	// Classify a failure and hint at the fix
//	err := errors.Mark(errors.Newf("var %s has no declared type", name), errors.ErrUnsupportedType)
//	return errors.WithHint(err, "declare the type explicitly")
//
//	// Check errors
//	if errors.Is(err, errors.ErrUnsupportedType) {
//	    // reject the whole package
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Mark           = crdb.Mark
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Failure classes of a generation run.
// Mark concrete errors with these so errors.Is works through any wrapping.
var (
	// ErrInvalidTarget indicates the target is not a package or file with
	// concrete Go source (no files, unparsable, not found)
	ErrInvalidTarget = New("invalid generation target")

	// ErrUnsupportedType indicates a declaration's type is outside the
	// supported grammar (generic, interface, func, chan, inferred)
	ErrUnsupportedType = New("unsupported declared type")

	// ErrTagCollision indicates two different types derived the same tag
	// while strict mode was on
	ErrTagCollision = New("type tag collision")

	// ErrStale indicates a generated file on disk differs from fresh output
	ErrStale = New("generated file is out of date")

	// ErrVersion indicates the running itemgen does not satisfy the
	// project's required_version constraint
	ErrVersion = New("itemgen version not allowed by project")
)

// IsInvalidTarget checks if an error is or wraps ErrInvalidTarget
func IsInvalidTarget(err error) bool {
	return err != nil && Is(err, ErrInvalidTarget)
}

// IsUnsupportedType checks if an error is or wraps ErrUnsupportedType
func IsUnsupportedType(err error) bool {
	return err != nil && Is(err, ErrUnsupportedType)
}

// IsStale checks if an error is or wraps ErrStale
func IsStale(err error) bool {
	return err != nil && Is(err, ErrStale)
}

// NewInvalidTargetError creates an invalid-target error with a formatted message
func NewInvalidTargetError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrInvalidTarget)
}

// NewUnsupportedTypeError creates an unsupported-type error with a formatted message
func NewUnsupportedTypeError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrUnsupportedType)
}
