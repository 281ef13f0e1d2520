//go:generate go run github.com/teranos/itemgen/cmd/itemgen

// Package palette declares a few values of mixed types. Its generated
// items_gen.go is checked in and compared against fresh output in tests.
package palette

import "time"

// Level is a log severity.
type Level uint8

const (
	Debug Level = iota
	Info
	Warn
)

// Name is a color name.
type Name string

var (
	Primary   Name = "red"
	Secondary Name = "blue"
)

const Timeout time.Duration = 5 * time.Second

var (
	Weights [3]*uint8
	Nothing struct{}
)

// String is not a declaration itemgen looks at.
func (l Level) String() string {
	switch l {
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warn:
		return "warn"
	default:
		return "unknown"
	}
}
