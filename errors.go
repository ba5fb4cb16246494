package popcount

import "github.com/zeebo/errs"

var (
	// ConfigError is the class of errors caused by an invalid thread
	// pool or mix configuration.
	ConfigError = errs.Class("popcount config")

	// SelectorError is the class of errors caused by an unknown or
	// unsupported kernel selector.
	SelectorError = errs.Class("popcount selector")
)
