// Package subscribelog provides the component loggers used across the
// subscribe package.
package subscribelog

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Base is the root logger. Init replaces it; only loggers obtained
// from Component after that call use the new configuration. The
// subscribe package derives its component loggers at package
// initialization, so they keep the Base in effect at that time.
var Base = zerolog.New(os.Stderr).With().Timestamp().Logger()

// Init reconfigures Base. A nil output defaults to os.Stderr.
func Init(level zerolog.Level, output io.Writer) {
	if output == nil {
		output = os.Stderr
	}
	Base = zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// Component returns a child logger tagged with the given component
// name.
func Component(name string) zerolog.Logger {
	return Base.With().Str("component", name).Logger()
}
