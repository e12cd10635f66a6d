package convert

import (
	"io"
	"os"

	"github.com/andybalholm/zx7"
	"github.com/sirupsen/logrus"
)

// Options control a conversion. The zero value is not usable; start from
// DefaultOptions. A nil *Options means DefaultOptions().
type Options struct {
	// Engine compresses the input. Defaults to zx7.NewCompressor().
	Engine Engine

	// Logger receives debug output about each stage.
	Logger logrus.FieldLogger

	// Stdout receives the report line, Stderr the diagnostic line of Run.
	Stdout io.Writer
	Stderr io.Writer

	ExitCodes ExitCodePolicy

	// MaxInputSize limits the input buffer, in bytes. Zero means no limit
	// other than the platform's.
	MaxInputSize int64

	// Verify reads the output back after writing and compares it with what
	// was written.
	Verify bool
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() *Options {
	return &Options{
		Engine:    zx7.NewCompressor(),
		Logger:    logrus.StandardLogger(),
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		ExitCodes: ExitCodesUniform,
		Verify:    true,
	}
}

// withDefaults returns a copy of opts with unset fields filled in.
func (opts *Options) withDefaults() *Options {
	def := DefaultOptions()
	if opts == nil {
		return def
	}

	o := *opts
	if o.Engine == nil {
		o.Engine = def.Engine
	}
	if o.Logger == nil {
		o.Logger = def.Logger
	}
	if o.Stdout == nil {
		o.Stdout = def.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = def.Stderr
	}
	return &o
}
