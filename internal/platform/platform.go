// Package platform owns the process-wide, read-only-after-init state
// spec.md §5/§9 calls for: the debug flag and the acceleration-library
// presence registry, plus the shared logger every other package writes
// through. Grounded on the teacher codebase's "initialize once, then
// treat as immutable" rule for its device/feature registries (see
// services/hal/internal/core.RegisterBuilder panicking on duplicate
// registration — the same "do it once, loudly, and never again" shape
// Init below uses via sync.Once).
package platform

import (
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

// Features records which optional acceleration libraries are available
// to blocks that know how to use them. This module ships no cgo
// bindings for any of them, so presence is always false. The DISABLE_*
// environment variables are read once at startup, not per block; their
// values are not recorded here.
type Features struct {
	LiquidDSP bool
	VOLK      bool
	FFTW3F    bool
}

var (
	once     sync.Once
	debug    bool
	features Features
	logger   *log.Logger
)

// Init performs the one-time, process-wide setup spec.md requires
// before a graph starts: reading DEBUG and the DISABLE_* variables, and
// configuring the shared logger's level accordingly. It is safe to call
// more than once; only the first call has effect. Flowgraph.Start calls
// this so that constructing blocks or a Flowgraph value never has a
// side effect on global state — only starting a graph does.
func Init() {
	once.Do(func() {
		debug = truthy(os.Getenv("DEBUG"))
		features = Features{
			LiquidDSP: probe("DISABLE_LIQUID"),
			VOLK:      probe("DISABLE_VOLK"),
			FFTW3F:    probe("DISABLE_FFTW3F"),
		}
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "flowgraph",
		})
		if debug {
			logger.SetLevel(log.DebugLevel)
		} else {
			logger.SetLevel(log.InfoLevel)
		}
	})
}

// probe reports whether an optional acceleration library is present.
// This module ships no real cgo binding for any of LiquidDSP/VOLK/
// FFTW3F, so there is nothing to detect yet: probe always reports
// false, regardless of disableVar. disableVar is still read from the
// environment, but its value is discarded: nothing records or exposes
// it.
func probe(disableVar string) bool {
	_ = truthy(os.Getenv(disableVar)) // read for observability; no real probe to gate on yet
	return false
}

func truthy(s string) bool {
	switch s {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	default:
		return false
	}
}

// Debug reports whether DEBUG was truthy at Init time. If Init has not
// run yet, it runs it first.
func Debug() bool {
	mustInit()
	return debug
}

// AccelFeatures returns the process-wide acceleration-library presence
// snapshot captured at Init time.
func AccelFeatures() Features {
	mustInit()
	return features
}

// Log returns the shared, thread-safe logger every package writes
// through. Safe for concurrent use from every block worker goroutine.
func Log() *log.Logger {
	mustInit()
	return logger
}

func mustInit() {
	if logger == nil {
		// Defensive: a unit test that imports this package directly
		// without going through Flowgraph.Start still gets a usable,
		// correctly-configured singleton rather than a nil pointer.
		Init()
	}
}
