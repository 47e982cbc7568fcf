// ABOUTME: Package level functions operating on one default subsystem
// ABOUTME: The default subsystem reads its driver hint from the environment
package audiodev

import (
	"sync"

	"github.com/SDL-mirror/SDL-sub002/pkg/audio"
)

var (
	defaultOnce sync.Once
	defaultSub  *Subsystem
)

// Default returns the process-wide subsystem, created on first use with
// ConfigFromEnv
func Default() *Subsystem {
	defaultOnce.Do(func() {
		defaultSub = New(ConfigFromEnv())
	})
	return defaultSub
}

// Init selects a driver on the default subsystem
func Init(driver string) error { return Default().Init(driver) }

// Open opens the default subsystem's device
func Open(desired, obtained *audio.Spec) error { return Default().Open(desired, obtained) }

// GetStatus reports the default device's state
func GetStatus() Status { return Default().Status() }

// Pause pauses or resumes the default device
func Pause(on bool) { Default().Pause(on) }

// Lock locks out the default device's callback
func Lock() { Default().Lock() }

// Unlock releases Lock
func Unlock() { Default().Unlock() }

// Close closes the default device
func Close() { Default().Close() }

// Quit closes the default device and forgets its driver
func Quit() { Default().Quit() }

// DriverName returns the default subsystem's driver name
func DriverName() string { return Default().DriverName() }
