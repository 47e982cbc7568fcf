// ABOUTME: Package documentation for audiodev
// ABOUTME: Device lifecycle, the mixing goroutine and the default subsystem
// Package audiodev drives one audio device at a time.
//
// A Subsystem selects a driver from an output.Registry, negotiates a spec
// with it, builds a conversion pipeline when the hardware differs from what
// the application asked for, and runs a mixing goroutine that pulls audio
// from the application callback once per buffer period.
//
// Example:
//
//	sub := audiodev.New(audiodev.ConfigFromEnv())
//	err := sub.Open(&audio.Spec{
//		Freq:     44100,
//		Format:   audio.S16Sys,
//		Channels: 2,
//		Samples:  1024,
//		Callback: fill,
//	}, nil)
//	if err != nil {
//		return err
//	}
//	defer sub.Quit()
//	sub.Pause(false)
//
// The package level functions (Init, Open, Pause, Lock, Close, ...) operate
// on a single default Subsystem.
package audiodev
