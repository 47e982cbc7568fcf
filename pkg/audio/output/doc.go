// ABOUTME: Audio output package: driver contract, bootstrap table and drivers
// ABOUTME: Provides Backend interface, Registry and the pulse/miniaudio/oto/sdl2/portaudio/dummy drivers
// Package output provides the hardware side of the audio subsystem.
//
// Every driver implements Backend, the five-call contract the mixing loop
// drives (Open, Wait, Buffer, Play, Close), and may add ThreadIniter,
// Drainer, Locker or Releaser. Drivers are described by Bootstrap entries
// and collected in a fixed, ordered Registry chosen at compile time.
//
// Pull-model drivers (pulse, miniaudio, oto) hand the mixing loop slots from
// a SlotRing and let the device callback drain it. Push-model drivers (sdl2,
// portaudio, dummy) own a single buffer and block in Wait or Play.
//
// Example:
//
//	boot, backend, err := output.DefaultRegistry().Select("")
//	state, err := backend.Open(&spec)
package output
