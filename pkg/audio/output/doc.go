// ABOUTME: Audio output package for playback devices
// ABOUTME: Provides the Device interface and three backends
// Package output opens playback devices that pull PCM through a fill
// callback.
//
// Backends: malgo (miniaudio, the default), oto, and portaudio behind
// the portaudio build tag.
//
// Example:
//
//	dev, err := output.Open("malgo", format, 4096, fill)
//	err = dev.Start()
package output
