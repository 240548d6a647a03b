//go:build !portaudio

// ABOUTME: PortAudio stub when the backend is not compiled in
// ABOUTME: Keeps the factory building without the portaudio tag
package output

import (
	"fmt"

	"github.com/zwdconstrucition/linkstart/pkg/audio"
)

// NewPortAudio reports that the backend is unavailable in this build.
func NewPortAudio(format audio.Format, bufferFrames int, fill FillFunc) (Device, error) {
	return nil, fmt.Errorf("portaudio support not enabled (build with -tags portaudio)")
}
