// ABOUTME: Generated sine wave source
// ABOUTME: Plays a test tone through the same pipeline as decoded files
package media

import (
	"encoding/binary"
	"io"
	"math"
	"sync"

	"github.com/zwdconstrucition/linkstart/pkg/audio"
)

const toneChunkFrames = 1024

// ToneSource generates a sine wave at a fixed frequency. It satisfies
// Source, so a tone can be played, paused and seeked like any file. A
// positive duration ends the stream with io.EOF; zero plays forever.
type ToneSource struct {
	mu    sync.Mutex
	freq  float64
	rate  int
	total int64 // frames, 0 means endless
	pos   int64
}

// NewToneSource builds a tone at freq Hz. Non-positive freq falls back
// to 440 Hz, non-positive rate to 48 kHz.
func NewToneSource(freq float64, rate int, duration float64) *ToneSource {
	if freq <= 0 {
		freq = 440.0
	}
	if rate <= 0 {
		rate = 48000
	}
	var total int64
	if duration > 0 {
		total = int64(duration * float64(rate))
	}
	return &ToneSource{freq: freq, rate: rate, total: total}
}

func (s *ToneSource) Info() StreamInfo {
	dur := 0.0
	if s.total > 0 {
		dur = float64(s.total) / float64(s.rate)
	}
	return StreamInfo{SampleRate: s.rate, Channels: audio.OutputChannels, Duration: dur}
}

func (s *ToneSource) NextChunk() (audio.Chunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.total > 0 && s.pos >= s.total {
		return audio.Chunk{}, io.EOF
	}
	n := int64(toneChunkFrames)
	if s.total > 0 && s.pos+n > s.total {
		n = s.total - s.pos
	}

	data := make([]byte, n*4)
	for i := int64(0); i < n; i++ {
		t := float64(s.pos+i) / float64(s.rate)
		v := int16(math.Sin(2*math.Pi*s.freq*t) * 32767.0 * 0.5)
		binary.LittleEndian.PutUint16(data[i*4:], uint16(v))
		binary.LittleEndian.PutUint16(data[i*4+2:], uint16(v))
	}

	c := audio.Chunk{Data: data, PTS: float64(s.pos) / float64(s.rate)}
	s.pos += n
	return c, nil
}

// Seek moves the phase to t seconds. Generated audio has no keyframes,
// so the landing is exact.
func (s *ToneSource) Seek(t float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t < 0 {
		t = 0
	}
	f := int64(t * float64(s.rate))
	if s.total > 0 && f > s.total {
		f = s.total
	}
	s.pos = f
	return nil
}

func (s *ToneSource) Close() error { return nil }
