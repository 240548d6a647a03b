// ABOUTME: Tests for the generated tone source
// ABOUTME: Checks sample values, stream end and exact seeking
package media

import (
	"encoding/binary"
	"io"
	"math"
	"testing"
)

func toneSample(freq float64, rate int, frame int64) int16 {
	t := float64(frame) / float64(rate)
	return int16(math.Sin(2*math.Pi*freq*t) * 32767.0 * 0.5)
}

func TestToneSourceInfo(t *testing.T) {
	src := NewToneSource(440, 48000, 2.0)
	info := src.Info()
	if info.SampleRate != 48000 {
		t.Errorf("expected rate 48000, got %d", info.SampleRate)
	}
	if info.Channels != 2 {
		t.Errorf("expected 2 channels, got %d", info.Channels)
	}
	if info.Duration != 2.0 {
		t.Errorf("expected duration 2.0, got %v", info.Duration)
	}

	endless := NewToneSource(440, 48000, 0)
	if got := endless.Info().Duration; got != 0 {
		t.Errorf("expected endless duration 0, got %v", got)
	}
}

func TestToneSourceDefaults(t *testing.T) {
	src := NewToneSource(0, 0, 0)
	if src.freq != 440.0 {
		t.Errorf("expected default frequency 440, got %v", src.freq)
	}
	if src.rate != 48000 {
		t.Errorf("expected default rate 48000, got %d", src.rate)
	}
}

func TestToneSourceChunks(t *testing.T) {
	src := NewToneSource(440, 8000, 0)

	c1, err := src.NextChunk()
	if err != nil {
		t.Fatalf("next chunk: %v", err)
	}
	if c1.PTS != 0 {
		t.Errorf("expected first pts 0, got %v", c1.PTS)
	}
	if len(c1.Data) != toneChunkFrames*4 {
		t.Fatalf("expected %d bytes, got %d", toneChunkFrames*4, len(c1.Data))
	}

	// Both channels carry the sine, quantized exactly like the source.
	for _, frame := range []int64{0, 1, 100, 1023} {
		want := uint16(toneSample(440, 8000, frame))
		left := binary.LittleEndian.Uint16(c1.Data[frame*4:])
		right := binary.LittleEndian.Uint16(c1.Data[frame*4+2:])
		if left != want || right != want {
			t.Errorf("frame %d: expected %d, got left %d right %d", frame, want, left, right)
		}
	}

	c2, err := src.NextChunk()
	if err != nil {
		t.Fatalf("next chunk: %v", err)
	}
	want := float64(toneChunkFrames) / 8000
	if c2.PTS != want {
		t.Errorf("expected second pts %v, got %v", want, c2.PTS)
	}
}

func TestToneSourceEndsAtDuration(t *testing.T) {
	// 1500 frames: one full chunk, one short chunk, then EOF.
	src := NewToneSource(440, 8000, 0.1875)

	c1, err := src.NextChunk()
	if err != nil || len(c1.Data) != 1024*4 {
		t.Fatalf("first chunk: len %d err %v", len(c1.Data), err)
	}
	c2, err := src.NextChunk()
	if err != nil || len(c2.Data) != 476*4 {
		t.Fatalf("second chunk: len %d err %v", len(c2.Data), err)
	}
	if _, err := src.NextChunk(); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
	// EOF repeats.
	if _, err := src.NextChunk(); err != io.EOF {
		t.Fatalf("expected io.EOF again, got %v", err)
	}
}

func TestToneSourceSeek(t *testing.T) {
	src := NewToneSource(440, 8000, 2.0)

	if err := src.Seek(0.5); err != nil {
		t.Fatalf("seek: %v", err)
	}
	c, err := src.NextChunk()
	if err != nil {
		t.Fatalf("next chunk: %v", err)
	}
	if c.PTS != 0.5 {
		t.Errorf("expected pts 0.5 after seek, got %v", c.PTS)
	}
	want := uint16(toneSample(440, 8000, 4000))
	if got := binary.LittleEndian.Uint16(c.Data[0:]); got != want {
		t.Errorf("expected phase-correct sample %d, got %d", want, got)
	}

	// Negative targets clamp to the start.
	if err := src.Seek(-1); err != nil {
		t.Fatalf("seek: %v", err)
	}
	c, err = src.NextChunk()
	if err != nil || c.PTS != 0 {
		t.Errorf("expected pts 0 after negative seek, got %v err %v", c.PTS, err)
	}

	// Past-end targets clamp to the end and the next read is EOF.
	if err := src.Seek(99); err != nil {
		t.Fatalf("seek: %v", err)
	}
	if _, err := src.NextChunk(); err != io.EOF {
		t.Fatalf("expected io.EOF after past-end seek, got %v", err)
	}
}
