// ABOUTME: Output device tests
// ABOUTME: Verifies interface conformance and the fill adapters
package output

import (
	"bytes"
	"testing"

	"github.com/zwdconstrucition/linkstart/pkg/audio"
)

func testFormat() audio.Format {
	return audio.Format{SampleRate: 44100, Channels: audio.OutputChannels}
}

func TestMalgoImplementsDevice(t *testing.T) {
	var _ Device = (*Malgo)(nil)
}

func TestOtoImplementsDevice(t *testing.T) {
	var _ Device = (*Oto)(nil)
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open("pulse", testFormat(), 0, func(dst []byte) {})
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestFillReaderReadsFull(t *testing.T) {
	marker := []byte{1, 2, 3, 4}
	r := fillReader{fill: func(dst []byte) {
		for i := range dst {
			dst[i] = marker[i%len(marker)]
		}
	}}

	p := make([]byte, 16)
	n, err := r.Read(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n != len(p) {
		t.Errorf("expected %d bytes, got %d", len(p), n)
	}
	if !bytes.Equal(p[:4], marker) {
		t.Errorf("expected buffer to start with %v, got %v", marker, p[:4])
	}
}

func TestFillReaderEmptyBuffer(t *testing.T) {
	called := false
	r := fillReader{fill: func(dst []byte) { called = true }}

	n, err := r.Read(nil)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 bytes, got %d", n)
	}
	if !called {
		t.Error("expected fill to be invoked even for an empty buffer")
	}
}
