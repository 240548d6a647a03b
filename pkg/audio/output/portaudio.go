//go:build portaudio

// ABOUTME: PortAudio output device
// ABOUTME: Optional backend enabled with -tags portaudio
package output

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/zwdconstrucition/linkstart/pkg/audio"
)

// PortAudio plays through the default PortAudio stream. The stream
// callback hands out int16 slices, which get repacked from the byte
// buffer the fill function writes.
type PortAudio struct {
	stream *portaudio.Stream
	fill   FillFunc
	buf    []byte

	mu      sync.Mutex
	running bool
}

// NewPortAudio opens the default output stream for format.
func NewPortAudio(format audio.Format, bufferFrames int, fill FillFunc) (Device, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("invalid output format %dHz/%dch", format.SampleRate, format.Channels)
	}
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	p := &PortAudio{fill: fill}
	stream, err := portaudio.OpenDefaultStream(0, format.Channels, float64(format.SampleRate), bufferFrames, p.callback)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to open stream: %w", err)
	}
	p.stream = stream
	return p, nil
}

// callback runs on the portaudio thread.
func (p *PortAudio) callback(out []int16) {
	need := len(out) * 2
	if cap(p.buf) < need {
		p.buf = make([]byte, need)
	}
	buf := p.buf[:need]
	p.fill(buf)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(buf[i*2:]))
	}
}

func (p *PortAudio) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return nil
	}
	if err := p.stream.Start(); err != nil {
		return fmt.Errorf("failed to start stream: %w", err)
	}
	p.running = true
	return nil
}

func (p *PortAudio) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return nil
	}
	if err := p.stream.Stop(); err != nil {
		return fmt.Errorf("failed to stop stream: %w", err)
	}
	p.running = false
	return nil
}

func (p *PortAudio) Resume() error {
	return p.Start()
}

func (p *PortAudio) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stream != nil {
		if p.running {
			if err := p.stream.Stop(); err != nil {
				return err
			}
			p.running = false
		}
		if err := p.stream.Close(); err != nil {
			return err
		}
		p.stream = nil
	}
	return portaudio.Terminate()
}
