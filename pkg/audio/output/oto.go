// ABOUTME: Oto-based output device
// ABOUTME: Adapts oto's reader-driven player to the fill callback
package output

import (
	"fmt"

	"github.com/ebitengine/oto/v3"

	"github.com/zwdconstrucition/linkstart/pkg/audio"
)

// Oto plays through the oto library. Oto pulls PCM from an io.Reader
// on its own goroutine, so a small adapter turns those reads into fill
// calls. The process-wide oto context stays alive after Close; oto does
// not support tearing it down.
type Oto struct {
	otoCtx *oto.Context
	player *oto.Player
}

// fillReader adapts FillFunc to the io.Reader oto consumes. Reads never
// fail and never come up short: the fill contract fills every byte.
type fillReader struct {
	fill FillFunc
}

func (r fillReader) Read(p []byte) (int, error) {
	r.fill(p)
	return len(p), nil
}

// NewOto opens an oto player for format.
func NewOto(format audio.Format, fill FillFunc) (Device, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("invalid output format %dHz/%dch", format.SampleRate, format.Channels)
	}

	op := &oto.NewContextOptions{
		SampleRate:   format.SampleRate,
		ChannelCount: format.Channels,
		Format:       oto.FormatSignedInt16LE,
	}
	otoCtx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-readyChan

	return &Oto{
		otoCtx: otoCtx,
		player: otoCtx.NewPlayer(fillReader{fill: fill}),
	}, nil
}

func (o *Oto) Start() error {
	o.player.Play()
	return nil
}

func (o *Oto) Pause() error {
	o.player.Pause()
	return nil
}

func (o *Oto) Resume() error {
	o.player.Play()
	return nil
}

func (o *Oto) Close() error {
	err := o.player.Close()
	o.otoCtx.Suspend()
	return err
}
