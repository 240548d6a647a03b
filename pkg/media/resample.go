// ABOUTME: PCM normalization through libswresample
// ABOUTME: Converts decoded frames to interleaved s16le stereo
package media

import (
	"fmt"

	"github.com/asticode/go-astiav"
)

// resampler converts decoded frames of any sample format and channel
// layout to interleaved s16le stereo at a fixed rate. One resampler
// serves one source; it is not safe for concurrent use.
type resampler struct {
	ctx  *astiav.SoftwareResampleContext
	dst  *astiav.Frame
	rate int
}

func newResampler(rate int) *resampler {
	return &resampler{
		ctx:  astiav.AllocSoftwareResampleContext(),
		dst:  astiav.AllocFrame(),
		rate: rate,
	}
}

// convert returns src's samples as interleaved s16le stereo bytes. The
// returned slice is a copy and safe to retain past the next call.
func (r *resampler) convert(src *astiav.Frame) ([]byte, error) {
	r.dst.Unref()
	r.dst.SetChannelLayout(astiav.ChannelLayoutStereo)
	r.dst.SetSampleRate(r.rate)
	r.dst.SetSampleFormat(astiav.SampleFormatS16)
	r.dst.SetNbSamples(src.NbSamples())
	if err := r.dst.AllocBuffer(0); err != nil {
		return nil, fmt.Errorf("alloc sample buffer: %w", err)
	}
	if err := r.ctx.ConvertFrame(src, r.dst); err != nil {
		return nil, fmt.Errorf("convert frame: %w", err)
	}
	data, err := r.dst.Data().Bytes(0)
	if err != nil {
		return nil, fmt.Errorf("read converted samples: %w", err)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// reset drops conversion state carried between frames. Called after a
// demuxer seek so the first post-seek chunk starts from clean history.
func (r *resampler) reset() {
	r.ctx.Free()
	r.ctx = astiav.AllocSoftwareResampleContext()
}

func (r *resampler) free() {
	r.ctx.Free()
	r.dst.Free()
}
