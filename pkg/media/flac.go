// ABOUTME: Pure-Go flac source
// ABOUTME: Decodes through mewkiz/flac without cgo or FFmpeg
package media

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/mewkiz/flac"

	"github.com/zwdconstrucition/linkstart/pkg/audio"
)

// FLACSource decodes a flac file with mewkiz/flac, one flac frame per
// chunk. Output is normalized to s16le stereo whatever the encoded bit
// depth and channel count.
type FLACSource struct {
	f      *os.File
	stream *flac.Stream
	info   StreamInfo
	bps    uint // encoded bits per sample
	nch    int  // encoded channel count
	pos    uint64
}

// NewFLACSource opens path with seeking enabled.
func NewFLACSource(path string) (*FLACSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{Kind: OpenFailure, Op: "open " + path, Err: err}
	}
	stream, err := flac.NewSeek(f)
	if err != nil {
		f.Close()
		return nil, &Error{Kind: OpenFailure, Op: "parse flac header", Err: err}
	}

	si := stream.Info
	info := StreamInfo{
		SampleRate: int(si.SampleRate),
		Channels:   audio.OutputChannels,
	}
	if si.NSamples > 0 {
		info.Duration = float64(si.NSamples) / float64(si.SampleRate)
	}

	return &FLACSource{
		f:      f,
		stream: stream,
		info:   info,
		bps:    uint(si.BitsPerSample),
		nch:    int(si.NChannels),
	}, nil
}

func (s *FLACSource) Info() StreamInfo { return s.info }

func (s *FLACSource) NextChunk() (audio.Chunk, error) {
	frame, err := s.stream.ParseNext()
	if err != nil {
		if err == io.EOF {
			return audio.Chunk{}, io.EOF
		}
		return audio.Chunk{}, &Error{Kind: DecodeFailure, Op: "parse flac frame", Err: err}
	}
	if len(frame.Subframes) == 0 {
		return audio.Chunk{}, &Error{Kind: ConversionFailure, Op: "interleave flac frame", Err: fmt.Errorf("frame has no subframes")}
	}

	n := len(frame.Subframes[0].Samples)
	pts := float64(s.pos) / float64(s.info.SampleRate)
	s.pos += uint64(n)

	data := make([]byte, n*s.info.Format().BytesPerFrame())
	for i := 0; i < n; i++ {
		left := s.sampleToInt16(frame.Subframes[0].Samples[i])
		right := left
		if s.nch > 1 {
			right = s.sampleToInt16(frame.Subframes[1].Samples[i])
		}
		binary.LittleEndian.PutUint16(data[i*4:], uint16(left))
		binary.LittleEndian.PutUint16(data[i*4+2:], uint16(right))
	}
	return audio.Chunk{Data: data, PTS: pts}, nil
}

// sampleToInt16 rescales one decoded sample to the 16-bit range.
func (s *FLACSource) sampleToInt16(v int32) int16 {
	switch {
	case s.bps == 16:
		return int16(v)
	case s.bps < 16:
		return int16(v << (16 - s.bps))
	default:
		return int16(v >> (s.bps - 16))
	}
}

// Seek lands on the flac frame boundary at or before t.
func (s *FLACSource) Seek(t float64) error {
	if t < 0 {
		t = 0
	}
	target := uint64(t * float64(s.info.SampleRate))
	actual, err := s.stream.Seek(target)
	if err != nil {
		return &Error{Kind: SeekFailure, Op: fmt.Sprintf("seek flac to %.3fs", t), Err: err}
	}
	s.pos = actual
	return nil
}

func (s *FLACSource) Close() error {
	return s.f.Close()
}
