// ABOUTME: Pure-Go mp3 source
// ABOUTME: Decodes through go-mp3 without cgo or FFmpeg
package media

import (
	"fmt"
	"io"
	"os"

	"github.com/hajimehoshi/go-mp3"

	"github.com/zwdconstrucition/linkstart/pkg/audio"
)

// mp3ChunkBytes is one mp3 granule (1152 frames) of s16le stereo, the
// natural unit the decoder produces.
const mp3ChunkBytes = 1152 * 4

// MP3Source decodes an mp3 file with go-mp3. The decoder always emits
// s16le stereo regardless of the encoded channel count.
type MP3Source struct {
	f    *os.File
	dec  *mp3.Decoder
	info StreamInfo
	pos  int64 // decoded byte offset, tracks the presentation time
}

// NewMP3Source opens path and reads the stream parameters.
func NewMP3Source(path string) (*MP3Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{Kind: OpenFailure, Op: "open " + path, Err: err}
	}
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		f.Close()
		return nil, &Error{Kind: OpenFailure, Op: "parse mp3 header", Err: err}
	}

	info := StreamInfo{
		SampleRate: dec.SampleRate(),
		Channels:   audio.OutputChannels,
	}
	if n := dec.Length(); n > 0 {
		info.Duration = float64(n) / float64(info.Format().BytesPerSecond())
	}

	return &MP3Source{f: f, dec: dec, info: info}, nil
}

func (s *MP3Source) Info() StreamInfo { return s.info }

func (s *MP3Source) NextChunk() (audio.Chunk, error) {
	buf := make([]byte, mp3ChunkBytes)
	n, err := io.ReadFull(s.dec, buf)
	if n == 0 {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return audio.Chunk{}, io.EOF
		}
		return audio.Chunk{}, &Error{Kind: DecodeFailure, Op: "decode mp3", Err: err}
	}
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return audio.Chunk{}, &Error{Kind: DecodeFailure, Op: "decode mp3", Err: err}
	}

	pts := float64(s.pos) / float64(s.info.Format().BytesPerSecond())
	s.pos += int64(n)
	return audio.Chunk{Data: buf[:n], PTS: pts}, nil
}

func (s *MP3Source) Seek(t float64) error {
	if t < 0 {
		t = 0
	}
	if s.info.Duration > 0 && t > s.info.Duration {
		t = s.info.Duration
	}
	frame := int64(t * float64(s.info.SampleRate))
	off := frame * int64(s.info.Format().BytesPerFrame())
	if _, err := s.dec.Seek(off, io.SeekStart); err != nil {
		return &Error{Kind: SeekFailure, Op: fmt.Sprintf("seek mp3 to %.3fs", t), Err: err}
	}
	s.pos = off
	return nil
}

func (s *MP3Source) Close() error {
	return s.f.Close()
}
