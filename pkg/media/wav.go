// ABOUTME: RIFF/WAVE source for uncompressed PCM
// ABOUTME: Parses the chunk list and streams the data chunk directly
package media

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/zwdconstrucition/linkstart/pkg/audio"
)

// wavChunkFrames is how many sample frames one chunk carries.
const wavChunkFrames = 1024

// WAVSource reads 16-bit PCM wav files. Mono input is upmixed to
// stereo so every source hands the pipeline the same layout.
type WAVSource struct {
	f          *os.File
	info       StreamInfo
	nch        int
	blockAlign int64
	dataStart  int64
	dataLen    int64
	offset     int64 // consumed bytes within the data chunk
}

// NewWAVSource opens path and walks the RIFF chunk list up to the data
// chunk.
func NewWAVSource(path string) (*WAVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{Kind: OpenFailure, Op: "open " + path, Err: err}
	}
	s, err := parseWAV(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	s.f = f
	return s, nil
}

func parseWAV(f *os.File) (*WAVSource, error) {
	var riff [12]byte
	if _, err := io.ReadFull(f, riff[:]); err != nil {
		return nil, &Error{Kind: OpenFailure, Op: "read riff header", Err: err}
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return nil, &Error{Kind: OpenFailure, Op: "read riff header", Err: fmt.Errorf("not a wave file")}
	}

	var (
		haveFmt           bool
		format, nch, bits uint16
		rate              uint32
		blockAlign        uint16
		chunkHeader       [8]byte
	)
	for {
		if _, err := io.ReadFull(f, chunkHeader[:]); err != nil {
			return nil, &Error{Kind: OpenFailure, Op: "walk riff chunks", Err: fmt.Errorf("no data chunk: %w", err)}
		}
		id := string(chunkHeader[0:4])
		size := binary.LittleEndian.Uint32(chunkHeader[4:8])

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, &Error{Kind: OpenFailure, Op: "parse fmt chunk", Err: fmt.Errorf("chunk too short: %d bytes", size)}
			}
			buf := make([]byte, size+size&1)
			if _, err := io.ReadFull(f, buf); err != nil {
				return nil, &Error{Kind: OpenFailure, Op: "parse fmt chunk", Err: err}
			}
			format = binary.LittleEndian.Uint16(buf[0:2])
			nch = binary.LittleEndian.Uint16(buf[2:4])
			rate = binary.LittleEndian.Uint32(buf[4:8])
			blockAlign = binary.LittleEndian.Uint16(buf[12:14])
			bits = binary.LittleEndian.Uint16(buf[14:16])
			haveFmt = true

		case "data":
			if !haveFmt {
				return nil, &Error{Kind: OpenFailure, Op: "walk riff chunks", Err: fmt.Errorf("data chunk before fmt chunk")}
			}
			if format != 1 || bits != 16 {
				return nil, &Error{Kind: OpenFailure, Op: "validate wave format", Err: fmt.Errorf("only 16-bit PCM is supported, got format %d with %d bits", format, bits)}
			}
			if nch != 1 && nch != 2 {
				return nil, &Error{Kind: OpenFailure, Op: "validate wave format", Err: fmt.Errorf("unsupported channel count %d", nch)}
			}
			if rate == 0 || blockAlign == 0 {
				return nil, &Error{Kind: OpenFailure, Op: "validate wave format", Err: fmt.Errorf("invalid sample rate or block align")}
			}
			start, err := f.Seek(0, io.SeekCurrent)
			if err != nil {
				return nil, &Error{Kind: OpenFailure, Op: "locate data chunk", Err: err}
			}
			s := &WAVSource{
				nch:        int(nch),
				blockAlign: int64(blockAlign),
				dataStart:  start,
				dataLen:    int64(size),
			}
			s.info = StreamInfo{
				SampleRate: int(rate),
				Channels:   audio.OutputChannels,
				Duration:   float64(int64(size)/int64(blockAlign)) / float64(rate),
			}
			return s, nil

		default:
			// Chunk sizes are word aligned on disk.
			if _, err := f.Seek(int64(size+size&1), io.SeekCurrent); err != nil {
				return nil, &Error{Kind: OpenFailure, Op: "skip " + id + " chunk", Err: err}
			}
		}
	}
}

func (s *WAVSource) Info() StreamInfo { return s.info }

func (s *WAVSource) NextChunk() (audio.Chunk, error) {
	remaining := s.dataLen - s.offset
	if remaining <= 0 {
		return audio.Chunk{}, io.EOF
	}
	want := int64(wavChunkFrames) * s.blockAlign
	if want > remaining {
		want = remaining
	}

	raw := make([]byte, want)
	n, err := io.ReadFull(s.f, raw)
	frames := n / int(s.blockAlign)
	if frames == 0 {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return audio.Chunk{}, io.EOF
		}
		return audio.Chunk{}, &Error{Kind: DecodeFailure, Op: "read wave data", Err: err}
	}

	pts := float64(s.offset/s.blockAlign) / float64(s.info.SampleRate)
	s.offset += int64(frames) * s.blockAlign
	raw = raw[:frames*int(s.blockAlign)]

	if s.nch == audio.OutputChannels {
		return audio.Chunk{Data: raw, PTS: pts}, nil
	}

	// Mono: duplicate each sample into both output channels.
	out := make([]byte, frames*s.info.Format().BytesPerFrame())
	for i := 0; i < frames; i++ {
		out[i*4] = raw[i*2]
		out[i*4+1] = raw[i*2+1]
		out[i*4+2] = raw[i*2]
		out[i*4+3] = raw[i*2+1]
	}
	return audio.Chunk{Data: out, PTS: pts}, nil
}

func (s *WAVSource) Seek(t float64) error {
	if t < 0 {
		t = 0
	}
	if t > s.info.Duration {
		t = s.info.Duration
	}
	off := int64(t*float64(s.info.SampleRate)) * s.blockAlign
	if off > s.dataLen {
		off = s.dataLen
	}
	if _, err := s.f.Seek(s.dataStart+off, io.SeekStart); err != nil {
		return &Error{Kind: SeekFailure, Op: fmt.Sprintf("seek wave to %.3fs", t), Err: err}
	}
	s.offset = off
	return nil
}

func (s *WAVSource) Close() error {
	return s.f.Close()
}
