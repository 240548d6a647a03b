// ABOUTME: FFmpeg-backed audio source
// ABOUTME: Demuxes and decodes any container the linked FFmpeg handles
package media

import (
	"errors"
	"io"

	"github.com/asticode/go-astiav"

	"github.com/zwdconstrucition/linkstart/pkg/audio"
)

func init() {
	// FFmpeg writes directly to stderr otherwise.
	astiav.SetLogLevel(astiav.LogLevelQuiet)
}

// FFmpegSource decodes the best audio stream of a media file and emits
// s16le stereo chunks at the stream's native sample rate.
type FFmpegSource struct {
	fc     *astiav.FormatContext
	decCtx *astiav.CodecContext
	stream *astiav.Stream
	packet *astiav.Packet
	frame  *astiav.Frame
	res    *resampler

	info     StreamInfo
	timeBase float64
	nextPTS  float64 // fallback presentation time for frames without one
	draining bool    // flush packet sent, receiving buffered frames
}

// NewFFmpegSource opens path and prepares the audio decode chain.
func NewFFmpegSource(path string) (*FFmpegSource, error) {
	fc := astiav.AllocFormatContext()
	if fc == nil {
		return nil, &Error{Kind: OpenFailure, Op: "alloc format context"}
	}
	if err := fc.OpenInput(path, nil, nil); err != nil {
		fc.Free()
		return nil, &Error{Kind: OpenFailure, Op: "open input " + path, Err: err}
	}
	if err := fc.FindStreamInfo(nil); err != nil {
		fc.CloseInput()
		fc.Free()
		return nil, &Error{Kind: OpenFailure, Op: "find stream info", Err: err}
	}

	st, codec, err := fc.FindBestStream(astiav.MediaTypeAudio, -1, -1)
	if err != nil {
		fc.CloseInput()
		fc.Free()
		return nil, &Error{Kind: OpenFailure, Op: "find audio stream", Err: err}
	}

	decCtx := astiav.AllocCodecContext(codec)
	if decCtx == nil {
		fc.CloseInput()
		fc.Free()
		return nil, &Error{Kind: OpenFailure, Op: "alloc codec context"}
	}
	if err := decCtx.FromCodecParameters(st.CodecParameters()); err != nil {
		decCtx.Free()
		fc.CloseInput()
		fc.Free()
		return nil, &Error{Kind: OpenFailure, Op: "apply codec parameters", Err: err}
	}
	decCtx.SetTimeBase(st.TimeBase())
	if err := decCtx.Open(codec, nil); err != nil {
		decCtx.Free()
		fc.CloseInput()
		fc.Free()
		return nil, &Error{Kind: OpenFailure, Op: "open decoder", Err: err}
	}

	info := StreamInfo{
		SampleRate: decCtx.SampleRate(),
		Channels:   audio.OutputChannels,
	}
	if d := st.Duration(); d > 0 {
		info.Duration = float64(d) * st.TimeBase().Float64()
	} else if d := fc.Duration(); d > 0 {
		// Container duration is in microseconds when the stream has none.
		info.Duration = float64(d) / 1e6
	}

	return &FFmpegSource{
		fc:       fc,
		decCtx:   decCtx,
		stream:   st,
		packet:   astiav.AllocPacket(),
		frame:    astiav.AllocFrame(),
		res:      newResampler(decCtx.SampleRate()),
		info:     info,
		timeBase: st.TimeBase().Float64(),
	}, nil
}

func (s *FFmpegSource) Info() StreamInfo { return s.info }

// NextChunk drains the decoder before feeding it more packets, so a
// conversion failure loses exactly one frame and the next call resumes
// where decoding left off.
func (s *FFmpegSource) NextChunk() (audio.Chunk, error) {
	for {
		err := s.decCtx.ReceiveFrame(s.frame)
		if err == nil {
			pts := s.framePTS(s.frame)
			pcm, cerr := s.res.convert(s.frame)
			s.frame.Unref()
			if cerr != nil {
				return audio.Chunk{}, &Error{Kind: ConversionFailure, Op: "resample frame", Err: cerr}
			}
			return audio.Chunk{Data: pcm, PTS: pts}, nil
		}
		if astErr, ok := err.(astiav.Error); ok && astErr.Is(astiav.ErrEof) {
			return audio.Chunk{}, io.EOF
		}
		if astErr, ok := err.(astiav.Error); !ok || !astErr.Is(astiav.ErrEagain) {
			return audio.Chunk{}, &Error{Kind: DecodeFailure, Op: "receive frame", Err: err}
		}
		if s.draining {
			// The flush packet is in; nothing left but buffered frames.
			return audio.Chunk{}, io.EOF
		}

		if err := s.readPacket(); err != nil {
			if errors.Is(err, io.EOF) {
				if serr := s.decCtx.SendPacket(nil); serr != nil {
					return audio.Chunk{}, &Error{Kind: DecodeFailure, Op: "flush decoder", Err: serr}
				}
				s.draining = true
				continue
			}
			return audio.Chunk{}, err
		}
		serr := s.decCtx.SendPacket(s.packet)
		s.packet.Unref()
		if serr != nil {
			// Undecodable packet; move on to the next one.
			continue
		}
	}
}

// readPacket reads demuxed packets until one belongs to the audio
// stream. io.EOF means the container is exhausted.
func (s *FFmpegSource) readPacket() error {
	for {
		if err := s.fc.ReadFrame(s.packet); err != nil {
			if astErr, ok := err.(astiav.Error); ok && astErr.Is(astiav.ErrEof) {
				return io.EOF
			}
			return &Error{Kind: DecodeFailure, Op: "read packet", Err: err}
		}
		if s.packet.StreamIndex() == s.stream.Index() {
			return nil
		}
		s.packet.Unref()
	}
}

// framePTS converts the frame timestamp to seconds, extrapolating from
// the previous frame when the codec did not stamp one.
func (s *FFmpegSource) framePTS(f *astiav.Frame) float64 {
	step := float64(f.NbSamples()) / float64(s.info.SampleRate)
	if pts := f.Pts(); pts >= 0 {
		t := float64(pts) * s.timeBase
		s.nextPTS = t + step
		return t
	}
	t := s.nextPTS
	s.nextPTS = t + step
	return t
}

// Seek repositions the demuxer at the closest decodable boundary at or
// before t and clears decoder and resampler state.
func (s *FFmpegSource) Seek(t float64) error {
	if t < 0 {
		t = 0
	}
	ts := int64(t / s.timeBase)
	if err := s.fc.SeekFrame(s.stream.Index(), ts, astiav.NewSeekFlags(astiav.SeekFlagBackward)); err != nil {
		return &Error{Kind: SeekFailure, Op: "seek demuxer", Err: err}
	}
	_ = s.fc.Flush()
	s.decCtx.FlushBuffers()
	s.res.reset()
	s.draining = false
	s.nextPTS = t
	return nil
}

func (s *FFmpegSource) Close() error {
	s.res.free()
	s.frame.Free()
	s.packet.Free()
	s.decCtx.Free()
	s.fc.CloseInput()
	s.fc.Free()
	return nil
}
