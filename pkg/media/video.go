// ABOUTME: FFmpeg-backed video source
// ABOUTME: Decodes the best video stream into RGBA frames
package media

import (
	"errors"
	"image"
	"io"

	"github.com/asticode/go-astiav"
)

// VideoInfo describes the decoded frames of a video source.
type VideoInfo struct {
	Width    int
	Height   int
	Duration float64 // seconds, 0 when the container does not say
}

// VideoFrame is one decoded picture in RGBA order with a tight stride.
type VideoFrame struct {
	Pix    []byte
	Width  int
	Height int
	PTS    float64
}

// Image wraps the pixels in an image.RGBA without copying.
func (f VideoFrame) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    f.Pix,
		Stride: f.Width * 4,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}

// VideoSource pulls decoded frames from the best video stream of a
// media file. Like the audio sources it is single-consumer: one
// goroutine calls NextFrame, and Seek only runs between calls.
type VideoSource struct {
	fc     *astiav.FormatContext
	decCtx *astiav.CodecContext
	stream *astiav.Stream
	ssc    *astiav.SoftwareScaleContext
	packet *astiav.Packet
	frame  *astiav.Frame
	rgba   *astiav.Frame

	info     VideoInfo
	timeBase float64
	lastPTS  float64
	draining bool
}

// NewVideoSource opens path and prepares decode plus RGBA conversion.
func NewVideoSource(path string) (*VideoSource, error) {
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

	st, codec, err := fc.FindBestStream(astiav.MediaTypeVideo, -1, -1)
	if err != nil {
		fc.CloseInput()
		fc.Free()
		return nil, &Error{Kind: OpenFailure, Op: "find video stream", Err: err}
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

	ssc, err := astiav.CreateSoftwareScaleContext(
		decCtx.Width(), decCtx.Height(), decCtx.PixelFormat(),
		decCtx.Width(), decCtx.Height(), astiav.PixelFormatRgba,
		astiav.NewSoftwareScaleContextFlags(astiav.SoftwareScaleContextFlagBilinear),
	)
	if err != nil {
		decCtx.Free()
		fc.CloseInput()
		fc.Free()
		return nil, &Error{Kind: OpenFailure, Op: "create scale context", Err: err}
	}

	info := VideoInfo{Width: decCtx.Width(), Height: decCtx.Height()}
	if d := st.Duration(); d > 0 {
		info.Duration = float64(d) * st.TimeBase().Float64()
	} else if d := fc.Duration(); d > 0 {
		info.Duration = float64(d) / 1e6
	}

	return &VideoSource{
		fc:       fc,
		decCtx:   decCtx,
		stream:   st,
		ssc:      ssc,
		packet:   astiav.AllocPacket(),
		frame:    astiav.AllocFrame(),
		rgba:     astiav.AllocFrame(),
		info:     info,
		timeBase: st.TimeBase().Float64(),
	}, nil
}

func (s *VideoSource) Info() VideoInfo { return s.info }

// CurrentTime returns the presentation time of the last decoded frame.
func (s *VideoSource) CurrentTime() float64 { return s.lastPTS }

// NextFrame returns the next picture in presentation order. io.EOF
// signals the end of the stream.
func (s *VideoSource) NextFrame() (VideoFrame, error) {
	for {
		err := s.decCtx.ReceiveFrame(s.frame)
		if err == nil {
			vf, cerr := s.scaleFrame()
			s.frame.Unref()
			if cerr != nil {
				return VideoFrame{}, &Error{Kind: ConversionFailure, Op: "convert frame to rgba", Err: cerr}
			}
			return vf, nil
		}
		if astErr, ok := err.(astiav.Error); ok && astErr.Is(astiav.ErrEof) {
			return VideoFrame{}, io.EOF
		}
		if astErr, ok := err.(astiav.Error); !ok || !astErr.Is(astiav.ErrEagain) {
			return VideoFrame{}, &Error{Kind: DecodeFailure, Op: "receive frame", Err: err}
		}
		if s.draining {
			return VideoFrame{}, io.EOF
		}

		if err := s.readPacket(); err != nil {
			if errors.Is(err, io.EOF) {
				if serr := s.decCtx.SendPacket(nil); serr != nil {
					return VideoFrame{}, &Error{Kind: DecodeFailure, Op: "flush decoder", Err: serr}
				}
				s.draining = true
				continue
			}
			return VideoFrame{}, err
		}
		serr := s.decCtx.SendPacket(s.packet)
		s.packet.Unref()
		if serr != nil {
			continue
		}
	}
}

func (s *VideoSource) scaleFrame() (VideoFrame, error) {
	s.rgba.Unref()
	if err := s.ssc.ScaleFrame(s.frame, s.rgba); err != nil {
		return VideoFrame{}, err
	}
	data, err := s.rgba.Data().Bytes(1)
	if err != nil {
		return VideoFrame{}, err
	}
	pix := make([]byte, len(data))
	copy(pix, data)

	if pts := s.frame.Pts(); pts >= 0 {
		s.lastPTS = float64(pts) * s.timeBase
	}
	return VideoFrame{
		Pix:    pix,
		Width:  s.info.Width,
		Height: s.info.Height,
		PTS:    s.lastPTS,
	}, nil
}

func (s *VideoSource) readPacket() error {
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

// Seek repositions decoding at the keyframe at or before t.
func (s *VideoSource) Seek(t float64) error {
	if t < 0 {
		t = 0
	}
	ts := int64(t / s.timeBase)
	if err := s.fc.SeekFrame(s.stream.Index(), ts, astiav.NewSeekFlags(astiav.SeekFlagBackward)); err != nil {
		return &Error{Kind: SeekFailure, Op: "seek demuxer", Err: err}
	}
	_ = s.fc.Flush()
	s.decCtx.FlushBuffers()
	s.draining = false
	s.lastPTS = t
	return nil
}

func (s *VideoSource) Close() error {
	s.ssc.Free()
	s.rgba.Free()
	s.frame.Free()
	s.packet.Free()
	s.decCtx.Free()
	s.fc.CloseInput()
	s.fc.Free()
	return nil
}
