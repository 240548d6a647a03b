// ABOUTME: Media source interface and file-type routing
// ABOUTME: Picks the decoder implementation for a path
package media

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/zwdconstrucition/linkstart/pkg/audio"
)

// StreamInfo describes the decoded output of a source.
type StreamInfo struct {
	SampleRate int
	Channels   int
	Duration   float64 // seconds, 0 when the container does not say
}

// Format returns the PCM format the source emits.
func (si StreamInfo) Format() audio.Format {
	return audio.Format{SampleRate: si.SampleRate, Channels: si.Channels}
}

// Source produces s16le PCM chunks from one media file. Sources are
// pull-driven and not safe for concurrent use: the decode worker owns
// NextChunk between start and stop, and the transport calls Seek only
// after the worker has been joined.
type Source interface {
	// Info reports the output stream parameters. Constant for the
	// lifetime of the source.
	Info() StreamInfo

	// NextChunk returns the next decoded unit in presentation order.
	// io.EOF signals the end of the stream. A ConversionFailure means
	// one unit was lost but decoding can continue; any other error
	// ends the stream.
	NextChunk() (audio.Chunk, error)

	// Seek repositions decoding near t seconds, biased toward the
	// closest earlier decodable boundary so the chunk containing t is
	// reachable.
	Seek(t float64) error

	// Close releases decoder and file handles.
	Close() error
}

// Open opens path through the FFmpeg decode path, which covers every
// container and codec the linked FFmpeg build does.
func Open(path string) (Source, error) {
	return NewFFmpegSource(path)
}

// OpenNative opens path with a pure-Go decoder picked by extension.
// Only mp3, flac and wav are covered; anything else is an OpenFailure.
func OpenNative(path string) (Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return NewMP3Source(path)
	case ".flac":
		return NewFLACSource(path)
	case ".wav":
		return NewWAVSource(path)
	}
	return nil, &Error{
		Kind: OpenFailure,
		Op:   "open " + path,
		Err:  errors.New("no native decoder for this extension"),
	}
}

var audioExts = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".flac": true,
	".ogg":  true,
	".opus": true,
	".aac":  true,
	".m4a":  true,
	".wma":  true,
}

var videoExts = map[string]bool{
	".mp4":  true,
	".avi":  true,
	".mkv":  true,
	".mov":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
}

// IsAudioFile reports whether path has a known audio extension.
func IsAudioFile(path string) bool {
	return audioExts[strings.ToLower(filepath.Ext(path))]
}

// IsVideoFile reports whether path has a known video container
// extension. Video files still play through the audio pipeline; only
// their audio track is decoded.
func IsVideoFile(path string) bool {
	return videoExts[strings.ToLower(filepath.Ext(path))]
}
