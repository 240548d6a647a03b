// ABOUTME: Media decode package providing pull-driven sources
// ABOUTME: Normalizes every input to s16le stereo PCM chunks
// Package media opens audio and video files and exposes them as
// pull-driven sources of decoded data.
//
// Audio sources implement the Source interface and always emit
// interleaved s16le stereo at the stream's native sample rate, so the
// playback layer never cares which decoder produced a chunk. Two decode
// paths exist:
//   - Open: FFmpeg through go-astiav, covering everything the linked
//     FFmpeg build can demux and decode
//   - OpenNative: pure-Go decoders for mp3, flac and wav
//
// VideoSource decodes the picture track of a container into RGBA
// frames for tools that need stills or thumbnails.
//
// Failures carry a Kind so callers can tell a lost unit
// (ConversionFailure) from a dead stream (DecodeFailure). End of
// stream is io.EOF, not an error kind.
package media
