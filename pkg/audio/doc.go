// ABOUTME: Audio fundamentals package providing core types
// ABOUTME: Defines the Format and Chunk types used across the pipeline
// Package audio provides the fundamental types shared by the decode and
// playback packages.
//
// Everything downstream of a decoder works on interleaved signed 16-bit
// little-endian PCM:
//   - Format: sample rate and channel count of a stream
//   - Chunk: one decoded unit of PCM with its presentation time
//
// Example:
//
//	format := audio.Format{
//	    SampleRate: 44100,
//	    Channels:   audio.OutputChannels,
//	}
//
//	// One second of audio at this format
//	n := format.BytesPerSecond()
package audio
