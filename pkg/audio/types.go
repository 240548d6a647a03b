// ABOUTME: Core audio types shared across the playback pipeline
// ABOUTME: Defines the PCM stream format and the decoded chunk unit
package audio

import "time"

// OutputChannels is the channel count every decode path converts to.
// Sources with other layouts are downmixed or upmixed before queueing.
const OutputChannels = 2

// BytesPerSample is the width of one interleaved sample (signed 16-bit
// little-endian).
const BytesPerSample = 2

// Format describes an interleaved s16le PCM stream.
type Format struct {
	SampleRate int // frames per second
	Channels   int // interleaved channels per frame
}

// BytesPerFrame returns the size of one frame across all channels.
func (f Format) BytesPerFrame() int {
	return f.Channels * BytesPerSample
}

// BytesPerSecond returns the byte rate of the stream.
func (f Format) BytesPerSecond() int {
	return f.SampleRate * f.BytesPerFrame()
}

// Duration returns the play time of n bytes of this format.
func (f Format) Duration(n int) time.Duration {
	bps := f.BytesPerSecond()
	if bps == 0 {
		return 0
	}
	return time.Duration(float64(n) / float64(bps) * float64(time.Second))
}

// Valid reports whether the format describes a playable stream.
func (f Format) Valid() bool {
	return f.SampleRate > 0 && f.Channels > 0
}

// Chunk is one decoded unit of audio: interleaved s16le PCM plus the
// presentation time of its first frame. Chunks flow from the decode
// worker to the playback callback and are never mutated after creation.
type Chunk struct {
	Data []byte  // interleaved s16le PCM
	PTS  float64 // presentation time of Data[0], in seconds
}

// Frames returns the number of sample frames in the chunk.
func (c Chunk) Frames(f Format) int {
	bpf := f.BytesPerFrame()
	if bpf == 0 {
		return 0
	}
	return len(c.Data) / bpf
}

// End returns the presentation time just past the last frame.
func (c Chunk) End(f Format) float64 {
	bps := f.BytesPerSecond()
	if bps == 0 {
		return c.PTS
	}
	return c.PTS + float64(len(c.Data))/float64(bps)
}
