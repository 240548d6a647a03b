// ABOUTME: Transport controller for decode and playback
// ABOUTME: Owns the worker, queue, clock and output device for one file
package playback

import (
	"errors"
	"io"
	"math"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/zwdconstrucition/linkstart/pkg/audio"
	"github.com/zwdconstrucition/linkstart/pkg/audio/output"
	"github.com/zwdconstrucition/linkstart/pkg/media"
)

// Default queue watermarks, in chunks. The producer blocks above High
// and wakes once the callback has drained the queue down to Low.
const (
	DefaultQueueHigh = 10
	DefaultQueueLow  = 5
)

// DefaultBufferFrames is the device period hint when the config does
// not set one.
const DefaultBufferFrames = 4096

// ErrNoFile is returned by transport operations that need an open file.
var ErrNoFile = errors.New("playback: no file open")

// Config adjusts a Player. The zero value is usable: every field has a
// working default.
type Config struct {
	// QueueHigh and QueueLow are the backpressure watermarks in
	// chunks. Low must sit between 1 and QueueHigh-1.
	QueueHigh int
	QueueLow  int

	// Backend names the output backend, see the output package.
	Backend string

	// BufferFrames is the device period size hint in frames.
	BufferFrames int

	// OpenSource opens a path as a decode source. Defaults to
	// media.Open, the FFmpeg path.
	OpenSource func(path string) (media.Source, error)

	// OpenDevice opens the output device. Defaults to output.Open.
	// Tests substitute a fake device here.
	OpenDevice output.OpenFunc

	// Log receives pipeline events. The zero logger discards them.
	Log zerolog.Logger
}

// Player moves decoded audio from one source to one output device.
// Methods are safe for concurrent use: transport operations serialize
// on a mutex, while CurrentTime, Duration and IsPlaying can be polled
// from a UI loop without blocking the pipeline.
type Player struct {
	cfg Config
	log zerolog.Logger

	mu         sync.Mutex // serializes transport operations
	state      atomic.Int32
	src        media.Source
	dev        output.Device
	worker     *worker
	seekTarget float64
	session    string

	queue *frameQueue
	cur   cursor // owned by the device thread while the device runs
	clock Clock
}

// worker is one run of the decode loop. Closing stop asks the loop to
// exit; done closes when it has.
type worker struct {
	stop   chan struct{}
	done   chan struct{}
	target float64 // drop decoded audio before this time
}

// New builds a Player. No device or file is touched until OpenFile.
func New(cfg Config) *Player {
	if cfg.QueueHigh <= 0 {
		cfg.QueueHigh = DefaultQueueHigh
	}
	if cfg.QueueLow <= 0 || cfg.QueueLow >= cfg.QueueHigh {
		cfg.QueueLow = cfg.QueueHigh / 2
	}
	if cfg.BufferFrames <= 0 {
		cfg.BufferFrames = DefaultBufferFrames
	}
	if cfg.OpenSource == nil {
		cfg.OpenSource = media.Open
	}
	if cfg.OpenDevice == nil {
		cfg.OpenDevice = output.Open
	}
	return &Player{
		cfg:   cfg,
		log:   cfg.Log,
		queue: newFrameQueue(cfg.QueueHigh, cfg.QueueLow),
	}
}

// State returns the transport state.
func (p *Player) State() State {
	return State(p.state.Load())
}

// IsPlaying reports whether audio is actively being consumed.
func (p *Player) IsPlaying() bool {
	return p.State() == StatePlaying
}

// CurrentTime returns the presentation time of the chunk being played,
// in seconds.
func (p *Player) CurrentTime() float64 {
	return p.clock.Time()
}

// QueueDepth returns the number of buffered chunks waiting for the
// device.
func (p *Player) QueueDepth() int {
	return p.queue.Len()
}

// Duration returns the length of the open file in seconds, 0 when
// nothing is open or the container does not report one.
func (p *Player) Duration() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.src == nil {
		return 0
	}
	return p.src.Info().Duration
}

// OpenFile opens path for playback. Any previous file is stopped and
// closed first. On failure no file is open and the player is closed.
func (p *Player) OpenFile(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
	if p.src != nil {
		if err := p.src.Close(); err != nil {
			p.log.Warn().Err(err).Msg("closing previous source")
		}
		p.src = nil
	}
	p.state.Store(int32(StateClosed))
	p.seekTarget = 0
	p.clock.Set(0)

	src, err := p.cfg.OpenSource(path)
	if err != nil {
		p.log.Error().Err(err).Str("path", path).Msg("open failed")
		return err
	}

	p.src = src
	p.session = uuid.NewString()
	p.state.Store(int32(StateStopped))

	info := src.Info()
	p.log.Info().
		Str("session", p.session).
		Str("path", path).
		Int("rate", info.SampleRate).
		Int("channels", info.Channels).
		Float64("duration", info.Duration).
		Msg("source opened")
	return nil
}

// Start opens the output device and spawns the decode worker. Starting
// from Playing or Paused is a no-op; starting with no file open is
// ErrNoFile.
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.State() {
	case StateClosed:
		return ErrNoFile
	case StatePlaying, StatePaused:
		return nil
	}

	p.queue.Reset()
	p.cur.reset()

	format := p.src.Info().Format()
	dev, err := p.cfg.OpenDevice(p.cfg.Backend, format, p.cfg.BufferFrames, p.fill)
	if err != nil {
		p.log.Error().Err(err).Str("backend", p.cfg.Backend).Msg("device open failed")
		return &media.Error{Kind: media.OpenFailure, Op: "open audio device", Err: err}
	}
	p.dev = dev

	p.startWorkerLocked()
	p.state.Store(int32(StatePlaying))

	if err := p.dev.Start(); err != nil {
		p.state.Store(int32(StateStopped))
		p.stopWorkerLocked()
		_ = p.dev.Close()
		p.dev = nil
		p.log.Error().Err(err).Msg("device start failed")
		return &media.Error{Kind: media.OpenFailure, Op: "start audio device", Err: err}
	}

	p.log.Info().Str("session", p.session).Msg("playback started")
	return nil
}

// Stop halts playback, clears buffered audio and resets the clock to
// zero. The source keeps its position: a later Start resumes from
// wherever decoding left off. Stopping when not playing is a no-op.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Player) stopLocked() {
	st := p.State()
	if st != StatePlaying && st != StatePaused {
		return
	}

	// The callback sees the state change and goes silent even before
	// the device stops delivering.
	p.state.Store(int32(StateStopped))
	p.stopWorkerLocked()
	if p.dev != nil {
		if err := p.dev.Close(); err != nil {
			p.log.Warn().Err(err).Msg("device close")
		}
		p.dev = nil
	}
	p.queue.Clear()
	p.cur.reset()
	p.clock.Set(0)
	p.log.Info().Str("session", p.session).Msg("playback stopped")
}

// Pause silences output while keeping the worker, queue and cursor
// exactly where they are. Pausing when not playing is a no-op.
func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.State() != StatePlaying {
		return nil
	}
	p.state.Store(int32(StatePaused))
	if err := p.dev.Pause(); err != nil {
		// The state check in the callback silences output anyway.
		p.log.Warn().Err(err).Msg("device pause")
		return err
	}
	p.log.Debug().Msg("paused")
	return nil
}

// Resume continues playback after Pause. Resuming when not paused is a
// no-op.
func (p *Player) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.State() != StatePaused {
		return nil
	}
	p.state.Store(int32(StatePlaying))
	if err := p.dev.Resume(); err != nil {
		p.log.Warn().Err(err).Msg("device resume")
		return err
	}
	p.log.Debug().Msg("resumed")
	return nil
}

// Seek moves playback to t seconds, clamped to the file bounds. It is
// synchronous: when it returns, the worker has been joined, buffered
// audio is gone and nothing earlier than t will reach the device. When
// called while stopped it only repositions the source for the next
// Start.
func (p *Player) Seek(t float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	st := p.State()
	if st == StateClosed {
		return ErrNoFile
	}
	if t < 0 {
		t = 0
	}
	if d := p.src.Info().Duration; d > 0 && t > d {
		t = d
	}

	running := st == StatePlaying || st == StatePaused
	if running {
		// Halt callbacks so queue and cursor can be flushed safely.
		if err := p.dev.Pause(); err != nil {
			p.log.Warn().Err(err).Msg("device pause for seek")
		}
		p.stopWorkerLocked()
	}

	err := p.src.Seek(t)

	p.queue.Reset()
	p.cur.reset()
	if err == nil {
		p.seekTarget = t
		p.clock.Set(t)
	} else {
		// Source position is undefined now; play whatever comes next.
		p.seekTarget = 0
	}

	if running {
		p.startWorkerLocked()
		if st == StatePlaying {
			if rerr := p.dev.Resume(); rerr != nil {
				p.log.Warn().Err(rerr).Msg("device resume after seek")
			}
		}
	}

	if err != nil {
		p.log.Error().Err(err).Float64("target", t).Msg("seek failed")
		return err
	}
	p.log.Info().Str("session", p.session).Float64("target", t).Msg("seek")
	return nil
}

// Close stops playback and releases the source. The player returns to
// StateClosed and can open another file afterwards.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
	var err error
	if p.src != nil {
		err = p.src.Close()
		p.src = nil
	}
	p.state.Store(int32(StateClosed))
	p.clock.Set(0)
	return err
}

// startWorkerLocked spawns a fresh decode worker over the current
// source. Caller holds p.mu and has reset the queue.
func (p *Player) startWorkerLocked() {
	w := &worker{
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
		target: p.seekTarget,
	}
	p.worker = w
	go p.decodeLoop(w, p.src)
}

// stopWorkerLocked asks the worker to exit and waits for it. The queue
// stop wakes a producer blocked on the watermark, so the join is
// bounded by one source read.
func (p *Player) stopWorkerLocked() {
	if p.worker == nil {
		return
	}
	close(p.worker.stop)
	p.queue.Stop()
	<-p.worker.done
	p.worker = nil
}

// decodeLoop pulls chunks from src and pushes them into the queue
// until the stream ends, a fatal decode error occurs or the transport
// asks it to stop. Conversion failures lose one unit and continue.
func (p *Player) decodeLoop(w *worker, src media.Source) {
	defer close(w.done)

	format := src.Info().Format()
	for {
		select {
		case <-w.stop:
			return
		default:
		}

		chunk, err := src.NextChunk()
		if err != nil {
			if errors.Is(err, io.EOF) {
				p.log.Debug().Str("session", p.session).Msg("end of stream")
				return
			}
			if media.IsFailure(err, media.ConversionFailure) {
				p.log.Warn().Err(err).Msg("unit skipped")
				continue
			}
			p.log.Error().Err(err).Str("session", p.session).Msg("decoding ended")
			return
		}

		chunk, ok := trimToTarget(chunk, w.target, format)
		if !ok || len(chunk.Data) == 0 {
			continue
		}
		if !p.queue.Push(chunk) {
			return
		}
	}
}

// trimToTarget drops audio wholly before the seek target and trims the
// head of the chunk containing it, so nothing earlier than the target
// is ever queued.
func trimToTarget(c audio.Chunk, target float64, f audio.Format) (audio.Chunk, bool) {
	if target <= c.PTS {
		return c, true
	}
	frames := int(math.Round((target - c.PTS) * float64(f.SampleRate)))
	off := frames * f.BytesPerFrame()
	if off >= len(c.Data) {
		return audio.Chunk{}, false
	}
	// The cut is frame-quantized, so the true start differs from target
	// by less than half a frame. Report the target: the clock then reads
	// exactly what the caller asked for.
	return audio.Chunk{Data: c.Data[off:], PTS: target}, true
}

// fill satisfies one device data request. It runs on the device thread
// and must stay real-time safe: no allocation, no locks beyond the
// queue's short critical section, no logging, no blocking.
func (p *Player) fill(dst []byte) {
	clear(dst)
	if p.State() != StatePlaying {
		return
	}

	off := 0
	for off < len(dst) {
		if p.cur.exhausted() {
			chunk, ok := p.queue.TryPop()
			if !ok {
				// Underrun: the remainder stays silent.
				return
			}
			p.cur.adopt(chunk)
			p.clock.Set(chunk.PTS)
		}
		off += p.cur.copyInto(dst[off:])
	}
}
