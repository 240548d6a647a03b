// ABOUTME: Tests for the TUI model
// ABOUTME: Covers key handling, transport commands and render helpers
package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zwdconstrucition/linkstart/pkg/playback"
)

// fakeTransport records commands and mimics the player's state moves.
type fakeTransport struct {
	state    playback.State
	position float64
	duration float64
	depth    int
	calls    []string
	seekTo   float64
	err      error
}

func (f *fakeTransport) Start() error {
	f.calls = append(f.calls, "start")
	if f.err == nil {
		f.state = playback.StatePlaying
	}
	return f.err
}

func (f *fakeTransport) Stop() {
	f.calls = append(f.calls, "stop")
	f.state = playback.StateStopped
	f.position = 0
}

func (f *fakeTransport) Pause() error {
	f.calls = append(f.calls, "pause")
	if f.err == nil {
		f.state = playback.StatePaused
	}
	return f.err
}

func (f *fakeTransport) Resume() error {
	f.calls = append(f.calls, "resume")
	if f.err == nil {
		f.state = playback.StatePlaying
	}
	return f.err
}

func (f *fakeTransport) Seek(t float64) error {
	f.calls = append(f.calls, "seek")
	f.seekTo = t
	if f.err == nil {
		f.position = t
	}
	return f.err
}

func (f *fakeTransport) State() playback.State { return f.state }
func (f *fakeTransport) IsPlaying() bool       { return f.state == playback.StatePlaying }
func (f *fakeTransport) CurrentTime() float64  { return f.position }
func (f *fakeTransport) Duration() float64     { return f.duration }
func (f *fakeTransport) QueueDepth() int       { return f.depth }

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("update returned %T, expected Model", next)
	}
	return model, cmd
}

func TestNewModelDefaults(t *testing.T) {
	m := NewModel(nil, "song.mp3", 10)

	if m.volume != 100 {
		t.Errorf("expected default volume 100, got %d", m.volume)
	}
	if m.muted {
		t.Error("expected muted off initially")
	}
	if m.quitting {
		t.Error("expected quitting off initially")
	}
}

func TestSpaceTogglesPlayback(t *testing.T) {
	ft := &fakeTransport{state: playback.StateStopped}
	m := NewModel(ft, "song.mp3", 10)

	m, _ = update(t, m, keyRune(' '))
	if m.state != playback.StatePlaying {
		t.Fatalf("expected playing after first space, got %v", m.state)
	}

	m, _ = update(t, m, keyRune(' '))
	if m.state != playback.StatePaused {
		t.Fatalf("expected paused after second space, got %v", m.state)
	}

	m, _ = update(t, m, keyRune(' '))
	if m.state != playback.StatePlaying {
		t.Fatalf("expected playing after third space, got %v", m.state)
	}

	want := []string{"start", "pause", "resume"}
	if len(ft.calls) != len(want) {
		t.Fatalf("expected calls %v, got %v", want, ft.calls)
	}
	for i, c := range want {
		if ft.calls[i] != c {
			t.Errorf("call %d: expected %s, got %s", i, c, ft.calls[i])
		}
	}
}

func TestStopKey(t *testing.T) {
	ft := &fakeTransport{state: playback.StatePlaying, position: 42}
	m := NewModel(ft, "song.mp3", 10)

	m, _ = update(t, m, keyRune('s'))

	if m.state != playback.StateStopped {
		t.Errorf("expected stopped, got %v", m.state)
	}
	if m.position != 0 {
		t.Errorf("expected position reset, got %v", m.position)
	}
}

func TestSeekKeys(t *testing.T) {
	ft := &fakeTransport{state: playback.StatePlaying, position: 30, duration: 300}
	m := NewModel(ft, "song.mp3", 10)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if ft.seekTo != 20 {
		t.Errorf("expected seek to 20, got %v", ft.seekTo)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if ft.seekTo != 30 {
		t.Errorf("expected seek to 30, got %v", ft.seekTo)
	}
	if m.position != 30 {
		t.Errorf("expected refreshed position 30, got %v", m.position)
	}
}

func TestVolumeKeysClamp(t *testing.T) {
	m := NewModel(nil, "song.mp3", 10)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.volume != 100 {
		t.Errorf("expected volume clamped at 100, got %d", m.volume)
	}

	for i := 0; i < 25; i++ {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.volume != 0 {
		t.Errorf("expected volume clamped at 0, got %d", m.volume)
	}

	m, _ = update(t, m, keyRune('+'))
	if m.volume != 5 {
		t.Errorf("expected volume 5, got %d", m.volume)
	}
}

func TestMuteToggle(t *testing.T) {
	m := NewModel(nil, "song.mp3", 10)

	m, _ = update(t, m, keyRune('m'))
	if !m.muted {
		t.Error("expected muted after m")
	}
	m, _ = update(t, m, keyRune('m'))
	if m.muted {
		t.Error("expected unmuted after second m")
	}
}

func TestQuitKeys(t *testing.T) {
	for _, msg := range []tea.Msg{
		keyRune('q'),
		tea.KeyMsg{Type: tea.KeyEsc},
		tea.KeyMsg{Type: tea.KeyCtrlC},
	} {
		m := NewModel(nil, "song.mp3", 10)
		m, cmd := update(t, m, msg)
		if !m.quitting {
			t.Errorf("%v: expected quitting", msg)
		}
		if cmd == nil {
			t.Fatalf("%v: expected a quit command", msg)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%v: expected tea.QuitMsg", msg)
		}
	}
}

func TestTickRefreshesFromTransport(t *testing.T) {
	ft := &fakeTransport{state: playback.StatePlaying, position: 12.5, duration: 60, depth: 7}
	m := NewModel(ft, "song.mp3", 10)

	ft.position = 13.0
	m, cmd := update(t, m, tickMsg(time.Now()))

	if m.position != 13.0 {
		t.Errorf("expected refreshed position 13.0, got %v", m.position)
	}
	if m.depth != 7 {
		t.Errorf("expected refreshed depth 7, got %d", m.depth)
	}
	if cmd == nil {
		t.Error("expected the next tick to be scheduled")
	}
}

func TestTransportErrorShownInView(t *testing.T) {
	ft := &fakeTransport{state: playback.StateStopped, err: errors.New("no audio device")}
	m := NewModel(ft, "song.mp3", 10)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	m, _ = update(t, m, keyRune(' '))

	view := m.View()
	if !strings.Contains(view, "no audio device") {
		t.Errorf("expected the error in the view:\n%s", view)
	}
}

func TestViewShowsStateAndTimes(t *testing.T) {
	ft := &fakeTransport{state: playback.StatePlaying, position: 61, duration: 125}
	m := NewModel(ft, "song.mp3", 10)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	view := m.View()
	for _, want := range []string{"song.mp3", "playing", "1:01", "2:05"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		name     string
		value    int
		max      int
		width    int
		expected string
	}{
		{"empty", 0, 100, 10, "░░░░░░░░░░"},
		{"full", 100, 100, 10, "██████████"},
		{"half", 50, 100, 10, "█████░░░░░"},
		{"overflow clamps", 75, 1, 10, "██████████"},
		{"zero max", 3, 0, 4, "████"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderBar(tt.value, tt.max, tt.width); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		seconds  float64
		expected string
	}{
		{0, "0:00"},
		{59.4, "0:59"},
		{61, "1:01"},
		{75, "1:15"},
		{600, "10:00"},
		{3661, "1:01:01"},
		{-5, "0:00"},
	}

	for _, tt := range tests {
		if got := formatTime(tt.seconds); got != tt.expected {
			t.Errorf("formatTime(%v): expected %q, got %q", tt.seconds, tt.expected, got)
		}
	}
}
