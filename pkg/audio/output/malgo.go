// ABOUTME: Malgo-based output device
// ABOUTME: Drives the fill callback from the miniaudio data thread
package output

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"

	"github.com/zwdconstrucition/linkstart/pkg/audio"
)

// Malgo plays through miniaudio. The miniaudio data callback invokes
// the pipeline's fill function directly, so pausing the device is what
// stops fill calls from arriving.
type Malgo struct {
	malgoCtx *malgo.AllocatedContext
	device   *malgo.Device

	mu      sync.Mutex
	running bool
}

// NewMalgo opens the default playback device for format. bufferFrames
// is a period size hint; zero keeps miniaudio's default.
func NewMalgo(format audio.Format, bufferFrames int, fill FillFunc) (Device, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("invalid output format %dHz/%dch", format.SampleRate, format.Channels)
	}

	malgoCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize malgo context: %w", err)
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = uint32(format.Channels)
	deviceConfig.SampleRate = uint32(format.SampleRate)
	deviceConfig.Alsa.NoMMap = 1
	if bufferFrames > 0 {
		deviceConfig.PeriodSizeInFrames = uint32(bufferFrames)
	}

	deviceCallbacks := malgo.DeviceCallbacks{
		Data: func(pOutputSample, pInputSamples []byte, frameCount uint32) {
			fill(pOutputSample)
		},
	}

	device, err := malgo.InitDevice(malgoCtx.Context, deviceConfig, deviceCallbacks)
	if err != nil {
		_ = malgoCtx.Uninit()
		malgoCtx.Free()
		return nil, fmt.Errorf("failed to initialize playback device: %w", err)
	}

	return &Malgo{malgoCtx: malgoCtx, device: device}, nil
}

func (m *Malgo) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}
	if err := m.device.Start(); err != nil {
		return fmt.Errorf("failed to start device: %w", err)
	}
	m.running = true
	return nil
}

// Pause stops the hardware stream. Stop blocks until the data thread
// is out of the callback, so the caller may touch callback state
// afterwards.
func (m *Malgo) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return nil
	}
	if err := m.device.Stop(); err != nil {
		return fmt.Errorf("failed to stop device: %w", err)
	}
	m.running = false
	return nil
}

func (m *Malgo) Resume() error {
	return m.Start()
}

func (m *Malgo) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device != nil {
		m.device.Uninit()
		m.device = nil
		m.running = false
	}

	var err error
	if m.malgoCtx != nil {
		err = m.malgoCtx.Uninit()
		m.malgoCtx.Free()
		m.malgoCtx = nil
	}
	return err
}
