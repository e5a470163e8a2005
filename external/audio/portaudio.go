//go:build portaudio

package audio

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/foxseedlab/motives/internal/audio"
	"github.com/gordonklaus/portaudio"
)

const inputChannels = 1

type PortAudioCapturer struct {
	mu          sync.Mutex
	initialized bool
}

func NewCapturer() audio.Capturer {
	return &PortAudioCapturer{}
}

func (c *PortAudioCapturer) ensureInitialized() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initialized {
		return nil
	}
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("%w: portaudio init: %v", audio.ErrDeviceUnavailable, err)
	}
	c.initialized = true
	return nil
}

func (c *PortAudioCapturer) InputDevices() ([]audio.DeviceInfo, error) {
	if err := c.ensureInitialized(); err != nil {
		return nil, err
	}
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list portaudio devices: %w", err)
	}
	out := make([]audio.DeviceInfo, 0, len(devices))
	for _, d := range devices {
		out = append(out, audio.DeviceInfo{
			Name:              d.Name,
			MaxInputChannels:  d.MaxInputChannels,
			DefaultSampleRate: d.DefaultSampleRate,
		})
	}
	return audio.InputOnly(out), nil
}

func (c *PortAudioCapturer) findDevice(name string) (*portaudio.DeviceInfo, error) {
	if strings.TrimSpace(name) == "" {
		return portaudio.DefaultInputDevice()
	}
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	for _, d := range devices {
		if d.Name == name && d.MaxInputChannels > 0 {
			return d, nil
		}
	}
	return nil, fmt.Errorf("no input device named %q", name)
}

// Open prepares a mono input stream. The callback copies each buffer because
// portaudio reuses it, then hands the copy to onChunk without blocking.
func (c *PortAudioCapturer) Open(cfg audio.StreamConfig, onChunk audio.ChunkHandler) (audio.Stream, error) {
	if err := c.ensureInitialized(); err != nil {
		return nil, err
	}
	dev, err := c.findDevice(cfg.DeviceName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", audio.ErrDeviceUnavailable, err)
	}

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   dev,
			Channels: inputChannels,
			Latency:  dev.DefaultLowInputLatency,
		},
		SampleRate:      float64(cfg.SampleRate),
		FramesPerBuffer: cfg.FramesPerChunk,
	}
	stream, err := portaudio.OpenStream(params, func(in []float32, timeInfo portaudio.StreamCallbackTimeInfo, flags portaudio.StreamCallbackFlags) {
		samples := make([]float32, len(in))
		copy(samples, in)
		onChunk(audio.Chunk{
			Samples:    samples,
			CapturedAt: timeInfo.InputBufferAdcTime,
			Overflowed: flags&portaudio.InputOverflow != 0,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: open %q: %v", audio.ErrDeviceUnavailable, dev.Name, err)
	}
	slog.Info("portaudio input stream opened", "device", dev.Name, "sample_rate", cfg.SampleRate, "frames_per_chunk", cfg.FramesPerChunk)
	return &portAudioStream{stream: stream, device: dev.Name}, nil
}

// Shutdown releases portaudio. It is called by the DI container on exit.
func (c *PortAudioCapturer) Shutdown() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized {
		return nil
	}
	c.initialized = false
	return portaudio.Terminate()
}

type portAudioStream struct {
	stream *portaudio.Stream
	device string
}

func (s *portAudioStream) Start() error {
	if err := s.stream.Start(); err != nil {
		return fmt.Errorf("%w: start %q: %v", audio.ErrDeviceUnavailable, s.device, err)
	}
	return nil
}

func (s *portAudioStream) Stop() error {
	return s.stream.Stop()
}

func (s *portAudioStream) Close() error {
	return s.stream.Close()
}
