package audio

import (
	"errors"
	"time"
)

// ErrDeviceUnavailable is returned when the selected input device cannot be
// opened or started.
var ErrDeviceUnavailable = errors.New("audio input device unavailable")

// Chunk is one callback-delivered block of mono float32 samples. Samples is
// owned by the receiver; capture backends copy before handing it over.
type Chunk struct {
	Samples    []float32
	CapturedAt time.Duration
	Overflowed bool
}

type DeviceInfo struct {
	Name              string
	MaxInputChannels  int
	DefaultSampleRate float64
}

type StreamConfig struct {
	DeviceName     string
	SampleRate     int
	FramesPerChunk int
}

// ChunkHandler runs on the capture thread and must return quickly.
type ChunkHandler func(Chunk)

type Stream interface {
	Start() error
	Stop() error
	Close() error
}

type Capturer interface {
	InputDevices() ([]DeviceInfo, error)
	Open(cfg StreamConfig, onChunk ChunkHandler) (Stream, error)
}

// InputOnly filters devices down to those that can record.
func InputOnly(devices []DeviceInfo) []DeviceInfo {
	out := make([]DeviceInfo, 0, len(devices))
	for _, d := range devices {
		if d.MaxInputChannels > 0 {
			out = append(out, d)
		}
	}
	return out
}
