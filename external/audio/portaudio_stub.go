//go:build !portaudio

package audio

import (
	"fmt"

	"github.com/foxseedlab/motives/internal/audio"
)

type noopCapturer struct{}

func NewCapturer() audio.Capturer {
	return &noopCapturer{}
}

func (c *noopCapturer) InputDevices() ([]audio.DeviceInfo, error) {
	return nil, nil
}

func (c *noopCapturer) Open(_ audio.StreamConfig, _ audio.ChunkHandler) (audio.Stream, error) {
	return nil, fmt.Errorf("%w: built without portaudio support (rebuild with -tags portaudio)", audio.ErrDeviceUnavailable)
}
