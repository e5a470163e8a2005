package audio

import (
	"github.com/foxseedlab/motives/internal/audio"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (audio.Capturer, error) {
		return NewCapturer(), nil
	})
}
