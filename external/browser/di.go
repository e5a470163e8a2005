package browser

import (
	"github.com/foxseedlab/motives/internal/meeting"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (meeting.Opener, error) {
		return NewOpener(), nil
	})
}
