package browser

import (
	"fmt"

	"github.com/foxseedlab/motives/internal/meeting"
	"github.com/pkg/browser"
)

type systemOpener struct{}

func NewOpener() meeting.Opener {
	return systemOpener{}
}

func (systemOpener) Open(url string) error {
	if err := browser.OpenURL(url); err != nil {
		return fmt.Errorf("open %s in browser: %w", url, err)
	}
	return nil
}
