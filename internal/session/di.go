package session

import (
	"github.com/foxseedlab/motives/internal/audio"
	"github.com/foxseedlab/motives/internal/config"
	"github.com/foxseedlab/motives/internal/exporter"
	"github.com/foxseedlab/motives/internal/meeting"
	"github.com/foxseedlab/motives/internal/metrics"
	"github.com/foxseedlab/motives/internal/repository"
	"github.com/foxseedlab/motives/internal/suggester"
	"github.com/foxseedlab/motives/internal/transcriber"
	"github.com/foxseedlab/motives/internal/webhook"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Manager, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewManager(cfg, Dependencies{
			Repository:  do.MustInvoke[repository.Repository](i),
			Capturer:    do.MustInvoke[audio.Capturer](i),
			Transcriber: do.MustInvoke[transcriber.Transcriber](i),
			Exporter:    do.MustInvoke[exporter.Exporter](i),
			Suggester:   do.MustInvoke[suggester.Suggester](i),
			Opener:      do.MustInvoke[meeting.Opener](i),
			Webhook:     do.MustInvoke[webhook.Sender](i),
			Metrics:     do.MustInvoke[*metrics.Metrics](i),
		}), nil
	})
}
