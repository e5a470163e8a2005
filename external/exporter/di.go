package exporter

import (
	"github.com/foxseedlab/motives/internal/config"
	"github.com/foxseedlab/motives/internal/exporter"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (exporter.Exporter, error) {
		c := do.MustInvoke[*config.Config](i)
		if !c.NotionEnabled() {
			return disabledExporter{}, nil
		}
		return NewNotionExporter(c.NotionToken, c.NotionDatabaseID), nil
	})
}
