package suggester

import (
	"github.com/foxseedlab/motives/internal/config"
	"github.com/foxseedlab/motives/internal/suggester"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (suggester.Suggester, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewChatSuggester(ChatConfig{
			APIKey: c.OpenAIAPIKey,
			Model:  c.OpenAIChatModel,
		}), nil
	})
}
