package transcriber

import (
	"github.com/foxseedlab/motives/internal/config"
	"github.com/foxseedlab/motives/internal/transcriber"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (transcriber.Transcriber, error) {
		c := do.MustInvoke[*config.Config](i)
		if c.TranscribeBackend == config.TranscribeBackendGoogle {
			return NewCloudSpeechTranscriber(CloudSpeechConfig{
				ProjectID:       c.GoogleCloudProjectID,
				CredentialsJSON: c.GoogleCloudCredentialsJSON,
				Language:        c.TranscribeLanguage,
				Location:        c.GoogleCloudSpeechLocation,
				Model:           c.GoogleCloudSpeechModel,
			}), nil
		}
		return NewWhisperTranscriber(WhisperConfig{
			APIKey:   c.OpenAIAPIKey,
			Language: c.TranscribeLanguage,
		}), nil
	})
}
