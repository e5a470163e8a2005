package transcriber

import "context"

// Transcriber turns one window of mono float32 samples into text. Calls are
// synchronous; an empty result with a nil error means nothing was recognized.
type Transcriber interface {
	Transcribe(ctx context.Context, samples []float32, sampleRate int) (string, error)
}
