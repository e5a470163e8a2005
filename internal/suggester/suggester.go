package suggester

import (
	"context"

	"github.com/foxseedlab/motives/internal/transcript"
)

// Suggester proposes follow-up interview questions from the transcript so far.
type Suggester interface {
	Suggest(ctx context.Context, entries []transcript.Entry, count int) ([]string, error)
}
