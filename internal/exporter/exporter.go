package exporter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/foxseedlab/motives/internal/transcript"
)

var ErrNotConfigured = errors.New("transcript export is not configured")

// Exporter writes a single transcript entry to an external notes store.
type Exporter interface {
	ExportEntry(ctx context.Context, entry transcript.Entry) error
}

type Failure struct {
	Index int
	Entry transcript.Entry
	Err   error
}

type Report struct {
	Total    int
	Exported int
	Failures []Failure
}

func (r Report) Complete() bool {
	return r.Exported == r.Total
}

func (r Report) Summary() string {
	if r.Total == 0 {
		return "transcript is empty; nothing exported"
	}
	if r.Complete() {
		return fmt.Sprintf("exported all %d entries", r.Total)
	}
	lines := []string{fmt.Sprintf("exported %d of %d entries; %d failed:", r.Exported, r.Total, len(r.Failures))}
	for _, f := range r.Failures {
		lines = append(lines, fmt.Sprintf("  #%d %s: %v", f.Index, f.Entry.Speaker, f.Err))
	}
	return strings.Join(lines, "\n")
}

// ExportAll creates one record per entry, in order. A failed entry is
// recorded in the report and does not stop the remaining entries. Only a
// cancelled ctx aborts early; the unattempted entries are reported as failed.
func ExportAll(ctx context.Context, exp Exporter, entries []transcript.Entry) Report {
	report := Report{Total: len(entries)}
	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			report.Failures = append(report.Failures, Failure{Index: i, Entry: e, Err: err})
			continue
		}
		if err := exp.ExportEntry(ctx, e); err != nil {
			report.Failures = append(report.Failures, Failure{Index: i, Entry: e, Err: err})
			continue
		}
		report.Exported++
	}
	return report
}
