package exporter

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/foxseedlab/motives/internal/transcript"
)

type mockExporter struct {
	failOn map[string]bool
	got    []transcript.Entry
}

func (m *mockExporter) ExportEntry(_ context.Context, e transcript.Entry) error {
	m.got = append(m.got, e)
	if m.failOn[e.Text] {
		return errors.New("notion: rate limited")
	}
	return nil
}

func TestExportAll_PartialFailureContinues(t *testing.T) {
	exp := &mockExporter{failOn: map[string]bool{"b": true}}
	entries := []transcript.Entry{
		{Speaker: "You", Text: "a"},
		{Speaker: "Customer", Text: "b"},
		{Speaker: "You", Text: "c"},
	}

	report := ExportAll(context.Background(), exp, entries)
	if len(exp.got) != 3 {
		t.Fatalf("expected all entries attempted, got %d", len(exp.got))
	}
	if report.Total != 3 || report.Exported != 2 || len(report.Failures) != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.Failures[0].Index != 1 {
		t.Fatalf("unexpected failure index: %d", report.Failures[0].Index)
	}
	if report.Complete() {
		t.Fatal("expected incomplete report")
	}
	if !strings.Contains(report.Summary(), "exported 2 of 3 entries") {
		t.Fatalf("unexpected summary: %s", report.Summary())
	}
}

func TestExportAll_CancelledContext(t *testing.T) {
	exp := &mockExporter{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := ExportAll(ctx, exp, []transcript.Entry{{Text: "a"}, {Text: "b"}})
	if len(exp.got) != 0 {
		t.Fatalf("expected no export attempts, got %d", len(exp.got))
	}
	if report.Exported != 0 || len(report.Failures) != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestReportSummary(t *testing.T) {
	if s := (Report{}).Summary(); !strings.Contains(s, "nothing exported") {
		t.Fatalf("unexpected empty summary: %s", s)
	}
	if s := (Report{Total: 4, Exported: 4}).Summary(); s != "exported all 4 entries" {
		t.Fatalf("unexpected complete summary: %s", s)
	}
}
