package exporter

import (
	"context"
	"fmt"

	"github.com/foxseedlab/motives/internal/exporter"
	"github.com/foxseedlab/motives/internal/transcript"
	"github.com/jomei/notionapi"
)

const (
	speakerProperty = "Speaker"
	textProperty    = "Text"
)

type pageCreator interface {
	Create(ctx context.Context, request *notionapi.PageCreateRequest) (*notionapi.Page, error)
}

// NotionExporter creates one database page per transcript entry with a
// "Speaker" title property and a "Text" rich text property.
type NotionExporter struct {
	pages      pageCreator
	databaseID notionapi.DatabaseID
}

func NewNotionExporter(token, databaseID string) exporter.Exporter {
	client := notionapi.NewClient(notionapi.Token(token))
	return &NotionExporter{
		pages:      client.Page,
		databaseID: notionapi.DatabaseID(databaseID),
	}
}

func (e *NotionExporter) ExportEntry(ctx context.Context, entry transcript.Entry) error {
	_, err := e.pages.Create(ctx, buildPageRequest(e.databaseID, entry))
	if err != nil {
		return fmt.Errorf("create notion page: %w", err)
	}
	return nil
}

func buildPageRequest(databaseID notionapi.DatabaseID, entry transcript.Entry) *notionapi.PageCreateRequest {
	return &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: databaseID,
		},
		Properties: notionapi.Properties{
			speakerProperty: notionapi.TitleProperty{
				Title: []notionapi.RichText{{Text: &notionapi.Text{Content: entry.Speaker}}},
			},
			textProperty: notionapi.RichTextProperty{
				RichText: []notionapi.RichText{{Text: &notionapi.Text{Content: entry.Text}}},
			},
		},
	}
}

type disabledExporter struct{}

func (disabledExporter) ExportEntry(context.Context, transcript.Entry) error {
	return exporter.ErrNotConfigured
}
