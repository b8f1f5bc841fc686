package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"social-post-studio/internal/store/inmemory"
	"social-post-studio/models"
)

func seededExportService(t *testing.T) *ExportService {
	t.Helper()
	memStore := inmemory.New()
	ctx := context.Background()

	posts := []*models.Post{
		{Prompt: "spring sale", Content: "Sale starts Monday", Platform: "instagram"},
		{Prompt: "churn report", Content: "Retention is up 12%", Platform: "linkedin"},
		{Prompt: "meme friday", Content: "It works on my machine", Platform: "twitter"},
	}
	for _, p := range posts {
		_, err := memStore.Save(ctx, p)
		require.NoError(t, err)
	}

	saved, err := memStore.List(ctx, "")
	require.NoError(t, err)
	_, err = memStore.Approve(ctx, saved[0].ID)
	require.NoError(t, err)
	_, err = memStore.Reject(ctx, saved[1].ID, "tone is off")
	require.NoError(t, err)

	return NewExportService(memStore)
}

func TestExportJSON(t *testing.T) {
	svc := seededExportService(t)

	file, err := svc.Export(context.Background(), ExportRequest{Format: "json"})
	require.NoError(t, err)
	assert.Equal(t, "application/json", file.ContentType)
	assert.True(t, strings.HasSuffix(file.Filename, ".json"))
	assert.Equal(t, 3, file.RecordCount)

	var envelope struct {
		RecordCount int            `json:"record_count"`
		Summary     map[string]int `json:"summary"`
		Posts       []*models.Post `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(file.Data, &envelope))
	assert.Equal(t, 3, envelope.RecordCount)
	assert.Len(t, envelope.Posts, 3)
	assert.Equal(t, 1, envelope.Summary["approved"])
	assert.Equal(t, 1, envelope.Summary["rejected"])
	assert.Equal(t, 1, envelope.Summary["pending"])
	assert.Equal(t, 3, envelope.Summary["total"])
}

func TestExportExcel(t *testing.T) {
	svc := seededExportService(t)

	file, err := svc.Export(context.Background(), ExportRequest{Format: "excel"})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(file.Filename, ".xlsx"))

	wb, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Posts")
	require.NoError(t, err)
	require.Len(t, rows, 4, "header + three posts")
	assert.Equal(t, "ID", rows[0][0])

	_, err = wb.GetRows("Summary")
	assert.NoError(t, err, "summary sheet present")
}

func TestExportBothProducesZip(t *testing.T) {
	svc := seededExportService(t)

	file, err := svc.Export(context.Background(), ExportRequest{Format: "both"})
	require.NoError(t, err)
	assert.Equal(t, "application/zip", file.ContentType)

	reader, err := zip.NewReader(bytes.NewReader(file.Data), int64(len(file.Data)))
	require.NoError(t, err)
	require.Len(t, reader.File, 2)

	names := []string{reader.File[0].Name, reader.File[1].Name}
	joined := strings.Join(names, " ")
	assert.Contains(t, joined, ".json")
	assert.Contains(t, joined, ".xlsx")
}

func TestExportStatusFilter(t *testing.T) {
	svc := seededExportService(t)

	file, err := svc.Export(context.Background(), ExportRequest{Format: "json", Status: "approved"})
	require.NoError(t, err)
	assert.Equal(t, 1, file.RecordCount)
}

func TestExportInvalidStatus(t *testing.T) {
	svc := seededExportService(t)
	_, err := svc.Export(context.Background(), ExportRequest{Format: "json", Status: "maybe"})
	assert.Error(t, err)
}
