package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"social-post-studio/internal/ai"
	"social-post-studio/internal/store"
	"social-post-studio/models"
)

// ExportRequest selects which posts to export and in what format.
type ExportRequest struct {
	Format      string    `json:"format" binding:"required,oneof=json excel both"`
	Status      string    `json:"status,omitempty"` // pending, approved, rejected; empty = all
	SearchQuery string    `json:"search_query,omitempty"`
	DateFrom    time.Time `json:"date_from,omitempty"`
	DateTo      time.Time `json:"date_to,omitempty"`
}

// ExportFile is the assembled download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
	RecordCount int
}

type exportEnvelope struct {
	ExportDate  time.Time      `json:"export_date"`
	RecordCount int            `json:"record_count"`
	Filters     ExportRequest  `json:"filters"`
	Summary     map[string]int `json:"summary"`
	Posts       []*models.Post `json:"posts"`
}

// ExportService renders posts as structured JSON, an Excel workbook, or a zip
// of both.
type ExportService struct {
	store store.PostStore
}

func NewExportService(postStore store.PostStore) *ExportService {
	return &ExportService{store: postStore}
}

func (e *ExportService) Export(ctx context.Context, req ExportRequest) (*ExportFile, error) {
	if req.Status != "" && !models.ApprovalStatus(req.Status).Valid() {
		return nil, &ai.ValidationError{Field: "status", Reason: "must be pending, approved, or rejected"}
	}

	posts, err := e.store.List(ctx, req.SearchQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to load posts for export: %w", err)
	}
	posts = filterPosts(posts, req)

	stamp := time.Now().Format("20060102-150405")

	switch req.Format {
	case "json":
		data, err := e.renderJSON(posts, req)
		if err != nil {
			return nil, err
		}
		return &ExportFile{
			Filename:    "posts-" + stamp + ".json",
			ContentType: "application/json",
			Data:        data,
			RecordCount: len(posts),
		}, nil

	case "excel":
		data, err := e.renderExcel(posts)
		if err != nil {
			return nil, err
		}
		return &ExportFile{
			Filename:    "posts-" + stamp + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
			RecordCount: len(posts),
		}, nil

	case "both":
		var jsonData, excelData []byte
		g, _ := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			jsonData, err = e.renderJSON(posts, req)
			return err
		})
		g.Go(func() error {
			var err error
			excelData, err = e.renderExcel(posts)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		data, err := zipFiles(map[string][]byte{
			"posts-" + stamp + ".json": jsonData,
			"posts-" + stamp + ".xlsx": excelData,
		})
		if err != nil {
			return nil, err
		}
		return &ExportFile{
			Filename:    "posts-" + stamp + ".zip",
			ContentType: "application/zip",
			Data:        data,
			RecordCount: len(posts),
		}, nil
	}

	return nil, &ai.ValidationError{Field: "format", Reason: "must be json, excel, or both"}
}

func filterPosts(posts []*models.Post, req ExportRequest) []*models.Post {
	filtered := make([]*models.Post, 0, len(posts))
	for _, post := range posts {
		if req.Status != "" && post.Approval != models.ApprovalStatus(req.Status) {
			continue
		}
		if !req.DateFrom.IsZero() && post.CreatedAt.Before(req.DateFrom) {
			continue
		}
		if !req.DateTo.IsZero() && post.CreatedAt.After(req.DateTo) {
			continue
		}
		filtered = append(filtered, post)
	}
	return filtered
}

func (e *ExportService) renderJSON(posts []*models.Post, req ExportRequest) ([]byte, error) {
	envelope := exportEnvelope{
		ExportDate:  time.Now(),
		RecordCount: len(posts),
		Filters:     req,
		Summary:     summarize(posts),
		Posts:       posts,
	}
	return json.MarshalIndent(envelope, "", "  ")
}

func (e *ExportService) renderExcel(posts []*models.Post) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Posts"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Prompt", "Content", "Caption", "Hashtags", "Platform", "Tone", "Approval", "Image URL", "Created At", "Updated At"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for row, post := range posts {
		values := []any{
			post.ID,
			post.Prompt,
			post.Content,
			post.Caption,
			strings.Join(post.Hashtags, " "),
			post.Platform,
			post.Tone,
			string(post.Approval),
			post.ImageURL,
			post.CreatedAt.Format(time.RFC3339),
			post.UpdatedAt.Format(time.RFC3339),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	// Summary sheet with per-status counts
	const summarySheet = "Summary"
	if _, err := f.NewSheet(summarySheet); err == nil {
		f.SetCellValue(summarySheet, "A1", "Status")
		f.SetCellValue(summarySheet, "B1", "Count")
		row := 2
		for status, count := range summarize(posts) {
			cell, _ := excelize.CoordinatesToCellName(1, row)
			f.SetCellValue(summarySheet, cell, status)
			cell, _ = excelize.CoordinatesToCellName(2, row)
			f.SetCellValue(summarySheet, cell, count)
			row++
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func summarize(posts []*models.Post) map[string]int {
	summary := map[string]int{
		string(models.ApprovalPending):  0,
		string(models.ApprovalApproved): 0,
		string(models.ApprovalRejected): 0,
	}
	for _, post := range posts {
		summary[string(post.Approval)]++
	}
	summary["total"] = len(posts)
	return summary
}

func zipFiles(files map[string][]byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, data := range files {
		entry, err := w.Create(name)
		if err != nil {
			return nil, err
		}
		if _, err := entry.Write(data); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
