package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractPreviewOpenGraph(t *testing.T) {
	doc := docFromHTML(t, `<html><head>
		<title>Plain Title</title>
		<meta property="og:title" content="OG Title">
		<meta property="og:description" content="OG description here.">
		<meta property="og:site_name" content="Example Blog">
		<meta name="description" content="Plain description.">
	</head><body></body></html>`)

	preview := extractPreview(doc, "https://example.com/post")
	assert.Equal(t, "OG Title", preview.Title)
	assert.Equal(t, "OG description here.", preview.Description)
	assert.Equal(t, "Example Blog", preview.SiteName)
	assert.Equal(t, "https://example.com/post", preview.URL)
}

func TestExtractPreviewFallbacks(t *testing.T) {
	doc := docFromHTML(t, `<html><head>
		<title>  Plain Title  </title>
		<meta name="description" content="Plain description.">
	</head><body></body></html>`)

	preview := extractPreview(doc, "https://example.com")
	assert.Equal(t, "Plain Title", preview.Title)
	assert.Equal(t, "Plain description.", preview.Description)
	assert.Empty(t, preview.SiteName)
}

func TestExtractPreviewBarePage(t *testing.T) {
	preview := extractPreview(docFromHTML(t, `<html><body><p>nothing useful</p></body></html>`), "https://example.com")
	assert.Empty(t, preview.Title)
	assert.Empty(t, preview.Description)
}

func TestLinkPreviewFetchAndCache(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`<html><head><title>Cached Page</title></head></html>`))
	}))
	defer srv.Close()

	svc := NewLinkPreviewService(srv.Client())

	first, err := svc.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Cached Page", first.Title)

	second, err := svc.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, 1, hits, "second fetch served from cache")
}

func TestLinkPreviewRejectsBadURLs(t *testing.T) {
	svc := NewLinkPreviewService(http.DefaultClient)
	for _, raw := range []string{"ftp://example.com", "not a url at all", "javascript:alert(1)"} {
		_, err := svc.Fetch(context.Background(), raw)
		assert.Error(t, err, raw)
	}
}

func TestLinkPreviewNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	svc := NewLinkPreviewService(srv.Client())
	_, err := svc.Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}
