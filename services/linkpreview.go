package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	gocache "github.com/patrickmn/go-cache"
)

// LinkPreview is the extracted context from a reference page.
type LinkPreview struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	SiteName    string `json:"site_name,omitempty"`
}

// LinkPreviewService fetches a reference URL and extracts its title and
// description so they can enrich a generation prompt. Results are cached
// briefly since users iterate on the same reference while tuning a post.
type LinkPreviewService struct {
	httpClient *http.Client
	cache      *gocache.Cache
}

func NewLinkPreviewService(httpClient *http.Client) *LinkPreviewService {
	return &LinkPreviewService{
		httpClient: httpClient,
		cache:      gocache.New(15*time.Minute, 30*time.Minute),
	}
}

func (s *LinkPreviewService) Fetch(ctx context.Context, rawURL string) (*LinkPreview, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("invalid reference URL: %s", rawURL)
	}

	if cached, ok := s.cache.Get(rawURL); ok {
		preview := cached.(LinkPreview)
		return &preview, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "social-post-studio/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reference URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reference URL returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse reference page: %w", err)
	}

	preview := extractPreview(doc, rawURL)
	s.cache.Set(rawURL, *preview, gocache.DefaultExpiration)
	return preview, nil
}

// extractPreview pulls title/description from Open Graph tags first, then
// falls back to the plain <title> and meta description.
func extractPreview(doc *goquery.Document, pageURL string) *LinkPreview {
	preview := &LinkPreview{URL: pageURL}

	if content, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		preview.Title = strings.TrimSpace(content)
	}
	if preview.Title == "" {
		preview.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	if content, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		preview.Description = strings.TrimSpace(content)
	}
	if preview.Description == "" {
		if content, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
			preview.Description = strings.TrimSpace(content)
		}
	}

	if content, ok := doc.Find(`meta[property="og:site_name"]`).Attr("content"); ok {
		preview.SiteName = strings.TrimSpace(content)
	}

	return preview
}
