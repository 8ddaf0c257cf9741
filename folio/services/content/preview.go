package content

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	httputils "folio/folio/utils/http"
	"folio/folio/utils/logging"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	previewConcurrency = 4
	previewTimeout     = 10 * time.Second
	userAgent          = "Mozilla/5.0 (compatible; folio-preview/1.0)"
)

// Preview holds the OpenGraph fields read from a page.
type Preview struct {
	Title       string
	Description string
	Image       string
}

// ParsePreview reads og:* meta tags, falling back to <title> and the plain
// description meta tag.
func ParsePreview(html []byte) (Preview, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return Preview{}, err
	}
	meta := func(attr, name string) string {
		v, _ := doc.Find("meta[" + attr + "='" + name + "']").First().Attr("content")
		return strings.TrimSpace(v)
	}

	p := Preview{
		Title:       meta("property", "og:title"),
		Description: meta("property", "og:description"),
		Image:       meta("property", "og:image"),
	}
	if p.Title == "" {
		p.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if p.Description == "" {
		p.Description = meta("name", "description")
	}
	return p, nil
}

func needsPreview(b BlogPost) bool {
	return b.URL != "" && (b.Description == "" || b.ImageURL == "" || b.Title == "")
}

// RefreshPreviews fills missing title, description and image of blog posts
// from their pages. Fetch failures are logged and leave the post as it was.
// It returns how many posts changed.
func (s *Service) RefreshPreviews(ctx context.Context, client *http.Client) int {
	defer logging.LogDuration(ctx, "content_refresh_previews")()

	posts := s.BlogPosts()
	previews := make([]*Preview, len(posts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(previewConcurrency)
	for i, post := range posts {
		if !needsPreview(post) {
			continue
		}
		g.Go(func() error {
			p, err := fetchPreview(gctx, client, post.URL)
			if err != nil {
				logging.AppLogger.Warn("Blog preview fetch failed",
					zap.String("url", post.URL),
					zap.Error(err),
				)
				return nil
			}
			previews[i] = &p
			return nil
		})
	}
	_ = g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	changed := 0
	for i, p := range previews {
		if p == nil || i >= len(s.content.Blogs) {
			continue
		}
		b := &s.content.Blogs[i]
		before := *b
		if b.Title == "" {
			b.Title = p.Title
		}
		if b.Description == "" {
			b.Description = p.Description
		}
		if b.ImageURL == "" {
			b.ImageURL = p.Image
		}
		if *b != before {
			changed++
		}
	}
	return changed
}

func fetchPreview(ctx context.Context, client *http.Client, url string) (Preview, error) {
	ctx, cancel := context.WithTimeout(ctx, previewTimeout)
	defer cancel()

	resp, err := httputils.Get(ctx, client, url, map[string]string{"User-Agent": userAgent})
	if err != nil {
		return Preview{}, err
	}
	if !resp.OK() {
		return Preview{}, &httpStatusError{status: resp.StatusCode}
	}
	return ParsePreview(resp.Body)
}

type httpStatusError struct {
	status int
}

func (e *httpStatusError) Error() string {
	return "unexpected status " + http.StatusText(e.status)
}
