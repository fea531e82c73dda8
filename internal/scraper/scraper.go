// Package scraper pulls a lead image URL out of an article page for items
// whose feed entry carries no enclosure.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var client = &http.Client{Timeout: 15 * time.Second}

// ExtractImageURL fetches the article page and returns the best candidate
// image URL: og:image, then twitter:image, then the first content image.
// Empty string when the page has none.
func ExtractImageURL(ctx context.Context, articleURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error loading page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error parsing HTML: %w", err)
	}

	return findImage(doc), nil
}

func findImage(doc *goquery.Document) string {
	metaSelectors := []string{
		`meta[property="og:image"]`,
		`meta[name="twitter:image"]`,
		`meta[property="twitter:image"]`,
	}
	for _, sel := range metaSelectors {
		if content, ok := doc.Find(sel).First().Attr("content"); ok {
			if url := strings.TrimSpace(content); url != "" {
				return url
			}
		}
	}

	var found string
	doc.Find("article img, .article-body img, .content img").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if src, ok := s.Attr("src"); ok && strings.HasPrefix(src, "http") {
			found = src
			return false
		}
		return true
	})
	return found
}
