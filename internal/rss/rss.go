// Package rss loads the feed list and collects IT-relevant candidate items.
package rss

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"gopkg.in/yaml.v3"

	"github.com/Ivan1990Nik/telegram-it-bot/internal/logger"
	"github.com/Ivan1990Nik/telegram-it-bot/internal/metrics"
	"github.com/Ivan1990Nik/telegram-it-bot/internal/news"
)

// Source is one configured RSS feed.
type Source struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// FeedsConfig is the YAML config structure:
//
// feeds:
//   - name: Hacker News
//     url: https://news.ycombinator.com/rss
type FeedsConfig struct {
	Feeds []Source `yaml:"feeds"`
}

// LoadFeeds reads the RSS source list from a YAML file.
func LoadFeeds(path string) ([]Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg FeedsConfig
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}
	if len(cfg.Feeds) == 0 {
		return nil, fmt.Errorf("no feeds configured in %s", path)
	}
	return cfg.Feeds, nil
}

// Fetcher downloads and filters feed items.
type Fetcher struct {
	sources []Source
	timeout time.Duration
	maxPool int
}

func NewFetcher(sources []Source, timeout time.Duration, maxPool int) *Fetcher {
	return &Fetcher{sources: sources, timeout: timeout, maxPool: maxPool}
}

// FetchITNews walks the sources in list order, keeps IT-relevant items and
// caps the pool at maxPool items in source-iteration order. A failing source
// is logged and skipped, it never aborts the batch.
func (f *Fetcher) FetchITNews(ctx context.Context) []news.Item {
	parser := gofeed.NewParser()
	parser.UserAgent = "Mozilla/5.0"

	var pool []news.Item

	for _, src := range f.sources {
		if len(pool) >= f.maxPool {
			break
		}

		logger.Info("📡 парсим RSS", "source", src.Name)
		feed, err := f.fetchOne(ctx, parser, src.URL)
		if err != nil {
			metrics.Global.IncrementSourcesFailed()
			logger.Error("❌ ошибка при парсинге", "source", src.Name, "err", err)
			continue
		}

		for _, item := range feed.Items {
			if len(pool) >= f.maxPool {
				break
			}
			snippet := itemSnippet(item)
			if !news.IsITNews(item.Title + " " + snippet) {
				continue
			}
			pool = append(pool, news.Item{
				ID:      item.Link,
				Title:   strings.TrimSpace(item.Title),
				Summary: snippet,
				Image:   itemImage(item),
				PubDate: itemDate(item),
			})
		}
		logger.Info("загружено новостей", "source", src.Name, "total", len(feed.Items))
	}

	return pool
}

func (f *Fetcher) fetchOne(ctx context.Context, parser *gofeed.Parser, url string) (*gofeed.Feed, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	return parser.ParseURLWithContext(url, ctx)
}

// itemSnippet mirrors the contentSnippet -> description -> placeholder chain.
func itemSnippet(item *gofeed.Item) string {
	if s := strings.TrimSpace(item.Description); s != "" {
		return s
	}
	if s := strings.TrimSpace(item.Content); s != "" {
		return s
	}
	return news.DefaultSummary
}

// itemImage looks for an enclosure or media:content URL; empty when absent.
func itemImage(item *gofeed.Item) string {
	for _, enc := range item.Enclosures {
		if enc.URL != "" && strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	if media, ok := item.Extensions["media"]; ok {
		for _, ext := range media["content"] {
			if url := ext.Attrs["url"]; url != "" {
				return url
			}
		}
	}
	return ""
}

func itemDate(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return time.Time{} // sorts as oldest
}
