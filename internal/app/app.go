// Package app wires the fetch, dedup, rewrite and delivery steps into the
// scheduled news cycle.
package app

import (
	"context"

	"github.com/Ivan1990Nik/telegram-it-bot/internal/logger"
	"github.com/Ivan1990Nik/telegram-it-bot/internal/metrics"
	"github.com/Ivan1990Nik/telegram-it-bot/internal/news"
	"github.com/Ivan1990Nik/telegram-it-bot/internal/storage"
)

// Fallback illustration when neither generation nor scraping yields one.
const defaultLogoURL = "https://ivan1990nik.github.io/portfolio/assets/logo-D9_LB6JM.PNG"

// channelTag is appended to every published post.
const channelTag = "t.me/bro_Devel"

type Fetcher interface {
	FetchITNews(ctx context.Context) []news.Item
}

type Rewriter interface {
	Rewrite(ctx context.Context, id, title, summary string) (string, error)
}

type Deliverer interface {
	Deliver(ctx context.Context, text, imageURL string) bool
}

// ImageGenerator produces an illustration URL for a prompt. Optional.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ImageScrape pulls a lead image from the article page. Optional.
type ImageScrape func(ctx context.Context, articleURL string) (string, error)

// Service owns the news pipeline and its persistent sent-post state.
type Service struct {
	fetcher   Fetcher
	store     *storage.SentPostStore
	rewriter  Rewriter
	deliverer Deliverer
	imageGen  ImageGenerator
	scrape    ImageScrape
	topFresh  int
}

func NewService(fetcher Fetcher, store *storage.SentPostStore, rewriter Rewriter, deliverer Deliverer, topFresh int) *Service {
	return &Service{
		fetcher:   fetcher,
		store:     store,
		rewriter:  rewriter,
		deliverer: deliverer,
		topFresh:  topFresh,
	}
}

// WithImageGenerator enables Yandex ART illustrations.
func (s *Service) WithImageGenerator(gen ImageGenerator) *Service {
	s.imageGen = gen
	return s
}

// WithImageScrape enables the og:image page fallback.
func (s *Service) WithImageScrape(scrape ImageScrape) *Service {
	s.scrape = scrape
	return s
}

// RunNewsCycle executes one scheduled publication: fetch, exclude already
// sent, pick a fresh item, rewrite, deliver. The item is marked sent only
// after a confirmed delivery, so every failure path leaves it eligible for
// the next run.
func (s *Service) RunNewsCycle(ctx context.Context) {
	logger.Info("🕒 запуск задачи dailyNewsTask...")
	metrics.Global.IncrementNewsRuns()
	defer metrics.Global.SetLastRun()

	pool := s.fetcher.FetchITNews(ctx)
	fresh := news.ExcludeSent(pool, s.store.IsSent)
	metrics.Global.AddDuplicatesFiltered(len(pool) - len(fresh))

	item, ok := news.Pick(fresh, s.topFresh)
	if !ok {
		logger.Info("⚠️ новых IT-новостей нет")
		return
	}
	logger.Info("📰 выбрана новость", "title", item.Title, "fresh", len(fresh))

	rewritten, err := s.rewriter.Rewrite(ctx, item.ID, item.Title, item.Summary)
	if err != nil {
		metrics.Global.IncrementRewriteFailures()
		metrics.Global.SetError(err.Error())
		logger.Error("❌ ошибка при обработке статьи", "title", item.Title, "err", err)
		return
	}

	message := "🚀 IT-разбор:\n\n" + rewritten + "\n\n" + channelTag
	image := s.resolveImage(ctx, item)

	if !s.deliverer.Deliver(ctx, message, image) {
		metrics.Global.IncrementDeliveryFailures()
		metrics.Global.SetError("delivery failed: " + item.ID)
		return
	}

	if err := s.store.SaveSentPost(item.ID); err != nil {
		logger.Error("не удалось сохранить id отправленного поста", "err", err)
	}
	metrics.Global.IncrementNewsPublished()
	metrics.Global.SetHealthy()
	logger.Info("🎉 новость отправлена в Telegram!", "title", item.Title)
}

// resolveImage picks the post illustration: generated, then the feed
// enclosure, then the article's og:image, then the channel logo.
func (s *Service) resolveImage(ctx context.Context, item news.Item) string {
	if s.imageGen != nil {
		prompt := "Иллюстрация для IT новости: \"" + item.Title + "\""
		if url, err := s.imageGen.Generate(ctx, prompt); err != nil {
			logger.Warn("❌ ошибка генерации картинки", "err", err)
		} else if url != "" {
			logger.Info("🖼 картинка сгенерирована", "url", url)
			return url
		}
	}

	if item.Image != "" {
		return item.Image
	}

	if s.scrape != nil {
		if url, err := s.scrape(ctx, item.ID); err == nil && url != "" {
			return url
		}
	}

	return defaultLogoURL
}
