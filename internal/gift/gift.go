// Package gift implements the "gift of the day" feature: rotation-fair
// selection from a static catalog, daily publishing with reaction buttons
// and reaction counters.
package gift

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/Ivan1990Nik/telegram-it-bot/internal/logger"
	"github.com/Ivan1990Nik/telegram-it-bot/internal/metrics"
	"github.com/Ivan1990Nik/telegram-it-bot/internal/storage"
)

// Callback data of the inline reaction buttons.
const (
	CallbackLike  = "gift_like"
	CallbackSaved = "gift_saved"
)

// historyWindow is how many of the most recently shown gifts are excluded
// from the next draw.
const historyWindow = 7

// Sender publishes the gift message with the reaction keyboard attached.
type Sender interface {
	SendGift(ctx context.Context, html string) error
}

// Select picks a resource that was not among the last 7 shown. When every
// resource was shown recently (small catalogs), it falls back to a uniform
// draw over the full list, so short rotations may repeat.
func Select(resources []storage.Resource, history []string) storage.Resource {
	recent := history
	if len(recent) > historyWindow {
		recent = recent[len(recent)-historyWindow:]
	}
	seen := make(map[string]struct{}, len(recent))
	for _, title := range recent {
		seen[title] = struct{}{}
	}

	filtered := make([]storage.Resource, 0, len(resources))
	for _, r := range resources {
		if _, ok := seen[r.Title]; !ok {
			filtered = append(filtered, r)
		}
	}

	if len(filtered) == 0 {
		return resources[rand.Intn(len(resources))]
	}
	return filtered[rand.Intn(len(filtered))]
}

// Service owns the gift pipeline state: catalog path, history, stats and
// the in-memory gift of the day (empty again after each restart).
type Service struct {
	resourcesPath string
	history       *storage.GiftHistoryStore
	stats         *storage.GiftStatsStore
	sender        Sender

	mu    sync.RWMutex
	today *storage.Resource
}

func NewService(resourcesPath string, history *storage.GiftHistoryStore, stats *storage.GiftStatsStore, sender Sender) *Service {
	return &Service{
		resourcesPath: resourcesPath,
		history:       history,
		stats:         stats,
		sender:        sender,
	}
}

// RunGiftCycle selects and publishes the gift of the day. An empty catalog
// is a logged no-op. History is appended only after a successful send.
func (s *Service) RunGiftCycle(ctx context.Context) {
	logger.Info("🎁 отправка подарка дня...")

	resources := storage.LoadResources(s.resourcesPath)
	if len(resources) == 0 {
		logger.Warn("нет ресурсов для подарка дня")
		return
	}

	resource := Select(resources, s.history.Recent(historyWindow))

	if err := s.sender.SendGift(ctx, FormatMessage(resource)); err != nil {
		logger.Error("❌ ошибка отправки подарка", "err", err)
		return
	}

	s.mu.Lock()
	s.today = &resource
	s.mu.Unlock()

	if err := s.history.Append(resource.Title); err != nil {
		logger.Error("не удалось сохранить историю подарков", "err", err)
	}
	metrics.Global.IncrementGiftsPublished()
	logger.Info("✅ подарок отправлен", "title", resource.Title)
}

// TodayGift returns the most recently published gift, or nil before the
// first cycle of the current process.
func (s *Service) TodayGift() *storage.Resource {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.today
}

// HandleReaction processes an inline button press and persists the counter.
func (s *Service) HandleReaction(data string) {
	var err error
	switch data {
	case CallbackLike:
		err = s.stats.AddLike()
	case CallbackSaved:
		err = s.stats.AddSaved()
	default:
		return
	}
	if err != nil {
		logger.Error("не удалось сохранить статистику подарков", "err", err)
	}
}

// Stats exposes the global reaction counters.
func (s *Service) Stats() storage.GiftStats {
	return s.stats.Stats()
}

// FormatMessage renders the gift announcement in Telegram HTML.
func FormatMessage(r storage.Resource) string {
	return fmt.Sprintf("🎁 <b>Подарок дня</b>\n\n📌 <b>%s</b>\n\n%s\n\n🔗 %s",
		r.Title, r.Description, r.URL)
}
