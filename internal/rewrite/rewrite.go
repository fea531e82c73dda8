// Package rewrite turns a raw article into channel prose through an
// external LLM completion API.
package rewrite

import (
	"context"
	"fmt"
	"time"

	"github.com/Ivan1990Nik/telegram-it-bot/internal/cache"
	"github.com/Ivan1990Nik/telegram-it-bot/internal/logger"
	"github.com/Ivan1990Nik/telegram-it-bot/internal/ratelimit"
)

// Provider is one completion backend (YandexGPT or Gemini).
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
}

// Fixed copywriter persona. The source title and summary are embedded
// verbatim at the end.
const promptTemplate = `Ты — профессиональный IT-копирайтер с 10 годами опыта.
Перепиши текст так, будто объясняешь другу-программисту и обычному человеку одновременно.

Стиль:
- Уверенно, без глупостей
- Простой язык
- Лёгкий юмор, 2–5 эмодзи
- Технически грамотно
- Без канцелярита, пафоса, сухих новостных формулировок
- Текст не должен превышать 1000 символов

Структура:
1. Короткий заход (1–2 предложения)
2. Суть простыми словами
3. Почему важно
4. Личное мнение
5. Лёгкий вопрос или мысль для обсуждения

Исходный текст:
%s`

// Service wraps a provider with the daily request budget and a result
// cache keyed by article id.
type Service struct {
	provider Provider
	limiter  *ratelimit.Limiter
	cache    *cache.Cache
}

func NewService(provider Provider, limiter *ratelimit.Limiter) *Service {
	return &Service{
		provider: provider,
		limiter:  limiter,
		cache:    cache.New(),
	}
}

// Rewrite produces the publishable text for one article. The raw model
// output is sanitized before it is returned. Failures are hard for the
// current item only; the caller leaves it unsent.
func (s *Service) Rewrite(ctx context.Context, id, title, summary string) (string, error) {
	if cached, ok := s.cache.Get(id); ok {
		logger.Debug("rewrite cache hit", "id", id)
		return cached, nil
	}

	// Failed completions still count: the request reached the paid
	// endpoint either way, and the cap bounds outbound calls.
	if !s.limiter.Allow(s.provider.Name()) {
		return "", fmt.Errorf("daily AI request budget exhausted")
	}

	prompt := fmt.Sprintf(promptTemplate, title+"\n\n"+summary)
	raw, err := s.provider.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}

	text := Sanitize(raw)
	if text == "" {
		return "", ErrEmptyCompletion
	}

	s.cache.Set(id, text, 24*time.Hour)
	return text, nil
}
