package ratelimit

import (
	"os"
	"testing"

	"github.com/Ivan1990Nik/telegram-it-bot/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init(false)
	os.Exit(m.Run())
}

func TestAllowEnforcesSharedDailyTotal(t *testing.T) {
	l := NewDaily(3)

	if !l.Allow("yandexgpt") || !l.Allow("yandexart") || !l.Allow("yandexgpt") {
		t.Fatal("first 3 requests must be allowed")
	}
	if l.Allow("yandexgpt") {
		t.Error("4th request must be rejected, the total is shared")
	}

	usage := l.Usage()
	if usage["yandexgpt"] != 2 || usage["yandexart"] != 1 {
		t.Errorf("usage = %v, want yandexgpt=2 yandexart=1", usage)
	}
}

func TestZeroMaxDisablesCap(t *testing.T) {
	l := NewDaily(0)
	for i := 0; i < 100; i++ {
		if !l.Allow("yandexgpt") {
			t.Fatalf("request %d rejected with disabled cap", i)
		}
	}
}

func TestWindowReset(t *testing.T) {
	l := NewDaily(1)
	if !l.Allow("yandexgpt") {
		t.Fatal("first request must pass")
	}
	if l.Allow("yandexgpt") {
		t.Fatal("second request must be rejected")
	}

	// Force the window into the past.
	l.mu.Lock()
	l.resetTime = l.resetTime.AddDate(0, 0, -2)
	l.mu.Unlock()

	if !l.Allow("yandexgpt") {
		t.Error("request after window rollover must be allowed")
	}
	if l.Usage()["yandexgpt"] != 1 {
		t.Errorf("usage after reset = %v, want 1", l.Usage())
	}
}
