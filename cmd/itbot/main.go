package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Ivan1990Nik/telegram-it-bot/internal/app"
	"github.com/Ivan1990Nik/telegram-it-bot/internal/bot"
	"github.com/Ivan1990Nik/telegram-it-bot/internal/config"
	"github.com/Ivan1990Nik/telegram-it-bot/internal/gift"
	"github.com/Ivan1990Nik/telegram-it-bot/internal/logger"
	"github.com/Ivan1990Nik/telegram-it-bot/internal/metrics"
	"github.com/Ivan1990Nik/telegram-it-bot/internal/ratelimit"
	"github.com/Ivan1990Nik/telegram-it-bot/internal/rewrite"
	"github.com/Ivan1990Nik/telegram-it-bot/internal/rss"
	"github.com/Ivan1990Nik/telegram-it-bot/internal/scheduler"
	"github.com/Ivan1990Nik/telegram-it-bot/internal/scraper"
	"github.com/Ivan1990Nik/telegram-it-bot/internal/storage"
	"github.com/Ivan1990Nik/telegram-it-bot/internal/telegram"
	"github.com/Ivan1990Nik/telegram-it-bot/internal/yandexart"
)

// Оставляем 1000 последних id: достаточно недель истории при трёх постах в
// день, файл не растёт бесконечно.
const sentPostsRetention = 1000

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("конфигурация: %v", err)
	}
	logger.Init(cfg.Debug)

	sources, err := rss.LoadFeeds(cfg.FeedsConfigPath)
	if err != nil {
		log.Fatalf("не удалось загрузить список RSS-лент: %v", err)
	}
	fetcher := rss.NewFetcher(sources, cfg.RequestTimeout, cfg.MaxNewsPool)

	sentStore := storage.NewSentPostStore(cfg.SentPostsFile, sentPostsRetention)

	limiter := ratelimit.NewDaily(cfg.MaxAIRequestsDay)
	var provider rewrite.Provider
	switch cfg.RewriteProvider {
	case "gemini":
		provider, err = rewrite.NewGeminiClient(context.Background(), cfg.GeminiAPIKey)
		if err != nil {
			log.Fatalf("gemini client: %v", err)
		}
	default:
		provider = rewrite.NewYandexClient(cfg.YandexAPIKey, cfg.YandexFolderID)
	}
	rewriter := rewrite.NewService(provider, limiter)

	deliverer := telegram.NewClient(cfg.TelegramToken, cfg.TelegramChatID, cfg.RetryAttempts, cfg.RetryDelay)

	newsSvc := app.NewService(fetcher, sentStore, rewriter, deliverer, 3).
		WithImageScrape(scraper.ExtractImageURL)
	if cfg.YandexArtKey != "" {
		newsSvc.WithImageGenerator(yandexart.NewClient(cfg.YandexArtKey, cfg.YandexFolderID))
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatalf("telegram bot api: %v", err)
	}

	giftSender, err := bot.NewGiftSender(botAPI, cfg.TelegramChatID)
	if err != nil {
		log.Fatalf("gift sender: %v", err)
	}
	giftSvc := gift.NewService(
		cfg.ResourcesFile,
		storage.NewGiftHistoryStore(cfg.GiftHistoryFile),
		storage.NewGiftStatsStore(cfg.GiftStatsFile),
		giftSender,
	)

	suggestions := storage.NewSuggestionLog(cfg.SuggestionsFile)
	router := bot.NewRouter(botAPI, giftSvc, suggestions, cfg.AdminID)
	if err := router.RegisterCommands(); err != nil {
		logger.Error("не удалось зарегистрировать команды", "err", err)
	}
	if cfg.BotURL != "" {
		registerWebhook(botAPI, cfg.BotURL, cfg.TelegramToken)
	}

	sched, err := scheduler.New(cfg.Timezone)
	if err != nil {
		log.Fatalf("планировщик: %v", err)
	}
	if err := sched.AddJob(cfg.NewsCron, "news", func() {
		newsSvc.RunNewsCycle(context.Background())
	}); err != nil {
		log.Fatalf("задача news: %v", err)
	}
	if err := sched.AddJob(cfg.GiftCron, "gift", func() {
		giftSvc.RunGiftCycle(context.Background())
	}); err != nil {
		log.Fatalf("задача gift: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	mux := http.NewServeMux()
	mux.HandleFunc("/", rootHandler)
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/metrics", metricsHandler)
	mux.HandleFunc("/bot"+cfg.TelegramToken, router.WebhookHandler())

	logger.Info("🚀 бот запущен", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, mux); err != nil {
		log.Fatalf("http server: %v", err)
	}
}

func registerWebhook(api *tgbotapi.BotAPI, botURL, token string) {
	wh, err := tgbotapi.NewWebhook(botURL + "/bot" + token)
	if err != nil {
		logger.Error("некорректный webhook URL", "err", err)
		return
	}
	if _, err := api.Request(wh); err != nil {
		logger.Error("не удалось установить webhook", "err", err)
		return
	}
	logger.Info("webhook установлен", "url", botURL)
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Write([]byte("Your service is live 🎉"))
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	status := "ok"
	if !stats["is_healthy"].(bool) {
		status = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	response := map[string]interface{}{
		"status":     status,
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func metricsHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
