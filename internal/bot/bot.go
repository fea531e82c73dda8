// Package bot is the interactive surface: webhook intake, commands,
// the gift reply-keyboard button and reaction callbacks.
package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Ivan1990Nik/telegram-it-bot/internal/gift"
	"github.com/Ivan1990Nik/telegram-it-bot/internal/logger"
	"github.com/Ivan1990Nik/telegram-it-bot/internal/storage"
)

const (
	giftButtonText = "🎁 Сегодняшний подарок"
	welcomeLogoURL = "https://ivan1990nik.github.io/portfolio/assets/logo-D9_LB6JM.PNG"
)

// API is the slice of tgbotapi.BotAPI the router needs; tests plug a fake.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Gifts is the gift-feature surface the router talks to.
type Gifts interface {
	TodayGift() *storage.Resource
	HandleReaction(data string)
	Stats() storage.GiftStats
}

// GiftSender publishes gift announcements to the channel with the inline
// reaction keyboard. Implements gift.Sender.
type GiftSender struct {
	api       API
	channelID int64
}

func NewGiftSender(api API, channelChatID string) (*GiftSender, error) {
	channelID, err := strconv.ParseInt(channelChatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse channel chat id: %w", err)
	}
	return &GiftSender{api: api, channelID: channelID}, nil
}

func (g *GiftSender) SendGift(_ context.Context, html string) error {
	msg := tgbotapi.NewMessage(g.channelID, html)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👍 Полезно", gift.CallbackLike),
			tgbotapi.NewInlineKeyboardButtonData("🔥 Сохранил", gift.CallbackSaved),
		),
	)
	_, err := g.api.Send(msg)
	return err
}

// Router dispatches inbound Telegram updates.
type Router struct {
	api         API
	gifts       Gifts
	suggestions *storage.SuggestionLog
	adminID     int64
}

func NewRouter(api API, gifts Gifts, suggestions *storage.SuggestionLog, adminID int64) *Router {
	return &Router{
		api:         api,
		gifts:       gifts,
		suggestions: suggestions,
		adminID:     adminID,
	}
}

// RegisterCommands announces the command menu to Telegram.
func (r *Router) RegisterCommands() error {
	cmds := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Приветственное сообщение"},
		tgbotapi.BotCommand{Command: "suggestresource", Description: "Предложить новый ресурс"},
		tgbotapi.BotCommand{Command: "viewsuggestions", Description: "доступна только администратору"},
		tgbotapi.BotCommand{Command: "stats", Description: "доступна только администратору"},
	)
	_, err := r.api.Request(cmds)
	return err
}

// WebhookHandler decodes update payloads posted by Telegram and feeds them
// to the router.
func (r *Router) WebhookHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var update tgbotapi.Update
		if err := json.NewDecoder(req.Body).Decode(&update); err != nil {
			logger.Warn("некорректный webhook payload", "err", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		r.HandleUpdate(update)
		w.WriteHeader(http.StatusOK)
	}
}

// HandleUpdate routes one inbound update. Handler errors are logged, never
// surfaced to users.
func (r *Router) HandleUpdate(update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		r.handleCallback(update.CallbackQuery)
		return
	}
	if update.Message == nil {
		return
	}

	msg := update.Message
	var err error
	switch {
	case msg.Command() == "start":
		err = r.handleStart(msg)
	case msg.Command() == "suggestresource":
		err = r.handleSuggest(msg)
	case msg.Command() == "viewsuggestions":
		err = r.handleViewSuggestions(msg)
	case msg.Command() == "stats":
		err = r.handleStats(msg)
	case strings.Contains(msg.Text, giftButtonText):
		err = r.handleTodayGift(msg)
	}
	if err != nil {
		logger.Error("ошибка обработчика команды", "command", msg.Command(), "err", err)
	}
}

func (r *Router) handleCallback(query *tgbotapi.CallbackQuery) {
	r.gifts.HandleReaction(query.Data)

	answer := ""
	switch query.Data {
	case gift.CallbackLike:
		answer = "Рад что полезно 🙌"
	case gift.CallbackSaved:
		answer = "Отличный выбор 🔥"
	}
	if _, err := r.api.Request(tgbotapi.NewCallback(query.ID, answer)); err != nil {
		logger.Error("не удалось ответить на callback", "err", err)
	}
}

func (r *Router) handleStart(msg *tgbotapi.Message) error {
	name := msg.From.FirstName
	if name == "" {
		name = "друг"
	}
	welcome := fmt.Sprintf("Привет, %s! 👋\n\nМой канал: <a href=\"https://t.me/bro_Devel\">t.me/bro_Devel</a>\n\nНажми кнопку ниже, чтобы увидеть 🎁 подарок дня!", name)

	photo := tgbotapi.NewPhoto(msg.Chat.ID, tgbotapi.FileURL(welcomeLogoURL))
	photo.Caption = welcome
	photo.ParseMode = tgbotapi.ModeHTML
	if _, err := r.api.Send(photo); err != nil {
		return err
	}

	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(giftButtonText)),
	)
	keyboard.ResizeKeyboard = true

	reply := tgbotapi.NewMessage(msg.Chat.ID, "Выбери действие:")
	reply.ReplyMarkup = keyboard
	_, err := r.api.Send(reply)
	return err
}

func (r *Router) handleSuggest(msg *tgbotapi.Message) error {
	text := strings.TrimSpace(msg.CommandArguments())
	if text == "" {
		help := "Привет! 👋\nЧтобы предложить ресурс, напиши команду так:\n\n/suggestresource URL_ресурса и чем полезна\n\nНапример:\n/suggestresource https://ivan1990nik.github.io/portfolio для работы\n\nПосле этого я сохраню твоё предложение для рассмотрения."
		return r.reply(msg.Chat.ID, help)
	}

	author := msg.From.UserName
	if author == "" {
		author = msg.From.FirstName
	}
	if err := r.suggestions.Append(author, text); err != nil {
		return err
	}
	return r.reply(msg.Chat.ID, "Спасибо! Мы рассмотрим твой ресурс 🙌")
}

func (r *Router) handleViewSuggestions(msg *tgbotapi.Message) error {
	if msg.From.ID != r.adminID {
		return r.reply(msg.Chat.ID, "У тебя нет доступа к этой команде ❌")
	}

	tail, err := r.suggestions.Tail(3000)
	if err != nil {
		return r.reply(msg.Chat.ID, "Пока предложений нет.")
	}
	return r.reply(msg.Chat.ID, "📂 Предложения:\n\n"+tail)
}

func (r *Router) handleStats(msg *tgbotapi.Message) error {
	if msg.From.ID != r.adminID {
		return r.reply(msg.Chat.ID, "У тебя нет доступа к этой команде ❌")
	}

	stats := r.gifts.Stats()
	text := fmt.Sprintf("📊 Статистика подарков:\n\n👍 Полезно: %d\n🔥 Сохранили: %d", stats.Likes, stats.Saved)
	return r.reply(msg.Chat.ID, text)
}

func (r *Router) handleTodayGift(msg *tgbotapi.Message) error {
	today := r.gifts.TodayGift()
	if today == nil {
		return r.reply(msg.Chat.ID, "Сегодня подарок ещё не был опубликован ⏳")
	}

	text := fmt.Sprintf("🎁 <b>Сегодняшний подарок</b>\n\n📌 <b>%s</b>\n\n%s\n\n🔗 %s",
		today.Title, today.Description, today.URL)
	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	reply.ParseMode = tgbotapi.ModeHTML
	_, err := r.api.Send(reply)
	return err
}

func (r *Router) reply(chatID int64, text string) error {
	_, err := r.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}
