// Package bot содержит транспортный слой — инициализацию, запуск и остановку.
// bot.go запускает polling и превращает ответы ядра в сообщения Telegram
// с инлайн-клавиатурами.
package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"mlhelper.ru/ml-helper-bot/internal/bot/filters"
	"mlhelper.ru/ml-helper-bot/internal/bot/middleware"
	"mlhelper.ru/ml-helper-bot/internal/config"
	"mlhelper.ru/ml-helper-bot/internal/router"
	"mlhelper.ru/ml-helper-bot/internal/ui"
)

// Bot — транспорт поверх Telegram Bot API.
type Bot struct {
	api *tgbotapi.BotAPI
	cfg *config.Config

	router      *router.Router
	chatFilter  *filters.ChatFilter
	rateLimiter *middleware.RateLimiter

	// ограничитель параллелизма обработки апдейтов
	inflight chan struct{}
}

// New создаёт новый экземпляр бота.
func New(api *tgbotapi.BotAPI, cfg *config.Config, r *router.Router, chatFilter *filters.ChatFilter) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}

	return &Bot{
		api:         api,
		cfg:         cfg,
		router:      r,
		chatFilter:  chatFilter,
		rateLimiter: middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitCallbacks, cfg.RateLimitWindow),
		inflight:    make(chan struct{}, maxInFlight),
	}
}

// Start запускает polling обновлений от Telegram.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.BotUpdateTimeoutSeconds

	updates := b.api.GetUpdatesChan(u)

	log.WithFields(log.Fields{
		"max_inflight": b.cfg.BotMaxInflight,
		"timeout_sec":  b.cfg.BotUpdateTimeoutSeconds,
	}).Info("Бот запущен и ожидает сообщения...")

	for {
		select {
		case <-ctx.Done():
			log.Info("Бот останавливается (ctx done)...")
			b.api.StopReceivingUpdates()
			b.rateLimiter.Close()
			return

		case update, ok := <-updates:
			if !ok {
				log.Info("Канал updates закрыт, бот остановлен")
				b.rateLimiter.Close()
				return
			}

			// лимит параллелизма
			b.inflight <- struct{}{}
			go func(upd tgbotapi.Update) {
				defer func() { <-b.inflight }()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

// handleUpdate обрабатывает одно обновление от Telegram.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallback(ctx, update.CallbackQuery)
		return
	}
	if update.Message != nil && update.Message.Text != "" && update.Message.From != nil {
		b.handleMessage(ctx, update.Message)
	}
}

// handleMessage обрабатывает текстовое сообщение или команду.
func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID
	defer middleware.RecoverFromPanic("message", userID)

	middleware.LogMessage(message)

	if !b.chatFilter.CheckAccess(message) {
		return
	}

	if !b.rateLimiter.AllowMessage(userID) {
		log.WithField("user_id", userID).Debug("rate limited")
		return
	}

	var resp *ui.Response
	if message.IsCommand() {
		resp = b.router.HandleCommand(ctx, userID, message.From.UserName, strings.ToLower(message.Command()))
	} else {
		resp = b.router.HandleText(ctx, userID, message.Text)
	}
	b.send(message.Chat.ID, resp)
}

// handleCallback обрабатывает нажатие инлайн-кнопки.
// Ответ ядра отправляется новым сообщением, а «часики» на кнопке
// гасятся сразу, чтобы клиент не ждал.
func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	var userID int64
	if cb.From != nil {
		userID = cb.From.ID
	}
	defer middleware.RecoverFromPanic("callback", userID)

	middleware.LogCallback(cb)

	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.WithError(err).Debug("Не удалось ответить на callback")
	}

	if cb.Message == nil || cb.From == nil {
		return
	}
	if !b.rateLimiter.AllowCallback(userID) {
		log.WithField("user_id", userID).Debug("rate limited (callback)")
		return
	}

	resp := b.router.HandleCallback(ctx, userID, cb.From.UserName, cb.Data)
	b.send(cb.Message.Chat.ID, resp)
}

// send отправляет ответ ядра, превращая действия в инлайн-клавиатуру.
func (b *Bot) send(chatID int64, resp *ui.Response) {
	if resp == nil {
		return
	}

	msg := tgbotapi.NewMessage(chatID, resp.Text)
	if kb, ok := keyboard(resp.Actions); ok {
		msg.ReplyMarkup = kb
	}
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}

// keyboard строит инлайн-клавиатуру: по одной кнопке в ряд,
// чтобы длинные русские подписи не обрезались.
func keyboard(actions []ui.Action) (tgbotapi.InlineKeyboardMarkup, bool) {
	if len(actions) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(actions))
	for _, a := range actions {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(a.Label, a.Token),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...), true
}

// SendMessageToUser отправляет сообщение пользователю (для уведомлений).
func (b *Bot) SendMessageToUser(userID int64, text string) {
	msg := tgbotapi.NewMessage(userID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("user_id", userID).Debug("Не удалось отправить сообщение")
	}
}
