// Package filters проверяет, откуда пришло событие.
// Бот ведёт личные диалоги: группы и каналы вежливо отклоняются.
package filters

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// ChatFilter пропускает только личные чаты.
type ChatFilter struct {
	bot *tgbotapi.BotAPI
}

// NewChatFilter создаёт фильтр чатов.
func NewChatFilter(bot *tgbotapi.BotAPI) *ChatFilter {
	return &ChatFilter{bot: bot}
}

// CheckAccess сообщает, нужно ли обрабатывать сообщение.
// В группе бот один раз отвечает, что работает только в личке.
func (f *ChatFilter) CheckAccess(message *tgbotapi.Message) bool {
	if message == nil || message.Chat == nil {
		log.WithField("component", "ChatFilter").Warn("nil message/chat")
		return false
	}
	if message.From == nil {
		log.WithFields(log.Fields{
			"component": "ChatFilter",
			"chat_id":   message.Chat.ID,
			"chat_type": message.Chat.Type,
		}).Warn("nil message.From (сервисное сообщение?)")
		return false
	}

	if message.Chat.IsPrivate() {
		return true
	}

	log.WithFields(log.Fields{
		"component": "ChatFilter",
		"chat_id":   message.Chat.ID,
		"chat_type": message.Chat.Type,
	}).Debug("deny: не личный чат")

	if message.IsCommand() {
		msg := tgbotapi.NewMessage(message.Chat.ID, "🤖 Я работаю только в личных сообщениях. Напишите мне в личку!")
		if _, err := f.bot.Send(msg); err != nil {
			log.WithError(err).Warn("Не удалось ответить в групповом чате")
		}
	}
	return false
}
