// Package ui описывает ответ ядра бота транспортному слою.
// Ядро не знает про Telegram: оно возвращает текст и список действий,
// а транспорт превращает действия в инлайн-клавиатуру.
package ui

// Action — одна кнопка: подпись и непрозрачный токен,
// который вернётся в ядро как callback.
type Action struct {
	Label string
	Token string
}

// Response — ответ ядра на входящее событие.
type Response struct {
	Text    string
	Actions []Action
}

// Text создаёт ответ без кнопок.
func Text(text string) *Response {
	return &Response{Text: text}
}

// WithAction добавляет кнопку в конец списка.
func (r *Response) WithAction(label, token string) *Response {
	r.Actions = append(r.Actions, Action{Label: label, Token: token})
	return r
}

// WithBack добавляет стандартную кнопку «Назад».
func (r *Response) WithBack(token string) *Response {
	return r.WithAction("🔙 Назад", token)
}

// WithCancel добавляет стандартную кнопку отмены диалога.
func (r *Response) WithCancel() *Response {
	return r.WithAction("✖️ Отмена", "cancel")
}

// WithMenu добавляет кнопку возврата в главное меню.
func (r *Response) WithMenu() *Response {
	return r.WithAction("🏠 Главное меню", "menu")
}
