// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях бота.
// Эти ошибки позволяют обработчикам различать типы проблем
// и отправлять пользователю понятные сообщения.
package common

import "errors"

// Общие ошибки
var (
	// ErrNotFound — запрошенная сущность не найдена в базе
	ErrNotFound = errors.New("не найдено")
	// ErrNotAdmin — пользователь не является администратором
	ErrNotAdmin = errors.New("у вас нет прав администратора")
	// ErrBusy — для этого пользователя уже выполняется другая операция
	ErrBusy = errors.New("предыдущая операция ещё выполняется, подождите")
)

// Ошибки профилей
var (
	// ErrNoProfile — у пользователя нет профиля
	ErrNoProfile = errors.New("сначала создайте профиль")
	// ErrProfileExists — профиль уже создан
	ErrProfileExists = errors.New("профиль уже существует")
)

// Ошибки диалогов
var (
	// ErrNoSession — нет активного диалога, текст некуда направить
	ErrNoSession = errors.New("нет активного диалога")
	// ErrSessionExists — у пользователя уже есть незавершённый диалог
	ErrSessionExists = errors.New("сначала завершите или отмените текущий диалог")
)

// Ошибки экономики (алмазы, покупки)
var (
	// ErrInsufficientBalance — недостаточно алмазов на счёте
	ErrInsufficientBalance = errors.New("недостаточно алмазов")
	// ErrInvalidAmount — некорректная сумма (ноль)
	ErrInvalidAmount = errors.New("сумма должна быть ненулевой")
	// ErrAlreadyPurchased — этот товар уже куплен этим пользователем
	ErrAlreadyPurchased = errors.New("вы уже купили этот товар")
)

// Ошибки викторины
var (
	// ErrAlreadyAnswered — на этот вопрос пользователь уже отвечал
	ErrAlreadyAnswered = errors.New("вы уже отвечали на этот вопрос")
	// ErrQuizExhausted — неотвеченных вопросов не осталось
	ErrQuizExhausted = errors.New("вопросы закончились")
)

// Ошибки турниров
var (
	// ErrAlreadyRegistered — пользователь уже зарегистрирован на турнир
	ErrAlreadyRegistered = errors.New("вы уже зарегистрированы на этот турнир")
	// ErrTournamentClosed — регистрация на турнир закрыта
	ErrTournamentClosed = errors.New("регистрация на турнир закрыта")
	// ErrTeamSize — заявленный состав выходит за допустимые пределы
	ErrTeamSize = errors.New("недопустимый размер команды")
)

// Ошибки словаря
var (
	// ErrTermExists — термин с таким названием уже есть
	ErrTermExists = errors.New("такой термин уже есть в словаре")
)
