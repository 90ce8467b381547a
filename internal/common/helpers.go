// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: русская плюрализация, форматирование чисел и дат.
package common

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// PluralizeDiamonds возвращает правильную форму слова «алмаз» для числа n.
//
// Правила русского языка:
//   - n%10==1 И n%100!=11 → "алмаз" (1, 21, 31, 101, ...)
//   - n%10 в [2,4] И n%100 НЕ в [12,14] → "алмаза" (2, 3, 4, 22, ...)
//   - Остальные случаи → "алмазов" (0, 5-20, 25-30, 100, ...)
func PluralizeDiamonds(n int64) string {
	absN := int64(math.Abs(float64(n)))
	lastDigit := absN % 10
	lastTwoDigits := absN % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return "алмаз"
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return "алмаза"
	}
	return "алмазов"
}

// FormatDiamonds форматирует баланс в читабельную строку.
// Пример: FormatDiamonds(150) → "150 алмазов 💎"
func FormatDiamonds(n int64) string {
	return fmt.Sprintf("%d %s 💎", n, PluralizeDiamonds(n))
}

// FormatDelta создаёт строку вида "+100 алмазов" или "-50 алмазов".
// Знак «+» добавляется автоматически для неотрицательных сумм.
func FormatDelta(delta int64) string {
	if delta >= 0 {
		return fmt.Sprintf("+%d %s", delta, PluralizeDiamonds(delta))
	}
	return fmt.Sprintf("%d %s", delta, PluralizeDiamonds(delta))
}

// TruncateTitle обрезает текст до limit рун и добавляет «...»,
// если текст был длиннее. Используется для заголовков заметок.
func TruncateTitle(text string, limit int) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= limit {
		return string(runes)
	}
	return string(runes[:limit]) + "..."
}

// FormatDate форматирует дату в формат "02.01.2006".
func FormatDate(t time.Time) string {
	return t.Format("02.01.2006")
}

// FormatDateTime форматирует время в формат "02.01.2006 15:04".
// Используется для отображения дат транзакций.
func FormatDateTime(t time.Time) string {
	return t.Format("02.01.2006 15:04")
}

// ParseDate разбирает дату в формате "02.01.2006" (день.месяц.год).
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("02.01.2006", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("некорректная дата %q: %w", s, err)
	}
	return t, nil
}

// SplitCSV разбивает строку по запятым, обрезает пробелы
// и выбрасывает пустые элементы.
func SplitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
