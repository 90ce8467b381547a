package quiz

import (
	"context"
	"testing"
)

func TestValidateOptions(t *testing.T) {
	if _, err := validateOptions(context.Background(), "один", nil); err == nil {
		t.Error("один вариант должен отклоняться")
	}
	if _, err := validateOptions(context.Background(), "да, да", nil); err == nil {
		t.Error("повторяющиеся варианты должны отклоняться")
	}

	got, err := validateOptions(context.Background(), " да ,  нет ", nil)
	if err != nil {
		t.Fatalf("validateOptions: %v", err)
	}
	if got != "да, нет" {
		t.Fatalf("нормализация: %q", got)
	}
}

func TestValidateCorrectByValue(t *testing.T) {
	fields := map[string]string{"options": "Москва, Париж, Лондон"}

	got, err := validateCorrect(context.Background(), "Париж", fields)
	if err != nil || got != "Париж" {
		t.Fatalf("по тексту: %q, %v", got, err)
	}

	if _, err := validateCorrect(context.Background(), "Берлин", fields); err == nil {
		t.Error("вариант не из списка должен отклоняться")
	}
}

func TestValidateCorrectByIndex(t *testing.T) {
	fields := map[string]string{"options": "Москва, Париж, Лондон"}

	// номер варианта превращается в значение
	got, err := validateCorrect(context.Background(), "2", fields)
	if err != nil || got != "Париж" {
		t.Fatalf("по номеру: %q, %v", got, err)
	}

	for _, raw := range []string{"0", "4", "-1"} {
		if _, err := validateCorrect(context.Background(), raw, fields); err == nil {
			t.Errorf("номер %q вне диапазона должен отклоняться", raw)
		}
	}
}

func TestValidateReward(t *testing.T) {
	if _, err := validateReward(context.Background(), "50", nil); err != nil {
		t.Errorf("validateReward(50): %v", err)
	}
	for _, raw := range []string{"0", "-10", "много"} {
		if _, err := validateReward(context.Background(), raw, nil); err == nil {
			t.Errorf("награда %q должна отклоняться", raw)
		}
	}
}
