// Package router — callback.go разбирает непрозрачные токены кнопок
// в закрытый набор вариантов. Токен разбирается ровно один раз,
// дальше по коду ходит уже типизированный Callback.
package router

import (
	"fmt"
	"strconv"
	"strings"
)

// CallbackKind — вид действия кнопки.
type CallbackKind int

// Все виды действий.
const (
	CbUnknown CallbackKind = iota
	CbMenu
	CbCancel

	CbProfile
	CbCreateProfile
	CbBuilds
	CbBuild       // ID — сборка
	CbCreateBuild // ID — герой, 0 если без героя
	CbNotes
	CbNote // ID — заметка
	CbCreateNote
	CbTransactions
	CbBalance

	CbShop
	CbShopCategories
	CbShopCategory // Arg — категория
	CbItem         // ID — товар
	CbBuy          // ID — товар
	CbSearchItem
	CbAddItem
	CbModerate
	CbApprove // ID — товар
	CbReject  // ID — товар

	CbQuiz
	CbAnswer // ID — вопрос, Index — позиция показа
	CbAddQuestion

	CbTournaments
	CbTournament   // ID — турнир
	CbJoin         // ID — турнир
	CbParticipants // ID — турнир
	CbCreateTournament

	CbDictionary
	CbTermCategories
	CbTermCategory // Arg — категория
	CbTerm         // ID — термин
	CbSearchTerm
	CbAddTerm

	CbHeroes
	CbHeroRole // Arg — роль
	CbHero     // ID — герой
	CbTierList
)

// Callback — разобранный токен кнопки.
type Callback struct {
	Kind  CallbackKind
	ID    int64
	Index int
	Arg   string
}

// простые токены без аргументов
var plainTokens = map[string]CallbackKind{
	"menu":              CbMenu,
	"cancel":            CbCancel,
	"profile":           CbProfile,
	"create_profile":    CbCreateProfile,
	"builds":            CbBuilds,
	"create_build":      CbCreateBuild,
	"notes":             CbNotes,
	"create_note":       CbCreateNote,
	"transactions":      CbTransactions,
	"balance":           CbBalance,
	"shop":              CbShop,
	"shop_categories":   CbShopCategories,
	"search_item":       CbSearchItem,
	"add_item":          CbAddItem,
	"moderate":          CbModerate,
	"quiz":              CbQuiz,
	"add_question":      CbAddQuestion,
	"tournaments":       CbTournaments,
	"create_tournament": CbCreateTournament,
	"dictionary":        CbDictionary,
	"term_categories":   CbTermCategories,
	"search_term":       CbSearchTerm,
	"add_term":          CbAddTerm,
	"heroes":            CbHeroes,
	"tier_list":         CbTierList,
}

// токены вида prefix:<int64>
var idTokens = map[string]CallbackKind{
	"build":        CbBuild,
	"create_build": CbCreateBuild,
	"note":         CbNote,
	"item":         CbItem,
	"buy":          CbBuy,
	"approve":      CbApprove,
	"reject":       CbReject,
	"tournament":   CbTournament,
	"join":         CbJoin,
	"participants": CbParticipants,
	"term":         CbTerm,
	"hero":         CbHero,
}

// токены вида prefix:<string>
var argTokens = map[string]CallbackKind{
	"shop_category": CbShopCategory,
	"term_category": CbTermCategory,
	"hero_role":     CbHeroRole,
}

// ParseCallback разбирает токен кнопки. Неизвестный или битый токен —
// ошибка: такие токены бот не выпускал.
func ParseCallback(token string) (Callback, error) {
	if kind, ok := plainTokens[token]; ok {
		return Callback{Kind: kind}, nil
	}

	prefix, rest, found := strings.Cut(token, ":")
	if !found {
		return Callback{}, fmt.Errorf("неизвестный токен %q", token)
	}

	if prefix == "answer" {
		qid, idx, found := strings.Cut(rest, ":")
		if !found {
			return Callback{}, fmt.Errorf("битый токен ответа %q", token)
		}
		questionID, err := strconv.ParseInt(qid, 10, 64)
		if err != nil {
			return Callback{}, fmt.Errorf("битый токен ответа %q: %w", token, err)
		}
		index, err := strconv.Atoi(idx)
		if err != nil {
			return Callback{}, fmt.Errorf("битый токен ответа %q: %w", token, err)
		}
		return Callback{Kind: CbAnswer, ID: questionID, Index: index}, nil
	}

	if kind, ok := idTokens[prefix]; ok {
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return Callback{}, fmt.Errorf("битый токен %q: %w", token, err)
		}
		return Callback{Kind: kind, ID: id}, nil
	}

	if kind, ok := argTokens[prefix]; ok {
		if rest == "" {
			return Callback{}, fmt.Errorf("битый токен %q: пустой аргумент", token)
		}
		return Callback{Kind: kind, Arg: rest}, nil
	}

	return Callback{}, fmt.Errorf("неизвестный токен %q", token)
}
