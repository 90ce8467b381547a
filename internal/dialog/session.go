// Package dialog реализует пошаговые диалоги: хранилище сессий,
// пер-пользовательские блокировки и движок конечных автоматов.
// У каждого пользователя может быть не больше одной живой сессии.
package dialog

import "time"

// Workflow — вид пошагового диалога.
type Workflow string

// Все виды диалогов бота.
const (
	WorkflowProfileCreation        Workflow = "profile_creation"
	WorkflowBuildCreation          Workflow = "build_creation"
	WorkflowNoteCreation           Workflow = "note_creation"
	WorkflowShopListing            Workflow = "shop_listing"
	WorkflowShopSearch             Workflow = "shop_search"
	WorkflowTournamentCreation     Workflow = "tournament_creation"
	WorkflowTournamentRegistration Workflow = "tournament_registration"
	WorkflowTermAuthoring          Workflow = "term_authoring"
	WorkflowTermSearch             Workflow = "term_search"
	WorkflowQuizAuthoring          Workflow = "quiz_authoring"
	WorkflowQuizAnswering          Workflow = "quiz_answering"
)

// StepCommit — терминальный шаг: все поля собраны, осталось сохранить.
// Сессия задерживается на этом шаге, только если сохранение не удалось,
// чтобы его можно было повторить без повторного ввода.
const StepCommit = "commit"

// Session — живое состояние одного диалога.
// Поля накапливаются шаг за шагом и коммитятся одной операцией в конце.
type Session struct {
	UserID    int64
	Workflow  Workflow
	Step      string
	Fields    map[string]string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired сообщает, истекла ли сессия к моменту now.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
