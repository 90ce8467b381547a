// Package router — router.go направляет команды, кнопки и текст
// в обработчики фич. Ядро отвечает *ui.Response, про Telegram
// здесь ничего не известно.
package router

import (
	"context"
	"errors"
	"strconv"

	log "github.com/sirupsen/logrus"

	"mlhelper.ru/ml-helper-bot/internal/common"
	"mlhelper.ru/ml-helper-bot/internal/config"
	"mlhelper.ru/ml-helper-bot/internal/dialog"
	"mlhelper.ru/ml-helper-bot/internal/features/dictionary"
	"mlhelper.ru/ml-helper-bot/internal/features/economy"
	"mlhelper.ru/ml-helper-bot/internal/features/heroes"
	"mlhelper.ru/ml-helper-bot/internal/features/profile"
	"mlhelper.ru/ml-helper-bot/internal/features/quiz"
	"mlhelper.ru/ml-helper-bot/internal/features/shop"
	"mlhelper.ru/ml-helper-bot/internal/features/tournament"
	"mlhelper.ru/ml-helper-bot/internal/ui"
)

// Handlers — обработчики всех фич бота.
type Handlers struct {
	Profile    *profile.Handler
	Economy    *economy.Handler
	Shop       *shop.Handler
	Quiz       *quiz.Handler
	Tournament *tournament.Handler
	Dictionary *dictionary.Handler
	Heroes     *heroes.Handler
}

// Router направляет входящие события в обработчики.
type Router struct {
	cfg    *config.Config
	engine *dialog.Engine
	locks  *dialog.UserLocks
	h      Handlers
}

// New создаёт роутер.
func New(cfg *config.Config, engine *dialog.Engine, locks *dialog.UserLocks, h Handlers) *Router {
	return &Router{cfg: cfg, engine: engine, locks: locks, h: h}
}

// Menu — главное меню бота.
func (r *Router) Menu() *ui.Response {
	return ui.Text(
		"🤖 ML Helper\n\n" +
			"Помощник игрока: профиль, сборки, магазин, викторина, турниры и словарь.\n\n" +
			"Выберите раздел:",
	).
		WithAction("👤 Профиль", "profile").
		WithAction("🛍 Магазин", "shop").
		WithAction("❓ Викторина", "quiz").
		WithAction("🏆 Турниры", "tournaments").
		WithAction("📖 Словарь", "dictionary").
		WithAction("⚔️ Герои", "heroes")
}

// HandleCommand обрабатывает команду вида /start (без слэша).
func (r *Router) HandleCommand(ctx context.Context, userID int64, username, command string) *ui.Response {
	switch command {
	case "start", "help", "menu":
		return r.Menu()
	case "profile":
		return r.h.Profile.ShowProfile(ctx, userID)
	case "shop":
		return r.h.Shop.ShowShop(r.cfg.IsAdmin(userID))
	case "quiz":
		return r.handleQuizStart(ctx, userID)
	case "tournaments":
		return r.h.Tournament.ShowTournaments(ctx, r.cfg.IsAdmin(userID))
	case "dictionary":
		return r.h.Dictionary.ShowDictionary(r.cfg.IsAdmin(userID))
	case "heroes":
		return r.h.Heroes.ShowHeroes(ctx)
	case "cancel":
		return r.cancel(userID)
	default:
		return ui.Text("❓ Неизвестная команда. Откройте меню:").WithMenu()
	}
}

// HandleText направляет свободный текст в активный диалог пользователя.
func (r *Router) HandleText(ctx context.Context, userID int64, text string) *ui.Response {
	if !r.locks.TryAcquire(userID) {
		return ui.Text("⏳ Предыдущая операция ещё выполняется, подождите немного")
	}
	defer r.locks.Release(userID)

	reply, done, err := r.engine.HandleInput(ctx, userID, text)
	if errors.Is(err, common.ErrNoSession) {
		return ui.Text("❓ Я не понял сообщение. Откройте меню и выберите раздел:").WithMenu()
	}
	if err != nil {
		// Сбой коммита: текст для пользователя уже готов,
		// сессия ждёт повторной попытки
		return ui.Text(reply).WithCancel()
	}
	if done {
		return ui.Text(reply).WithMenu()
	}
	return ui.Text(reply).WithCancel()
}

// HandleCallback обрабатывает нажатие кнопки.
func (r *Router) HandleCallback(ctx context.Context, userID int64, username, token string) *ui.Response {
	cb, err := ParseCallback(token)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("Не удалось разобрать токен кнопки")
		return r.Menu()
	}

	if adminOnly(cb.Kind) && !r.cfg.IsAdmin(userID) {
		return ui.Text("❌ Эта операция доступна только администраторам").WithMenu()
	}

	switch cb.Kind {
	case CbMenu:
		return r.Menu()
	case CbCancel:
		return r.cancel(userID)

	// --- Профиль ---
	case CbProfile:
		return r.h.Profile.ShowProfile(ctx, userID)
	case CbCreateProfile:
		return r.startDialog(ctx, userID, dialog.WorkflowProfileCreation,
			map[string]string{profile.SeedUsername: username})
	case CbBuilds:
		return r.h.Profile.ShowBuilds(ctx, userID)
	case CbBuild:
		return r.h.Profile.ShowBuild(ctx, userID, cb.ID)
	case CbCreateBuild:
		var seed map[string]string
		if cb.ID != 0 {
			seed = map[string]string{profile.SeedHeroID: strconv.FormatInt(cb.ID, 10)}
		}
		return r.startDialog(ctx, userID, dialog.WorkflowBuildCreation, seed)
	case CbNotes:
		return r.h.Profile.ShowNotes(ctx, userID)
	case CbNote:
		return r.h.Profile.ShowNote(ctx, userID, cb.ID)
	case CbCreateNote:
		return r.startDialog(ctx, userID, dialog.WorkflowNoteCreation, nil)
	case CbTransactions:
		return r.h.Economy.ShowHistory(ctx, userID)
	case CbBalance:
		return r.h.Economy.ShowBalance(ctx, userID)

	// --- Магазин ---
	case CbShop:
		return r.h.Shop.ShowShop(r.cfg.IsAdmin(userID))
	case CbShopCategories:
		return r.h.Shop.ShowCategories(ctx)
	case CbShopCategory:
		return r.h.Shop.ShowCategory(ctx, cb.Arg)
	case CbItem:
		return r.h.Shop.ShowItem(ctx, userID, cb.ID)
	case CbBuy:
		return r.locked(userID, func() *ui.Response {
			return r.h.Shop.HandleBuy(ctx, userID, cb.ID)
		})
	case CbSearchItem:
		return r.startDialog(ctx, userID, dialog.WorkflowShopSearch, nil)
	case CbAddItem:
		return r.startDialog(ctx, userID, dialog.WorkflowShopListing, nil)
	case CbModerate:
		return r.h.Shop.ShowPending(ctx)
	case CbApprove:
		return r.h.Shop.HandleModerate(ctx, cb.ID, true)
	case CbReject:
		return r.h.Shop.HandleModerate(ctx, cb.ID, false)

	// --- Викторина ---
	case CbQuiz:
		return r.handleQuizStart(ctx, userID)
	case CbAnswer:
		return r.locked(userID, func() *ui.Response {
			return r.h.Quiz.HandleAnswer(ctx, userID, cb.ID, cb.Index)
		})
	case CbAddQuestion:
		return r.startDialog(ctx, userID, dialog.WorkflowQuizAuthoring, nil)

	// --- Турниры ---
	case CbTournaments:
		return r.h.Tournament.ShowTournaments(ctx, r.cfg.IsAdmin(userID))
	case CbTournament:
		return r.h.Tournament.ShowTournament(ctx, cb.ID)
	case CbJoin:
		return r.startDialog(ctx, userID, dialog.WorkflowTournamentRegistration,
			map[string]string{tournament.SeedTournamentID: strconv.FormatInt(cb.ID, 10)})
	case CbParticipants:
		return r.h.Tournament.ShowParticipants(ctx, cb.ID)
	case CbCreateTournament:
		return r.startDialog(ctx, userID, dialog.WorkflowTournamentCreation, nil)

	// --- Словарь ---
	case CbDictionary:
		return r.h.Dictionary.ShowDictionary(r.cfg.IsAdmin(userID))
	case CbTermCategories:
		return r.h.Dictionary.ShowCategories(ctx)
	case CbTermCategory:
		return r.h.Dictionary.ShowCategory(ctx, cb.Arg)
	case CbTerm:
		return r.h.Dictionary.ShowTerm(ctx, cb.ID)
	case CbSearchTerm:
		return r.startDialog(ctx, userID, dialog.WorkflowTermSearch, nil)
	case CbAddTerm:
		return r.startDialog(ctx, userID, dialog.WorkflowTermAuthoring, nil)

	// --- Герои ---
	case CbHeroes:
		return r.h.Heroes.ShowHeroes(ctx)
	case CbHeroRole:
		return r.h.Heroes.ShowRole(ctx, cb.Arg)
	case CbHero:
		return r.h.Heroes.ShowHero(ctx, cb.ID)
	case CbTierList:
		return r.h.Heroes.ShowTierList(ctx)
	}

	log.WithField("token", token).Warn("Токен разобран, но не обработан")
	return r.Menu()
}

// handleQuizStart выдаёт вопрос под пользовательским локом:
// двойной тап не должен создать две сессии показа.
func (r *Router) handleQuizStart(ctx context.Context, userID int64) *ui.Response {
	return r.locked(userID, func() *ui.Response {
		return r.h.Quiz.StartQuiz(ctx, userID)
	})
}

// startDialog начинает диалог и возвращает вопрос первого шага.
func (r *Router) startDialog(ctx context.Context, userID int64, wf dialog.Workflow, seed map[string]string) *ui.Response {
	prompt, err := r.engine.Start(ctx, userID, wf, seed)
	if errors.Is(err, common.ErrSessionExists) {
		return ui.Text("❌ Сначала завершите текущий диалог или отмените его").WithCancel()
	}
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"user_id":  userID,
			"workflow": wf,
		}).Error("Ошибка старта диалога")
		return ui.Text("❌ Не удалось начать диалог").WithMenu()
	}
	return ui.Text(prompt).WithCancel()
}

func (r *Router) cancel(userID int64) *ui.Response {
	if r.engine.Cancel(userID) {
		return ui.Text("✖️ Действие отменено").WithMenu()
	}
	return ui.Text("Нечего отменять").WithMenu()
}

// locked выполняет операцию под пользовательским локом.
// Занятый лок превращается в понятный ответ, а не в очередь.
func (r *Router) locked(userID int64, fn func() *ui.Response) *ui.Response {
	if !r.locks.TryAcquire(userID) {
		return ui.Text("⏳ Предыдущая операция ещё выполняется, подождите немного")
	}
	defer r.locks.Release(userID)
	return fn()
}

// adminOnly перечисляет действия, доступные только администраторам.
func adminOnly(kind CallbackKind) bool {
	switch kind {
	case CbAddItem, CbModerate, CbApprove, CbReject,
		CbAddQuestion, CbAddTerm, CbCreateTournament:
		return true
	}
	return false
}
