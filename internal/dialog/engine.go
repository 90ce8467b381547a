package dialog

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"mlhelper.ru/ml-helper-bot/internal/common"
)

// Validator проверяет сырой ввод одного шага.
// Возвращает нормализованное значение для сохранения в сессию
// или ошибку с текстом, который будет показан пользователю как
// причина повторного запроса.
type Validator func(ctx context.Context, raw string, fields map[string]string) (string, error)

// CommitFunc собирает накопленные поля сессии в одну сущность
// и атомарно сохраняет её. Возвращает текст подтверждения.
type CommitFunc func(ctx context.Context, sess *Session) (string, error)

// Step — один шаг диалога: что спросить, как проверить ответ,
// под каким именем сохранить и куда перейти.
type Step struct {
	Name     string
	Prompt   string    // вопрос, который задаётся на этом шаге
	Field    string    // имя поля для сохранённого значения
	Validate Validator // nil — принять любой непустой текст
	Next     string    // имя следующего шага; "" — переход к коммиту
}

// Definition — полная таблица переходов одного диалога.
type Definition struct {
	Workflow Workflow
	Steps    []Step // Steps[0] — начальный шаг
	Commit   CommitFunc
}

// Verify проверяет целостность таблицы переходов: шаги уникальны,
// каждый Next указывает на существующий шаг, коммит задан.
func (d *Definition) Verify() error {
	if d.Workflow == "" {
		return fmt.Errorf("workflow не задан")
	}
	if len(d.Steps) == 0 {
		return fmt.Errorf("%s: нет шагов", d.Workflow)
	}
	if d.Commit == nil {
		return fmt.Errorf("%s: нет коммита", d.Workflow)
	}
	names := make(map[string]bool, len(d.Steps))
	for _, st := range d.Steps {
		if st.Name == "" || st.Name == StepCommit {
			return fmt.Errorf("%s: недопустимое имя шага %q", d.Workflow, st.Name)
		}
		if names[st.Name] {
			return fmt.Errorf("%s: шаг %q объявлен дважды", d.Workflow, st.Name)
		}
		names[st.Name] = true
	}
	for _, st := range d.Steps {
		if st.Next != "" && !names[st.Next] {
			return fmt.Errorf("%s: шаг %q ссылается на несуществующий %q", d.Workflow, st.Name, st.Next)
		}
	}
	return nil
}

func (d *Definition) step(name string) *Step {
	for i := range d.Steps {
		if d.Steps[i].Name == name {
			return &d.Steps[i]
		}
	}
	return nil
}

// Engine ведёт пользователей по зарегистрированным диалогам.
type Engine struct {
	store *Store
	defs  map[Workflow]*Definition
}

// NewEngine создаёт движок поверх хранилища сессий.
func NewEngine(store *Store) *Engine {
	return &Engine{
		store: store,
		defs:  make(map[Workflow]*Definition),
	}
}

// Register добавляет диалог в движок. Кривая таблица переходов —
// ошибка программиста, поэтому здесь panic, а не error.
func (e *Engine) Register(def *Definition) {
	if err := def.Verify(); err != nil {
		panic(fmt.Sprintf("dialog: некорректное описание диалога: %v", err))
	}
	e.defs[def.Workflow] = def
}

// Start начинает диалог и возвращает вопрос первого шага.
// Если у пользователя уже есть живая сессия — common.ErrSessionExists.
func (e *Engine) Start(ctx context.Context, userID int64, wf Workflow, seed map[string]string) (string, error) {
	def, ok := e.defs[wf]
	if !ok {
		return "", fmt.Errorf("диалог %q не зарегистрирован", wf)
	}
	first := def.Steps[0]
	if _, err := e.store.Start(userID, wf, first.Name, seed); err != nil {
		return "", err
	}
	log.WithFields(log.Fields{
		"user_id":  userID,
		"workflow": wf,
	}).Debug("Диалог начат")
	return first.Prompt, nil
}

// Cancel отменяет текущий диалог пользователя, если он есть.
// Ничего компенсировать не нужно: до коммита в базу ничего не пишется.
func (e *Engine) Cancel(userID int64) bool {
	if e.store.Get(userID) == nil {
		return false
	}
	e.store.Clear(userID)
	return true
}

// HandleInput направляет текст пользователя в активную сессию.
//
// Возвращает ответ для пользователя и признак завершения диалога.
// Невалидный ввод не меняет ни шаг, ни накопленные поля — пользователь
// получает причину и повторный запрос. Ошибка коммита оставляет сессию
// на терминальном шаге: любое следующее сообщение повторит попытку
// сохранения без повторного сбора полей.
func (e *Engine) HandleInput(ctx context.Context, userID int64, text string) (string, bool, error) {
	sess := e.store.Get(userID)
	if sess == nil {
		return "", false, common.ErrNoSession
	}
	def, ok := e.defs[sess.Workflow]
	if !ok {
		// Сессию этого вида ведёт другой компонент (викторина)
		return "", false, common.ErrNoSession
	}

	// Повтор коммита после сбоя хранилища
	if sess.Step == StepCommit {
		return e.commit(ctx, def, sess)
	}

	step := def.step(sess.Step)
	if step == nil {
		// Сессия ссылается на шаг, которого больше нет — сбрасываем
		e.store.Clear(userID)
		return "", false, common.ErrNoSession
	}

	value, err := e.validate(ctx, step, text, sess.Fields)
	if err != nil {
		// Шаг и поля не тронуты, просим ввести заново
		return "❌ " + err.Error(), false, nil
	}

	sess.Fields[step.Field] = value
	if step.Next != "" {
		sess.Step = step.Next
		e.store.Touch(sess)
		return def.step(step.Next).Prompt, false, nil
	}

	sess.Step = StepCommit
	return e.commit(ctx, def, sess)
}

func (e *Engine) validate(ctx context.Context, step *Step, raw string, fields map[string]string) (string, error) {
	raw = strings.TrimSpace(raw)
	if step.Validate == nil {
		if raw == "" {
			return "", fmt.Errorf("сообщение не должно быть пустым, попробуйте ещё раз")
		}
		return raw, nil
	}
	return step.Validate(ctx, raw, fields)
}

func (e *Engine) commit(ctx context.Context, def *Definition, sess *Session) (string, bool, error) {
	reply, err := def.Commit(ctx, sess)
	if err != nil {
		// Сессия остаётся на терминальном шаге для повтора
		e.store.Touch(sess)
		log.WithError(err).WithFields(log.Fields{
			"user_id":  sess.UserID,
			"workflow": sess.Workflow,
		}).Error("Ошибка сохранения результата диалога")
		return "⚠️ Не удалось сохранить. Отправьте любое сообщение, чтобы повторить попытку.", false, err
	}

	e.store.Clear(sess.UserID)
	log.WithFields(log.Fields{
		"user_id":  sess.UserID,
		"workflow": sess.Workflow,
	}).Info("Диалог завершён")
	return reply, true, nil
}
