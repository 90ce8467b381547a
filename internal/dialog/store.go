package dialog

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"mlhelper.ru/ml-helper-bot/internal/common"
)

// Store хранит активные сессии в памяти, по одной на пользователя.
// Сессии не переживают рестарт процесса — это осознанно: ничего
// наполовину собранного в базу не попадает, пользователь просто
// начнёт диалог заново.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	ttl      time.Duration
	now      func() time.Time // подменяется в тестах
}

// NewStore создаёт хранилище сессий с заданным окном неактивности.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[int64]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get возвращает живую сессию пользователя или nil.
// Истёкшая сессия удаляется и считается отсутствующей.
func (s *Store) Get(userID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return nil
	}
	if sess.Expired(s.now()) {
		delete(s.sessions, userID)
		log.WithFields(log.Fields{
			"user_id":  userID,
			"workflow": sess.Workflow,
		}).Debug("Сессия истекла и удалена")
		return nil
	}
	return sess
}

// Start создаёт новую сессию. Если у пользователя уже есть живая
// сессия — возвращает common.ErrSessionExists: молча заменять чужой
// незавершённый диалог нельзя.
func (s *Store) Start(userID int64, wf Workflow, step string, seed map[string]string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if old, ok := s.sessions[userID]; ok && !old.Expired(now) {
		return nil, common.ErrSessionExists
	}
	sess := s.create(userID, wf, step, seed, now)
	return sess, nil
}

// StartReplace создаёт новую сессию, явно отбрасывая текущую.
// Политика замены должна быть осознанным выбором вызывающего кода.
func (s *Store) StartReplace(userID int64, wf Workflow, step string, seed map[string]string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.create(userID, wf, step, seed, s.now())
}

func (s *Store) create(userID int64, wf Workflow, step string, seed map[string]string, now time.Time) *Session {
	fields := make(map[string]string, len(seed))
	for k, v := range seed {
		fields[k] = v
	}
	sess := &Session{
		UserID:    userID,
		Workflow:  wf,
		Step:      step,
		Fields:    fields,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	s.sessions[userID] = sess
	return sess
}

// Touch продлевает жизнь сессии после очередного валидного шага.
func (s *Store) Touch(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.ExpiresAt = s.now().Add(s.ttl)
}

// Clear удаляет сессию пользователя (завершение или отмена диалога).
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// Sweep удаляет все истёкшие сессии и возвращает их количество.
// Вызывается планировщиком; Get и так не отдаст истёкшую сессию,
// Sweep лишь не даёт карте расти на брошенных диалогах.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for userID, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, userID)
			removed++
		}
	}
	return removed
}
