// Package profile — service.go содержит бизнес-логику профилей:
// создание со стартовым балансом, сборки, заметки, проверка состава команд.
package profile

import (
	"context"
	"errors"
	"strings"

	log "github.com/sirupsen/logrus"

	"mlhelper.ru/ml-helper-bot/internal/common"
	"mlhelper.ru/ml-helper-bot/internal/config"
)

// Store — операции хранилища, нужные сервису профилей.
// Реализуется Repository; в тестах подменяется фейком.
type Store interface {
	CreateUser(ctx context.Context, u *User) error
	ByUserID(ctx context.Context, userID int64) (*User, error)
	MissingUsers(ctx context.Context, ids []int64) ([]int64, error)
	CreateBuild(ctx context.Context, b *Build) error
	BuildsByUser(ctx context.Context, userID int64) ([]*Build, error)
	BuildByID(ctx context.Context, userID, buildID int64) (*Build, error)
	CreateNote(ctx context.Context, n *Note) error
	NotesByUser(ctx context.Context, userID int64) ([]*Note, error)
	NoteByID(ctx context.Context, userID, noteID int64) (*Note, error)
}

// Service управляет профилями игроков.
type Service struct {
	store Store
	cfg   *config.Config
}

// NewService создаёт сервис профилей.
func NewService(store Store, cfg *config.Config) *Service {
	return &Service{store: store, cfg: cfg}
}

// CreateProfile создаёт профиль со стартовым балансом из конфига.
func (s *Service) CreateProfile(ctx context.Context, userID int64, username, nickname string, gameID int64) (*User, error) {
	u := &User{
		UserID:   userID,
		Username: username,
		Nickname: strings.TrimSpace(nickname),
		GameID:   gameID,
		Diamonds: s.cfg.EconomyStartingBalance,
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id":  userID,
		"nickname": u.Nickname,
	}).Info("Профиль создан")
	return u, nil
}

// Get возвращает профиль пользователя или common.ErrNoProfile.
func (s *Service) Get(ctx context.Context, userID int64) (*User, error) {
	return s.store.ByUserID(ctx, userID)
}

// Exists сообщает, есть ли у пользователя профиль.
func (s *Service) Exists(ctx context.Context, userID int64) (bool, error) {
	_, err := s.store.ByUserID(ctx, userID)
	if errors.Is(err, common.ErrNoProfile) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MissingUsers возвращает ID без профиля из переданного списка.
func (s *Service) MissingUsers(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return s.store.MissingUsers(ctx, ids)
}

// CreateBuild сохраняет сборку пользователя.
func (s *Service) CreateBuild(ctx context.Context, userID int64, heroID *int64, items, description string) (*Build, error) {
	b := &Build{
		UserID:      userID,
		HeroID:      heroID,
		Items:       items,
		Description: description,
	}
	if err := s.store.CreateBuild(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Builds возвращает сборки пользователя.
func (s *Service) Builds(ctx context.Context, userID int64) ([]*Build, error) {
	return s.store.BuildsByUser(ctx, userID)
}

// Build возвращает одну сборку пользователя.
func (s *Service) Build(ctx context.Context, userID, buildID int64) (*Build, error) {
	return s.store.BuildByID(ctx, userID, buildID)
}

// CreateNote сохраняет заметку. Заголовок — усечённое содержимое.
func (s *Service) CreateNote(ctx context.Context, userID int64, content string) (*Note, error) {
	n := &Note{
		UserID:  userID,
		Title:   common.TruncateTitle(content, s.cfg.NoteTitleLimit),
		Content: content,
	}
	if err := s.store.CreateNote(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// Notes возвращает заметки пользователя.
func (s *Service) Notes(ctx context.Context, userID int64) ([]*Note, error) {
	return s.store.NotesByUser(ctx, userID)
}

// Note возвращает одну заметку пользователя.
func (s *Service) Note(ctx context.Context, userID, noteID int64) (*Note, error) {
	return s.store.NoteByID(ctx, userID, noteID)
}
