// Package dictionary — service.go содержит бизнес-логику словаря.
package dictionary

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"mlhelper.ru/ml-helper-bot/internal/common"
)

// Store — операции хранилища, нужные словарю.
// Реализуется Repository; в тестах подменяется фейком.
type Store interface {
	CreateTerm(ctx context.Context, t *Term) error
	TermByID(ctx context.Context, termID int64) (*Term, error)
	Categories(ctx context.Context) ([]string, error)
	ByCategory(ctx context.Context, category string) ([]*Term, error)
	Search(ctx context.Context, query string) ([]*Term, error)
}

// Service управляет словарём терминов.
type Service struct {
	store Store
}

// NewService создаёт сервис словаря.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// AddTerm сохраняет новый термин после нормализации полей.
func (s *Service) AddTerm(ctx context.Context, name, description, category string) (*Term, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.ErrInvalidAmount
	}
	t := &Term{
		Name:        name,
		Description: strings.TrimSpace(description),
		Category:    strings.TrimSpace(category),
	}
	if err := s.store.CreateTerm(ctx, t); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"term_id": t.ID,
		"name":    t.Name,
	}).Info("Термин добавлен в словарь")
	return t, nil
}

// Get возвращает термин или common.ErrNotFound.
func (s *Service) Get(ctx context.Context, termID int64) (*Term, error) {
	return s.store.TermByID(ctx, termID)
}

// Categories возвращает категории словаря.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.store.Categories(ctx)
}

// ByCategory возвращает термины категории.
func (s *Service) ByCategory(ctx context.Context, category string) ([]*Term, error) {
	return s.store.ByCategory(ctx, category)
}

// Search ищет термины по подстроке названия.
func (s *Service) Search(ctx context.Context, query string) ([]*Term, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	return s.store.Search(ctx, query)
}
