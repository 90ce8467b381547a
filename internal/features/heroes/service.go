// Package heroes — service.go содержит логику справочника героев.
package heroes

import "context"

// Store — операции хранилища, нужные справочнику.
// Реализуется Repository; в тестах подменяется фейком.
type Store interface {
	Roles(ctx context.Context) ([]string, error)
	ByRole(ctx context.Context, role string) ([]*Hero, error)
	HeroByID(ctx context.Context, heroID int64) (*Hero, error)
	TierList(ctx context.Context) ([]*Hero, error)
}

// Service — тонкая обёртка над справочником героев.
type Service struct {
	store Store
}

// NewService создаёт сервис справочника героев.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Roles возвращает роли героев.
func (s *Service) Roles(ctx context.Context) ([]string, error) {
	return s.store.Roles(ctx)
}

// ByRole возвращает героев роли.
func (s *Service) ByRole(ctx context.Context, role string) ([]*Hero, error) {
	return s.store.ByRole(ctx, role)
}

// Get возвращает героя или common.ErrNotFound.
func (s *Service) Get(ctx context.Context, heroID int64) (*Hero, error) {
	return s.store.HeroByID(ctx, heroID)
}

// TierList возвращает героев, сгруппированных по тирам.
// Порядок тиров: S, A, B, C, D.
func (s *Service) TierList(ctx context.Context) (map[string][]*Hero, []string, error) {
	heroes, err := s.store.TierList(ctx)
	if err != nil {
		return nil, nil, err
	}

	byTier := make(map[string][]*Hero)
	var order []string
	for _, h := range heroes {
		if _, ok := byTier[h.Tier]; !ok {
			order = append(order, h.Tier)
		}
		byTier[h.Tier] = append(byTier[h.Tier], h)
	}
	return byTier, order, nil
}
