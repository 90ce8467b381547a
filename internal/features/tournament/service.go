// Package tournament — service.go содержит бизнес-логику турниров:
// проверки состава команды и статуса регистрации.
package tournament

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"mlhelper.ru/ml-helper-bot/internal/common"
	"mlhelper.ru/ml-helper-bot/internal/config"
)

// Store — операции хранилища, нужные сервису турниров.
// Реализуется Repository; в тестах подменяется фейком.
type Store interface {
	CreateTournament(ctx context.Context, t *Tournament) error
	Active(ctx context.Context) ([]*Tournament, error)
	ByID(ctx context.Context, tournamentID int64) (*Tournament, error)
	Register(ctx context.Context, p *Participant) error
	Participants(ctx context.Context, tournamentID int64) ([]*Participant, error)
	CloseStarted(ctx context.Context, now time.Time) (int64, error)
}

// Profiles — проверка наличия профилей у состава команды.
type Profiles interface {
	MissingUsers(ctx context.Context, ids []int64) ([]int64, error)
}

// MissingProfilesError сообщает, у кого из заявленного состава нет профиля.
type MissingProfilesError struct {
	IDs []int64
}

func (e *MissingProfilesError) Error() string {
	parts := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return "нет профиля у участников: " + strings.Join(parts, ", ")
}

// Service управляет турнирами.
type Service struct {
	store    Store
	profiles Profiles
	cfg      *config.Config
}

// NewService создаёт сервис турниров.
func NewService(store Store, profiles Profiles, cfg *config.Config) *Service {
	return &Service{store: store, profiles: profiles, cfg: cfg}
}

// Create сохраняет новый турнир с открытой регистрацией.
func (s *Service) Create(ctx context.Context, name, description string, startDate time.Time, rewards string) (*Tournament, error) {
	t := &Tournament{
		Name:        strings.TrimSpace(name),
		Description: description,
		StartDate:   startDate,
		Rewards:     rewards,
	}
	if err := s.store.CreateTournament(ctx, t); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"tournament_id": t.ID,
		"name":          t.Name,
	}).Info("Турнир создан")
	return t, nil
}

// Active возвращает турниры с открытой регистрацией.
func (s *Service) Active(ctx context.Context) ([]*Tournament, error) {
	return s.store.Active(ctx)
}

// Get возвращает турнир или common.ErrNotFound.
func (s *Service) Get(ctx context.Context, tournamentID int64) (*Tournament, error) {
	return s.store.ByID(ctx, tournamentID)
}

// Register подаёт заявку команды на турнир.
// Лимиты из конфига ограничивают заявленный состав; капитан включается
// сверх него автоматически. У каждого участника должен быть профиль;
// регистрация возможна только пока турнир active.
func (s *Service) Register(ctx context.Context, tournamentID, userID int64, teamName string, members []int64) (*Participant, error) {
	t, err := s.store.ByID(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if t.Status != StatusActive {
		return nil, common.ErrTournamentClosed
	}

	if len(members) < s.cfg.TournamentMinTeamSize || len(members) > s.cfg.TournamentMaxTeamSize {
		return nil, fmt.Errorf("%w: укажите от %d до %d участников",
			common.ErrTeamSize, s.cfg.TournamentMinTeamSize, s.cfg.TournamentMaxTeamSize)
	}

	team := normalizeTeam(userID, members)
	missing, err := s.profiles.MissingUsers(ctx, team)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, &MissingProfilesError{IDs: missing}
	}

	p := &Participant{
		TournamentID: tournamentID,
		UserID:       userID,
		TeamName:     strings.TrimSpace(teamName),
		TeamMembers:  team,
	}
	if err := s.store.Register(ctx, p); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"tournament_id": tournamentID,
		"user_id":       userID,
		"team":          p.TeamName,
		"team_size":     len(team),
	}).Info("Команда зарегистрирована на турнир")
	return p, nil
}

// Participants возвращает заявки турнира.
func (s *Service) Participants(ctx context.Context, tournamentID int64) ([]*Participant, error) {
	return s.store.Participants(ctx, tournamentID)
}

// CloseStarted закрывает регистрацию начавшихся турниров.
func (s *Service) CloseStarted(ctx context.Context, now time.Time) (int64, error) {
	return s.store.CloseStarted(ctx, now)
}

// normalizeTeam добавляет капитана в состав и убирает дубли,
// сохраняя порядок ввода.
func normalizeTeam(captain int64, members []int64) []int64 {
	seen := map[int64]bool{captain: true}
	team := []int64{captain}
	for _, id := range members {
		if !seen[id] {
			seen[id] = true
			team = append(team, id)
		}
	}
	return team
}
