// Package tournament — repository.go выполняет операции с таблицами
// tournaments и tournament_participants.
package tournament

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mlhelper.ru/ml-helper-bot/internal/common"
)

// Repository предоставляет методы для работы с турнирами.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий турниров.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateTournament сохраняет новый турнир со статусом active.
func (r *Repository) CreateTournament(ctx context.Context, t *Tournament) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO tournaments (name, description, start_date, rewards, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, t.Name, t.Description, t.StartDate, t.Rewards, StatusActive).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания турнира: %w", err)
	}
	t.Status = StatusActive
	return nil
}

// Active возвращает турниры с открытой регистрацией,
// ближайшие по дате старта — первыми.
func (r *Repository) Active(ctx context.Context) ([]*Tournament, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, description, start_date, rewards, status, created_at
		FROM tournaments
		WHERE status = $1
		ORDER BY start_date, id
	`, StatusActive)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения турниров: %w", err)
	}
	defer rows.Close()

	var out []*Tournament
	for rows.Next() {
		var t Tournament
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.StartDate, &t.Rewards, &t.Status, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка чтения турнира: %w", err)
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

// ByID возвращает турнир по ID.
func (r *Repository) ByID(ctx context.Context, tournamentID int64) (*Tournament, error) {
	var t Tournament
	err := r.db.QueryRow(ctx, `
		SELECT id, name, description, start_date, rewards, status, created_at
		FROM tournaments WHERE id = $1
	`, tournamentID).Scan(&t.ID, &t.Name, &t.Description, &t.StartDate, &t.Rewards, &t.Status, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения турнира: %w", err)
	}
	return &t, nil
}

// Register создаёт заявку команды. Повторная заявка того же капитана
// на тот же турнир упирается в уникальный индекс и отклоняется
// с common.ErrAlreadyRegistered.
func (r *Repository) Register(ctx context.Context, p *Participant) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO tournament_participants (tournament_id, user_id, team_name, team_members)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (tournament_id, user_id) DO NOTHING
		RETURNING id, registered_at
	`, p.TournamentID, p.UserID, p.TeamName, p.TeamMembers).Scan(&p.ID, &p.RegisteredAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.ErrAlreadyRegistered
	}
	if err != nil {
		return fmt.Errorf("ошибка регистрации на турнир: %w", err)
	}
	return nil
}

// Participants возвращает заявки турнира в порядке подачи.
func (r *Repository) Participants(ctx context.Context, tournamentID int64) ([]*Participant, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, tournament_id, user_id, team_name, team_members, registered_at
		FROM tournament_participants
		WHERE tournament_id = $1
		ORDER BY registered_at, id
	`, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения участников: %w", err)
	}
	defer rows.Close()

	var out []*Participant
	for rows.Next() {
		var p Participant
		if err := rows.Scan(&p.ID, &p.TournamentID, &p.UserID, &p.TeamName, &p.TeamMembers, &p.RegisteredAt); err != nil {
			return nil, fmt.Errorf("ошибка чтения участника: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// CloseStarted закрывает регистрацию турниров, чья дата старта уже
// наступила. Вызывается планировщиком; возвращает число закрытых.
func (r *Repository) CloseStarted(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE tournaments SET status = $1
		WHERE status = $2 AND start_date <= $3
	`, StatusClosed, StatusActive, now)
	if err != nil {
		return 0, fmt.Errorf("ошибка закрытия турниров: %w", err)
	}
	return tag.RowsAffected(), nil
}
