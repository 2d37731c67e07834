package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/hotspot-service/internal/domain"
)

// SessionFilter narrows session history queries.
type SessionFilter struct {
	ControllerID *string
	Status       *domain.SessionStatus
	StartDate    *time.Time
	EndDate      *time.Time
	Limit        int
}

// SessionRepository reads and terminates network sessions. Session rows are
// inserted by an external accounting collector, so there is no Create here.
type SessionRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	ListActive(ctx context.Context, controllerID *string) ([]domain.Session, error)
	History(ctx context.Context, filter SessionFilter) ([]domain.Session, error)
	Terminate(ctx context.Context, id string, endedAt time.Time) error
}

type sessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository instantiates repository.
func NewSessionRepository(pool *pgxpool.Pool) SessionRepository {
	return &sessionRepository{pool: pool}
}

const sessionColumns = `id, controller_id, voucher_id, plan_name, mac_address, ip_address, status, started_at, ended_at`

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id=$1`
	var s domain.Session
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.ControllerID,
		&s.VoucherID,
		&s.PlanName,
		&s.MacAddress,
		&s.IPAddress,
		&s.Status,
		&s.StartedAt,
		&s.EndedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepository) ListActive(ctx context.Context, controllerID *string) ([]domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE status=$1`
	args := []any{domain.SessionStatusActive}
	if controllerID != nil {
		args = append(args, *controllerID)
		query += fmt.Sprintf(" AND controller_id=$%d", len(args))
	}
	query += " ORDER BY started_at DESC"
	return r.queryMany(ctx, query, args)
}

func (r *sessionRepository) History(ctx context.Context, filter SessionFilter) ([]domain.Session, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.ControllerID != nil {
		args = append(args, *filter.ControllerID)
		conditions = append(conditions, fmt.Sprintf("controller_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		conditions = append(conditions, fmt.Sprintf("started_at >= $%d", len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		conditions = append(conditions, fmt.Sprintf("started_at <= $%d", len(args)))
	}

	query := `SELECT ` + sessionColumns + ` FROM sessions`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY started_at DESC"
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))

	return r.queryMany(ctx, query, args)
}

// Terminate closes an active session. The status guard keeps the operation
// idempotent against the collector marking the session ended concurrently.
func (r *sessionRepository) Terminate(ctx context.Context, id string, endedAt time.Time) error {
	const query = `UPDATE sessions SET status=$1, ended_at=$2 WHERE id=$3 AND status=$4`
	cmd, err := r.pool.Exec(ctx, query, domain.SessionStatusTerminated, endedAt, id, domain.SessionStatusActive)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *sessionRepository) queryMany(ctx context.Context, query string, args []any) ([]domain.Session, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]domain.Session, 0)
	for rows.Next() {
		var s domain.Session
		if err := rows.Scan(
			&s.ID,
			&s.ControllerID,
			&s.VoucherID,
			&s.PlanName,
			&s.MacAddress,
			&s.IPAddress,
			&s.Status,
			&s.StartedAt,
			&s.EndedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
