package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/hotspot-service/internal/domain"
)

// PlanFilter narrows plan listings.
type PlanFilter struct {
	LocationID *string
	Status     *domain.PlanStatus
}

// PlanRepository encapsulates internet plan persistence.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.Plan) error
	Update(ctx context.Context, plan *domain.Plan) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Plan, error)
	List(ctx context.Context, filter PlanFilter) ([]domain.Plan, error)
}

type planRepository struct {
	pool *pgxpool.Pool
}

// NewPlanRepository instantiates repository.
func NewPlanRepository(pool *pgxpool.Pool) PlanRepository {
	return &planRepository{pool: pool}
}

const planColumns = `id, name, description, price, duration_hours, data_limit_mb, bandwidth_down_kbps, bandwidth_up_kbps, location_id, status, created_at, updated_at`

func (r *planRepository) Create(ctx context.Context, plan *domain.Plan) error {
	const query = `
        INSERT INTO plans (name, description, price, duration_hours, data_limit_mb, bandwidth_down_kbps, bandwidth_up_kbps, location_id, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		plan.Name,
		plan.Description,
		plan.Price,
		plan.DurationHours,
		plan.DataLimitMB,
		plan.BandwidthDownKbps,
		plan.BandwidthUpKbps,
		plan.LocationID,
		plan.Status,
	).Scan(&plan.ID, &plan.CreatedAt, &plan.UpdatedAt)
}

func (r *planRepository) Update(ctx context.Context, plan *domain.Plan) error {
	const query = `
        UPDATE plans SET name=$1, description=$2, price=$3, duration_hours=$4, data_limit_mb=$5,
            bandwidth_down_kbps=$6, bandwidth_up_kbps=$7, location_id=$8, status=$9, updated_at=NOW()
        WHERE id=$10`
	cmd, err := r.pool.Exec(ctx, query,
		plan.Name,
		plan.Description,
		plan.Price,
		plan.DurationHours,
		plan.DataLimitMB,
		plan.BandwidthDownKbps,
		plan.BandwidthUpKbps,
		plan.LocationID,
		plan.Status,
		plan.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *planRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM plans WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *planRepository) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE id=$1`
	var plan domain.Plan
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&plan.ID,
		&plan.Name,
		&plan.Description,
		&plan.Price,
		&plan.DurationHours,
		&plan.DataLimitMB,
		&plan.BandwidthDownKbps,
		&plan.BandwidthUpKbps,
		&plan.LocationID,
		&plan.Status,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepository) List(ctx context.Context, filter PlanFilter) ([]domain.Plan, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.LocationID != nil {
		args = append(args, *filter.LocationID)
		conditions = append(conditions, fmt.Sprintf("location_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status=$%d", len(args)))
	}

	query := `SELECT ` + planColumns + ` FROM plans`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY price"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := make([]domain.Plan, 0)
	for rows.Next() {
		var plan domain.Plan
		if err := rows.Scan(
			&plan.ID,
			&plan.Name,
			&plan.Description,
			&plan.Price,
			&plan.DurationHours,
			&plan.DataLimitMB,
			&plan.BandwidthDownKbps,
			&plan.BandwidthUpKbps,
			&plan.LocationID,
			&plan.Status,
			&plan.CreatedAt,
			&plan.UpdatedAt,
		); err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}
