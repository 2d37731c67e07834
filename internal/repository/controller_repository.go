package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/hotspot-service/internal/domain"
)

// ControllerRepository encapsulates wireless controller persistence.
type ControllerRepository interface {
	Create(ctx context.Context, controller *domain.Controller) error
	Update(ctx context.Context, controller *domain.Controller) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Controller, error)
	List(ctx context.Context, locationID *string) ([]domain.Controller, error)
}

type controllerRepository struct {
	pool *pgxpool.Pool
}

// NewControllerRepository instantiates repository.
func NewControllerRepository(pool *pgxpool.Pool) ControllerRepository {
	return &controllerRepository{pool: pool}
}

const controllerColumns = `id, name, ip_address, port, username, password, site_id, location_id, status, created_at, updated_at`

func (r *controllerRepository) Create(ctx context.Context, controller *domain.Controller) error {
	const query = `
        INSERT INTO controllers (name, ip_address, port, username, password, site_id, location_id, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		controller.Name,
		controller.IPAddress,
		controller.Port,
		controller.Username,
		controller.Password,
		controller.SiteID,
		controller.LocationID,
		controller.Status,
	).Scan(&controller.ID, &controller.CreatedAt, &controller.UpdatedAt)
}

func (r *controllerRepository) Update(ctx context.Context, controller *domain.Controller) error {
	const query = `
        UPDATE controllers SET name=$1, ip_address=$2, port=$3, username=$4, password=$5,
            site_id=$6, location_id=$7, status=$8, updated_at=NOW()
        WHERE id=$9`
	cmd, err := r.pool.Exec(ctx, query,
		controller.Name,
		controller.IPAddress,
		controller.Port,
		controller.Username,
		controller.Password,
		controller.SiteID,
		controller.LocationID,
		controller.Status,
		controller.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *controllerRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM controllers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *controllerRepository) GetByID(ctx context.Context, id string) (*domain.Controller, error) {
	query := `SELECT ` + controllerColumns + ` FROM controllers WHERE id=$1`
	var controller domain.Controller
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&controller.ID,
		&controller.Name,
		&controller.IPAddress,
		&controller.Port,
		&controller.Username,
		&controller.Password,
		&controller.SiteID,
		&controller.LocationID,
		&controller.Status,
		&controller.CreatedAt,
		&controller.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &controller, nil
}

func (r *controllerRepository) List(ctx context.Context, locationID *string) ([]domain.Controller, error) {
	query := `SELECT ` + controllerColumns + ` FROM controllers`
	args := []any{}
	if locationID != nil {
		query += ` WHERE location_id=$1`
		args = append(args, *locationID)
	}
	query += ` ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	controllers := make([]domain.Controller, 0)
	for rows.Next() {
		var controller domain.Controller
		if err := rows.Scan(
			&controller.ID,
			&controller.Name,
			&controller.IPAddress,
			&controller.Port,
			&controller.Username,
			&controller.Password,
			&controller.SiteID,
			&controller.LocationID,
			&controller.Status,
			&controller.CreatedAt,
			&controller.UpdatedAt,
		); err != nil {
			return nil, err
		}
		controllers = append(controllers, controller)
	}
	return controllers, rows.Err()
}
