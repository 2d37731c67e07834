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

// VoucherFilter narrows voucher listings.
type VoucherFilter struct {
	PlanID  *string
	BatchID *string
	Status  *domain.VoucherStatus
	Limit   int
}

// VoucherRepository encapsulates voucher persistence.
type VoucherRepository interface {
	CreateBatch(ctx context.Context, vouchers []domain.Voucher) error
	GetByCode(ctx context.Context, code string) (*domain.Voucher, error)
	MarkUsed(ctx context.Context, id string, usedAt time.Time) error
	List(ctx context.Context, filter VoucherFilter) ([]domain.Voucher, error)
	Stats(ctx context.Context, locationID *string) (*domain.VoucherStats, error)
}

type voucherRepository struct {
	pool *pgxpool.Pool
}

// NewVoucherRepository instantiates repository.
func NewVoucherRepository(pool *pgxpool.Pool) VoucherRepository {
	return &voucherRepository{pool: pool}
}

const voucherColumns = `id, code, plan_id, batch_id, batch_name, status, expires_at, used_at, created_at`

func (r *voucherRepository) CreateBatch(ctx context.Context, vouchers []domain.Voucher) error {
	const query = `
        INSERT INTO vouchers (code, plan_id, batch_id, batch_name, status, expires_at)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	for i := range vouchers {
		v := &vouchers[i]
		if err := r.pool.QueryRow(ctx, query,
			v.Code,
			v.PlanID,
			v.BatchID,
			v.BatchName,
			v.Status,
			v.ExpiresAt,
		).Scan(&v.ID, &v.CreatedAt); err != nil {
			return err
		}
	}
	return nil
}

func (r *voucherRepository) GetByCode(ctx context.Context, code string) (*domain.Voucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE code=$1`
	var v domain.Voucher
	if err := r.pool.QueryRow(ctx, query, code).Scan(
		&v.ID,
		&v.Code,
		&v.PlanID,
		&v.BatchID,
		&v.BatchName,
		&v.Status,
		&v.ExpiresAt,
		&v.UsedAt,
		&v.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &v, nil
}

// MarkUsed flips an unused voucher to used. The status guard in the WHERE
// clause makes concurrent redemptions of the same code lose cleanly.
func (r *voucherRepository) MarkUsed(ctx context.Context, id string, usedAt time.Time) error {
	const query = `UPDATE vouchers SET status=$1, used_at=$2 WHERE id=$3 AND status=$4`
	cmd, err := r.pool.Exec(ctx, query, domain.VoucherStatusUsed, usedAt, id, domain.VoucherStatusUnused)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *voucherRepository) List(ctx context.Context, filter VoucherFilter) ([]domain.Voucher, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.PlanID != nil {
		args = append(args, *filter.PlanID)
		conditions = append(conditions, fmt.Sprintf("plan_id=$%d", len(args)))
	}
	if filter.BatchID != nil {
		args = append(args, *filter.BatchID)
		conditions = append(conditions, fmt.Sprintf("batch_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status=$%d", len(args)))
	}

	query := `SELECT ` + voucherColumns + ` FROM vouchers`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vouchers := make([]domain.Voucher, 0)
	for rows.Next() {
		var v domain.Voucher
		if err := rows.Scan(
			&v.ID,
			&v.Code,
			&v.PlanID,
			&v.BatchID,
			&v.BatchName,
			&v.Status,
			&v.ExpiresAt,
			&v.UsedAt,
			&v.CreatedAt,
		); err != nil {
			return nil, err
		}
		vouchers = append(vouchers, v)
	}
	return vouchers, rows.Err()
}

// Stats aggregates voucher counts plus revenue from redeemed codes. Revenue
// is priced at the plan joined at query time. Unused codes past their expiry
// count as expired; nothing transitions the row, so expiry is computed here.
func (r *voucherRepository) Stats(ctx context.Context, locationID *string) (*domain.VoucherStats, error) {
	query := `
        SELECT
            COUNT(*),
            COUNT(*) FILTER (WHERE v.status='unused' AND (v.expires_at IS NULL OR v.expires_at > NOW())),
            COUNT(*) FILTER (WHERE v.status='used'),
            COUNT(*) FILTER (WHERE v.status='expired' OR (v.status='unused' AND v.expires_at <= NOW())),
            COALESCE(SUM(p.price) FILTER (WHERE v.status='used'), 0)
        FROM vouchers v
        JOIN plans p ON p.id = v.plan_id`
	args := []any{}
	if locationID != nil {
		query += ` WHERE p.location_id=$1`
		args = append(args, *locationID)
	}

	var stats domain.VoucherStats
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&stats.Total,
		&stats.Unused,
		&stats.Used,
		&stats.Expired,
		&stats.TotalRevenue,
	); err != nil {
		return nil, err
	}
	return &stats, nil
}
