package domain

import "time"

// VoucherStatus tracks the redemption state of a voucher code.
type VoucherStatus string

const (
	VoucherStatusUnused  VoucherStatus = "unused"
	VoucherStatusUsed    VoucherStatus = "used"
	VoucherStatusExpired VoucherStatus = "expired"
)

// Voucher is a prepaid access code bound to a plan. Vouchers are generated
// in batches; BatchID groups codes created together.
type Voucher struct {
	ID        string
	Code      string
	PlanID    string
	BatchID   string
	BatchName *string
	Status    VoucherStatus
	ExpiresAt *time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// VoucherStats aggregates voucher counts and revenue for the dashboard.
type VoucherStats struct {
	Total        int     `json:"total"`
	Unused       int     `json:"unused"`
	Used         int     `json:"used"`
	Expired      int     `json:"expired"`
	TotalRevenue float64 `json:"total_revenue"`
}
