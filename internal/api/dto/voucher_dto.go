package dto

import (
	"time"

	"github.com/spec-kit/hotspot-service/internal/domain"
)

// VoucherSummary is the public projection of a voucher.
type VoucherSummary struct {
	ID        string               `json:"id"`
	Code      string               `json:"code"`
	PlanID    string               `json:"plan_id"`
	BatchID   string               `json:"batch_id"`
	BatchName *string              `json:"batch_name,omitempty"`
	Status    domain.VoucherStatus `json:"status"`
	ExpiresAt *time.Time           `json:"expires_at,omitempty"`
	UsedAt    *time.Time           `json:"used_at,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

// NewVoucherSummary projects a domain voucher.
func NewVoucherSummary(voucher *domain.Voucher) VoucherSummary {
	return VoucherSummary{
		ID:        voucher.ID,
		Code:      voucher.Code,
		PlanID:    voucher.PlanID,
		BatchID:   voucher.BatchID,
		BatchName: voucher.BatchName,
		Status:    voucher.Status,
		ExpiresAt: voucher.ExpiresAt,
		UsedAt:    voucher.UsedAt,
		CreatedAt: voucher.CreatedAt,
	}
}

// GenerateVouchersRequest payload for batch generation.
type GenerateVouchersRequest struct {
	PlanID    string  `json:"plan_id" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,min=1,max=1000"`
	BatchName *string `json:"batch_name"`
}

// ValidateVoucherRequest payload for redemption.
type ValidateVoucherRequest struct {
	Code string `json:"code" validate:"required"`
}

// ValidateVoucherResponse returns the redeemed voucher and its plan.
type ValidateVoucherResponse struct {
	Voucher VoucherSummary `json:"voucher"`
	Plan    PlanSummary    `json:"plan"`
}
