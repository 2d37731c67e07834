package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hotspot-service/internal/api/dto"
	"github.com/spec-kit/hotspot-service/internal/auth"
	"github.com/spec-kit/hotspot-service/internal/domain"
	"github.com/spec-kit/hotspot-service/internal/repository"
	"github.com/spec-kit/hotspot-service/internal/service"
)

// VouchersHandler exposes voucher endpoints.
type VouchersHandler struct {
	vouchers *service.VoucherService
}

// NewVouchersHandler constructs handler.
func NewVouchersHandler(voucherService *service.VoucherService) *VouchersHandler {
	return &VouchersHandler{vouchers: voucherService}
}

// List handles GET /api/vouchers.
func (h *VouchersHandler) List(c *fiber.Ctx) error {
	filter := repository.VoucherFilter{
		PlanID:  queryPtr(c, "plan_id"),
		BatchID: queryPtr(c, "batch_id"),
	}
	if status := c.Query("status"); status != "" {
		s := domain.VoucherStatus(status)
		filter.Status = &s
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		filter.Limit = limit
	}

	vouchers, err := h.vouchers.List(c.UserContext(), filter)
	if err != nil {
		return err
	}

	items := make([]dto.VoucherSummary, 0, len(vouchers))
	for i := range vouchers {
		items = append(items, dto.NewVoucherSummary(&vouchers[i]))
	}
	return respondOK(c, "Vouchers retrieved successfully", items)
}

// Generate handles POST /api/vouchers/generate.
func (h *VouchersHandler) Generate(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	var req dto.GenerateVouchersRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	batch, err := h.vouchers.Generate(c.UserContext(), principal, service.GenerateInput{
		PlanID:    req.PlanID,
		Quantity:  req.Quantity,
		BatchName: req.BatchName,
	})
	if err != nil {
		return err
	}

	items := make([]dto.VoucherSummary, 0, len(batch))
	for i := range batch {
		items = append(items, dto.NewVoucherSummary(&batch[i]))
	}
	return respondCreated(c, "Vouchers generated successfully", items)
}

// Validate handles POST /api/vouchers/validate: redeems an unused code.
func (h *VouchersHandler) Validate(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	var req dto.ValidateVoucherRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	voucher, plan, err := h.vouchers.Validate(c.UserContext(), principal, req.Code)
	if err != nil {
		return err
	}
	return respondOK(c, "Voucher redeemed successfully", dto.ValidateVoucherResponse{
		Voucher: dto.NewVoucherSummary(voucher),
		Plan:    dto.NewPlanSummary(plan),
	})
}

// Stats handles GET /api/vouchers/stats.
func (h *VouchersHandler) Stats(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	stats, err := h.vouchers.Stats(c.UserContext(), scopedLocation(c, principal))
	if err != nil {
		return err
	}
	return respondOK(c, "Voucher stats retrieved", stats)
}
