package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rentshop/billing/internal/api/dto"
	"github.com/rentshop/billing/internal/logger"
	"github.com/rentshop/billing/internal/service"
)

// BillingHandler exposes the stateless billing calculators
type BillingHandler struct {
	service service.BillingService
	log     *logger.Logger
}

func NewBillingHandler(service service.BillingService, log *logger.Logger) *BillingHandler {
	return &BillingHandler{
		service: service,
		log:     log,
	}
}

// @Summary Billing period bounds
// @Tags Billing
// @Accept json
// @Produce json
// @Param request body dto.PeriodBoundsRequest true "Anchor and cadence"
// @Success 200 {object} dto.PeriodBoundsResponse
// @Router /billing/period-bounds [post]
func (h *BillingHandler) PeriodBounds(c *gin.Context) {
	var req dto.PeriodBoundsRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.PeriodBounds(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Daily rate
// @Tags Billing
// @Accept json
// @Produce json
// @Param request body dto.DailyRateRequest true "Price and cadence"
// @Success 200 {object} dto.DailyRateResponse
// @Router /billing/daily-rate [post]
func (h *BillingHandler) DailyRate(c *gin.Context) {
	var req dto.DailyRateRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.DailyRate(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Prorate a plan change
// @Tags Billing
// @Accept json
// @Produce json
// @Param request body dto.ProrateRequest true "Plans, period and change instant"
// @Success 200 {object} proration.ProrationResult
// @Router /billing/prorate [post]
func (h *BillingHandler) Prorate(c *gin.Context) {
	var req dto.ProrateRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Prorate(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Price an extension
// @Tags Billing
// @Accept json
// @Produce json
// @Param request body dto.ExtendRequest true "Plan, periods and dates"
// @Success 200 {object} billing.ExtensionResult
// @Router /billing/extend [post]
func (h *BillingHandler) Extend(c *gin.Context) {
	var req dto.ExtendRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Extend(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Billing cycle discount
// @Tags Billing
// @Accept json
// @Produce json
// @Param request body dto.DiscountRequest true "Billing cycle"
// @Success 200 {object} dto.DiscountResponse
// @Router /billing/discount [post]
func (h *BillingHandler) Discount(c *gin.Context) {
	var req dto.DiscountRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Discount(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Quote a prepaid commitment
// @Tags Billing
// @Accept json
// @Produce json
// @Param request body dto.QuoteRequest true "Base price, cycle and periods"
// @Success 200 {object} dto.QuoteResponse
// @Router /billing/quote [post]
func (h *BillingHandler) Quote(c *gin.Context) {
	var req dto.QuoteRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Quote(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
