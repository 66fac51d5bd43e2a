package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rentshop/billing/internal/api/dto"
	ierr "github.com/rentshop/billing/internal/errors"
	"github.com/rentshop/billing/internal/logger"
	"github.com/rentshop/billing/internal/service"
	"github.com/rentshop/billing/internal/types"
)

type PlanHandler struct {
	service service.PlanService
	log     *logger.Logger
}

func NewPlanHandler(service service.PlanService, log *logger.Logger) *PlanHandler {
	return &PlanHandler{
		service: service,
		log:     log,
	}
}

// @Summary Create a new plan
// @Description Create a plan with a monthly base price
// @Tags Plans
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param plan body dto.CreatePlanRequest true "Plan configuration"
// @Success 201 {object} dto.PlanResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req dto.CreatePlanRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.CreatePlan(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a plan
// @Tags Plans
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Plan ID"
// @Success 200 {object} dto.PlanResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /plans/{id} [get]
func (h *PlanHandler) GetPlan(c *gin.Context) {
	resp, err := h.service.GetPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List plans
// @Tags Plans
// @Produce json
// @Security ApiKeyAuth
// @Param filter query types.PlanFilter false "Filter"
// @Success 200 {object} dto.ListPlansResponse
// @Router /plans [get]
func (h *PlanHandler) GetPlans(c *gin.Context) {
	filter := types.NewPlanFilter()
	if err := c.ShouldBindQuery(filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetPlans(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Deactivate a plan
// @Description Stops offering the plan. Existing subscriptions keep it.
// @Tags Plans
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Plan ID"
// @Success 200 {object} dto.PlanResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /plans/{id}/deactivate [post]
func (h *PlanHandler) DeactivatePlan(c *gin.Context) {
	resp, err := h.service.DeactivatePlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
