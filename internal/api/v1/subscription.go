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

type SubscriptionHandler struct {
	service        service.SubscriptionService
	billingService service.BillingService
	log            *logger.Logger
}

func NewSubscriptionHandler(
	service service.SubscriptionService,
	billingService service.BillingService,
	log *logger.Logger,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		service:        service,
		billingService: billingService,
		log:            log,
	}
}

// @Summary Create subscription
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param subscription body dto.CreateSubscriptionRequest true "Subscription request"
// @Success 201 {object} dto.SubscriptionResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /subscriptions [post]
func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	var req dto.CreateSubscriptionRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.CreateSubscription(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get subscription
// @Tags Subscriptions
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Subscription ID"
// @Success 200 {object} dto.SubscriptionResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /subscriptions/{id} [get]
func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	resp, err := h.service.GetSubscription(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List subscriptions
// @Tags Subscriptions
// @Produce json
// @Security ApiKeyAuth
// @Param filter query types.SubscriptionFilter false "Filter"
// @Success 200 {object} dto.ListSubscriptionsResponse
// @Router /subscriptions [get]
func (h *SubscriptionHandler) GetSubscriptions(c *gin.Context) {
	filter := types.NewSubscriptionFilter()
	if err := c.ShouldBindQuery(filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ListSubscriptions(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Renew subscription
// @Description Advances the subscription into its next billing period
// @Tags Subscriptions
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Subscription ID"
// @Success 200 {object} dto.SubscriptionResponse
// @Router /subscriptions/{id}/renew [post]
func (h *SubscriptionHandler) RenewSubscription(c *gin.Context) {
	resp, err := h.service.RenewSubscription(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Cancel subscription
// @Tags Subscriptions
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Subscription ID"
// @Success 200 {object} dto.SubscriptionResponse
// @Router /subscriptions/{id}/cancel [post]
func (h *SubscriptionHandler) CancelSubscription(c *gin.Context) {
	resp, err := h.service.CancelSubscription(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Preview plan change
// @Description Prorates a plan change for the rest of the running period without applying it
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Subscription ID"
// @Param request body dto.ChangePlanRequest true "Plan change"
// @Success 200 {object} dto.PlanChangePreviewResponse
// @Router /subscriptions/{id}/change/preview [post]
func (h *SubscriptionHandler) PreviewPlanChange(c *gin.Context) {
	var req dto.ChangePlanRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.billingService.PreviewPlanChange(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Change plan
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Subscription ID"
// @Param request body dto.ChangePlanRequest true "Plan change"
// @Success 200 {object} dto.PlanChangeResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /subscriptions/{id}/change/execute [post]
func (h *SubscriptionHandler) ChangePlan(c *gin.Context) {
	var req dto.ChangePlanRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.billingService.ChangePlan(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Preview extension
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Subscription ID"
// @Param request body dto.ExtendSubscriptionRequest true "Extension"
// @Success 200 {object} dto.ExtensionPreviewResponse
// @Router /subscriptions/{id}/extend/preview [post]
func (h *SubscriptionHandler) PreviewExtension(c *gin.Context) {
	var req dto.ExtendSubscriptionRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.billingService.PreviewExtension(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Extend subscription
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Subscription ID"
// @Param request body dto.ExtendSubscriptionRequest true "Extension"
// @Success 200 {object} dto.ExtendSubscriptionResponse
// @Router /subscriptions/{id}/extend [post]
func (h *SubscriptionHandler) ExtendSubscription(c *gin.Context) {
	var req dto.ExtendSubscriptionRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.billingService.ExtendSubscription(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Change cadence
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Subscription ID"
// @Param request body dto.ChangeCadenceRequest true "Cadence change"
// @Success 200 {object} dto.ChangeCadenceResponse
// @Router /subscriptions/{id}/cadence [post]
func (h *SubscriptionHandler) ChangeCadence(c *gin.Context) {
	var req dto.ChangeCadenceRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.billingService.ChangeCadence(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
