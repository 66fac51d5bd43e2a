package dto

import (
	"time"

	"github.com/rentshop/billing/internal/domain/billing"
	"github.com/rentshop/billing/internal/domain/proration"
	ierr "github.com/rentshop/billing/internal/errors"
	"github.com/rentshop/billing/internal/types"
	"github.com/rentshop/billing/internal/validator"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Requests in this file drive the stateless calculators directly. Every field
// is parsed here and range checks are left to the engine.

type PeriodBoundsRequest struct {
	Anchor  string               `json:"anchor" validate:"required"`
	Cadence types.BillingCadence `json:"cadence"`
	// PeriodCount defaults to 1 when omitted
	PeriodCount *int `json:"period_count,omitempty"`
}

func (r *PeriodBoundsRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *PeriodBoundsRequest) ToParams() (time.Time, types.BillingCadence, int, error) {
	anchor, err := types.ParseTime(r.Anchor)
	if err != nil {
		return time.Time{}, "", 0, err
	}
	return anchor, r.Cadence, lo.FromPtrOr(r.PeriodCount, 1), nil
}

type PeriodBoundsResponse struct {
	billing.Period
}

type DailyRateRequest struct {
	Price   string               `json:"price" validate:"required,decimal"`
	Cadence types.BillingCadence `json:"cadence"`
}

func (r *DailyRateRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type DailyRateResponse struct {
	Price     decimal.Decimal      `json:"price"`
	Cadence   types.BillingCadence `json:"cadence"`
	DailyRate decimal.Decimal      `json:"daily_rate"`
}

// PlanSnapshotRequest is a plan priced for the cadence of the calculation
type PlanSnapshotRequest struct {
	ID       string `json:"id"`
	Price    string `json:"price" validate:"required,decimal"`
	Currency string `json:"currency" validate:"omitempty,len=3"`
	// Active defaults to true
	Active *bool `json:"active,omitempty"`
}

func (r PlanSnapshotRequest) ToSnapshot() (billing.PlanSnapshot, error) {
	price, err := parseDecimal("price", r.Price)
	if err != nil {
		return billing.PlanSnapshot{}, err
	}
	return billing.PlanSnapshot{
		ID:       r.ID,
		Price:    price,
		Currency: types.NormalizeCurrency(r.Currency),
		Active:   lo.FromPtrOr(r.Active, true),
	}, nil
}

type ProrateRequest struct {
	CurrentPlan   PlanSnapshotRequest  `json:"current_plan"`
	NewPlan       PlanSnapshotRequest  `json:"new_plan"`
	PeriodStart   string               `json:"period_start"`
	PeriodEnd     string               `json:"period_end"`
	ChangeInstant string               `json:"change_instant"`
	Cadence       types.BillingCadence `json:"cadence"`
}

func (r *ProrateRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ToParams parses the request. Missing instants stay zero and are rejected by the calculator.
func (r *ProrateRequest) ToParams() (proration.ProrationParams, error) {
	current, err := r.CurrentPlan.ToSnapshot()
	if err != nil {
		return proration.ProrationParams{}, err
	}

	next, err := r.NewPlan.ToSnapshot()
	if err != nil {
		return proration.ProrationParams{}, err
	}

	instants, err := parseInstants(r.PeriodStart, r.PeriodEnd, r.ChangeInstant)
	if err != nil {
		return proration.ProrationParams{}, err
	}

	return proration.ProrationParams{
		CurrentPlan:   current,
		NewPlan:       next,
		PeriodStart:   instants[0],
		PeriodEnd:     instants[1],
		ChangeInstant: instants[2],
		Cadence:       r.Cadence,
	}, nil
}

type ExtendRequest struct {
	Plan             PlanSnapshotRequest  `json:"plan"`
	Periods          int                  `json:"periods"`
	CurrentPeriodEnd string               `json:"current_period_end"`
	ExtensionStart   string               `json:"extension_start"`
	Cadence          types.BillingCadence `json:"cadence"`
}

func (r *ExtendRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *ExtendRequest) ToParams() (billing.ExtensionParams, error) {
	snapshot, err := r.Plan.ToSnapshot()
	if err != nil {
		return billing.ExtensionParams{}, err
	}

	instants, err := parseInstants(r.CurrentPeriodEnd, r.ExtensionStart)
	if err != nil {
		return billing.ExtensionParams{}, err
	}

	return billing.ExtensionParams{
		Plan:             snapshot,
		Periods:          r.Periods,
		CurrentPeriodEnd: instants[0],
		ExtensionStart:   instants[1],
		Cadence:          r.Cadence,
	}, nil
}

type DiscountRequest struct {
	Cycle types.BillingCycle `json:"cycle" form:"cycle"`
}

type DiscountResponse struct {
	Cycle           types.BillingCycle `json:"cycle"`
	DiscountPercent decimal.Decimal    `json:"discount_percent"`
}

// QuoteRequest prices a prepaid commitment of Periods units of Cycle
type QuoteRequest struct {
	BasePrice string             `json:"base_price" validate:"required,decimal"`
	Cycle     types.BillingCycle `json:"cycle"`
	Periods   int                `json:"periods"`
	Currency  string             `json:"currency" validate:"omitempty,len=3"`
}

func (r *QuoteRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type QuoteResponse struct {
	BasePrice       decimal.Decimal    `json:"base_price"`
	Cycle           types.BillingCycle `json:"cycle"`
	Periods         int                `json:"periods"`
	DiscountPercent decimal.Decimal    `json:"discount_percent"`
	Price           decimal.Decimal    `json:"price"`
	Currency        string             `json:"currency,omitempty"`
}

func parseDecimal(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, ierr.WithError(err).
			WithHintf("%s must be a valid decimal number", field).
			WithReportableDetails(map[string]any{
				"field": field,
				"value": value,
			}).
			Mark(ierr.ErrValidation)
	}
	return d, nil
}

// parseInstants parses every non empty value, empty ones decay to the zero time
func parseInstants(values ...string) ([]time.Time, error) {
	out := make([]time.Time, len(values))
	for i, v := range values {
		if v == "" {
			continue
		}
		t, err := types.ParseTime(v)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}
