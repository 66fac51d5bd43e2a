package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/rentshop/billing/internal/api/dto"
	"github.com/rentshop/billing/internal/domain/plan"
	"github.com/rentshop/billing/internal/domain/subscription"
	ierr "github.com/rentshop/billing/internal/errors"
	"github.com/rentshop/billing/internal/testutil"
	"github.com/rentshop/billing/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type BillingServiceSuite struct {
	testutil.BaseServiceTestSuite
	service BillingService
}

func TestBillingService(t *testing.T) {
	suite.Run(t, new(BillingServiceSuite))
}

func (s *BillingServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewBillingService(newTestServiceParams(&s.BaseServiceTestSuite))
	createTestPlan(&s.BaseServiceTestSuite, "plan_basic", 50, true)
	createTestPlan(&s.BaseServiceTestSuite, "plan_pro", 100, true)
	createTestPlan(&s.BaseServiceTestSuite, "plan_legacy", 80, false)
}

func (s *BillingServiceSuite) plan(id string) *plan.Plan {
	p, err := s.GetStores().PlanRepo.Get(s.GetContext(), id)
	s.Require().NoError(err)
	return p
}

func (s *BillingServiceSuite) TestPreviewPlanChange() {
	sub := createTestSubscription(&s.BaseServiceTestSuite, "subs_1", s.plan("plan_basic"), types.SubscriptionStatusActive)

	resp, err := s.service.PreviewPlanChange(s.GetContext(), sub.ID, dto.ChangePlanRequest{
		TargetPlanID:  "plan_pro",
		ChangeInstant: lo.ToPtr("2025-09-16T00:00:00Z"),
	})
	s.Require().NoError(err)
	s.Equal(types.ProrationBehaviorCreateProrations, resp.ProrationBehavior)
	s.True(mustDecimal("0.5").Equal(resp.Proration.ProrationRatio))
	s.Equal(15, resp.Proration.RemainingDays)
	s.True(mustDecimal("25").Equal(resp.Proration.CurrentPlanCredit))
	s.True(mustDecimal("50").Equal(resp.Proration.NewPlanCharge))
	s.True(mustDecimal("25").Equal(resp.AmountDue))
	s.True(mustDecimal("100").Equal(resp.NewAmount))
	s.Equal(types.ProrationActionUpgrade, resp.Proration.Action)

	// previews never write
	stored, err := s.GetStores().SubscriptionRepo.Get(s.GetContext(), sub.ID)
	s.Require().NoError(err)
	s.Equal("plan_basic", stored.PlanID)
	s.Equal(1, stored.Version)
	s.Equal(float64(1), operationCount(s.GetRegistry(), opPreviewPlanChange, "success"))
}

func (s *BillingServiceSuite) TestPreviewPlanChange_DefaultsToNow() {
	sub := createTestSubscription(&s.BaseServiceTestSuite, "subs_1", s.plan("plan_pro"), types.SubscriptionStatusActive)

	resp, err := s.service.PreviewPlanChange(s.GetContext(), sub.ID, dto.ChangePlanRequest{
		TargetPlanID: "plan_basic",
	})
	s.Require().NoError(err)
	s.Equal(s.GetNow(), resp.EffectiveDate)
	s.True(resp.Proration.IsDowngrade)
	s.True(resp.AmountDue.IsNegative())
}

func (s *BillingServiceSuite) TestChangePlan() {
	s.Run("upgrade settles the remainder", func() {
		sub := createTestSubscription(&s.BaseServiceTestSuite, "subs_up", s.plan("plan_basic"), types.SubscriptionStatusActive)

		resp, err := s.service.ChangePlan(s.GetContext(), sub.ID, dto.ChangePlanRequest{
			TargetPlanID:  "plan_pro",
			ChangeInstant: lo.ToPtr("2025-09-16T00:00:00Z"),
		})
		s.Require().NoError(err)
		s.Equal("plan_pro", resp.Subscription.PlanID)
		s.True(mustDecimal("100").Equal(resp.Subscription.Amount))
		s.Equal(sub.CurrentPeriodStart, resp.Subscription.CurrentPeriodStart)
		s.Equal(sub.CurrentPeriodEnd, resp.Subscription.CurrentPeriodEnd)
		s.Equal(2, resp.Subscription.Version)
		s.True(mustDecimal("25").Equal(resp.Change.AmountDue))

		stored, err := s.GetStores().SubscriptionRepo.Get(s.GetContext(), sub.ID)
		s.Require().NoError(err)
		s.Equal("plan_pro", stored.PlanID)
	})

	s.Run("downgrade credits the merchant", func() {
		sub := createTestSubscription(&s.BaseServiceTestSuite, "subs_down", s.plan("plan_pro"), types.SubscriptionStatusPastDue)

		resp, err := s.service.ChangePlan(s.GetContext(), sub.ID, dto.ChangePlanRequest{
			TargetPlanID:  "plan_basic",
			ChangeInstant: lo.ToPtr("2025-09-16T00:00:00Z"),
		})
		s.Require().NoError(err)
		s.True(mustDecimal("-25").Equal(resp.Change.AmountDue))
		s.Equal(types.ProrationActionDowngrade, resp.Change.Proration.Action)
	})

	s.Run("without prorations", func() {
		sub := createTestSubscription(&s.BaseServiceTestSuite, "subs_none", s.plan("plan_basic"), types.SubscriptionStatusTrial)

		resp, err := s.service.ChangePlan(s.GetContext(), sub.ID, dto.ChangePlanRequest{
			TargetPlanID:      "plan_pro",
			ProrationBehavior: types.ProrationBehaviorNone,
			ChangeInstant:     lo.ToPtr("2025-09-16T00:00:00Z"),
		})
		s.Require().NoError(err)
		s.True(resp.Change.AmountDue.IsZero())
		s.True(mustDecimal("25").Equal(resp.Change.Proration.NetProration))
		s.Equal("plan_pro", resp.Subscription.PlanID)
	})
}

func (s *BillingServiceSuite) TestChangePlan_Errors() {
	active := createTestSubscription(&s.BaseServiceTestSuite, "subs_active", s.plan("plan_basic"), types.SubscriptionStatusActive)
	cancelled := createTestSubscription(&s.BaseServiceTestSuite, "subs_cancelled", s.plan("plan_basic"), types.SubscriptionStatusCancelled)

	tests := []struct {
		name           string
		subscriptionID string
		req            dto.ChangePlanRequest
		wantErr        error
	}{
		{
			name:           "same plan",
			subscriptionID: active.ID,
			req:            dto.ChangePlanRequest{TargetPlanID: "plan_basic"},
			wantErr:        ierr.ErrInvalidOperation,
		},
		{
			name:           "inactive target plan",
			subscriptionID: active.ID,
			req:            dto.ChangePlanRequest{TargetPlanID: "plan_legacy"},
			wantErr:        ierr.ErrInactivePlan,
		},
		{
			name:           "cancelled subscription",
			subscriptionID: cancelled.ID,
			req:            dto.ChangePlanRequest{TargetPlanID: "plan_pro"},
			wantErr:        ierr.ErrInvalidOperation,
		},
		{
			name:           "unknown subscription",
			subscriptionID: "subs_missing",
			req:            dto.ChangePlanRequest{TargetPlanID: "plan_pro"},
			wantErr:        ierr.ErrNotFound,
		},
		{
			name:           "unknown target plan",
			subscriptionID: active.ID,
			req:            dto.ChangePlanRequest{TargetPlanID: "plan_missing"},
			wantErr:        ierr.ErrNotFound,
		},
		{
			name:           "unparseable instant",
			subscriptionID: active.ID,
			req:            dto.ChangePlanRequest{TargetPlanID: "plan_pro", ChangeInstant: lo.ToPtr("16/09/2025")},
			wantErr:        ierr.ErrOutOfRangeInstant,
		},
		{
			name:           "unknown proration behavior",
			subscriptionID: active.ID,
			req:            dto.ChangePlanRequest{TargetPlanID: "plan_pro", ProrationBehavior: "always_invoice"},
			wantErr:        ierr.ErrValidation,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.ChangePlan(s.GetContext(), tt.subscriptionID, tt.req)
			s.Require().Error(err)
			s.True(ierr.Is(err, tt.wantErr), err.Error())
		})
	}

	stored, err := s.GetStores().SubscriptionRepo.Get(s.GetContext(), active.ID)
	s.Require().NoError(err)
	s.Equal(1, stored.Version)
}

func (s *BillingServiceSuite) TestSubscriptionUpdate_StaleVersion() {
	sub := createTestSubscription(&s.BaseServiceTestSuite, "subs_1", s.plan("plan_basic"), types.SubscriptionStatusActive)
	repo := s.GetStores().SubscriptionRepo

	first, err := repo.Get(s.GetContext(), sub.ID)
	s.Require().NoError(err)
	second, err := repo.Get(s.GetContext(), sub.ID)
	s.Require().NoError(err)

	first.PlanID = "plan_pro"
	s.Require().NoError(repo.Update(s.GetContext(), first))
	s.Equal(2, first.Version)

	second.PlanID = "plan_legacy"
	err = repo.Update(s.GetContext(), second)
	s.Require().Error(err)
	s.True(ierr.IsVersionConflict(err), err.Error())
	s.Equal(http.StatusConflict, ierr.HTTPStatusFromErr(err))
	s.Equal(ierr.ErrCodeVersionConflict, ierr.CodeFromErr(err))
	s.Equal(1, second.Version)

	stored, err := repo.Get(s.GetContext(), sub.ID)
	s.Require().NoError(err)
	s.Equal("plan_pro", stored.PlanID)
	s.Equal(2, stored.Version)
}

// racingSubscriptionRepo lets another writer update the subscription right
// after the first read, so the caller holds a stale copy
type racingSubscriptionRepo struct {
	subscription.Repository
	raced bool
}

func (r *racingSubscriptionRepo) Get(ctx context.Context, id string) (*subscription.Subscription, error) {
	sub, err := r.Repository.Get(ctx, id)
	if err != nil || r.raced {
		return sub, err
	}
	r.raced = true

	other, err := r.Repository.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	other.PlanID = "plan_legacy"
	if err := r.Repository.Update(ctx, other); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *BillingServiceSuite) TestChangePlan_ConcurrentWrite() {
	sub := createTestSubscription(&s.BaseServiceTestSuite, "subs_1", s.plan("plan_basic"), types.SubscriptionStatusActive)

	params := newTestServiceParams(&s.BaseServiceTestSuite)
	params.SubRepo = &racingSubscriptionRepo{Repository: s.GetStores().SubscriptionRepo}
	svc := NewBillingService(params)

	_, err := svc.ChangePlan(s.GetContext(), sub.ID, dto.ChangePlanRequest{
		TargetPlanID:  "plan_pro",
		ChangeInstant: lo.ToPtr("2025-09-16T00:00:00Z"),
	})
	s.Require().Error(err)
	s.True(ierr.IsVersionConflict(err), err.Error())
	s.Equal(http.StatusConflict, ierr.HTTPStatusFromErr(err))
	s.Equal(float64(1), operationCount(s.GetRegistry(), opChangePlan, "conflict"))

	// the competing write is kept
	stored, err := s.GetStores().SubscriptionRepo.Get(s.GetContext(), sub.ID)
	s.Require().NoError(err)
	s.Equal("plan_legacy", stored.PlanID)
	s.Equal(2, stored.Version)
}

func (s *BillingServiceSuite) TestExtendSubscription() {
	s.Run("running period continues the next day", func() {
		sub := createTestSubscription(&s.BaseServiceTestSuite, "subs_running", s.plan("plan_basic"), types.SubscriptionStatusActive)

		resp, err := s.service.ExtendSubscription(s.GetContext(), sub.ID, dto.ExtendSubscriptionRequest{Periods: 1})
		s.Require().NoError(err)

		ext := resp.Extension.Extension
		s.Equal(30, ext.ExtensionDays)
		s.Equal(0, ext.GapDays)
		s.True(mustDecimal("50").Equal(ext.TotalCost), ext.TotalCost.String())
		s.Equal(time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), ext.ExtensionStart)
		s.Equal(time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC), ext.ExtensionEnd)

		s.Equal(sub.CurrentPeriodStart, resp.Subscription.CurrentPeriodStart)
		s.Equal(time.Date(2025, 10, 30, 23, 59, 59, int(999*time.Millisecond), time.UTC), resp.Subscription.CurrentPeriodEnd)
		s.Equal(types.SubscriptionStatusActive, resp.Subscription.SubscriptionStatus)
		s.Equal(2, resp.Subscription.Version)
	})

	s.Run("expired period reports the gap", func() {
		sub := createTestSubscription(&s.BaseServiceTestSuite, "subs_expired", s.plan("plan_basic"), types.SubscriptionStatusExpired)
		sub.CurrentPeriodStart = time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
		sub.CurrentPeriodEnd = time.Date(2025, 8, 31, 23, 59, 59, int(999*time.Millisecond), time.UTC)
		s.Require().NoError(s.GetStores().SubscriptionRepo.Update(s.GetContext(), sub))

		resp, err := s.service.ExtendSubscription(s.GetContext(), sub.ID, dto.ExtendSubscriptionRequest{Periods: 2})
		s.Require().NoError(err)

		ext := resp.Extension.Extension
		s.Equal(60, ext.ExtensionDays)
		s.Equal(21, ext.GapDays)
		s.True(mustDecimal("100").Equal(ext.TotalCost), ext.TotalCost.String())
		s.Equal(time.Date(2025, 9, 22, 0, 0, 0, 0, time.UTC), resp.Subscription.CurrentPeriodStart)
		s.Equal(time.Date(2025, 11, 20, 23, 59, 59, int(999*time.Millisecond), time.UTC), resp.Subscription.CurrentPeriodEnd)
		s.Equal(types.SubscriptionStatusActive, resp.Subscription.SubscriptionStatus)
	})

	s.Run("multiplied period extends by single units", func() {
		sub := createTestSubscription(&s.BaseServiceTestSuite, "subs_multi", s.plan("plan_basic"), types.SubscriptionStatusActive)
		sub.CadenceMultiplier = 2
		sub.Amount = mustDecimal("100")
		s.Require().NoError(s.GetStores().SubscriptionRepo.Update(s.GetContext(), sub))

		resp, err := s.service.PreviewExtension(s.GetContext(), sub.ID, dto.ExtendSubscriptionRequest{Periods: 1})
		s.Require().NoError(err)
		s.True(mustDecimal("50").Equal(resp.Extension.TotalCost), resp.Extension.TotalCost.String())
	})
}

func (s *BillingServiceSuite) TestExtendSubscription_Errors() {
	active := createTestSubscription(&s.BaseServiceTestSuite, "subs_active", s.plan("plan_basic"), types.SubscriptionStatusActive)
	cancelled := createTestSubscription(&s.BaseServiceTestSuite, "subs_cancelled", s.plan("plan_basic"), types.SubscriptionStatusCancelled)
	trial := createTestSubscription(&s.BaseServiceTestSuite, "subs_trial", s.plan("plan_basic"), types.SubscriptionStatusTrial)

	tests := []struct {
		name           string
		subscriptionID string
		req            dto.ExtendSubscriptionRequest
		wantErr        error
	}{
		{"cancelled", cancelled.ID, dto.ExtendSubscriptionRequest{Periods: 1}, ierr.ErrInvalidOperation},
		{"trial", trial.ID, dto.ExtendSubscriptionRequest{Periods: 1}, ierr.ErrInvalidOperation},
		{"zero periods", active.ID, dto.ExtendSubscriptionRequest{Periods: 0}, ierr.ErrValidation},
		{"unparseable start", active.ID, dto.ExtendSubscriptionRequest{Periods: 1, ExtensionStart: lo.ToPtr("soon")}, ierr.ErrOutOfRangeInstant},
		{"unknown subscription", "subs_missing", dto.ExtendSubscriptionRequest{Periods: 1}, ierr.ErrNotFound},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.ExtendSubscription(s.GetContext(), tt.subscriptionID, tt.req)
			s.Require().Error(err)
			s.True(ierr.Is(err, tt.wantErr), err.Error())
		})
	}
}

func (s *BillingServiceSuite) TestChangeCadence() {
	sub := createTestSubscription(&s.BaseServiceTestSuite, "subs_1", s.plan("plan_basic"), types.SubscriptionStatusActive)

	resp, err := s.service.ChangeCadence(s.GetContext(), sub.ID, dto.ChangeCadenceRequest{
		Cadence:       types.BillingCadenceYear,
		ChangeInstant: lo.ToPtr("2025-09-16T00:00:00Z"),
	})
	s.Require().NoError(err)
	s.Equal(types.BillingCadenceMonth, resp.PreviousCadence)
	s.True(mustDecimal("25").Equal(resp.Credit))
	s.True(mustDecimal("480").Equal(resp.NewAmount))
	s.True(mustDecimal("455").Equal(resp.AmountDue))
	s.True(resp.Proration.NetProration.IsZero())

	updated := resp.Subscription
	s.Equal(types.BillingCadenceYear, updated.Cadence)
	s.Equal(1, updated.CadenceMultiplier)
	s.Equal(time.Date(2025, 9, 16, 0, 0, 0, 0, time.UTC), updated.CurrentPeriodStart)
	s.Equal(time.Date(2026, 9, 15, 23, 59, 59, int(999*time.Millisecond), time.UTC), updated.CurrentPeriodEnd)
	s.Equal(2, updated.Version)
}

func (s *BillingServiceSuite) TestChangeCadence_WithMultiplier() {
	sub := createTestSubscription(&s.BaseServiceTestSuite, "subs_1", s.plan("plan_basic"), types.SubscriptionStatusActive)

	resp, err := s.service.ChangeCadence(s.GetContext(), sub.ID, dto.ChangeCadenceRequest{
		Cadence:           types.BillingCadenceQuarter,
		CadenceMultiplier: 2,
		ChangeInstant:     lo.ToPtr("2025-09-30T23:59:59.999Z"),
	})
	s.Require().NoError(err)
	s.True(resp.Credit.IsZero())
	s.True(mustDecimal("285").Equal(resp.NewAmount))
	s.True(mustDecimal("285").Equal(resp.AmountDue))
	s.Equal(2, resp.Subscription.CadenceMultiplier)
}

func (s *BillingServiceSuite) TestChangeCadence_MultiplierOnly() {
	sub := createTestSubscription(&s.BaseServiceTestSuite, "subs_1", s.plan("plan_basic"), types.SubscriptionStatusActive)

	resp, err := s.service.ChangeCadence(s.GetContext(), sub.ID, dto.ChangeCadenceRequest{
		Cadence:           types.BillingCadenceMonth,
		CadenceMultiplier: 3,
		ChangeInstant:     lo.ToPtr("2025-09-16T00:00:00Z"),
	})
	s.Require().NoError(err)
	s.Equal(types.BillingCadenceMonth, resp.PreviousCadence)
	s.True(mustDecimal("25").Equal(resp.Credit), resp.Credit.String())
	s.True(mustDecimal("150").Equal(resp.NewAmount), resp.NewAmount.String())
	s.True(mustDecimal("125").Equal(resp.AmountDue), resp.AmountDue.String())

	updated := resp.Subscription
	s.Equal(types.BillingCadenceMonth, updated.Cadence)
	s.Equal(3, updated.CadenceMultiplier)
	s.Equal(time.Date(2025, 9, 16, 0, 0, 0, 0, time.UTC), updated.CurrentPeriodStart)
	s.Equal(time.Date(2025, 12, 15, 23, 59, 59, int(999*time.Millisecond), time.UTC), updated.CurrentPeriodEnd)

	// the same unit and multiplier again is not a change
	_, err = s.service.ChangeCadence(s.GetContext(), sub.ID, dto.ChangeCadenceRequest{
		Cadence:           types.BillingCadenceMonth,
		CadenceMultiplier: 3,
	})
	s.Require().Error(err)
	s.True(ierr.Is(err, ierr.ErrSameCadence), err.Error())
}

func (s *BillingServiceSuite) TestChangeCadence_Errors() {
	sub := createTestSubscription(&s.BaseServiceTestSuite, "subs_1", s.plan("plan_basic"), types.SubscriptionStatusActive)
	legacy := createTestSubscription(&s.BaseServiceTestSuite, "subs_legacy", s.plan("plan_legacy"), types.SubscriptionStatusActive)

	tests := []struct {
		name           string
		subscriptionID string
		req            dto.ChangeCadenceRequest
		wantErr        error
	}{
		{"same cadence", sub.ID, dto.ChangeCadenceRequest{Cadence: types.BillingCadenceMonth}, ierr.ErrSameCadence},
		{"unknown cadence", sub.ID, dto.ChangeCadenceRequest{Cadence: "week"}, ierr.ErrInvalidCadence},
		{"empty cadence", sub.ID, dto.ChangeCadenceRequest{}, ierr.ErrInvalidCadence},
		{"inactive plan", legacy.ID, dto.ChangeCadenceRequest{Cadence: types.BillingCadenceYear}, ierr.ErrInactivePlan},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.ChangeCadence(s.GetContext(), tt.subscriptionID, tt.req)
			s.Require().Error(err)
			s.True(ierr.Is(err, tt.wantErr), err.Error())
		})
	}

	s.Equal(float64(len(tests)), operationCount(s.GetRegistry(), opChangeCadence, "rejected"))
}

func (s *BillingServiceSuite) TestQuote() {
	tests := []struct {
		name      string
		req       dto.QuoteRequest
		wantPrice string
		wantPct   string
		wantErr   error
	}{
		{"quarterly", dto.QuoteRequest{BasePrice: "100", Cycle: types.BillingCycleQuarterly, Periods: 1}, "95", "5", nil},
		{"semiAnnual over six months", dto.QuoteRequest{BasePrice: "100", Cycle: types.BillingCycleSemiAnnual, Periods: 6}, "540", "10", nil},
		{"yearly over twelve months", dto.QuoteRequest{BasePrice: "100", Cycle: types.BillingCycleYearly, Periods: 12}, "960", "20", nil},
		{"zero periods", dto.QuoteRequest{BasePrice: "100", Cycle: types.BillingCycleMonthly}, "", "", ierr.ErrValidation},
		{"unknown cycle", dto.QuoteRequest{BasePrice: "100", Cycle: "weekly", Periods: 1}, "", "", ierr.ErrInvalidCadence},
		{"negative price", dto.QuoteRequest{BasePrice: "-100", Cycle: types.BillingCycleMonthly, Periods: 1}, "", "", ierr.ErrNegativePrice},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			resp, err := s.service.Quote(s.GetContext(), tt.req)
			if tt.wantErr != nil {
				s.Require().Error(err)
				s.True(ierr.Is(err, tt.wantErr), err.Error())
				return
			}
			s.Require().NoError(err)
			s.True(mustDecimal(tt.wantPrice).Equal(resp.Price), resp.Price.String())
			s.True(mustDecimal(tt.wantPct).Equal(resp.DiscountPercent))
		})
	}
}

func (s *BillingServiceSuite) TestStatelessCalculators() {
	s.Run("period bounds", func() {
		resp, err := s.service.PeriodBounds(s.GetContext(), dto.PeriodBoundsRequest{
			Anchor:  "2025-01-31T15:00:00Z",
			Cadence: types.BillingCadenceMonth,
		})
		s.Require().NoError(err)
		s.Equal(time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), resp.Start)
		s.Equal(time.Date(2025, 2, 27, 23, 59, 59, int(999*time.Millisecond), time.UTC), resp.End)

		_, err = s.service.PeriodBounds(s.GetContext(), dto.PeriodBoundsRequest{
			Anchor:      "2025-01-31T15:00:00Z",
			Cadence:     types.BillingCadenceMonth,
			PeriodCount: lo.ToPtr(0),
		})
		s.True(ierr.IsValidation(err))
	})

	s.Run("daily rate", func() {
		resp, err := s.service.DailyRate(s.GetContext(), dto.DailyRateRequest{Price: "90", Cadence: types.BillingCadenceQuarter})
		s.Require().NoError(err)
		s.True(mustDecimal("1").Equal(resp.DailyRate))

		_, err = s.service.DailyRate(s.GetContext(), dto.DailyRateRequest{Price: "-5", Cadence: types.BillingCadenceMonth})
		s.True(ierr.Is(err, ierr.ErrNegativePrice))
	})

	s.Run("prorate", func() {
		req := dto.ProrateRequest{
			CurrentPlan:   dto.PlanSnapshotRequest{ID: "basic", Price: "50", Currency: "usd"},
			NewPlan:       dto.PlanSnapshotRequest{ID: "pro", Price: "100", Currency: "usd"},
			PeriodStart:   "2025-09-01T00:00:00Z",
			PeriodEnd:     "2025-09-30T23:59:59.999Z",
			ChangeInstant: "2025-09-16T00:00:00Z",
			Cadence:       types.BillingCadenceMonth,
		}
		resp, err := s.service.Prorate(s.GetContext(), req)
		s.Require().NoError(err)
		s.True(mustDecimal("25").Equal(resp.NetProration))

		req.ChangeInstant = ""
		_, err = s.service.Prorate(s.GetContext(), req)
		s.True(ierr.Is(err, ierr.ErrOutOfRangeInstant))

		req.ChangeInstant = "2025-09-16T00:00:00Z"
		req.NewPlan.Currency = "eur"
		_, err = s.service.Prorate(s.GetContext(), req)
		s.True(ierr.IsValidation(err))

		req.NewPlan.Currency = "usd"
		req.NewPlan.Active = lo.ToPtr(false)
		_, err = s.service.Prorate(s.GetContext(), req)
		s.True(ierr.Is(err, ierr.ErrInactivePlan))
	})

	s.Run("extend", func() {
		resp, err := s.service.Extend(s.GetContext(), dto.ExtendRequest{
			Plan:             dto.PlanSnapshotRequest{ID: "basic", Price: "30"},
			Periods:          2,
			CurrentPeriodEnd: "2025-09-30T23:59:59.999Z",
			ExtensionStart:   "2025-10-05T00:00:00Z",
			Cadence:          types.BillingCadenceMonth,
		})
		s.Require().NoError(err)
		s.Equal(60, resp.ExtensionDays)
		s.Equal(4, resp.GapDays)
		s.True(mustDecimal("60").Equal(resp.TotalCost))
	})

	s.Run("discount", func() {
		resp, err := s.service.Discount(s.GetContext(), dto.DiscountRequest{Cycle: types.BillingCycleSemiAnnual})
		s.Require().NoError(err)
		s.True(mustDecimal("10").Equal(resp.DiscountPercent))

		_, err = s.service.Discount(s.GetContext(), dto.DiscountRequest{Cycle: "weekly"})
		s.True(ierr.Is(err, ierr.ErrInvalidCadence))
	})
}
