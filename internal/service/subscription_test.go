package service

import (
	"testing"
	"time"

	"github.com/rentshop/billing/internal/api/dto"
	ierr "github.com/rentshop/billing/internal/errors"
	"github.com/rentshop/billing/internal/testutil"
	"github.com/rentshop/billing/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type SubscriptionServiceSuite struct {
	testutil.BaseServiceTestSuite
	service SubscriptionService
}

func TestSubscriptionService(t *testing.T) {
	suite.Run(t, new(SubscriptionServiceSuite))
}

func (s *SubscriptionServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewSubscriptionService(newTestServiceParams(&s.BaseServiceTestSuite))
}

func (s *SubscriptionServiceSuite) TestCreateSubscription() {
	createTestPlan(&s.BaseServiceTestSuite, "plan_basic", 100, true)
	createTestPlan(&s.BaseServiceTestSuite, "plan_legacy", 100, false)

	tests := []struct {
		name        string
		req         dto.CreateSubscriptionRequest
		wantStatus  types.SubscriptionStatus
		wantAmount  string
		wantStart   time.Time
		wantEnd     time.Time
		wantVersion int
	}{
		{
			name: "monthly starting now",
			req: dto.CreateSubscriptionRequest{
				MerchantID: "merch_1",
				PlanID:     "plan_basic",
				Cadence:    types.BillingCadenceMonth,
			},
			wantStatus: types.SubscriptionStatusActive,
			wantAmount: "100",
			wantStart:  time.Date(2025, 9, 22, 0, 0, 0, 0, time.UTC),
			wantEnd:    time.Date(2025, 10, 21, 23, 59, 59, int(999*time.Millisecond), time.UTC),
		},
		{
			name: "quarterly from month end with trial",
			req: dto.CreateSubscriptionRequest{
				MerchantID: "merch_1",
				PlanID:     "plan_basic",
				Cadence:    types.BillingCadenceQuarter,
				StartDate:  lo.ToPtr("2025-01-31T10:00:00Z"),
				Trial:      true,
			},
			wantStatus: types.SubscriptionStatusTrial,
			wantAmount: "285",
			wantStart:  time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
			wantEnd:    time.Date(2025, 4, 29, 23, 59, 59, int(999*time.Millisecond), time.UTC),
		},
		{
			name: "two months per period",
			req: dto.CreateSubscriptionRequest{
				MerchantID:        "merch_2",
				PlanID:            "plan_basic",
				Cadence:           types.BillingCadenceMonth,
				CadenceMultiplier: 2,
			},
			wantStatus: types.SubscriptionStatusActive,
			wantAmount: "200",
			wantStart:  time.Date(2025, 9, 22, 0, 0, 0, 0, time.UTC),
			wantEnd:    time.Date(2025, 11, 21, 23, 59, 59, int(999*time.Millisecond), time.UTC),
		},
		{
			name: "yearly",
			req: dto.CreateSubscriptionRequest{
				MerchantID: "merch_2",
				PlanID:     "plan_basic",
				Cadence:    types.BillingCadenceYear,
				StartDate:  lo.ToPtr("2024-02-29T00:00:00Z"),
			},
			wantStatus: types.SubscriptionStatusActive,
			wantAmount: "960",
			wantStart:  time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
			wantEnd:    time.Date(2025, 2, 27, 23, 59, 59, int(999*time.Millisecond), time.UTC),
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			resp, err := s.service.CreateSubscription(s.GetContext(), tt.req)
			s.Require().NoError(err)
			s.Equal(tt.wantStatus, resp.SubscriptionStatus)
			s.True(mustDecimal(tt.wantAmount).Equal(resp.Amount), resp.Amount.String())
			s.Equal(tt.wantStart, resp.CurrentPeriodStart)
			s.Equal(tt.wantEnd, resp.CurrentPeriodEnd)
			s.Equal("usd", resp.Currency)
			s.Equal(1, resp.Version)

			stored, err := s.GetStores().SubscriptionRepo.Get(s.GetContext(), resp.ID)
			s.Require().NoError(err)
			s.Equal(resp.CurrentPeriodEnd, stored.CurrentPeriodEnd)
		})
	}

	s.Equal(float64(len(tests)), operationCount(s.GetRegistry(), "create_subscription", "success"))
}

func (s *SubscriptionServiceSuite) TestCreateSubscription_Errors() {
	createTestPlan(&s.BaseServiceTestSuite, "plan_basic", 100, true)
	createTestPlan(&s.BaseServiceTestSuite, "plan_legacy", 100, false)

	tests := []struct {
		name    string
		req     dto.CreateSubscriptionRequest
		wantErr error
	}{
		{
			name:    "inactive plan",
			req:     dto.CreateSubscriptionRequest{MerchantID: "merch_1", PlanID: "plan_legacy", Cadence: types.BillingCadenceMonth},
			wantErr: ierr.ErrInactivePlan,
		},
		{
			name:    "unknown cadence",
			req:     dto.CreateSubscriptionRequest{MerchantID: "merch_1", PlanID: "plan_basic", Cadence: "week"},
			wantErr: ierr.ErrInvalidCadence,
		},
		{
			name:    "semiAnnual is not a cadence",
			req:     dto.CreateSubscriptionRequest{MerchantID: "merch_1", PlanID: "plan_basic", Cadence: "semiAnnual"},
			wantErr: ierr.ErrInvalidCadence,
		},
		{
			name: "unparseable start date",
			req: dto.CreateSubscriptionRequest{
				MerchantID: "merch_1",
				PlanID:     "plan_basic",
				Cadence:    types.BillingCadenceMonth,
				StartDate:  lo.ToPtr("next tuesday"),
			},
			wantErr: ierr.ErrOutOfRangeInstant,
		},
		{
			name:    "unknown plan",
			req:     dto.CreateSubscriptionRequest{MerchantID: "merch_1", PlanID: "plan_missing", Cadence: types.BillingCadenceMonth},
			wantErr: ierr.ErrNotFound,
		},
		{
			name:    "missing merchant",
			req:     dto.CreateSubscriptionRequest{PlanID: "plan_basic", Cadence: types.BillingCadenceMonth},
			wantErr: ierr.ErrValidation,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.CreateSubscription(s.GetContext(), tt.req)
			s.Require().Error(err)
			s.True(ierr.Is(err, tt.wantErr), err.Error())
		})
	}

	s.Equal(float64(5), operationCount(s.GetRegistry(), "create_subscription", "rejected"))
	s.Equal(float64(1), operationCount(s.GetRegistry(), "create_subscription", "not_found"))
}

func (s *SubscriptionServiceSuite) TestRenewSubscription() {
	createTestPlan(&s.BaseServiceTestSuite, "plan_basic", 100, true)

	created, err := s.service.CreateSubscription(s.GetContext(), dto.CreateSubscriptionRequest{
		MerchantID: "merch_1",
		PlanID:     "plan_basic",
		Cadence:    types.BillingCadenceMonth,
		Trial:      true,
	})
	s.Require().NoError(err)

	renewed, err := s.service.RenewSubscription(s.GetContext(), created.ID)
	s.Require().NoError(err)
	s.Equal(types.SubscriptionStatusActive, renewed.SubscriptionStatus)
	s.Equal(time.Date(2025, 10, 22, 0, 0, 0, 0, time.UTC), renewed.CurrentPeriodStart)
	s.Equal(time.Date(2025, 11, 21, 23, 59, 59, int(999*time.Millisecond), time.UTC), renewed.CurrentPeriodEnd)
	s.Equal(2, renewed.Version)
	s.True(created.Amount.Equal(renewed.Amount))
}

func (s *SubscriptionServiceSuite) TestCancelSubscription() {
	p := createTestPlan(&s.BaseServiceTestSuite, "plan_basic", 100, true)
	sub := createTestSubscription(&s.BaseServiceTestSuite, "subs_1", p, types.SubscriptionStatusActive)

	cancelled, err := s.service.CancelSubscription(s.GetContext(), sub.ID)
	s.Require().NoError(err)
	s.Equal(types.SubscriptionStatusCancelled, cancelled.SubscriptionStatus)
	s.Require().NotNil(cancelled.CancelledAt)
	s.Equal(s.GetNow(), *cancelled.CancelledAt)

	_, err = s.service.CancelSubscription(s.GetContext(), sub.ID)
	s.True(ierr.IsInvalidOperation(err))

	_, err = s.service.RenewSubscription(s.GetContext(), sub.ID)
	s.True(ierr.IsInvalidOperation(err))

	_, err = s.service.CancelSubscription(s.GetContext(), "subs_missing")
	s.True(ierr.IsNotFound(err))
}

func (s *SubscriptionServiceSuite) TestListSubscriptions() {
	p := createTestPlan(&s.BaseServiceTestSuite, "plan_basic", 100, true)
	createTestSubscription(&s.BaseServiceTestSuite, "subs_1", p, types.SubscriptionStatusActive)
	createTestSubscription(&s.BaseServiceTestSuite, "subs_2", p, types.SubscriptionStatusCancelled)
	other := createTestSubscription(&s.BaseServiceTestSuite, "subs_3", p, types.SubscriptionStatusActive)
	other.MerchantID = "merch_2"
	s.Require().NoError(s.GetStores().SubscriptionRepo.Update(s.GetContext(), other))

	resp, err := s.service.ListSubscriptions(s.GetContext(), nil)
	s.Require().NoError(err)
	s.Equal(3, resp.Pagination.Total)

	filter := types.NewSubscriptionFilter()
	filter.MerchantID = "merch_1"
	resp, err = s.service.ListSubscriptions(s.GetContext(), filter)
	s.Require().NoError(err)
	s.Len(resp.Items, 2)

	filter.Statuses = []types.SubscriptionStatus{types.SubscriptionStatusActive}
	resp, err = s.service.ListSubscriptions(s.GetContext(), filter)
	s.Require().NoError(err)
	s.Require().Len(resp.Items, 1)
	s.Equal("subs_1", resp.Items[0].ID)

	filter.Statuses = []types.SubscriptionStatus{"archived"}
	_, err = s.service.ListSubscriptions(s.GetContext(), filter)
	s.True(ierr.IsValidation(err))
}
