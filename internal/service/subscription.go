package service

import (
	"context"

	"github.com/rentshop/billing/internal/api/dto"
	"github.com/rentshop/billing/internal/domain/billing"
	"github.com/rentshop/billing/internal/domain/subscription"
	ierr "github.com/rentshop/billing/internal/errors"
	"github.com/rentshop/billing/internal/types"
	"github.com/samber/lo"
)

type SubscriptionService interface {
	CreateSubscription(ctx context.Context, req dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error)
	GetSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error)
	ListSubscriptions(ctx context.Context, filter *types.SubscriptionFilter) (*dto.ListSubscriptionsResponse, error)
	RenewSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error)
	CancelSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error)
}

type subscriptionService struct {
	ServiceParams
}

func NewSubscriptionService(params ServiceParams) SubscriptionService {
	return &subscriptionService{
		ServiceParams: params,
	}
}

func (s *subscriptionService) CreateSubscription(ctx context.Context, req dto.CreateSubscriptionRequest) (resp *dto.SubscriptionResponse, err error) {
	defer func() { s.Metrics.Observe("create_subscription", err) }()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := getPlan(ctx, s.ServiceParams, req.PlanID)
	if err != nil {
		return nil, err
	}

	if err := requireActivePlan(p); err != nil {
		return nil, err
	}

	start, err := req.GetStartDate(s.Clock.Now(ctx))
	if err != nil {
		return nil, err
	}

	sub := req.ToSubscription(ctx)
	sub.Currency = p.Currency

	period, err := billing.PeriodBounds(start, sub.Cadence, sub.CadenceMultiplier)
	if err != nil {
		return nil, err
	}
	sub.SetPeriod(period)

	sub.Amount, err = subscriptionAmount(s.DiscountTable, p, sub.Cadence, sub.CadenceMultiplier)
	if err != nil {
		return nil, err
	}

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		return s.SubRepo.Create(ctx, sub)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("created subscription",
		"subscription_id", sub.ID,
		"merchant_id", sub.MerchantID,
		"plan_id", sub.PlanID,
		"cadence", sub.Cadence,
		"amount", sub.Amount.String(),
		"period_start", sub.CurrentPeriodStart,
		"period_end", sub.CurrentPeriodEnd)

	return &dto.SubscriptionResponse{Subscription: sub}, nil
}

func (s *subscriptionService) GetSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error) {
	if err := requireID(id, "subscription"); err != nil {
		return nil, err
	}

	sub, err := s.SubRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return &dto.SubscriptionResponse{Subscription: sub}, nil
}

func (s *subscriptionService) ListSubscriptions(ctx context.Context, filter *types.SubscriptionFilter) (*dto.ListSubscriptionsResponse, error) {
	if filter == nil {
		filter = types.NewSubscriptionFilter()
	}

	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}

	if err := filter.Validate(); err != nil {
		return nil, err
	}

	subs, err := s.SubRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	count, err := s.SubRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := lo.Map(subs, func(sub *subscription.Subscription, _ int) *dto.SubscriptionResponse {
		return &dto.SubscriptionResponse{Subscription: sub}
	})

	response := types.NewListResponse(items, count, filter.GetLimit(), filter.GetOffset())
	return &response, nil
}

// RenewSubscription moves the subscription into the period that follows the current one
func (s *subscriptionService) RenewSubscription(ctx context.Context, id string) (resp *dto.SubscriptionResponse, err error) {
	defer func() { s.Metrics.Observe("renew_subscription", err) }()

	sub, err := updateSubscription(ctx, s.ServiceParams, id, func(sub *subscription.Subscription) error {
		if sub.IsTerminal() || sub.SubscriptionStatus == types.SubscriptionStatusPaused {
			return ierr.NewErrorf("subscription %s cannot be renewed", sub.ID).
				WithHintf("A %s subscription cannot be renewed", sub.SubscriptionStatus).
				WithReportableDetails(map[string]any{
					"subscription_id": sub.ID,
					"status":          sub.SubscriptionStatus,
				}).
				Mark(ierr.ErrInvalidOperation)
		}

		next, err := billing.NextPeriod(sub.Period(), sub.Cadence, sub.CadenceMultiplier)
		if err != nil {
			return err
		}

		sub.SetPeriod(next)
		sub.SubscriptionStatus = types.SubscriptionStatusActive
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("renewed subscription",
		"subscription_id", sub.ID,
		"period_start", sub.CurrentPeriodStart,
		"period_end", sub.CurrentPeriodEnd)

	return &dto.SubscriptionResponse{Subscription: sub}, nil
}

func (s *subscriptionService) CancelSubscription(ctx context.Context, id string) (resp *dto.SubscriptionResponse, err error) {
	defer func() { s.Metrics.Observe("cancel_subscription", err) }()

	sub, err := updateSubscription(ctx, s.ServiceParams, id, func(sub *subscription.Subscription) error {
		if sub.IsTerminal() {
			return ierr.NewErrorf("subscription %s is already cancelled", sub.ID).
				WithHint("The subscription is already cancelled").
				Mark(ierr.ErrInvalidOperation)
		}

		now := s.Clock.Now(ctx)
		sub.SubscriptionStatus = types.SubscriptionStatusCancelled
		sub.CancelledAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("cancelled subscription", "subscription_id", sub.ID)

	return &dto.SubscriptionResponse{Subscription: sub}, nil
}

// updateSubscription loads the subscription, applies mutate and stores it in one transaction.
// The repository rejects the write when another writer got there first.
func updateSubscription(ctx context.Context, params ServiceParams, id string, mutate func(*subscription.Subscription) error) (*subscription.Subscription, error) {
	if err := requireID(id, "subscription"); err != nil {
		return nil, err
	}

	var sub *subscription.Subscription
	err := params.DB.WithTx(ctx, func(ctx context.Context) error {
		var err error
		sub, err = params.SubRepo.Get(ctx, id)
		if err != nil {
			return err
		}

		if err := mutate(sub); err != nil {
			return err
		}

		sub.UpdatedAt = params.Clock.Now(ctx)
		sub.UpdatedBy = types.GetUserID(ctx)
		return params.SubRepo.Update(ctx, sub)
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}
