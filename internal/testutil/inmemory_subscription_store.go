package testutil

import (
	"context"

	"github.com/rentshop/billing/internal/domain/subscription"
	ierr "github.com/rentshop/billing/internal/errors"
	"github.com/rentshop/billing/internal/types"
	"github.com/samber/lo"
)

var _ subscription.Repository = (*InMemorySubscriptionStore)(nil)

type InMemorySubscriptionStore struct {
	*InMemoryStore[*subscription.Subscription, *types.SubscriptionFilter]
}

func NewInMemorySubscriptionStore() *InMemorySubscriptionStore {
	return &InMemorySubscriptionStore{
		InMemoryStore: NewInMemoryStore(
			func(sub *subscription.Subscription) *types.BaseModel { return &sub.BaseModel },
			copySubscription,
			matchSubscription,
			func(a, b *subscription.Subscription) bool {
				if a.CreatedAt.Equal(b.CreatedAt) {
					return a.ID < b.ID
				}
				return a.CreatedAt.After(b.CreatedAt)
			},
		),
	}
}

func matchSubscription(sub *subscription.Subscription, f *types.SubscriptionFilter) bool {
	if f == nil {
		return true
	}
	if f.MerchantID != "" && sub.MerchantID != f.MerchantID {
		return false
	}
	if f.PlanID != "" && sub.PlanID != f.PlanID {
		return false
	}
	return len(f.Statuses) == 0 || lo.Contains(f.Statuses, sub.SubscriptionStatus)
}

func copySubscription(sub *subscription.Subscription) *subscription.Subscription {
	c := *sub
	if sub.CancelledAt != nil {
		at := *sub.CancelledAt
		c.CancelledAt = &at
	}
	return &c
}

func (s *InMemorySubscriptionStore) Create(ctx context.Context, sub *subscription.Subscription) error {
	return s.create(sub.ID, sub)
}

func (s *InMemorySubscriptionStore) Get(ctx context.Context, id string) (*subscription.Subscription, error) {
	return s.get(ctx, id)
}

// Update applies the same version check as the postgres repository and bumps
// sub.Version on success.
func (s *InMemorySubscriptionStore) Update(ctx context.Context, sub *subscription.Subscription) error {
	next := copySubscription(sub)
	next.Version++

	err := s.update(ctx, sub.ID, next, func(stored *subscription.Subscription) error {
		if stored.Version != sub.Version {
			return ierr.NewErrorf("subscription %s version %d is stale", sub.ID, sub.Version).
				WithHint("Subscription was updated by another request").
				Mark(ierr.ErrVersionConflict)
		}
		return nil
	})
	if err != nil {
		return err
	}
	sub.Version = next.Version
	return nil
}

func (s *InMemorySubscriptionStore) Delete(ctx context.Context, id string) error {
	return s.archive(ctx, id)
}

func (s *InMemorySubscriptionStore) List(ctx context.Context, filter *types.SubscriptionFilter) ([]*subscription.Subscription, error) {
	var page types.BaseFilter
	if filter != nil {
		page = filter.QueryFilter
	}
	return s.list(ctx, filter, page), nil
}

func (s *InMemorySubscriptionStore) Count(ctx context.Context, filter *types.SubscriptionFilter) (int, error) {
	return s.count(ctx, filter), nil
}
