package subscription

import (
	"context"

	"github.com/rentshop/billing/internal/types"
)

type Repository interface {
	Create(ctx context.Context, subscription *Subscription) error
	Get(ctx context.Context, id string) (*Subscription, error)
	// Update persists the subscription if its stored version still matches
	// subscription.Version and bumps the version. A stale version fails with
	// a version conflict error.
	Update(ctx context.Context, subscription *Subscription) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter *types.SubscriptionFilter) ([]*Subscription, error)
	Count(ctx context.Context, filter *types.SubscriptionFilter) (int, error)
}
