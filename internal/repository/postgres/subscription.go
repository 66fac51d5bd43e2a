package postgres

import (
	"context"
	"time"

	"github.com/lib/pq"
	"github.com/rentshop/billing/internal/domain/subscription"
	ierr "github.com/rentshop/billing/internal/errors"
	"github.com/rentshop/billing/internal/logger"
	"github.com/rentshop/billing/internal/postgres"
	"github.com/rentshop/billing/internal/types"
	"github.com/samber/lo"
)

const subscriptionColumns = `id, tenant_id, merchant_id, plan_id, subscription_status,
	current_period_start, current_period_end, amount, currency, cadence, cadence_multiplier,
	cancelled_at, version, status, created_at, updated_at, created_by, updated_by`

type subscriptionRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func NewSubscriptionRepository(db postgres.IClient, logger *logger.Logger) subscription.Repository {
	return &subscriptionRepository{db: db, logger: logger}
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	query := `
		INSERT INTO subscriptions (` + subscriptionColumns + `)
		VALUES (
			:id,
			:tenant_id,
			:merchant_id,
			:plan_id,
			:subscription_status,
			:current_period_start,
			:current_period_end,
			:amount,
			:currency,
			:cadence,
			:cadence_multiplier,
			:cancelled_at,
			:version,
			:status,
			:created_at,
			:updated_at,
			:created_by,
			:updated_by
		)
	`

	r.logger.Debugw("creating subscription",
		"subscription_id", sub.ID,
		"merchant_id", sub.MerchantID,
		"plan_id", sub.PlanID,
		"tenant_id", sub.TenantID,
	)

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, sub); err != nil {
		return wrapError(err, "subscription", sub.ID)
	}
	return nil
}

func (r *subscriptionRepository) Get(ctx context.Context, id string) (*subscription.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1 AND tenant_id = $2 AND status = $3`

	var sub subscription.Subscription
	err := r.db.GetQuerier(ctx).GetContext(ctx, &sub, query, id, types.GetTenantID(ctx), types.StatusPublished)
	if err != nil {
		return nil, wrapError(err, "subscription", id)
	}
	return &sub, nil
}

// Update writes the billing fields guarded by the version the caller read
func (r *subscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	query := `
		UPDATE subscriptions
		SET plan_id = $1,
			subscription_status = $2,
			current_period_start = $3,
			current_period_end = $4,
			amount = $5,
			currency = $6,
			cadence = $7,
			cadence_multiplier = $8,
			cancelled_at = $9,
			updated_at = $10,
			updated_by = $11,
			version = version + 1
		WHERE id = $12
		AND tenant_id = $13
		AND version = $14
		AND status = $15
	`

	r.logger.Debugw("updating subscription",
		"subscription_id", sub.ID,
		"version", sub.Version,
		"tenant_id", sub.TenantID,
	)

	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		sub.PlanID,
		sub.SubscriptionStatus,
		sub.CurrentPeriodStart,
		sub.CurrentPeriodEnd,
		sub.Amount,
		sub.Currency,
		sub.Cadence,
		sub.CadenceMultiplier,
		sub.CancelledAt,
		sub.UpdatedAt,
		sub.UpdatedBy,
		sub.ID,
		sub.TenantID,
		sub.Version,
		types.StatusPublished,
	)
	if err != nil {
		return wrapError(err, "subscription", sub.ID)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return wrapError(err, "subscription", sub.ID)
	}
	if rows == 0 {
		// either the row is gone or someone else updated it first
		if _, err := r.Get(ctx, sub.ID); err != nil {
			return err
		}
		return ierr.NewError("subscription was modified concurrently").
			WithHintf("Subscription %s was updated by another request, reload it and retry", sub.ID).
			WithReportableDetails(map[string]any{
				"subscription_id": sub.ID,
				"version":         sub.Version,
			}).
			Mark(ierr.ErrVersionConflict)
	}

	sub.Version++
	return nil
}

func (r *subscriptionRepository) Delete(ctx context.Context, id string) error {
	query := `
		UPDATE subscriptions
		SET status = $1, updated_at = $2, updated_by = $3
		WHERE id = $4 AND tenant_id = $5
	`

	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		types.StatusDeleted,
		time.Now().UTC(),
		types.GetUserID(ctx),
		id,
		types.GetTenantID(ctx),
	)
	if err != nil {
		return wrapError(err, "subscription", id)
	}
	return requireRow(result, "subscription", id)
}

func (r *subscriptionRepository) where(ctx context.Context, filter *types.SubscriptionFilter) *whereBuilder {
	w := newWhereBuilder()
	w.add("tenant_id = ?", types.GetTenantID(ctx))
	w.add("status = ?", types.StatusPublished)
	if filter == nil {
		return w
	}
	if filter.MerchantID != "" {
		w.add("merchant_id = ?", filter.MerchantID)
	}
	if filter.PlanID != "" {
		w.add("plan_id = ?", filter.PlanID)
	}
	if len(filter.Statuses) > 0 {
		statuses := lo.Map(filter.Statuses, func(s types.SubscriptionStatus, _ int) string {
			return string(s)
		})
		w.add("subscription_status = ANY(?)", pq.Array(statuses))
	}
	return w
}

func (r *subscriptionRepository) List(ctx context.Context, filter *types.SubscriptionFilter) ([]*subscription.Subscription, error) {
	w := r.where(ctx, filter)

	var page types.BaseFilter
	if filter != nil {
		page = filter
	}
	query, args := w.page(`SELECT `+subscriptionColumns+` FROM subscriptions`+w.sql()+` ORDER BY created_at DESC`, page)

	var subs []*subscription.Subscription
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &subs, query, args...); err != nil {
		return nil, wrapError(err, "subscription", "")
	}
	return subs, nil
}

func (r *subscriptionRepository) Count(ctx context.Context, filter *types.SubscriptionFilter) (int, error) {
	w := r.where(ctx, filter)

	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, `SELECT COUNT(*) FROM subscriptions`+w.sql(), w.args...); err != nil {
		return 0, wrapError(err, "subscription", "")
	}
	return count, nil
}
