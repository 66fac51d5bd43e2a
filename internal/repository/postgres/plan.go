package postgres

import (
	"context"
	"time"

	"github.com/rentshop/billing/internal/domain/plan"
	"github.com/rentshop/billing/internal/logger"
	"github.com/rentshop/billing/internal/postgres"
	"github.com/rentshop/billing/internal/types"
)

const planColumns = `id, tenant_id, name, lookup_key, description, price, currency, active,
	status, created_at, updated_at, created_by, updated_by`

type planRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func NewPlanRepository(db postgres.IClient, logger *logger.Logger) plan.Repository {
	return &planRepository{db: db, logger: logger}
}

func (r *planRepository) Create(ctx context.Context, p *plan.Plan) error {
	query := `
		INSERT INTO plans (` + planColumns + `)
		VALUES (
			:id,
			:tenant_id,
			:name,
			:lookup_key,
			:description,
			:price,
			:currency,
			:active,
			:status,
			:created_at,
			:updated_at,
			:created_by,
			:updated_by
		)
	`

	r.logger.Debugw("creating plan",
		"plan_id", p.ID,
		"tenant_id", p.TenantID,
	)

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, p); err != nil {
		return wrapError(err, "plan", p.ID)
	}
	return nil
}

func (r *planRepository) Get(ctx context.Context, id string) (*plan.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE id = $1 AND tenant_id = $2 AND status = $3`

	var p plan.Plan
	err := r.db.GetQuerier(ctx).GetContext(ctx, &p, query, id, types.GetTenantID(ctx), types.StatusPublished)
	if err != nil {
		return nil, wrapError(err, "plan", id)
	}
	return &p, nil
}

func (r *planRepository) where(ctx context.Context, filter *types.PlanFilter) *whereBuilder {
	w := newWhereBuilder()
	w.add("tenant_id = ?", types.GetTenantID(ctx))
	w.add("status = ?", types.StatusPublished)
	if filter != nil && filter.Active != nil {
		w.add("active = ?", *filter.Active)
	}
	return w
}

func (r *planRepository) List(ctx context.Context, filter *types.PlanFilter) ([]*plan.Plan, error) {
	w := r.where(ctx, filter)

	var page types.BaseFilter
	if filter != nil {
		page = filter
	}
	query, args := w.page(`SELECT `+planColumns+` FROM plans`+w.sql()+` ORDER BY created_at DESC`, page)

	var plans []*plan.Plan
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &plans, query, args...); err != nil {
		return nil, wrapError(err, "plan", "")
	}
	return plans, nil
}

func (r *planRepository) Count(ctx context.Context, filter *types.PlanFilter) (int, error) {
	w := r.where(ctx, filter)

	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, `SELECT COUNT(*) FROM plans`+w.sql(), w.args...); err != nil {
		return 0, wrapError(err, "plan", "")
	}
	return count, nil
}

func (r *planRepository) Update(ctx context.Context, p *plan.Plan) error {
	query := `
		UPDATE plans
		SET name = :name,
			description = :description,
			active = :active,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id
		AND tenant_id = :tenant_id
	`

	r.logger.Debugw("updating plan",
		"plan_id", p.ID,
		"tenant_id", p.TenantID,
	)

	result, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, p)
	if err != nil {
		return wrapError(err, "plan", p.ID)
	}
	return requireRow(result, "plan", p.ID)
}

func (r *planRepository) Delete(ctx context.Context, id string) error {
	query := `
		UPDATE plans
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
		return wrapError(err, "plan", id)
	}
	return requireRow(result, "plan", id)
}
