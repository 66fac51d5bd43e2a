package testutil

import (
	"context"

	"github.com/rentshop/billing/internal/domain/plan"
	"github.com/rentshop/billing/internal/types"
)

var _ plan.Repository = (*InMemoryPlanStore)(nil)

type InMemoryPlanStore struct {
	*InMemoryStore[*plan.Plan, *types.PlanFilter]
}

func NewInMemoryPlanStore() *InMemoryPlanStore {
	return &InMemoryPlanStore{
		InMemoryStore: NewInMemoryStore(
			func(p *plan.Plan) *types.BaseModel { return &p.BaseModel },
			copyPlan,
			matchPlan,
			func(a, b *plan.Plan) bool {
				if a.CreatedAt.Equal(b.CreatedAt) {
					return a.ID < b.ID
				}
				return a.CreatedAt.After(b.CreatedAt)
			},
		),
	}
}

func matchPlan(p *plan.Plan, f *types.PlanFilter) bool {
	if f == nil {
		return true
	}
	return f.Active == nil || p.Active == *f.Active
}

func copyPlan(p *plan.Plan) *plan.Plan {
	c := *p
	return &c
}

func (s *InMemoryPlanStore) Create(ctx context.Context, p *plan.Plan) error {
	return s.create(p.ID, p)
}

func (s *InMemoryPlanStore) Get(ctx context.Context, id string) (*plan.Plan, error) {
	return s.get(ctx, id)
}

func (s *InMemoryPlanStore) List(ctx context.Context, filter *types.PlanFilter) ([]*plan.Plan, error) {
	var page types.BaseFilter
	if filter != nil {
		page = filter.QueryFilter
	}
	return s.list(ctx, filter, page), nil
}

func (s *InMemoryPlanStore) Count(ctx context.Context, filter *types.PlanFilter) (int, error) {
	return s.count(ctx, filter), nil
}

func (s *InMemoryPlanStore) Update(ctx context.Context, p *plan.Plan) error {
	return s.update(ctx, p.ID, p, nil)
}

func (s *InMemoryPlanStore) Delete(ctx context.Context, id string) error {
	return s.archive(ctx, id)
}
