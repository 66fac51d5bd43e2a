package service

import (
	"context"

	"github.com/rentshop/billing/internal/api/dto"
	"github.com/rentshop/billing/internal/cache"
	"github.com/rentshop/billing/internal/domain/plan"
	"github.com/rentshop/billing/internal/types"
	"github.com/samber/lo"
)

type PlanService interface {
	CreatePlan(ctx context.Context, req dto.CreatePlanRequest) (*dto.PlanResponse, error)
	GetPlan(ctx context.Context, id string) (*dto.PlanResponse, error)
	GetPlans(ctx context.Context, filter *types.PlanFilter) (*dto.ListPlansResponse, error)
	DeactivatePlan(ctx context.Context, id string) (*dto.PlanResponse, error)
}

type planService struct {
	ServiceParams
}

func NewPlanService(params ServiceParams) PlanService {
	return &planService{
		ServiceParams: params,
	}
}

func (s *planService) CreatePlan(ctx context.Context, req dto.CreatePlanRequest) (*dto.PlanResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := req.ToPlan(ctx, s.Config.Billing.DefaultCurrency)

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		return s.PlanRepo.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("created plan",
		"plan_id", p.ID,
		"price", p.Price.String(),
		"currency", p.Currency)

	return dto.NewPlanResponse(p, s.DiscountTable), nil
}

func (s *planService) GetPlan(ctx context.Context, id string) (*dto.PlanResponse, error) {
	p, err := getPlan(ctx, s.ServiceParams, id)
	if err != nil {
		return nil, err
	}
	return dto.NewPlanResponse(p, s.DiscountTable), nil
}

func (s *planService) GetPlans(ctx context.Context, filter *types.PlanFilter) (*dto.ListPlansResponse, error) {
	if filter == nil {
		filter = types.NewPlanFilter()
	}

	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}

	if err := filter.Validate(); err != nil {
		return nil, err
	}

	plans, err := s.PlanRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	count, err := s.PlanRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := lo.Map(plans, func(p *plan.Plan, _ int) *dto.PlanResponse {
		return dto.NewPlanResponse(p, s.DiscountTable)
	})

	response := types.NewListResponse(items, count, filter.GetLimit(), filter.GetOffset())
	return &response, nil
}

// DeactivatePlan stops the plan from being offered. Running subscriptions keep it.
func (s *planService) DeactivatePlan(ctx context.Context, id string) (*dto.PlanResponse, error) {
	if err := requireID(id, "plan"); err != nil {
		return nil, err
	}

	var p *plan.Plan
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.PlanRepo.Get(ctx, id)
		if err != nil {
			return err
		}

		if !p.Active {
			return nil
		}

		p.Active = false
		p.UpdatedBy = types.GetUserID(ctx)
		p.UpdatedAt = s.Clock.Now(ctx)
		return s.PlanRepo.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.Cache.Delete(ctx, planCacheKey(ctx, id))
	s.Logger.Infow("deactivated plan", "plan_id", id)

	return dto.NewPlanResponse(p, s.DiscountTable), nil
}

func planCacheKey(ctx context.Context, id string) string {
	return cache.Key(cache.PrefixPlan, types.GetTenantID(ctx), id)
}

// getPlan reads a plan through the cache. Plans only change on deactivation,
// which invalidates the entry.
func getPlan(ctx context.Context, params ServiceParams, id string) (*plan.Plan, error) {
	if err := requireID(id, "plan"); err != nil {
		return nil, err
	}

	key := planCacheKey(ctx, id)
	if cached, found := params.Cache.Get(ctx, key); found {
		if p, ok := cached.(*plan.Plan); ok {
			copied := *p
			return &copied, nil
		}
	}

	p, err := params.PlanRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	copied := *p
	params.Cache.Set(ctx, key, &copied, params.Config.Cache.TTL)
	return p, nil
}
