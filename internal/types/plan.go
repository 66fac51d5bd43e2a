package types

// PlanFilter represents filters for plan queries
type PlanFilter struct {
	*QueryFilter

	// Active restricts the result to active or inactive plans when set
	Active *bool `json:"active,omitempty" form:"active"`
}

func NewPlanFilter() *PlanFilter {
	return &PlanFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

func (f *PlanFilter) Validate() error {
	if f == nil || f.QueryFilter == nil {
		return nil
	}
	return f.QueryFilter.Validate()
}
