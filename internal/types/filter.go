package types

import (
	ierr "github.com/rentshop/billing/internal/errors"
	"github.com/samber/lo"
)

const (
	FILTER_DEFAULT_LIMIT = 50
	FILTER_MAX_LIMIT     = 1000
)

// BaseFilter defines common pagination capabilities
type BaseFilter interface {
	GetLimit() int
	GetOffset() int
	IsUnlimited() bool
}

// QueryFilter represents a generic query filter with optional fields
type QueryFilter struct {
	Limit  *int `json:"limit,omitempty" form:"limit" validate:"omitempty,min=1,max=1000"`
	Offset *int `json:"offset,omitempty" form:"offset" validate:"omitempty,min=0"`
}

// NewDefaultQueryFilter returns the default page
func NewDefaultQueryFilter() *QueryFilter {
	return &QueryFilter{
		Limit:  lo.ToPtr(FILTER_DEFAULT_LIMIT),
		Offset: lo.ToPtr(0),
	}
}

// NewNoLimitQueryFilter returns a filter with no pagination limits
func NewNoLimitQueryFilter() *QueryFilter {
	return &QueryFilter{
		Offset: lo.ToPtr(0),
	}
}

// IsUnlimited returns true if this is an unlimited query.
// A nil filter is unlimited so filters embedding an unset page stay usable.
func (f *QueryFilter) IsUnlimited() bool {
	return f == nil || f.Limit == nil
}

func (f *QueryFilter) GetLimit() int {
	if f == nil || f.Limit == nil {
		return 0
	}
	return *f.Limit
}

func (f *QueryFilter) GetOffset() int {
	if f == nil || f.Offset == nil {
		return 0
	}
	return *f.Offset
}

func (f *QueryFilter) Validate() error {
	if f == nil {
		return nil
	}
	if f.Limit != nil && (*f.Limit < 1 || *f.Limit > FILTER_MAX_LIMIT) {
		return ierr.NewError("invalid limit").
			WithHintf("Limit must be between 1 and %d", FILTER_MAX_LIMIT).
			Mark(ierr.ErrValidation)
	}
	if f.Offset != nil && *f.Offset < 0 {
		return ierr.NewError("invalid offset").
			WithHint("Offset must not be negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}
