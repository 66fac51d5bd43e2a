package types

import (
	ierr "github.com/rentshop/billing/internal/errors"
	"github.com/samber/lo"
)

// ProrationAction classifies a plan change by the direction of its price move
type ProrationAction string

const (
	ProrationActionUpgrade   ProrationAction = "upgrade"
	ProrationActionDowngrade ProrationAction = "downgrade"
	ProrationActionLateral   ProrationAction = "lateral"
)

// ProrationBehavior defines whether a plan change settles the unused period
type ProrationBehavior string

const (
	// ProrationBehaviorCreateProrations credits unused time and charges the new plan for the rest of the period
	ProrationBehaviorCreateProrations ProrationBehavior = "create_prorations"
	// ProrationBehaviorNone switches the plan and leaves the period amount for the next renewal
	ProrationBehaviorNone ProrationBehavior = "none"
)

var ProrationBehaviorValues = []ProrationBehavior{
	ProrationBehaviorCreateProrations,
	ProrationBehaviorNone,
}

func (p ProrationBehavior) String() string {
	return string(p)
}

func (p ProrationBehavior) Validate() error {
	if !lo.Contains(ProrationBehaviorValues, p) {
		return ierr.NewError("invalid proration behavior").
			WithHint("Proration behavior must be create_prorations or none").
			WithReportableDetails(map[string]any{
				"allowed_values": ProrationBehaviorValues,
				"provided_value": p,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
