package plan

import (
	"github.com/rentshop/billing/internal/domain/billing"
	"github.com/rentshop/billing/internal/types"
	"github.com/shopspring/decimal"
)

// Plan is a priced offering merchants subscribe to. Price is the monthly base
// price; longer cadences derive their price from it through the discount table.
type Plan struct {
	ID          string          `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	LookupKey   string          `db:"lookup_key" json:"lookup_key"`
	Description string          `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Currency    string          `db:"currency" json:"currency"`
	Active      bool            `db:"active" json:"active"`
	types.BaseModel
}

// Snapshot returns the engine view of the plan priced at cadencePrice
func (p *Plan) Snapshot(cadencePrice decimal.Decimal) billing.PlanSnapshot {
	return billing.PlanSnapshot{
		ID:       p.ID,
		Price:    cadencePrice,
		Currency: p.Currency,
		Active:   p.Active,
	}
}
