package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	ierr "github.com/rentshop/billing/internal/errors"
	"github.com/shopspring/decimal"
)

// Outcome labels
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeConflict = "conflict"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// BillingMetrics records billing operations and the amounts they produce
type BillingMetrics interface {
	// Observe counts one operation, deriving the outcome label from err
	Observe(operation string, err error)
	// ObserveAmount records a computed amount ex a proration net or an extension cost
	ObserveAmount(operation, currency string, amount decimal.Decimal)
}

type billingMetrics struct {
	operations *prometheus.CounterVec
	amounts    *prometheus.HistogramVec
}

// NewBillingMetrics registers the billing collectors on registry
func NewBillingMetrics(registry *prometheus.Registry) BillingMetrics {
	operations := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_operations_total",
			Help: "The total number of billing operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	amounts := promauto.With(registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "billing_amount",
			Help:    "Absolute amounts computed by billing operations",
			Buckets: prometheus.ExponentialBuckets(1, 10, 6), // 1, 10, 100, 1000, 10000, 100000
		},
		[]string{"operation", "currency"},
	)

	return &billingMetrics{
		operations: operations,
		amounts:    amounts,
	}
}

func (m *billingMetrics) Observe(operation string, err error) {
	m.operations.WithLabelValues(operation, outcome(err)).Inc()
}

func (m *billingMetrics) ObserveAmount(operation, currency string, amount decimal.Decimal) {
	value, _ := amount.Abs().Float64()
	m.amounts.WithLabelValues(operation, currency).Observe(value)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case ierr.IsVersionConflict(err):
		return OutcomeConflict
	case ierr.IsNotFound(err):
		return OutcomeNotFound
	case ierr.IsValidation(err), ierr.IsInvalidOperation(err), ierr.IsBillingInput(err):
		return OutcomeRejected
	default:
		return OutcomeError
	}
}
