package types

import (
	"time"

	ierr "github.com/rentshop/billing/internal/errors"
)

// ParseTime parses an ISO-8601 instant. Fractional seconds are optional.
func ParseTime(t string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339Nano, t)
	if err != nil {
		return time.Time{}, ierr.WithError(err).
			WithHintf("%q is not a valid ISO-8601 instant", t).
			Mark(ierr.ErrOutOfRangeInstant)
	}
	return parsed.UTC(), nil
}

// ParseOptionalTime parses t when it is set and returns nil otherwise
func ParseOptionalTime(t *string) (*time.Time, error) {
	if t == nil || *t == "" {
		return nil, nil
	}
	parsed, err := ParseTime(*t)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ValidateInstant rejects the zero time, which is what an unset or unparsed instant decays to
func ValidateInstant(name string, t time.Time) error {
	if t.IsZero() {
		return ierr.NewError(name + " is required").
			WithHintf("%s must be a valid ISO-8601 instant", name).
			WithReportableDetails(map[string]any{
				"field": name,
			}).
			Mark(ierr.ErrOutOfRangeInstant)
	}
	return nil
}
