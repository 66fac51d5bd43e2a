package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	ierr "github.com/rentshop/billing/internal/errors"
	"github.com/rentshop/billing/internal/types"
)

const pqUniqueViolation = "23505"

// whereBuilder accumulates positional conditions for a query
type whereBuilder struct {
	conditions []string
	args       []interface{}
}

func newWhereBuilder() *whereBuilder {
	return &whereBuilder{}
}

// add appends a condition. The condition uses ? as the placeholder for arg.
func (w *whereBuilder) add(condition string, arg interface{}) {
	w.args = append(w.args, arg)
	w.conditions = append(w.conditions, strings.Replace(condition, "?", fmt.Sprintf("$%d", len(w.args)), 1))
}

func (w *whereBuilder) sql() string {
	if len(w.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conditions, " AND ")
}

// page appends limit and offset for the filter to the query
func (w *whereBuilder) page(query string, filter types.BaseFilter) (string, []interface{}) {
	args := append([]interface{}{}, w.args...)
	if filter == nil {
		return query, args
	}
	if !filter.IsUnlimited() {
		args = append(args, filter.GetLimit())
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.GetOffset() > 0 {
		args = append(args, filter.GetOffset())
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	return query, args
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

// wrapError maps driver errors onto the error taxonomy
func wrapError(err error, entity, id string) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ierr.WithError(err).
			WithHintf("%s %s was not found", entity, id).
			WithReportableDetails(map[string]any{
				entity + "_id": id,
			}).
			Mark(ierr.ErrNotFound)
	case isUniqueViolation(err):
		return ierr.WithError(err).
			WithHintf("%s %s already exists", entity, id).
			Mark(ierr.ErrAlreadyExists)
	default:
		return ierr.WithError(err).
			WithHintf("Failed to access %s", entity).
			Mark(ierr.ErrDatabase)
	}
}

// requireRow fails with not found when an update touched nothing
func requireRow(result sql.Result, entity, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return wrapError(err, entity, id)
	}
	if rows == 0 {
		return wrapError(sql.ErrNoRows, entity, id)
	}
	return nil
}
