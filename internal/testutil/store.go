package testutil

import (
	"context"
	"sort"
	"sync"

	ierr "github.com/rentshop/billing/internal/errors"
	"github.com/rentshop/billing/internal/types"
	"github.com/samber/lo"
)

// InMemoryStore keeps rows keyed by id and applies the tenant scoping and soft
// delete rules of the postgres repositories. Rows are cloned on the way in and
// out so callers never share memory with the store.
type InMemoryStore[T any, F any] struct {
	mu    sync.RWMutex
	items map[string]T

	base  func(T) *types.BaseModel
	clone func(T) T
	match func(T, F) bool
	less  func(a, b T) bool
}

func NewInMemoryStore[T any, F any](
	base func(T) *types.BaseModel,
	clone func(T) T,
	match func(T, F) bool,
	less func(a, b T) bool,
) *InMemoryStore[T, F] {
	return &InMemoryStore[T, F]{
		items: make(map[string]T),
		base:  base,
		clone: clone,
		match: match,
		less:  less,
	}
}

// visible reports whether item is live and owned by the tenant of ctx.
// A context without tenant sees every tenant.
func (s *InMemoryStore[T, F]) visible(ctx context.Context, item T) bool {
	b := s.base(item)
	tenantID := types.GetTenantID(ctx)
	return b.Status == types.StatusPublished && (tenantID == "" || b.TenantID == tenantID)
}

func (s *InMemoryStore[T, F]) create(id string, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; exists {
		return ierr.NewErrorf("item %s already exists", id).
			WithHint("Item already exists").
			Mark(ierr.ErrAlreadyExists)
	}
	s.items[id] = s.clone(item)
	return nil
}

func (s *InMemoryStore[T, F]) get(ctx context.Context, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok || !s.visible(ctx, item) {
		var zero T
		return zero, notFound(id)
	}
	return s.clone(item), nil
}

// update replaces the stored row after check accepts it. check may be nil.
func (s *InMemoryStore[T, F]) update(ctx context.Context, id string, item T, check func(stored T) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.items[id]
	if !ok || !s.visible(ctx, stored) {
		return notFound(id)
	}
	if check != nil {
		if err := check(stored); err != nil {
			return err
		}
	}
	s.items[id] = s.clone(item)
	return nil
}

// archive soft deletes the row like the repositories do
func (s *InMemoryStore[T, F]) archive(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.items[id]
	if !ok || !s.visible(ctx, stored) {
		return notFound(id)
	}
	archived := s.clone(stored)
	s.base(archived).Status = types.StatusDeleted
	s.items[id] = archived
	return nil
}

func (s *InMemoryStore[T, F]) filtered(ctx context.Context, filter F) []T {
	return lo.Filter(lo.Values(s.items), func(item T, _ int) bool {
		return s.visible(ctx, item) && s.match(item, filter)
	})
}

// list returns the matching rows in order, paginated by page when it is limited
func (s *InMemoryStore[T, F]) list(ctx context.Context, filter F, page types.BaseFilter) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.filtered(ctx, filter)
	sort.SliceStable(rows, func(i, j int) bool { return s.less(rows[i], rows[j]) })

	if page != nil && !page.IsUnlimited() {
		start := min(page.GetOffset(), len(rows))
		end := min(start+page.GetLimit(), len(rows))
		rows = rows[start:end]
	}
	return lo.Map(rows, func(item T, _ int) T { return s.clone(item) })
}

func (s *InMemoryStore[T, F]) count(ctx context.Context, filter F) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.filtered(ctx, filter))
}

// Clear removes every row
func (s *InMemoryStore[T, F]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]T)
}

func notFound(id string) error {
	return ierr.NewErrorf("item %s not found", id).
		WithHintf("Item %s was not found", id).
		Mark(ierr.ErrNotFound)
}
