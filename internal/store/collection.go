package store

import (
	"slices"
	"time"

	apperrors "hisaab/internal/errors"
)

// Record is implemented by every stored entity. The scope is the owning user
// for most kinds and the parent loan for repayments.
type Record interface {
	GetID() uint
	SetID(id uint)
	ScopeID() uint
	SetScopeID(id uint)
}

// recordPtr constrains P to be *T implementing Record.
type recordPtr[T any] interface {
	*T
	Record
}

// hooks customise a collection. Every hook is optional and runs under the
// store's write lock.
type hooks[T any] struct {
	// onCreate fills defaults and derived fields on a new record.
	onCreate func(rec *T, now time.Time)
	// onReplace runs on full updates with the stored and incoming records.
	onReplace func(prev, next *T, now time.Time)
	// onDelete cascades a deletion to dependent records.
	onDelete func(rec *T)
	// clone deep-copies reference fields so callers never share memory with the store.
	clone func(rec T) T
	// less orders List output. Defaults to ascending ID.
	less func(a, b *T) bool
}

// Collection is the in-memory table for one entity kind. All methods are
// safe for concurrent use; they share the owning Store's lock so that
// cascades across collections are atomic.
type Collection[T any, P recordPtr[T]] struct {
	store    *Store
	label    string
	notFound *apperrors.AppError
	rows     map[uint]T
	hooks    hooks[T]
}

func newCollection[T any, P recordPtr[T]](s *Store, label string, notFound *apperrors.AppError, h hooks[T]) *Collection[T, P] {
	return &Collection[T, P]{
		store:    s,
		label:    label,
		notFound: notFound,
		rows:     make(map[uint]T),
		hooks:    h,
	}
}

// List returns every record in scope. It never fails; an unknown scope
// yields an empty slice.
func (c *Collection[T, P]) List(scope uint) []T {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	return c.list(scope)
}

// Get returns the record with the given ID if it belongs to scope.
func (c *Collection[T, P]) Get(scope, id uint) (*T, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	rec, err := c.lookup(scope, id)
	if err != nil {
		return nil, err
	}
	out := c.copy(rec)
	return &out, nil
}

// Create stores rec under scope with a freshly allocated ID. Any ID or
// scope already set on rec is overwritten.
func (c *Collection[T, P]) Create(scope uint, rec T) *T {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	out := c.create(scope, rec)
	return &out
}

// Update replaces the record's fields with rec, keeping its ID and scope.
func (c *Collection[T, P]) Update(scope, id uint, rec T) (*T, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	prev, err := c.lookup(scope, id)
	if err != nil {
		return nil, err
	}

	next := c.copy(rec)
	P(&next).SetID(id)
	P(&next).SetScopeID(scope)
	if c.hooks.onReplace != nil {
		c.hooks.onReplace(&prev, &next, c.store.now())
	}
	c.rows[id] = next
	c.store.observe(c.label, "update")

	out := c.copy(next)
	return &out, nil
}

// Delete removes the record and runs the cascade hook, if any.
func (c *Collection[T, P]) Delete(scope, id uint) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	rec, err := c.lookup(scope, id)
	if err != nil {
		return err
	}
	c.remove(&rec)
	return nil
}

// modify applies fn to the stored record in place. Callers hold the write lock.
func (c *Collection[T, P]) modify(scope, id uint, op string, fn func(rec P)) (*T, error) {
	rec, err := c.lookup(scope, id)
	if err != nil {
		return nil, err
	}
	fn(&rec)
	c.rows[id] = rec
	c.store.observe(c.label, op)

	out := c.copy(rec)
	return &out, nil
}

// lookup is the access guard: the record must exist and be in scope,
// otherwise the collection's not-found error is returned for both cases.
func (c *Collection[T, P]) lookup(scope, id uint) (T, error) {
	rec, ok := c.rows[id]
	if !ok || P(&rec).ScopeID() != scope {
		var zero T
		return zero, c.notFound
	}
	return rec, nil
}

func (c *Collection[T, P]) list(scope uint) []T {
	out := make([]T, 0)
	for _, rec := range c.rows {
		if P(&rec).ScopeID() == scope {
			out = append(out, c.copy(rec))
		}
	}

	less := c.hooks.less
	if less == nil {
		less = func(a, b *T) bool { return P(a).GetID() < P(b).GetID() }
	}
	slices.SortFunc(out, func(a, b T) int {
		switch {
		case less(&a, &b):
			return -1
		case less(&b, &a):
			return 1
		}
		return 0
	})
	return out
}

func (c *Collection[T, P]) create(scope uint, rec T) T {
	rec = c.copy(rec)
	P(&rec).SetID(c.store.ids.Next(c.label))
	P(&rec).SetScopeID(scope)
	if c.hooks.onCreate != nil {
		c.hooks.onCreate(&rec, c.store.now())
	}
	c.rows[P(&rec).GetID()] = rec
	c.store.observe(c.label, "create")
	return c.copy(rec)
}

func (c *Collection[T, P]) remove(rec *T) {
	delete(c.rows, P(rec).GetID())
	c.store.observe(c.label, "delete")
	if c.hooks.onDelete != nil {
		c.hooks.onDelete(rec)
	}
}

// removeWhere deletes every record matching pred and returns how many were
// removed. Cascade hooks are not run.
func (c *Collection[T, P]) removeWhere(pred func(rec P) bool) int {
	n := 0
	for id, rec := range c.rows {
		if pred(&rec) {
			delete(c.rows, id)
			n++
		}
	}
	return n
}

func (c *Collection[T, P]) copy(rec T) T {
	if c.hooks.clone != nil {
		return c.hooks.clone(rec)
	}
	return rec
}

func (c *Collection[T, P]) reset() {
	clear(c.rows)
}

// Kind returns the collection's identifier label.
func (c *Collection[T, P]) Kind() string {
	return c.label
}
