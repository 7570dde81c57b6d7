// Package registry provides the ordered entity collections the presentation
// layer drives: flat CRUD over insertion order plus lookup by ID and name.
// Collections own membership; the entities own their ledgers.
package registry

import (
	"fmt"
	"reflect"

	"github.com/agnivade/levenshtein"
)

// Entity is anything a registry can hold.
type Entity interface {
	EntityID() string
	EntityName() string
}

// Registry is an insertion-ordered collection of one entity kind.
type Registry[T Entity] struct {
	entries []T
}

// New creates an empty registry.
func New[T Entity]() *Registry[T] {
	return &Registry[T]{}
}

// Add appends an entity. Nil entities are rejected.
func (r *Registry[T]) Add(e T) error {
	if isNil(e) {
		return fmt.Errorf("entity cannot be nil")
	}
	r.entries = append(r.entries, e)
	return nil
}

// Len returns the number of entities held.
func (r *Registry[T]) Len() int { return len(r.entries) }

// List returns the entities in insertion order. The slice is a copy; the
// entities themselves are shared.
func (r *Registry[T]) List() []T {
	out := make([]T, len(r.entries))
	copy(out, r.entries)
	return out
}

// At returns the entity at the given insertion index.
func (r *Registry[T]) At(index int) (T, bool) {
	var zero T
	if index < 0 || index >= len(r.entries) {
		return zero, false
	}
	return r.entries[index], true
}

// FindByID returns the entity with the given ID.
func (r *Registry[T]) FindByID(id string) (T, bool) {
	for _, e := range r.entries {
		if e.EntityID() == id {
			return e, true
		}
	}
	var zero T
	return zero, false
}

// FindByName returns the first entity with exactly the given name.
func (r *Registry[T]) FindByName(name string) (T, bool) {
	for _, e := range r.entries {
		if e.EntityName() == name {
			return e, true
		}
	}
	var zero T
	return zero, false
}

// FindClosest returns the entity whose name is nearest to the query within
// an edit-distance bound that scales with name length. Lets the
// presentation layer resolve slightly mistyped names.
func (r *Registry[T]) FindClosest(name string) (T, bool) {
	var best T
	bestDist := -1
	for _, e := range r.entries {
		cand := e.EntityName()
		dist := levenshtein.ComputeDistance(name, cand)
		if dist > distanceLimit(len(cand)) {
			continue
		}
		if bestDist == -1 || dist < bestDist {
			best = e
			bestDist = dist
		}
	}
	return best, bestDist != -1
}

// Delete removes the entity with the given ID, preserving order.
func (r *Registry[T]) Delete(id string) bool {
	for i, e := range r.entries {
		if e.EntityID() == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return true
		}
	}
	return false
}

// DisplayNames returns one label per entity in insertion order, appending
// the entity ID when the bare name would be ambiguous.
func (r *Registry[T]) DisplayNames() []string {
	counts := make(map[string]int, len(r.entries))
	for _, e := range r.entries {
		counts[e.EntityName()]++
	}
	labels := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		label := e.EntityName()
		if counts[label] > 1 {
			label += " (" + e.EntityID() + ")"
		}
		labels = append(labels, label)
	}
	return labels
}

func distanceLimit(nameLen int) int {
	switch {
	case nameLen >= 8:
		return 3
	case nameLen >= 5:
		return 2
	default:
		return 1
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	default:
		return false
	}
}
