package calendar

import (
	"slices"

	"golang.org/x/text/cases"

	"github.com/tzlist/civiltime/failure"
)

// Registry maps calendar ids to calendars. It is immutable once built and
// safe for concurrent use. Lookups ignore case.
type Registry struct {
	byID map[string]Calendar
	ids  []string
}

// foldID returns the lookup key of id. Casers hold state, so each call
// gets its own.
func foldID(id string) string { return cases.Fold().String(id) }

// NewRegistry builds a registry from cals. A later calendar with the same
// folded id replaces an earlier one.
func NewRegistry(cals ...Calendar) *Registry {
	r := &Registry{byID: make(map[string]Calendar, len(cals))}
	for _, c := range cals {
		key := foldID(c.ID())
		if _, ok := r.byID[key]; !ok {
			r.ids = append(r.ids, c.ID())
		}
		r.byID[key] = c
	}
	slices.Sort(r.ids)
	return r
}

// Get returns the calendar with the given id.
func (r *Registry) Get(id string) (Calendar, error) {
	if c, ok := r.byID[foldID(id)]; ok {
		return c, nil
	}
	return nil, failure.Rangef("calendar.Get", "unknown calendar %q", id)
}

// IDs returns the registered ids in sorted order.
func (r *Registry) IDs() []string {
	return slices.Clone(r.ids)
}

// With returns a new registry holding r's calendars plus cals.
func (r *Registry) With(cals ...Calendar) *Registry {
	all := make([]Calendar, 0, len(r.ids)+len(cals))
	for _, id := range r.ids {
		all = append(all, r.byID[foldID(id)])
	}
	return NewRegistry(append(all, cals...)...)
}

var defaultRegistry = NewRegistry(builtins()...)

// ISO is the default calendar.
var ISO, _ = defaultRegistry.Get(ISO8601)

// Default returns the registry of built-in calendars.
func Default() *Registry { return defaultRegistry }

// Get looks id up in the default registry.
func Get(id string) (Calendar, error) { return defaultRegistry.Get(id) }
