package arc

import (
	"reflect"
	"sync"
)

// registryEntry is spec.md §3's registry-entry triple, specialised to
// Go's runtime typing: typ (a concrete pointer type, e.g. *Student) plays
// the role of runtime_type_key since it is already stable and unique per
// concrete type, so there is no separate key to derive or store.
type registryEntry struct {
	id   uint64
	typ  reflect.Type
	save func(a *Archive, v any) error
	load func(a *Archive) (any, error)
}

// registry is one process-wide table of (id, type, thunk) triples,
// guarded by a reader/writer lock: shared for the frequent lookups done
// by every save and load, exclusive for the rare Register call, matching
// spec.md §4.7 and §5. Unlike the source's "one instance per archive
// type," Go's Archive is not itself a type family (there is one Archive
// struct for both directions and both backends), so one global registry
// covers every archive.
type registry struct {
	mu     sync.RWMutex
	byID   map[uint64]*registryEntry
	byType map[reflect.Type]*registryEntry
}

var globalRegistry = &registry{
	byID:   make(map[uint64]*registryEntry),
	byType: make(map[reflect.Type]*registryEntry),
}

func (r *registry) add(entry *registryEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[entry.id] = entry
	r.byType[entry.typ] = entry
}

func (r *registry) lookupByID(id uint64) (*registryEntry, error) {
	r.mu.RLock()
	entry, ok := r.byID[id]
	r.mu.RUnlock()
	if !ok {
		return nil, &UndeclaredPolymorphicTypeError{ID: id}
	}
	return entry, nil
}

func (r *registry) lookupByType(t reflect.Type) (*registryEntry, error) {
	r.mu.RLock()
	entry, ok := r.byType[t]
	r.mu.RUnlock()
	if !ok {
		return nil, &UndeclaredPolymorphicTypeError{Key: t.String()}
	}
	return entry, nil
}

// Register declares T (a struct embedding PolymorphicBase, whose pointer
// *T implements some Polymorphic interface) as decodable under id. It is
// meant to be called from a package-level var initializer:
//
//	var _ = arc.Register[Student](arc.IDOf("v1.Student"))
//
// mirroring the source's namespace-scope static registration (spec.md
// §4.7). Register never panics and never returns an error itself — a
// second call for the same id or type simply overwrites the earlier
// entry, matching the "later write wins" rule — because a failing
// registration must not be able to abort program startup.
func Register[T any](id uint64) bool {
	typ := reflect.TypeOf((*T)(nil))
	entry := &registryEntry{
		id:  id,
		typ: typ,
		save: func(a *Archive, v any) error {
			return a.Apply(v)
		},
		load: func(a *Archive) (any, error) {
			v := new(T)
			if err := a.Apply(v); err != nil {
				return nil, err
			}
			return v, nil
		},
	}
	globalRegistry.add(entry)
	return true
}
