package arc

import (
	"reflect"
	"unsafe"
)

// Polymorphic marks a type as eligible for registration and encoding
// behind an abstract reference (spec.md §3's "polymorphic base"). Go has
// no virtual destructor to model, so PolymorphicBase carries no state; it
// exists purely so the interface has an unexported method that only this
// package's embedding pattern can satisfy.
type Polymorphic interface {
	isPolymorphic()
}

// PolymorphicBase is embedded by any concrete type that wants to satisfy
// a Polymorphic interface, the same way a base class supplies a
// polymorphic vtable in a language with virtual dispatch.
type PolymorphicBase struct{}

func (PolymorphicBase) isPolymorphic() {}

func writeID(a *Archive, id uint64) {
	a.sink.Write(unsafe.Slice((*byte)(unsafe.Pointer(&id)), 8))
}

func readID(a *Archive) (uint64, error) {
	b, err := a.read(8)
	if err != nil {
		return 0, err
	}
	var id uint64
	copy(unsafe.Slice((*byte)(unsafe.Pointer(&id)), 8), b)
	return id, nil
}

// PolyPtr wraps the address of an owning pointer to a Polymorphic
// interface T (e.g. *Person), implementing spec.md §4.6's polymorphic
// path. Save emits the registered id for the pointee's concrete type
// followed by its body; load reads the id, constructs and decodes the
// registered concrete type, then cross-casts it to T.
type PolyPtr[T Polymorphic] struct {
	Out *T
}

// AsPolymorphicPtr wraps the address of an owning pointer to a
// Polymorphic interface.
func AsPolymorphicPtr[T Polymorphic](out *T) PolyPtr[T] {
	return PolyPtr[T]{Out: out}
}

func (p PolyPtr[T]) applyOn(a *Archive) error {
	switch a.Direction() {
	case Saving:
		v := *p.Out
		if isNilPolymorphic(v) {
			var zero T
			return nullPtrErrf("PolyPtr[%T]", zero)
		}
		return savePolymorphic(a, v)
	case Loading:
		entry, v, err := loadPolymorphic(a)
		if err != nil {
			return err
		}
		cast, ok := v.(T)
		if !ok {
			var wanted T
			return &PolymorphicTypeMismatchError{
				ID:     entry.id,
				Key:    entry.typ.String(),
				Wanted: reflect.TypeOf(&wanted).Elem().String(),
			}
		}
		*p.Out = cast
		return nil
	default:
		panic("arc: invalid direction")
	}
}

// AsPolymorphic wraps a Polymorphic value held by reference so that
// saving it uses the same leading-id protocol as an owning pointer
// (spec.md §4.6's "convenience wrapper"). It is a save-only adapter:
// there is no addressable destination to decode into, so applying it on
// a loading archive fails with *CompileTimeError. To decode a
// polymorphic record, apply a PolyPtr instead.
type AsPolymorphicValue[T Polymorphic] struct {
	V T
}

// AsPolymorphic wraps v to force the polymorphic tagged encoding.
func AsPolymorphic[T Polymorphic](v T) AsPolymorphicValue[T] {
	return AsPolymorphicValue[T]{V: v}
}

func (w AsPolymorphicValue[T]) applyOn(a *Archive) error {
	if a.Direction() != Saving {
		return compileTimeErrf("AsPolymorphic is save-only; apply a PolyPtr[%T] to load", w.V)
	}
	if isNilPolymorphic(w.V) {
		return nullPtrErrf("AsPolymorphic[%T]", w.V)
	}
	return savePolymorphic(a, w.V)
}

// isNilPolymorphic reports whether v — a Polymorphic interface value —
// holds no concrete value, either because the interface itself is nil or
// because it holds a nil pointer of some concrete type.
func isNilPolymorphic(v Polymorphic) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// savePolymorphic implements spec.md §4.6's save path steps 2-5 for a
// non-nil polymorphic value v.
func savePolymorphic(a *Archive, v any) error {
	entry, err := globalRegistry.lookupByType(reflect.TypeOf(v))
	if err != nil {
		return err
	}
	writeID(a, entry.id)
	return entry.save(a, v)
}

// loadPolymorphic implements spec.md §4.6's load path steps 1-3, returning
// the entry used and the freshly constructed and decoded concrete value
// as its registered runtime type, still wrapped in `any`. Cross-casting to
// the caller's static T is the wrapper's job.
func loadPolymorphic(a *Archive) (*registryEntry, any, error) {
	id, err := readID(a)
	if err != nil {
		return nil, nil, err
	}
	entry, err := globalRegistry.lookupByID(id)
	if err != nil {
		return nil, nil, err
	}
	v, err := entry.load(a)
	if err != nil {
		return nil, nil, err
	}
	return entry, v, nil
}
