package arc

import "unsafe"

// Binary wraps a slice of trivially-copyable elements for the explicit
// binary-block strategy of spec.md §4.4: exactly len(Data)*sizeof(T)
// bytes, with no length prefix. On load, Data must already be sized to
// the expected element count — the caller-provided destination buffer
// spec.md describes.
type Binary[T any] struct {
	Data []T
}

// RawBlock wraps data as an explicit binary block.
func RawBlock[T any](data []T) Binary[T] {
	return Binary[T]{Data: data}
}

func (b Binary[T]) applyOn(a *Archive) error {
	n := len(b.Data)
	if n == 0 {
		return nil
	}
	var zero T
	sz := int(unsafe.Sizeof(zero))
	raw := unsafe.Slice((*byte)(unsafe.Pointer(&b.Data[0])), n*sz)
	switch a.Direction() {
	case Saving:
		a.writeRawBytes(raw)
		return nil
	case Loading:
		src, err := a.readRawBytes(n * sz)
		if err != nil {
			return err
		}
		copy(raw, src)
		return nil
	default:
		panic("arc: invalid direction")
	}
}

// Owner wraps the address of a *T field to mark it as an owning pointer
// to a non-polymorphic value (spec.md §4.5): on save, a nil *T fails with
// *NullPointerError; on load, a new T is allocated, decoded into, and
// installed through Ptr.
type Owner[T any] struct {
	Ptr **T
}

// OwningPtr wraps the address of a *T field as an owning pointer.
func OwningPtr[T any](ptr **T) Owner[T] {
	return Owner[T]{Ptr: ptr}
}

func (o Owner[T]) applyOn(a *Archive) error {
	switch a.Direction() {
	case Saving:
		if *o.Ptr == nil {
			var zero T
			return nullPtrErrf("Owner[%T]", zero)
		}
		return a.Apply(*o.Ptr)
	case Loading:
		v := new(T)
		if err := a.Apply(v); err != nil {
			return err
		}
		*o.Ptr = v
		return nil
	default:
		panic("arc: invalid direction")
	}
}

// Pair encodes First then Second, mirroring spec.md §4.5's Pair row.
type Pair[A, B any] struct {
	First  A
	Second B
}

// MakePair constructs a Pair.
func MakePair[A, B any](first A, second B) Pair[A, B] {
	return Pair[A, B]{First: first, Second: second}
}

func (p *Pair[A, B]) SerializeWith(a *Archive) error {
	return a.Apply(&p.First, &p.Second)
}

// Set is an associative container of unique keys with no associated
// value, the set half of spec.md §4.5's "Associative container" row: a
// u32 size prefix, then the keys recursively, with no per-key value.
type Set[K comparable] map[K]struct{}

// NewSet builds a Set from the given keys.
func NewSet[K comparable](keys ...K) Set[K] {
	s := make(Set[K], len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Has reports whether k is a member of the set.
func (s Set[K]) Has(k K) bool {
	_, ok := s[k]
	return ok
}

func (s *Set[K]) SerializeWith(a *Archive) error {
	switch a.Direction() {
	case Saving:
		if err := a.writeSize(len(*s)); err != nil {
			return err
		}
		for k := range *s {
			k := k
			if err := a.Apply(&k); err != nil {
				return err
			}
		}
		return nil
	case Loading:
		n, err := a.readSize()
		if err != nil {
			return err
		}
		out := make(Set[K], n)
		for i := 0; i < n; i++ {
			var k K
			if err := a.Apply(&k); err != nil {
				return err
			}
			out[k] = struct{}{}
		}
		*s = out
		return nil
	default:
		panic("arc: invalid direction")
	}
}
