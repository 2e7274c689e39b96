package arc

import (
	"math"
	"reflect"
	"unsafe"
)

// writeSize emits a u32 length prefix, per spec.md §4.5/§6. A sequence of
// 2^32-1 elements is representable; 2^32 is a caller error.
func (a *Archive) writeSize(n int) error {
	if n < 0 || uint64(n) > math.MaxUint32 {
		return compileTimeErrf("sequence length %d does not fit in a u32 size prefix", n)
	}
	v := uint32(n)
	a.sink.Write(unsafe.Slice((*byte)(unsafe.Pointer(&v)), 4))
	return nil
}

func (a *Archive) readSize() (int, error) {
	b, err := a.read(4)
	if err != nil {
		return 0, err
	}
	var v uint32
	copy(unsafe.Slice((*byte)(unsafe.Pointer(&v)), 4), b)
	return int(v), nil
}

// applySlice implements the resizable-sequence row of spec.md §4.5's
// composite table for rv, a pointer to a slice. Slices of a fundamental
// or enum element type take the raw-bytes shortcut; anything else is
// encoded element by element.
func (a *Archive) applySlice(rv reflect.Value) error {
	sliceType := rv.Type().Elem()
	elemType := sliceType.Elem()
	contiguous := isFundamentalOrEnum(elemType)

	switch a.dir {
	case Saving:
		sv := rv.Elem()
		n := sv.Len()
		if err := a.writeSize(n); err != nil {
			return err
		}
		if contiguous {
			return a.writeContiguous(sv)
		}
		for i := 0; i < n; i++ {
			if err := a.applyOne(sv.Index(i).Addr().Interface()); err != nil {
				return err
			}
		}
		return nil
	case Loading:
		n, err := a.readSize()
		if err != nil {
			return err
		}
		sv := reflect.MakeSlice(sliceType, n, n)
		if contiguous {
			if err := a.readContiguous(sv); err != nil {
				return err
			}
		} else {
			for i := 0; i < n; i++ {
				if err := a.applyOne(sv.Index(i).Addr().Interface()); err != nil {
					return err
				}
			}
		}
		rv.Elem().Set(sv)
		return nil
	default:
		panic("arc: invalid direction")
	}
}

func (a *Archive) writeContiguous(sv reflect.Value) error {
	n := sv.Len()
	if n == 0 {
		return nil
	}
	elemSize := int(sv.Type().Elem().Size())
	ptr := unsafe.Pointer(sv.Index(0).Addr().Pointer())
	a.sink.Write(unsafe.Slice((*byte)(ptr), n*elemSize))
	return nil
}

func (a *Archive) readContiguous(sv reflect.Value) error {
	n := sv.Len()
	if n == 0 {
		return nil
	}
	elemSize := int(sv.Type().Elem().Size())
	b, err := a.read(n * elemSize)
	if err != nil {
		return err
	}
	ptr := unsafe.Pointer(sv.Index(0).Addr().Pointer())
	copy(unsafe.Slice((*byte)(ptr), n*elemSize), b)
	return nil
}

// applyArray implements the fixed-size-array row: elements in index
// order, no length prefix, for rv a pointer to an array.
func (a *Archive) applyArray(rv reflect.Value) error {
	av := rv.Elem()
	n := av.Len()
	for i := 0; i < n; i++ {
		if err := a.applyOne(av.Index(i).Addr().Interface()); err != nil {
			return err
		}
	}
	return nil
}

// applyMap implements the associative-container row for a plain
// map[K]V: a u32 size prefix, then size (key, value) pairs recursively.
// Go's garbage collector removes the need for the "destroy the transient
// element on insertion failure" step spec.md §4.5 requires in a manually
// memory-managed implementation: a decode failure simply drops the
// half-built map.
func (a *Archive) applyMap(rv reflect.Value) error {
	mapType := rv.Type().Elem()
	keyType := mapType.Key()
	valType := mapType.Elem()

	switch a.dir {
	case Saving:
		mv := rv.Elem()
		if err := a.writeSize(mv.Len()); err != nil {
			return err
		}
		iter := mv.MapRange()
		for iter.Next() {
			kAddr := reflect.New(keyType)
			kAddr.Elem().Set(iter.Key())
			if err := a.applyOne(kAddr.Interface()); err != nil {
				return err
			}
			vAddr := reflect.New(valType)
			vAddr.Elem().Set(iter.Value())
			if err := a.applyOne(vAddr.Interface()); err != nil {
				return err
			}
		}
		return nil
	case Loading:
		n, err := a.readSize()
		if err != nil {
			return err
		}
		mv := reflect.MakeMapWithSize(mapType, n)
		for i := 0; i < n; i++ {
			kAddr := reflect.New(keyType)
			if err := a.applyOne(kAddr.Interface()); err != nil {
				return err
			}
			vAddr := reflect.New(valType)
			if err := a.applyOne(vAddr.Interface()); err != nil {
				return err
			}
			mv.SetMapIndex(kAddr.Elem(), vAddr.Elem())
		}
		rv.Elem().Set(mv)
		return nil
	default:
		panic("arc: invalid direction")
	}
}
