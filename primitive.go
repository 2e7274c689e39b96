package arc

import (
	"reflect"
	"unsafe"
)

// applyPrimitive writes or reads a fundamental scalar (or a named type
// whose underlying Kind is one) as its native in-memory byte
// representation, per spec.md §4.4. The wire is host-endian; this layer
// does not normalize byte order, mirroring the source's documented
// trade-off (design note, spec.md §9).
func (a *Archive) applyPrimitive(rv reflect.Value) error {
	sz := int(rv.Type().Elem().Size())
	switch a.dir {
	case Saving:
		a.sink.Write(unsafe.Slice((*byte)(unsafe.Pointer(rv.Pointer())), sz))
		return nil
	case Loading:
		b, err := a.read(sz)
		if err != nil {
			return err
		}
		copy(unsafe.Slice((*byte)(unsafe.Pointer(rv.Pointer())), sz), b)
		return nil
	default:
		panic("arc: invalid direction")
	}
}

// applyString treats a string as a resizable sequence of bytes: a u32
// size prefix followed by the raw UTF-8 bytes, no terminator.
func (a *Archive) applyString(rv reflect.Value) error {
	switch a.dir {
	case Saving:
		s := rv.Elem().String()
		if err := a.writeSize(len(s)); err != nil {
			return err
		}
		if len(s) > 0 {
			a.sink.Write(unsafe.Slice(unsafe.StringData(s), len(s)))
		}
		return nil
	case Loading:
		n, err := a.readSize()
		if err != nil {
			return err
		}
		if n == 0 {
			rv.Elem().SetString("")
			return nil
		}
		b, err := a.read(n)
		if err != nil {
			return err
		}
		rv.Elem().SetString(string(b))
		return nil
	default:
		panic("arc: invalid direction")
	}
}

// writeRawBytes appends b verbatim, with no length prefix, for the
// explicit-binary-block strategy (Binary[T]).
func (a *Archive) writeRawBytes(b []byte) {
	a.sink.Write(b)
}

// readRawBytes reads exactly n unframed bytes, for the explicit-binary-
// block strategy (Binary[T]).
func (a *Archive) readRawBytes(n int) ([]byte, error) {
	return a.read(n)
}
