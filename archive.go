package arc

import (
	"reflect"
)

// Direction distinguishes a saving archive from a loading one. An Archive
// is bound to exactly one direction, and one byte sink or byte source, for
// its whole lifetime.
type Direction int

const (
	Saving Direction = iota
	Loading
)

func (d Direction) String() string {
	if d == Saving {
		return "saving"
	}
	return "loading"
}

// Serializer is how a user type participates in dispatch priority (2):
// exactly one of SerializeWith or a built-in composite shape applies to a
// given type; Go's single-dispatch method sets make the "ambiguous, both a
// free function and a member serializer exist" failure mode from spec.md
// §4.3 unreachable here, so it is not modelled as a distinct error.
type Serializer interface {
	SerializeWith(a *Archive) error
}

// archiveApplier is implemented by this package's own wrapper types
// (Binary[T], Owner[T], PolyPtr[T], and the value AsPolymorphic returns).
// It lets Archive.applyOne recognize them ahead of the raw-pointer
// rejection and the reflection-driven composite dispatch, since each
// wrapper already knows exactly which strategy it wants.
type archiveApplier interface {
	applyOn(a *Archive) error
}

// Archive marshals values to or from a byte stream. Internal state (the
// backing sink or source) is not observable; Apply is the only operation
// that reads or writes the stream, and Direction reports which way it goes.
type Archive struct {
	dir  Direction
	sink *ByteSink
	src  byteReader
}

// NewSavingArchive returns an archive that appends encodings to sink.
func NewSavingArchive(sink *ByteSink) *Archive {
	return &Archive{dir: Saving, sink: sink}
}

// NewLoadingArchive returns an archive that reads encodings from src,
// which may be a *ByteSource (borrowed range) or a *ConsumingByteSource
// (owned container, consumed prefix erased on every exit path).
func NewLoadingArchive(src byteReader) *Archive {
	return &Archive{dir: Loading, src: src}
}

// Direction reports whether the archive is saving or loading.
func (a *Archive) Direction() Direction { return a.dir }

// Apply encodes or decodes each value in argument order, contiguously.
// Nested Apply calls — typically from within a Serializer.SerializeWith
// method — extend the stream in place. The first value to fail its
// strategy aborts the whole call; values already applied remain in the
// stream (or, for a ConsumingByteSource, already consumed).
//
// On every exit path — success or failure — a saving archive's sink is
// committed (trailing indeterminate capacity truncated away) and, if the
// archive is bound to a *ConsumingByteSource, the successfully consumed
// prefix is erased from the front of its container, per spec.md §4.2 and
// §7.
func (a *Archive) Apply(values ...any) error {
	var err error
	for _, v := range values {
		if err = a.applyOne(v); err != nil {
			break
		}
	}
	switch a.dir {
	case Saving:
		a.sink.Commit()
	case Loading:
		if c, ok := a.src.(consumer); ok {
			c.consumePrefix()
		}
	}
	return err
}

// applyOne selects exactly one encoding strategy for v, mirroring the
// priority chain in spec.md §4.3:
//
//  1. A raw pointer-to-pointer, pointer-to-interface, or unsafe.Pointer
//     passed without one of this package's wrapper types is rejected: it
//     carries an extra, unmodelled level of indirection. This is the Go
//     analogue of "raw pointers must never be serialized". A plain
//     single-level pointer *T is not rejected — it is simply how Go
//     addresses a value for both directions, the equivalent of a C++ T&
//     parameter.
//  2. Serializer, if *T implements it.
//  3. Fundamental scalar (bool/intN/uintN/floatN) or (4) a named type
//     whose underlying Kind is one of those — Go's reflect.Kind already
//     erases the fundamental/enum distinction that a template-based
//     implementation needs separate overloads for, so both are handled by
//     the same branch.
//  5. Binary[T] (explicit binary block) — checked as part of the wrapper
//     interface below, ahead of the fundamental/composite branches.
//  6. Built-in composite shapes: string, slice, array and map through
//     reflection; Set[K], Pair[A,B] and Tuple2..Tuple4 through their own
//     SerializeWith methods (branch 2); Owner[T] through the wrapper
//     interface.
//  7. PolyPtr[T] (AsPolymorphicPtr) / AsPolymorphic(v) — the polymorphic
//     path, also through the wrapper interface.
//
// Anything else is a *CompileTimeError: an unsupported type surfaced
// before any bytes are written for it.
func (a *Archive) applyOne(v any) error {
	if v == nil {
		return compileTimeErrf("nil interface value passed to Apply")
	}

	if ser, ok := v.(Serializer); ok {
		return ser.SerializeWith(a)
	}

	if applier, ok := v.(archiveApplier); ok {
		return applier.applyOn(a)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer {
		return compileTimeErrf("value of type %T passed to Apply by value; pass a pointer so both saving and loading can address it", v)
	}
	elemKind := rv.Type().Elem().Kind()
	if elemKind == reflect.Pointer || elemKind == reflect.Interface || elemKind == reflect.UnsafePointer {
		return compileTimeErrf("raw pointer %T passed to Apply; wrap it in OwningPtr or AsPolymorphicPtr", v)
	}
	return a.applyIndirect(rv)
}

// applyIndirect handles rv, a non-nil pointer to a plain value with no
// Serializer and no wrapper type, by reflecting on the pointee's Kind.
func (a *Archive) applyIndirect(rv reflect.Value) error {
	elemType := rv.Type().Elem()
	switch elemType.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return a.applyPrimitive(rv)
	case reflect.String:
		return a.applyString(rv)
	case reflect.Slice:
		return a.applySlice(rv)
	case reflect.Array:
		return a.applyArray(rv)
	case reflect.Map:
		return a.applyMap(rv)
	default:
		return compileTimeErrf("%s has no Serializer and is not a built-in composite shape; implement SerializeWith", elemType)
	}
}

// read pulls n bytes from the loading archive's source.
func (a *Archive) read(n int) ([]byte, error) {
	if a.dir != Loading {
		panic("arc: read on a saving archive")
	}
	return a.src.Read(n)
}
