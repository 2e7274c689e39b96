package arc

import "fmt"

// RangeError is returned when a read requests more bytes than remain in a
// ByteSource.
type RangeError struct {
	Offset    int
	Requested int
	Available int
}

func rangeErrf(offset, requested, available int) error {
	return &RangeError{Offset: offset, Requested: requested, Available: available}
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("arc: range error at offset %d: requested %d bytes, %d available", e.Offset, e.Requested, e.Available)
}

// NullPointerError is returned when a save encounters a nil pointer where
// spec.md requires one (an Owner[T] with a nil *T, or a nil Polymorphic
// value passed to AsPolymorphic).
type NullPointerError struct {
	Type string
}

func nullPtrErrf(format string, args ...any) error {
	return &NullPointerError{Type: fmt.Sprintf(format, args...)}
}

func (e *NullPointerError) Error() string {
	return fmt.Sprintf("arc: null pointer for %s", e.Type)
}

// UndeclaredPolymorphicTypeError is returned when the registry has no entry
// for the id being loaded, or no entry for the runtime type being saved.
type UndeclaredPolymorphicTypeError struct {
	ID  uint64
	Key string
}

func (e *UndeclaredPolymorphicTypeError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("arc: type %s is not registered", e.Key)
	}
	return fmt.Sprintf("arc: no type registered for id %#x", e.ID)
}

// PolymorphicTypeMismatchError is returned when the dynamic type decoded
// from the wire does not implement the caller's static target interface.
type PolymorphicTypeMismatchError struct {
	ID      uint64
	Key     string
	Wanted  string
}

func (e *PolymorphicTypeMismatchError) Error() string {
	return fmt.Sprintf("arc: decoded type %s (id %#x) does not implement %s", e.Key, e.ID, e.Wanted)
}

// CompileTimeError models spec.md's "reported at binding time, not at
// runtime" category: a raw pointer passed to Apply, or a value of a type
// with no applicable encoding strategy. Go cannot reject these before the
// program runs, so they surface as an ordinary error the first time Apply
// sees the offending value, which is as close to "binding time" as a
// dynamically-typed variadic call gets.
type CompileTimeError struct {
	Msg string
}

func compileTimeErrf(format string, args ...any) error {
	return &CompileTimeError{Msg: fmt.Sprintf(format, args...)}
}

func (e *CompileTimeError) Error() string {
	return "arc: " + e.Msg
}

// dataErrf wraps a lower-level error (e.g. from msgpack/json interop) with
// a message, keeping the cause reachable through Unwrap.
type wrappedError struct {
	Msg string
	Err error
}

func dataErrf(err error, format string, args ...any) error {
	return &wrappedError{Msg: fmt.Sprintf(format, args...), Err: err}
}

func (e *wrappedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *wrappedError) Unwrap() error { return e.Err }
