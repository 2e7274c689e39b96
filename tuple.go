package arc

// Tuple2..Tuple4 provide fixed arities of spec.md §4.5's Tuple row
// (element 0, .., element N-1, mirrored on load). Go has no variadic
// generics, so unlike a template-based implementation we cannot offer a
// single Tuple[T...] for arbitrary N; these cover the common arities (the
// same choice made by tuple-shaped helpers such as samber/lo's
// Tuple2..Tuple9 family). Wider tuples are expected to use a user-defined
// struct with its own Serializer.

type Tuple2[A, B any] struct {
	V1 A
	V2 B
}

func MakeTuple2[A, B any](v1 A, v2 B) Tuple2[A, B] {
	return Tuple2[A, B]{V1: v1, V2: v2}
}

func (t *Tuple2[A, B]) SerializeWith(a *Archive) error {
	return a.Apply(&t.V1, &t.V2)
}

type Tuple3[A, B, C any] struct {
	V1 A
	V2 B
	V3 C
}

func MakeTuple3[A, B, C any](v1 A, v2 B, v3 C) Tuple3[A, B, C] {
	return Tuple3[A, B, C]{V1: v1, V2: v2, V3: v3}
}

func (t *Tuple3[A, B, C]) SerializeWith(a *Archive) error {
	return a.Apply(&t.V1, &t.V2, &t.V3)
}

type Tuple4[A, B, C, D any] struct {
	V1 A
	V2 B
	V3 C
	V4 D
}

func MakeTuple4[A, B, C, D any](v1 A, v2 B, v3 C, v4 D) Tuple4[A, B, C, D] {
	return Tuple4[A, B, C, D]{V1: v1, V2: v2, V3: v3, V4: v4}
}

func (t *Tuple4[A, B, C, D]) SerializeWith(a *Archive) error {
	return a.Apply(&t.V1, &t.V2, &t.V3, &t.V4)
}
