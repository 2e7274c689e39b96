package arc

import (
	"reflect"
	"testing"
)

func TestOwner_RoundTrip(t *testing.T) {
	orig := &point{X: 42, Y: 43}
	var loaded *point
	roundTrip(t,
		func(a *Archive) error { return a.Apply(OwningPtr(&orig)) },
		func(a *Archive) error { return a.Apply(OwningPtr(&loaded)) })
	if loaded == nil || *loaded != *orig {
		t.Fatalf("loaded = %v, wanted %+v", loaded, *orig)
	}
}

func TestOwner_NilPointerFailsOnSave(t *testing.T) {
	var p *point
	sink := NewByteSink(nil)
	err := NewSavingArchive(sink).Apply(OwningPtr(&p))
	var npe *NullPointerError
	if npe2, ok := err.(*NullPointerError); ok {
		npe = npe2
	} else {
		t.Fatalf("Apply(nil Owner) err = %T, wanted *NullPointerError", err)
	}
	_ = npe
}

func TestPair_RoundTrip(t *testing.T) {
	p := MakePair(int32(7), "seven")
	var back Pair[int32, string]
	roundTrip(t,
		func(a *Archive) error { return a.Apply(&p) },
		func(a *Archive) error { return a.Apply(&back) })
	if back.First != 7 || back.Second != "seven" {
		t.Fatalf("back = %+v, wanted {7 seven}", back)
	}
}

func TestSet_RoundTrip(t *testing.T) {
	s := NewSet(1, 2, 3)
	var back Set[int]
	roundTrip(t,
		func(a *Archive) error { return a.Apply(&s) },
		func(a *Archive) error { return a.Apply(&back) })
	if len(back) != 3 || !back.Has(1) || !back.Has(2) || !back.Has(3) {
		t.Fatalf("back = %v, wanted set{1,2,3}", back)
	}
}

func TestSet_EncodingHasNoValuesJustKeys(t *testing.T) {
	s := NewSet(int32(1))
	sink := NewByteSink(nil)
	NewSavingArchive(sink).Apply(&s)
	// 4-byte size prefix + 1 key * 4 bytes, no value bytes at all.
	if got := len(sink.Bytes()); got != 8 {
		t.Fatalf("encoded length = %d, wanted 8", got)
	}
}

func TestTuple2_RoundTrip(t *testing.T) {
	tp := MakeTuple2(int32(1), "one")
	var back Tuple2[int32, string]
	roundTrip(t,
		func(a *Archive) error { return a.Apply(&tp) },
		func(a *Archive) error { return a.Apply(&back) })
	if !reflect.DeepEqual(tp, back) {
		t.Fatalf("back = %+v, wanted %+v", back, tp)
	}
}

func TestTuple4_RoundTrip(t *testing.T) {
	tp := MakeTuple4(int32(1), int32(2), int32(3), int32(4))
	var back Tuple4[int32, int32, int32, int32]
	roundTrip(t,
		func(a *Archive) error { return a.Apply(&tp) },
		func(a *Archive) error { return a.Apply(&back) })
	if back != tp {
		t.Fatalf("back = %+v, wanted %+v", back, tp)
	}
}
