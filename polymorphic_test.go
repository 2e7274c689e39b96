package arc

import (
	"testing"
)

type person interface {
	Polymorphic
	Describe() string
}

type personBase struct {
	PolymorphicBase
	Name string
}

func (p *personBase) Describe() string { return p.Name }

type student struct {
	personBase
	University string
}

func (s *student) SerializeWith(a *Archive) error {
	return a.Apply(&s.Name, &s.University)
}

type teacher struct {
	personBase
	Subject string
}

func (tc *teacher) SerializeWith(a *Archive) error {
	return a.Apply(&tc.Name, &tc.Subject)
}

type animal struct {
	PolymorphicBase
	Species string
}

func (an *animal) Kind() string { return "animal" }

func (an *animal) SerializeWith(a *Archive) error {
	return a.Apply(&an.Species)
}

var _ = Register[student](IDOf("v1.Student"))
var _ = Register[teacher](IDOf("v1.Teacher"))
var _ = Register[animal](IDOf("v1.Animal"))

func TestPolymorphic_OwningSaveLoadByName(t *testing.T) {
	var base person = &student{personBase: personBase{Name: "1337"}, University: "1337University"}

	sink := NewByteSink(nil)
	if err := NewSavingArchive(sink).Apply(AsPolymorphicPtr(&base)); err != nil {
		t.Fatalf("Apply (save): %v", err)
	}

	wantIDBytes := sink.Bytes()[:8]
	var wantID uint64
	for i := 7; i >= 0; i-- {
		wantID = wantID<<8 | uint64(wantIDBytes[i])
	}
	if wantID != IDOf("v1.Student") {
		t.Fatalf("leading id = %#x, wanted %#x", wantID, IDOf("v1.Student"))
	}

	var loaded person
	if err := NewLoadingArchive(NewByteSource(sink.Bytes())).Apply(AsPolymorphicPtr(&loaded)); err != nil {
		t.Fatalf("Apply (load): %v", err)
	}
	s, ok := loaded.(*student)
	if !ok {
		t.Fatalf("loaded = %T, wanted *student", loaded)
	}
	if s.Name != "1337" || s.University != "1337University" {
		t.Fatalf("loaded = %+v, wanted Name=1337 University=1337University", s)
	}
	if loaded.Describe() != "1337" {
		t.Fatalf("Describe() = %q, wanted 1337", loaded.Describe())
	}
}

func TestPolymorphic_AsPolymorphicValueMatchesOwningPointerWire(t *testing.T) {
	s := &student{personBase: personBase{Name: "1337"}, University: "1337University"}

	sink1 := NewByteSink(nil)
	var base person = s
	NewSavingArchive(sink1).Apply(AsPolymorphicPtr(&base))

	sink2 := NewByteSink(nil)
	NewSavingArchive(sink2).Apply(AsPolymorphic[person](s))

	if string(sink1.Bytes()) != string(sink2.Bytes()) {
		t.Fatalf("AsPolymorphic wire = %x, wanted %x (same as owning pointer)", sink2.Bytes(), sink1.Bytes())
	}
}

func TestPolymorphic_UndeclaredTypeOnLoad(t *testing.T) {
	sink := NewByteSink(nil)
	writeID(NewSavingArchive(sink), 0xDEADBEEFCAFEF00D)
	sink.Write([]byte{0, 0, 0, 0})

	var loaded person
	err := NewLoadingArchive(NewByteSource(sink.Bytes())).Apply(AsPolymorphicPtr(&loaded))
	if _, ok := err.(*UndeclaredPolymorphicTypeError); !ok {
		t.Fatalf("err = %T, wanted *UndeclaredPolymorphicTypeError", err)
	}
}

func TestPolymorphic_TypeMismatchOnLoad(t *testing.T) {
	var base person = &student{personBase: personBase{Name: "x"}, University: "y"}
	sink := NewByteSink(nil)
	NewSavingArchive(sink).Apply(AsPolymorphicPtr(&base))

	type animalRef interface {
		Polymorphic
		Kind() string
	}
	var loaded animalRef
	err := NewLoadingArchive(NewByteSource(sink.Bytes())).Apply(AsPolymorphicPtr(&loaded))
	if _, ok := err.(*PolymorphicTypeMismatchError); !ok {
		t.Fatalf("err = %T, wanted *PolymorphicTypeMismatchError", err)
	}
}

func TestPolymorphic_NilOwningPointerFailsOnSave(t *testing.T) {
	var base person
	sink := NewByteSink(nil)
	err := NewSavingArchive(sink).Apply(AsPolymorphicPtr(&base))
	if _, ok := err.(*NullPointerError); !ok {
		t.Fatalf("err = %T, wanted *NullPointerError", err)
	}
}
