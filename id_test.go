package arc

import "testing"

func TestIDOf_Deterministic(t *testing.T) {
	a := IDOf("v1.Student")
	b := IDOf("v1.Student")
	if a != b {
		t.Fatalf("IDOf(%q) = %#x and %#x, wanted equal", "v1.Student", a, b)
	}
}

func TestIDOf_DistinctNamesDistinctIDs(t *testing.T) {
	names := []string{"v1.Person", "v1.Student", "v1.Teacher", "v1.Animal", ""}
	seen := make(map[uint64]string, len(names))
	for _, n := range names {
		id := IDOf(n)
		if other, ok := seen[id]; ok {
			t.Fatalf("IDOf(%q) collides with IDOf(%q) = %#x", n, other, id)
		}
		seen[id] = n
	}
}
