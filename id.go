package arc

import "github.com/cespare/xxhash/v2"

// IDOf derives a stable 64-bit identifier from a textual name, per
// spec.md §4.1. The legacy scheme this specification describes truncates
// a SHA-1 digest to its leading 8 bytes; we use xxhash-64 instead, which
// is already a native 64-bit output, deterministic across platforms and
// runs, and collision-resistant to the standard of a 64-bit hash. Byte-
// stream compatibility with recordings produced by the SHA-1 scheme is
// explicitly not a goal here (see DESIGN.md).
//
// IDOf is pure and cheap enough to call from a package-level var
// initializer, so registrations can be seeded before any I/O happens:
//
//	var _ = arc.Register[Student](arc.IDOf("v1.Student"))
func IDOf(name string) uint64 {
	return xxhash.Sum64String(name)
}
