/*
Package arc implements a compact binary object-serialization engine.

We implement:

1. Archives, a direction-tagged entry point (Apply) that marshals a graph
of statically typed and runtime-polymorphic values to and from a byte
stream.

2. A dispatch chain that routes each value passed to Apply to one of a
handful of encoding strategies: a user-provided Serializer, a fundamental
scalar, an enum, an explicit binary block, a built-in composite shape
(slice, array, map, set, pair, tuple, owning pointer), or the polymorphic
path.

3. A process-wide registry mapping stable 64-bit identifiers, derived from
type names, to construction thunks for polymorphic subtypes, so a value
held behind an abstract interface can be tagged on the wire and
reconstructed on the other end without the reader knowing the concrete
type in advance.

# Technical Details

**Wire format.** A stream is the concatenation, in argument order, of the
encodings produced by successive Apply calls. There is no framing: no
headers, footers, or checksums, and no length-prefixing except where the
composite codec says so (resizable sequences, associative containers).
Integers are written host-endian, in their native in-memory
representation; a stream produced on one architecture is not guaranteed
portable to another.

**Polymorphic records.** u64 id, then the body the registered save thunk
produces for the concrete type. The id is derived from a name via IDOf,
which callers choose deliberately (e.g. a versioned name like
"v1.Student") so that renaming a Go type does not change the wire tag.

**Dispatch priority.** See Archive.applyOne's doc comment for the exact
ordering; it is a direct restatement of the compile-time overload
resolution a template-based implementation would perform, expressed as an
explicit, ordered set of runtime checks.
*/
package arc
