package arc

// ByteSink is an append-only writer over an owned, growable byte
// container. It is the "saving" side's backing store, per spec.md §4.2:
// logical size never exceeds capacity, and unused trailing capacity holds
// indeterminate bytes until Commit truncates it away.
type ByteSink struct {
	buf  []byte
	size int
}

// NewByteSink wraps buf (which may be nil or non-empty) as a ByteSink.
// Existing bytes in buf are preserved and treated as already committed.
func NewByteSink(buf []byte) *ByteSink {
	return &ByteSink{buf: buf, size: len(buf)}
}

// Write appends n bytes read from chunk (which must have length n) to the
// sink, growing the backing container per the 3/2 policy if needed.
func (s *ByteSink) Write(chunk []byte) {
	off, buf := grow(s.buf, len(chunk))
	copy(buf[off:], chunk)
	s.buf = buf
	s.size = len(buf)
}

// WriteByte appends a single byte.
func (s *ByteSink) WriteByte(b byte) {
	off, buf := grow(s.buf, 1)
	buf[off] = b
	s.buf = buf
	s.size = len(buf)
}

// Grow reserves n bytes at the end of the sink and returns their offset,
// for callers that want to encode directly into the backing array instead
// of building a temporary slice first.
func (s *ByteSink) Grow(n int) int {
	off, buf := grow(s.buf, n)
	s.buf = buf
	s.size = len(buf)
	return off
}

// Bytes returns the bytes committed so far. It is only meaningful between
// Apply calls or after Commit; mid-Apply it may include a partially
// written value up to the last completed sub-encode.
func (s *ByteSink) Bytes() []byte {
	return s.buf[:s.size]
}

// Len returns the sink's current logical size.
func (s *ByteSink) Len() int {
	return s.size
}

// Commit truncates the backing container to the logical size, discarding
// any indeterminate trailing capacity. The archive calls this on every
// exit path of Apply — success or failure — per spec.md §4.2 and §7.
func (s *ByteSink) Commit() {
	s.buf = s.buf[:s.size]
}

// Truncate rolls the sink back to a size previously returned by Len,
// discarding bytes written since. A caller can use it to unwind a
// partially written value after a failed Apply; Apply itself does not call
// it, so bytes written before a failure stay in the sink.
func (s *ByteSink) Truncate(size int) {
	if size > s.size {
		panic("arc: Truncate to a size larger than current")
	}
	s.size = size
	s.buf = s.buf[:size]
}
