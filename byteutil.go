package arc

// ensureCapacity grows buf's capacity to at least minCap, copying existing
// contents. Growth policy is ceil((size+n) * 3/2), per spec.md §4.2; this is
// the "no realloc on every write, no shrink-to-fit on every append" policy
// called out in the design notes.
func ensureCapacity(buf []byte, minCap int) []byte {
	c := cap(buf)
	if minCap <= c {
		return buf
	}
	c = (minCap*3 + 1) / 2
	old := buf
	buf = make([]byte, len(old), c)
	copy(buf, old)
	return buf
}

func grow(buf []byte, n int) (int, []byte) {
	off := len(buf)
	newLen := off + n
	buf = ensureCapacity(buf, newLen)
	return off, buf[:newLen]
}

func appendRaw(buf []byte, chunk []byte) []byte {
	off, buf := grow(buf, len(chunk))
	copy(buf[off:], chunk)
	return buf
}
