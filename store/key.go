package store

import (
	"encoding/binary"
	"fmt"
)

// key encodes an ordered list of variable-length byte parts into a single
// bbolt key such that Bolt's natural byte-order key comparison sorts
// primarily by parts[0], then parts[1], and so on — the property a
// registered-type prefix scan over the object store needs. The layout is
// parts concatenated, followed by the length of every part but the last,
// each written as a *reverse* uvarint (least significant byte first),
// followed by the part count — all read back to front, so a shared
// leading part of two keys compares equal for exactly as many bytes as it
// is long, regardless of what follows it.
type key [][]byte

func (k key) encode() []byte {
	var buf []byte
	var lens []int
	for i, part := range k {
		buf = append(buf, part...)
		if i > 0 {
			lens = append(lens, len(k[i-1]))
		}
	}
	for _, n := range lens {
		buf = appendReverseUvarint(buf, uint32(n))
	}
	buf = appendReverseUvarint(buf, uint32(len(k)))
	return buf
}

func decodeKey(raw []byte) (key, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	c, raw := readReverseUvarint(raw)
	if c == 0 {
		return nil, nil
	}

	lens := make([]uint32, c)
	for i := int(c) - 2; i >= 0; i-- {
		lens[i], raw = readReverseUvarint(raw)
	}

	var explicit uint64
	for i := uint32(0); i < c-1; i++ {
		explicit += uint64(lens[i])
	}
	if explicit > uint64(len(raw)) {
		return nil, fmt.Errorf("store: corrupt key, part lengths sum to %d but only %d bytes remain", explicit, len(raw))
	}

	starts := make([]uint32, c+1)
	for i := uint32(0); i < c-1; i++ {
		starts[i+1] = starts[i] + lens[i]
	}
	starts[c] = uint32(len(raw))

	k := make(key, c)
	for i := uint32(0); i < c; i++ {
		k[i] = raw[starts[i]:starts[i+1]]
	}
	return k, nil
}

// prefixOf returns the key encoding for parts alone, for use as a bbolt
// Cursor.Seek prefix that matches every key whose bytes start with parts
// concatenated. That is the same as "whose leading len(parts) components
// equal parts" only when those components have a fixed length, as the
// 8-byte type id used by Store.ForEach does; with variable-length parts a
// longer first component can also match. It intentionally omits the
// trailing part-count-and-lengths suffix so it works as a byte-order
// prefix rather than a decodable key.
func prefixOf(parts ...[]byte) []byte {
	var buf []byte
	for _, p := range parts {
		buf = append(buf, p...)
	}
	return buf
}

func appendReverseUvarint(buf []byte, v uint32) []byte {
	var tmp [binary.MaxVarintLen32]byte
	n := binary.PutUvarint(tmp[:], uint64(v))
	off := len(buf)
	buf = append(buf, tmp[:n]...)
	for i, j := off, off+n-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return buf
}

func readReverseUvarint(buf []byte) (uint32, []byte) {
	n := len(buf)
	limit := binary.MaxVarintLen32
	if n < limit {
		limit = n
	}
	var tmp [binary.MaxVarintLen32]byte
	for i := 0; i < limit; i++ {
		tmp[i] = buf[n-i-1]
	}
	v, vn := binary.Uvarint(tmp[:])
	if vn <= 0 {
		panic(fmt.Sprintf("store: invalid reverse uvarint in %x", buf))
	}
	return uint32(v), buf[:n-vn]
}
