package store

import (
	"fmt"
	"os"

	"github.com/andreyvit/arc"
	"github.com/andreyvit/arc/mmap"
)

// MappedSource is a read-only *arc.ByteSource backed by a memory-mapped
// file rather than a heap-allocated buffer, for loading very large
// recordings without copying them into process memory up front.
type MappedSource struct {
	*arc.ByteSource
	f   *os.File
	buf []byte
}

// OpenMapped memory-maps path read-only and returns a ByteSource over its
// full contents. Close must be called to release the mapping.
func OpenMapped(path string) (*MappedSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if st.Size() > mmap.MaxSize {
		f.Close()
		return nil, fmt.Errorf("store: %s is %d bytes, exceeds mmap.MaxSize (%d)", path, st.Size(), mmap.MaxSize)
	}
	buf, err := mmap.Mmap(f, 0, int(st.Size()), mmap.SequentialAccess)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &MappedSource{
		ByteSource: arc.NewByteSource(buf),
		f:          f,
		buf:        buf,
	}, nil
}

// Close unmaps the file and closes its descriptor.
func (m *MappedSource) Close() error {
	if err := mmap.Munmap(m.buf); err != nil {
		m.f.Close()
		return err
	}
	return m.f.Close()
}
