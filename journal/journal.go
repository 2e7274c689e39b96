// Package journal implements a small append-only record log: every
// Append call adds one length-prefixed, checksummed record to the end of
// a file (Sync makes the appended records durable), and a Reader plays
// records back in the order they were written. It exists to give the
// archive package's saving and loading archives a real on-disk home —
// AppendValues wraps a saving *arc.Archive around a pooled sink, and
// Reader.NextInto wraps a loading one around the bytes it reads back.
//
// File format: magic:64 (record: length:uvarint bytes:length checksum:64)*
package journal

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"

	"github.com/andreyvit/arc"
)

const magic uint64 = 0x434f524c43524152 // "RARCLROC" little-endian

var (
	// ErrBadMagic is returned by Open when the file does not start with
	// this package's magic number.
	ErrBadMagic = fmt.Errorf("journal: not a record log")

	// ErrCorrupt is returned by Reader.Next when a record's checksum does
	// not match its bytes. The stream is truncated at the last good
	// record; everything read before the error is trustworthy.
	ErrCorrupt = fmt.Errorf("journal: corrupted record")
)

// Journal appends records to a single file. It is not safe for concurrent
// use by multiple goroutines; callers needing that must serialize their
// own Append calls, mirroring the archive package's "one archive, one
// owner" rule.
type Journal struct {
	f    *os.File
	size int64
}

// Create truncates or creates the file at path and writes the header.
func Create(path string) (*Journal, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o666)
	if err != nil {
		return nil, err
	}
	var hdr [8]byte
	binary.LittleEndian.PutUint64(hdr[:], magic)
	if _, err := f.Write(hdr[:]); err != nil {
		f.Close()
		return nil, err
	}
	return &Journal{f: f, size: 8}, nil
}

// Open appends to an existing record log, seeking to its end. Use
// NewReader first if the log's tail might contain a partially written
// record from a crash; Open itself does not validate.
func Open(path string) (*Journal, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o666)
	if err != nil {
		return nil, err
	}
	var hdr [8]byte
	if _, err := io.ReadFull(f, hdr[:]); err != nil {
		f.Close()
		return nil, ErrBadMagic
	}
	if binary.LittleEndian.Uint64(hdr[:]) != magic {
		f.Close()
		return nil, ErrBadMagic
	}
	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Journal{f: f, size: size}, nil
}

// Truncate discards everything after offset, which must be a value
// previously returned by Append or by Reader as a record boundary. Use it
// to drop a corrupted or partially written tail before resuming writes.
func (j *Journal) Truncate(offset int64) error {
	if err := j.f.Truncate(offset); err != nil {
		return err
	}
	if _, err := j.f.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	j.size = offset
	return nil
}

// Append writes rec as one record and returns the file offset it was
// written at (usable later with Truncate). The record is length-prefixed
// and followed by an xxhash-64 checksum of length+bytes so Reader can
// detect a torn write.
func (j *Journal) Append(rec []byte) (int64, error) {
	offset := j.size

	var lenBuf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(lenBuf[:], uint64(len(rec)))

	h := xxhash.New()
	h.Write(lenBuf[:n])
	h.Write(rec)

	var sumBuf [8]byte
	binary.LittleEndian.PutUint64(sumBuf[:], h.Sum64())

	if _, err := j.f.Write(lenBuf[:n]); err != nil {
		return offset, err
	}
	if _, err := j.f.Write(rec); err != nil {
		return offset, err
	}
	if _, err := j.f.Write(sumBuf[:]); err != nil {
		return offset, err
	}
	j.size += int64(n) + int64(len(rec)) + 8
	return offset, nil
}

// AppendValues encodes values with a saving archive and appends the
// result as a single record, the way a caller would append a wire-format
// object produced by arc.Apply.
func (j *Journal) AppendValues(values ...any) (int64, error) {
	sink := arc.AcquireSink()
	defer sink.Release()
	a := arc.NewSavingArchive(sink)
	if err := a.Apply(values...); err != nil {
		return 0, err
	}
	return j.Append(sink.Bytes())
}

// Sync flushes the log's file to stable storage.
func (j *Journal) Sync() error {
	return j.f.Sync()
}

// Close closes the underlying file.
func (j *Journal) Close() error {
	return j.f.Close()
}

// Reader plays a record log back in the order it was written.
type Reader struct {
	f      *os.File
	r      *bufio.Reader
	offset int64
}

// NewReader opens path for read-back, validating the header.
func NewReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(f)
	var hdr [8]byte
	if _, err := io.ReadFull(br, hdr[:]); err != nil {
		f.Close()
		return nil, ErrBadMagic
	}
	if binary.LittleEndian.Uint64(hdr[:]) != magic {
		f.Close()
		return nil, ErrBadMagic
	}
	return &Reader{f: f, r: br, offset: 8}, nil
}

// Offset returns the file offset of the next record to be read, suitable
// for passing to Journal.Truncate if Next returns ErrCorrupt.
func (r *Reader) Offset() int64 {
	return r.offset
}

// Next returns the next record's bytes, or io.EOF once the log is
// exhausted. ErrCorrupt means the record at r.Offset() failed its
// checksum; the reader does not advance past it, so Offset() is a safe
// truncation point.
func (r *Reader) Next() ([]byte, error) {
	n, err := binary.ReadUvarint(r.r)
	if err == io.EOF {
		return nil, io.EOF
	} else if err != nil {
		return nil, ErrCorrupt
	}
	lenSize := uvarintSize(n)

	rec := make([]byte, n)
	if _, err := io.ReadFull(r.r, rec); err != nil {
		return nil, ErrCorrupt
	}

	var sumBuf [8]byte
	if _, err := io.ReadFull(r.r, sumBuf[:]); err != nil {
		return nil, ErrCorrupt
	}

	h := xxhash.New()
	var lenBuf [binary.MaxVarintLen64]byte
	binary.PutUvarint(lenBuf[:], n)
	h.Write(lenBuf[:lenSize])
	h.Write(rec)
	if h.Sum64() != binary.LittleEndian.Uint64(sumBuf[:]) {
		return nil, ErrCorrupt
	}

	r.offset += int64(lenSize) + int64(n) + 8
	return rec, nil
}

// NextInto reads the next record and decodes values from it with a
// loading archive, the inverse of AppendValues.
func (r *Reader) NextInto(values ...any) error {
	rec, err := r.Next()
	if err != nil {
		return err
	}
	src := arc.NewByteSource(rec)
	a := arc.NewLoadingArchive(src)
	return a.Apply(values...)
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.f.Close()
}

func uvarintSize(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}
