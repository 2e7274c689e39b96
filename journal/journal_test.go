package journal

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o666)
}

func flipByte(path string, offset int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	data[offset] ^= 0xFF
	return os.WriteFile(path, data, 0o666)
}

func TestJournal_AppendAndReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "j.log")

	j, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	recs := [][]byte{[]byte("first"), []byte(""), []byte("third record, a bit longer")}
	var offsets []int64
	for _, rec := range recs {
		off, err := j.Append(rec)
		if err != nil {
			t.Fatalf("Append(%q): %v", rec, err)
		}
		offsets = append(offsets, off)
	}
	if err := j.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Close()

	for i, want := range recs {
		if got := r.Offset(); got != offsets[i] {
			t.Fatalf("record %d: Offset() = %d, wanted %d", i, got, offsets[i])
		}
		got, err := r.Next()
		if err != nil {
			t.Fatalf("record %d: Next: %v", i, err)
		}
		if string(got) != string(want) {
			t.Fatalf("record %d = %q, wanted %q", i, got, want)
		}
	}
	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("Next past end = %v, wanted io.EOF", err)
	}
}

func TestJournal_OpenAppendsAtEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "j.log")

	j, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := j.Append([]byte("one")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	j2, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := j2.Append([]byte("two")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	j2.Close()

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Close()

	var got []string
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		got = append(got, string(rec))
	}
	if len(got) != 2 || got[0] != "one" || got[1] != "two" {
		t.Fatalf("records = %v, wanted [one two]", got)
	}
}

func TestJournal_OpenRejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-a-journal")
	if err := writeFile(path, []byte("not a journal at all")); err != nil {
		t.Fatalf("writeFile: %v", err)
	}
	if _, err := Open(path); err != ErrBadMagic {
		t.Fatalf("Open = %v, wanted ErrBadMagic", err)
	}
	if _, err := NewReader(path); err != ErrBadMagic {
		t.Fatalf("NewReader = %v, wanted ErrBadMagic", err)
	}
}

func TestJournal_CorruptRecordStopsReplayCleanly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "j.log")

	j, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := j.Append([]byte("good")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	badOffset, err := j.Append([]byte("also good"))
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	j.Close()

	// Flip a byte inside the second record's payload.
	if err := flipByte(path, int(badOffset)+2); err != nil {
		t.Fatalf("flipByte: %v", err)
	}

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Close()

	first, err := r.Next()
	if err != nil || string(first) != "good" {
		t.Fatalf("first record = (%q, %v), wanted (good, nil)", first, err)
	}
	if _, err := r.Next(); err != ErrCorrupt {
		t.Fatalf("second record err = %v, wanted ErrCorrupt", err)
	}

	// Truncating the underlying journal at the reader's offset drops
	// exactly the corrupted tail.
	j2, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := j2.Truncate(r.Offset()); err != nil {
		t.Fatalf("Truncate: %v", err)
	}
	if _, err := j2.Append([]byte("recovered")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	j2.Close()

	r2, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r2.Close()
	rec, err := r2.Next()
	if err != nil || string(rec) != "good" {
		t.Fatalf("record 0 = (%q, %v), wanted (good, nil)", rec, err)
	}
	rec, err = r2.Next()
	if err != nil || string(rec) != "recovered" {
		t.Fatalf("record 1 = (%q, %v), wanted (recovered, nil)", rec, err)
	}
}

func TestJournal_AppendValuesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "j.log")

	j, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	x0, y0 := int32(1337), int32(1338)
	if _, err := j.AppendValues(&x0, &y0); err != nil {
		t.Fatalf("AppendValues: %v", err)
	}
	hello := "hello"
	if _, err := j.AppendValues(&hello); err != nil {
		t.Fatalf("AppendValues: %v", err)
	}
	j.Close()

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Close()

	var x, y int32
	if err := r.NextInto(&x, &y); err != nil {
		t.Fatalf("NextInto: %v", err)
	}
	if x != 1337 || y != 1338 {
		t.Fatalf("(x, y) = (%d, %d), wanted (1337, 1338)", x, y)
	}
	var s string
	if err := r.NextInto(&s); err != nil {
		t.Fatalf("NextInto: %v", err)
	}
	if s != "hello" {
		t.Fatalf("s = %q, wanted hello", s)
	}
}
