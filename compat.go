package arc

import (
	"bytes"
	"encoding/json"
	"reflect"

	"github.com/vmihailenco/msgpack/v5"
)

// interopCodec is an encoding this package can wrap a value in for
// interop with systems that already speak MsgPack or JSON, rather than
// this package's own wire format. It is orthogonal to the priority chain
// in archive.go: a Compat wrapper is one of this package's wrapper types
// (it implements applyOn), so Archive.applyOne hands it off ahead of the
// fundamental/composite/polymorphic strategies for whatever it wraps.
type interopCodec int

const (
	// MsgPack encodes the wrapped value with vmihailenco/msgpack, sorting
	// map keys for a deterministic byte stream.
	MsgPack interopCodec = iota
	// JSON encodes the wrapped value with encoding/json.
	JSON
)

// Compat wraps a value so it round-trips through an interop codec
// (MsgPack or JSON) instead of this package's native encoding, framed
// with a u32 byte-length prefix so it composes inside a larger Apply
// call. Reach for this at a system boundary — reading data produced by,
// or feeding data to, something that isn't this package — not for
// ordinary object graphs, which get more compact encodings from the
// built-in composite codec.
type Compat struct {
	Codec interopCodec
	Value any
}

// WithCodec wraps v for interop encoding with the given codec. v must be
// a pointer so both directions can address it, exactly as with a plain
// Apply argument.
func WithCodec(codec interopCodec, v any) Compat {
	return Compat{Codec: codec, Value: v}
}

func (c Compat) applyOn(a *Archive) error {
	switch a.Direction() {
	case Saving:
		raw, err := c.encode()
		if err != nil {
			return dataErrf(err, "failed to encode %T via %s", c.Value, c.Codec)
		}
		if err := a.writeSize(len(raw)); err != nil {
			return err
		}
		a.writeRawBytes(raw)
		return nil
	case Loading:
		n, err := a.readSize()
		if err != nil {
			return err
		}
		raw, err := a.readRawBytes(n)
		if err != nil {
			return err
		}
		if err := c.decode(raw); err != nil {
			return dataErrf(err, "failed to decode %T via %s", c.Value, c.Codec)
		}
		return nil
	default:
		panic("arc: invalid direction")
	}
}

func (c Compat) encode() ([]byte, error) {
	switch c.Codec {
	case MsgPack:
		enc := msgpack.GetEncoder()
		defer msgpack.PutEncoder(enc)
		var buf bytes.Buffer
		enc.ResetDict(&buf, nil)
		enc.SetSortMapKeys(true)
		if err := enc.EncodeValue(reflect.ValueOf(c.Value)); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case JSON:
		return json.Marshal(c.Value)
	default:
		return nil, compileTimeErrf("unsupported interop codec %v", c.Codec)
	}
}

func (c Compat) decode(raw []byte) error {
	switch c.Codec {
	case MsgPack:
		dec := msgpack.GetDecoder()
		defer msgpack.PutDecoder(dec)
		var r bytes.Reader
		r.Reset(raw)
		dec.ResetDict(&r, nil)
		return dec.DecodeValue(reflect.ValueOf(c.Value))
	case JSON:
		return json.Unmarshal(raw, c.Value)
	default:
		return compileTimeErrf("unsupported interop codec %v", c.Codec)
	}
}

func (c interopCodec) String() string {
	switch c {
	case MsgPack:
		return "msgpack"
	case JSON:
		return "json"
	default:
		return "unknown"
	}
}
