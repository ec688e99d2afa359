package proto

import (
	"encoding/json"
	"io"

	"github.com/Tnze/go-mc/nbt"
)

// WriteNBT encodes v as an unnamed root NBT compound and writes it
// with no length prefix, the shape every play packet embedding NBT
// (dimension codec, per-dimension type, heightmaps) expects.
func WriteNBT(w io.Writer, v any) (int64, error) {
	cw := &countingWriter{w: w}
	if err := nbt.NewEncoder(cw).Encode(v, ""); err != nil {
		return cw.n, &Error{Kind: ErrNBT, Err: err}
	}
	return cw.n, nil
}

// ReadNBT decodes a gzip-free NBT document (used for the on-disk map
// template) into v.
func ReadNBT(data []byte, v any) error {
	if err := nbt.Unmarshal(data, v); err != nil {
		return &Error{Kind: ErrNBT, Err: err}
	}
	return nil
}

// WriteJSON writes v as a length-prefixed protocol String containing
// its compact JSON encoding, the shape the status response and chat
// packets both use.
func WriteJSON(w io.Writer, v any) (int64, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return 0, &Error{Kind: ErrJSON, Err: err}
	}
	return WriteString(w, string(b), 32767)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
