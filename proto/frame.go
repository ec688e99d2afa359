package proto

import (
	"bytes"
	"io"
)

// Frame is one decoded protocol frame: a packet id followed by its
// remaining payload bytes, positioned for sequential reads.
type Frame struct {
	PacketID int32
	Data     *bytes.Reader
}

// maxFrameLen bounds a single frame's declared length at 2^21-1, the
// largest value a 3-byte VarInt length prefix can carry. The handshake's
// largest legitimate payload (a status/login frame) is nowhere near
// this; it exists to keep a corrupt or hostile length prefix from
// driving an unbounded allocation.
const maxFrameLen = 1<<21 - 1

// ReadFrame reads one length-prefixed frame from r: a VarInt byte
// length, then that many bytes, the first few of which are themselves
// a VarInt packet id. Grounded on the original's MinecraftFramedCodec,
// which scans up to 3 bytes of the incoming buffer looking for a
// complete VarInt length prefix before committing to read the body;
// a blocking io.Reader makes that incremental buffering unnecessary,
// since ReadVarInt can simply block for its next byte.
func ReadFrame(r io.Reader) (Frame, error) {
	length, err := ReadVarInt(r)
	if err != nil {
		return Frame{}, err
	}
	if length < 0 || length > maxFrameLen {
		return Frame{}, newErr(ErrVarIntTooLong)
	}
	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return Frame{}, wrapIO(err)
	}
	br := bytes.NewReader(body)
	packetID, err := ReadVarInt(br)
	if err != nil {
		return Frame{}, err
	}
	return Frame{PacketID: packetID, Data: br}, nil
}

// WriteFrame writes a frame's length prefix, packet id, and payload in
// one call. The payload is built in memory first so its length is known
// before the VarInt prefix is written, mirroring the original encoder's
// two-pass length_len/write_all structure.
func WriteFrame(w io.Writer, packetID int32, payload []byte) error {
	var body bytes.Buffer
	if _, err := VarInt(packetID).WriteTo(&body); err != nil {
		return err
	}
	body.Write(payload)

	if _, err := VarInt(body.Len()).WriteTo(w); err != nil {
		return err
	}
	_, err := w.Write(body.Bytes())
	return wrapIO(err)
}

// WritePacket composes fields in order into a payload buffer and emits
// it as a single frame, generalizing the teacher's NewPacket(id,
// data...io.WriterTo) builder to write straight to the connection
// instead of staging into an intermediate Packet value.
func WritePacket(w io.Writer, packetID int32, fields ...io.WriterTo) error {
	var body bytes.Buffer
	for _, f := range fields {
		if _, err := f.WriteTo(&body); err != nil {
			return err
		}
	}
	return WriteFrame(w, packetID, body.Bytes())
}
