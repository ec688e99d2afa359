package proto

import (
	"io"

	"github.com/google/uuid"
)

// UUID is the protocol's 16-byte big-endian UUID encoding. Its byte
// layout is identical to google/uuid's, so conversion is a direct cast.
type UUID uuid.UUID

func (u UUID) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(u[:])
	return int64(n), wrapIO(err)
}

// ReadUUID reads a raw 16-byte UUID.
func ReadUUID(r io.Reader) (UUID, error) {
	var u UUID
	if _, err := io.ReadFull(r, u[:]); err != nil {
		return UUID{}, wrapIO(err)
	}
	return u, nil
}

// OfflineUUID derives the deterministic "offline mode" UUID for a
// username, matching the original's Uuid::new_v3(&Uuid::NAMESPACE_OID,
// username). google/uuid's NewMD5 is the same MD5-keyed v3 construction
// under a different name.
func OfflineUUID(username string) UUID {
	return UUID(uuid.NewMD5(uuid.NameSpaceOID, []byte(username)))
}
