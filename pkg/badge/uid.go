package badge

import (
	"crypto/sha1"
	"encoding/hex"
)

// TimestampLayout is the ISO 8601 form, with microseconds, mixed into a UID.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// UID identifies one issued badge instance.
type UID [sha1.Size]byte

// String returns the lowercase hex form used in the assertion payload.
func (u UID) String() string {
	return hex.EncodeToString(u[:])
}

// GenerateUID hashes issuer, badge name, receptor and timestamp, concatenated
// without separators. It is unique per issuance in practice, not unpredictable.
func GenerateUID(issuer, badgeName, receptor, timestamp string) UID {
	h := sha1.New()
	h.Write([]byte(issuer))
	h.Write([]byte(badgeName))
	h.Write([]byte(receptor))
	h.Write([]byte(timestamp))

	var uid UID
	copy(uid[:], h.Sum(nil))
	return uid
}
