package badge

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Assertion is the signed claim set of an Open Badges award.
type Assertion struct {
	// UID identifies this badge instance.
	UID string `json:"uid"`

	// Recipient is the hashed identity of the receptor.
	Recipient Recipient `json:"recipient"`

	// Image is the URL of the badge image.
	Image string `json:"image"`

	// Badge is the URL of the badge class definition.
	Badge string `json:"badge"`

	// Verify tells a verifier where the issuer public key lives.
	Verify Verification `json:"verify"`

	// IssuedOn is the Unix time of signing.
	IssuedOn int64 `json:"issuedOn"`

	// Evidence is omitted when no evidence URL was given.
	Evidence string `json:"evidence,omitempty"`
}

// Recipient is the hashed email identity of the receptor.
type Recipient struct {
	Identity string `json:"identity"`
	Type     string `json:"type"`
	Hashed   string `json:"hashed"`
}

// Verification points at the key that signed the assertion.
type Verification struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// HashedIdentity returns "sha256$" followed by the hex SHA-256 of the receptor.
func HashedIdentity(receptor string) string {
	sum := sha256.Sum256([]byte(receptor))
	return "sha256$" + hex.EncodeToString(sum[:])
}

// BuildAssertion assembles the payload for identity. The uid must be the one
// generated for this signing call.
func BuildAssertion(identity Identity, uid UID, issuedOn time.Time) *Assertion {
	return &Assertion{
		UID: uid.String(),
		Recipient: Recipient{
			Identity: HashedIdentity(identity.Receptor),
			Type:     "email",
			Hashed:   "true",
		},
		Image: identity.ImageURL,
		Badge: identity.BadgeJSONURL,
		Verify: Verification{
			Type: "signed",
			URL:  identity.VerifyKeyURL,
		},
		IssuedOn: issuedOn.Unix(),
		Evidence: identity.EvidenceURL,
	}
}
