// Package badge builds, signs and embeds Open Badges assertions.
package badge

import (
	"strings"

	"github.com/openbadges/openbadges-signer/pkg/badgeerr"
)

// Identity describes one badge award: who issues which badge to whom.
// It is read-only for the duration of a signing call.
type Identity struct {
	// Issuer is the name of the awarding organization.
	Issuer string

	// BadgeName is the name of the badge being awarded.
	BadgeName string

	// Receptor is the email address of the recipient.
	Receptor string

	// ImageURL is the public URL of the badge image.
	ImageURL string

	// BadgeJSONURL is the public URL of the badge class definition.
	BadgeJSONURL string

	// VerifyKeyURL is the public URL of the issuer public key.
	VerifyKeyURL string

	// EvidenceURL optionally points at the work that earned the badge.
	EvidenceURL string

	// Debug enables debug logging of the header and payload.
	Debug bool
}

// Validate checks that every required field is set.
func (i Identity) Validate() error {
	missing := []string{}
	for _, f := range []struct{ name, value string }{
		{"issuer", i.Issuer},
		{"badge name", i.BadgeName},
		{"receptor", i.Receptor},
		{"image url", i.ImageURL},
		{"badge json url", i.BadgeJSONURL},
		{"verify key url", i.VerifyKeyURL},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return badgeerr.New(badgeerr.CodeErrorSigningFile, "identity is missing %s", strings.Join(missing, ", "))
	}
	return nil
}
