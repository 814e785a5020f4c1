// Package jws assembles and checks the compact JWS tokens embedded in signed badges.
package jws

import (
	"github.com/go-jose/go-jose/v4"

	"github.com/openbadges/openbadges-signer/pkg/badgeerr"
	"github.com/openbadges/openbadges-signer/pkg/crypto"
)

// Header is the JOSE header of a badge assertion. It carries only the algorithm;
// no kid or typ is emitted.
type Header struct {
	Algorithm jose.SignatureAlgorithm `json:"alg"`
}

// HeaderFor returns the header bound to a key family.
func HeaderFor(family crypto.Family) (Header, error) {
	switch family {
	case crypto.FamilyRSA:
		return Header{Algorithm: jose.RS256}, nil
	case crypto.FamilyECC:
		return Header{Algorithm: jose.ES256}, nil
	default:
		return Header{}, badgeerr.New(badgeerr.CodeUnknownKeyType, "no JOSE algorithm for key family %s", family)
	}
}
