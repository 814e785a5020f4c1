// Package crypto provides the issuer key abstraction used to sign badge assertions.
//
// A Key is bound to one family (RSA or ECC) and to that family's only JWS
// signature scheme: RS256 (PKCS#1 v1.5, SHA-256) or ES256 (ECDSA P-256, SHA-256).
// Keys are loaded once from PEM and then only read while signing; callers that
// sign concurrently must not reload a Key that is in use.
package crypto

import (
	"crypto"
	"strings"

	"github.com/openbadges/openbadges-signer/pkg/badgeerr"
)

// Family identifies the asymmetric key family of an issuer key pair.
type Family string

const (
	// FamilyRSA is an RSA key pair signing with RS256.
	FamilyRSA Family = "RSA"

	// FamilyECC is an ECDSA P-256 key pair signing with ES256.
	FamilyECC Family = "ECC"
)

// Key is an issuer key pair that can sign without exposing its family.
type Key interface {
	// Family reports the key family, which fixes the signature algorithm.
	Family() Family

	// LoadPrivateKey decodes a PEM private key. On failure the key is unusable for Sign.
	LoadPrivateKey(data []byte) error

	// LoadPublicKey decodes a PEM public key matching the loaded private key, if any.
	LoadPublicKey(data []byte) error

	// Sign signs data with the family's JWS scheme and returns the raw JWS signature bytes.
	Sign(data []byte) ([]byte, error)

	// PublicKey returns the loaded public key, or the one derived from the private key.
	PublicKey() crypto.PublicKey
}

// ParseFamily maps a family tag such as "RSA" or "ecc" to a Family.
func ParseFamily(tag string) (Family, error) {
	switch Family(strings.ToUpper(strings.TrimSpace(tag))) {
	case FamilyRSA:
		return FamilyRSA, nil
	case FamilyECC:
		return FamilyECC, nil
	default:
		return "", badgeerr.New(badgeerr.CodeUnknownKeyType, "unsupported key type %q", tag)
	}
}

// NewKey returns an empty Key for the family named by tag.
// It is the only place an unknown family tag is rejected.
func NewKey(tag string) (Key, error) {
	family, err := ParseFamily(tag)
	if err != nil {
		return nil, err
	}
	switch family {
	case FamilyRSA:
		return &rsaKey{}, nil
	default:
		return &eccKey{}, nil
	}
}

// LoadKeyPair creates a Key for tag and loads both halves of the pair.
func LoadKeyPair(tag string, privatePEM, publicPEM []byte) (Key, error) {
	key, err := NewKey(tag)
	if err != nil {
		return nil, err
	}
	if err := key.LoadPrivateKey(privatePEM); err != nil {
		return nil, err
	}
	if err := key.LoadPublicKey(publicPEM); err != nil {
		return nil, err
	}
	return key, nil
}
