package jws

import (
	"crypto"

	"github.com/go-jose/go-jose/v4"

	"github.com/openbadges/openbadges-signer/pkg/badgeerr"
)

// supportedAlgorithms are the only algorithms a badge token may declare.
var supportedAlgorithms = []jose.SignatureAlgorithm{jose.RS256, jose.ES256}

// Verify checks a compact token against the issuer public key and returns the
// verified payload bytes.
func Verify(token string, publicKey crypto.PublicKey) ([]byte, error) {
	if publicKey == nil {
		return nil, badgeerr.New(badgeerr.CodeSignatureInvalid, "no public key")
	}

	jwsObj, err := jose.ParseSigned(token, supportedAlgorithms)
	if err != nil {
		return nil, badgeerr.Wrap(err, badgeerr.CodeSignatureInvalid, "failed to parse JWS")
	}

	payload, err := jwsObj.Verify(publicKey)
	if err != nil {
		return nil, badgeerr.Wrap(err, badgeerr.CodeSignatureInvalid, "signature verification failed")
	}
	return payload, nil
}

// Valid reports whether token verifies with publicKey.
func Valid(token string, publicKey crypto.PublicKey) bool {
	_, err := Verify(token, publicKey)
	return err == nil
}
