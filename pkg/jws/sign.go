package jws

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/go-jose/go-jose/v4"

	"github.com/openbadges/openbadges-signer/pkg/badgeerr"
	"github.com/openbadges/openbadges-signer/pkg/crypto"
)

// Signer is the part of a crypto.Key the engine needs.
type Signer interface {
	Family() crypto.Family
	Sign(data []byte) ([]byte, error)
}

// opaqueKey lets go-jose drive a Signer without seeing its key material.
// Public returns nil so no kid or jwk lands in the protected header.
type opaqueKey struct {
	key Signer
	alg jose.SignatureAlgorithm
}

func (k opaqueKey) Public() *jose.JSONWebKey { return nil }

func (k opaqueKey) Algs() []jose.SignatureAlgorithm { return []jose.SignatureAlgorithm{k.alg} }

func (k opaqueKey) SignPayload(signingInput []byte, _ jose.SignatureAlgorithm) ([]byte, error) {
	return k.key.Sign(signingInput)
}

// Sign produces the compact serialization header.payload.signature, each part
// base64url encoded without padding. The signature covers the ASCII bytes of
// "header.payload". The header algorithm must match the key family.
func Sign(header Header, payload any, key Signer) (string, error) {
	if key == nil {
		return "", badgeerr.New(badgeerr.CodeErrorSigningFile, "no signing key")
	}

	// 1. Header and key family must agree
	expected, err := HeaderFor(key.Family())
	if err != nil {
		return "", badgeerr.Wrap(err, badgeerr.CodeErrorSigningFile, "failed to select header")
	}
	if header.Algorithm != expected.Algorithm {
		return "", badgeerr.New(badgeerr.CodeErrorSigningFile,
			"header algorithm %s does not match %s key", header.Algorithm, key.Family())
	}

	// 2. Serialize the payload
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return "", badgeerr.Wrap(err, badgeerr.CodeErrorSigningFile, "failed to marshal payload")
	}

	// 3. Sign
	signer, err := jose.NewSigner(jose.SigningKey{
		Algorithm: header.Algorithm,
		Key:       opaqueKey{key: key, alg: header.Algorithm},
	}, nil)
	if err != nil {
		return "", badgeerr.Wrap(err, badgeerr.CodeErrorSigningFile, "failed to create signer")
	}
	jwsObj, err := signer.Sign(payloadJSON)
	if err != nil {
		return "", badgeerr.Wrap(err, badgeerr.CodeErrorSigningFile, "failed to sign assertion")
	}

	// 4. Serialize to compact JWS
	token, err := jwsObj.CompactSerialize()
	if err != nil {
		return "", badgeerr.Wrap(err, badgeerr.CodeErrorSigningFile, "failed to serialize JWS")
	}
	return token, nil
}

// Split decodes the header and payload of a compact token without verifying it.
func Split(token string) (header Header, payload []byte, err error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Header{}, nil, badgeerr.New(badgeerr.CodeSignatureInvalid,
			"compact token has %d parts, want 3", len(parts))
	}

	headerJSON, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return Header{}, nil, badgeerr.Wrap(err, badgeerr.CodeSignatureInvalid, "invalid header encoding")
	}
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return Header{}, nil, badgeerr.Wrap(err, badgeerr.CodeSignatureInvalid, "invalid header json")
	}

	payload, err = base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return Header{}, nil, badgeerr.Wrap(err, badgeerr.CodeSignatureInvalid, "invalid payload encoding")
	}
	return header, payload, nil
}
