package crypto

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"fmt"

	"github.com/openbadges/openbadges-signer/pkg/badgeerr"
)

// es256Size is the byte length of each of r and s in an ES256 signature.
const es256Size = 32

type eccKey struct {
	priv *ecdsa.PrivateKey
	pub  *ecdsa.PublicKey
}

func (k *eccKey) Family() Family { return FamilyECC }

func (k *eccKey) LoadPrivateKey(data []byte) error {
	k.priv = nil

	priv, err := parseECPrivate(data)
	if err != nil {
		return badgeerr.Wrap(err, badgeerr.CodePrivateKeyRead, "invalid ECC private key")
	}
	if priv.Curve != elliptic.P256() {
		return badgeerr.New(badgeerr.CodePrivateKeyRead, "ECC private key is not on curve P-256")
	}
	if k.pub != nil && !priv.PublicKey.Equal(k.pub) {
		return badgeerr.New(badgeerr.CodePrivateKeyRead, "ECC private key does not match loaded public key")
	}

	k.priv = priv
	return nil
}

func (k *eccKey) LoadPublicKey(data []byte) error {
	k.pub = nil

	key, err := parsePublicPEM(data)
	if err != nil {
		return badgeerr.Wrap(err, badgeerr.CodePublicKeyRead, "invalid ECC public key")
	}
	pub, ok := key.(*ecdsa.PublicKey)
	if !ok {
		return badgeerr.New(badgeerr.CodePublicKeyRead, "expected ECDSA public key, got %T", key)
	}
	if pub.Curve != elliptic.P256() {
		return badgeerr.New(badgeerr.CodePublicKeyRead, "ECC public key is not on curve P-256")
	}
	if k.priv != nil && !k.priv.PublicKey.Equal(pub) {
		return badgeerr.New(badgeerr.CodePublicKeyRead, "ECC public key does not match loaded private key")
	}

	k.pub = pub
	return nil
}

// Sign returns the JWS form of the signature: r and s as fixed-width big-endian values.
func (k *eccKey) Sign(data []byte) ([]byte, error) {
	if k.priv == nil {
		return nil, badgeerr.New(badgeerr.CodePrivateKeyRead, "no ECC private key loaded")
	}
	digest := sha256.Sum256(data)
	r, s, err := ecdsa.Sign(rand.Reader, k.priv, digest[:])
	if err != nil {
		return nil, err
	}

	sig := make([]byte, 2*es256Size)
	r.FillBytes(sig[:es256Size])
	s.FillBytes(sig[es256Size:])
	return sig, nil
}

func (k *eccKey) PublicKey() crypto.PublicKey {
	if k.pub != nil {
		return k.pub
	}
	if k.priv != nil {
		return &k.priv.PublicKey
	}
	return nil
}

func parseECPrivate(data []byte) (*ecdsa.PrivateKey, error) {
	block, err := decodePEM(data)
	if err != nil {
		return nil, err
	}

	switch block.Type {
	case "EC PRIVATE KEY":
		return x509.ParseECPrivateKey(block.Bytes)
	case "PRIVATE KEY":
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, err
		}
		priv, ok := key.(*ecdsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("expected ECDSA private key, got %T", key)
		}
		return priv, nil
	default:
		return nil, fmt.Errorf("unsupported PEM block type: %s", block.Type)
	}
}
