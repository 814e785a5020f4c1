package crypto

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"fmt"

	"github.com/openbadges/openbadges-signer/pkg/badgeerr"
)

type rsaKey struct {
	priv *rsa.PrivateKey
	pub  *rsa.PublicKey
}

func (k *rsaKey) Family() Family { return FamilyRSA }

func (k *rsaKey) LoadPrivateKey(data []byte) error {
	k.priv = nil

	priv, err := parseRSAPrivate(data)
	if err != nil {
		return badgeerr.Wrap(err, badgeerr.CodePrivateKeyRead, "invalid RSA private key")
	}
	if k.pub != nil && !priv.PublicKey.Equal(k.pub) {
		return badgeerr.New(badgeerr.CodePrivateKeyRead, "RSA private key does not match loaded public key")
	}

	k.priv = priv
	return nil
}

func (k *rsaKey) LoadPublicKey(data []byte) error {
	k.pub = nil

	key, err := parsePublicPEM(data)
	if err != nil {
		return badgeerr.Wrap(err, badgeerr.CodePublicKeyRead, "invalid RSA public key")
	}
	pub, ok := key.(*rsa.PublicKey)
	if !ok {
		return badgeerr.New(badgeerr.CodePublicKeyRead, "expected RSA public key, got %T", key)
	}
	if k.priv != nil && !k.priv.PublicKey.Equal(pub) {
		return badgeerr.New(badgeerr.CodePublicKeyRead, "RSA public key does not match loaded private key")
	}

	k.pub = pub
	return nil
}

func (k *rsaKey) Sign(data []byte) ([]byte, error) {
	if k.priv == nil {
		return nil, badgeerr.New(badgeerr.CodePrivateKeyRead, "no RSA private key loaded")
	}
	digest := sha256.Sum256(data)
	return rsa.SignPKCS1v15(rand.Reader, k.priv, crypto.SHA256, digest[:])
}

func (k *rsaKey) PublicKey() crypto.PublicKey {
	if k.pub != nil {
		return k.pub
	}
	if k.priv != nil {
		return &k.priv.PublicKey
	}
	return nil
}

func parseRSAPrivate(data []byte) (*rsa.PrivateKey, error) {
	block, err := decodePEM(data)
	if err != nil {
		return nil, err
	}

	switch block.Type {
	case "RSA PRIVATE KEY":
		return x509.ParsePKCS1PrivateKey(block.Bytes)
	case "PRIVATE KEY":
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, err
		}
		priv, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("expected RSA private key, got %T", key)
		}
		return priv, nil
	default:
		return nil, fmt.Errorf("unsupported PEM block type: %s", block.Type)
	}
}
