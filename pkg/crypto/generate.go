package crypto

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"fmt"
)

// RSAKeyBits is the modulus size of generated RSA issuer keys.
const RSAKeyBits = 2048

// GenerateKeyPair creates a new issuer key pair for the family named by tag and
// returns it PEM encoded: PKCS#8 private key and PKIX public key.
func GenerateKeyPair(tag string) (privatePEM, publicPEM []byte, err error) {
	family, err := ParseFamily(tag)
	if err != nil {
		return nil, nil, err
	}

	var (
		priv crypto.PrivateKey
		pub  crypto.PublicKey
	)
	switch family {
	case FamilyRSA:
		k, err := rsa.GenerateKey(rand.Reader, RSAKeyBits)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to generate RSA key: %w", err)
		}
		priv, pub = k, &k.PublicKey
	default:
		k, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to generate ECC key: %w", err)
		}
		priv, pub = k, &k.PublicKey
	}

	privDER, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal private key: %w", err)
	}
	pubDER, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal public key: %w", err)
	}

	return encodePEM("PRIVATE KEY", privDER), encodePEM("PUBLIC KEY", pubDER), nil
}
