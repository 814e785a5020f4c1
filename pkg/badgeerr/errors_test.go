package badgeerr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openbadges/openbadges-signer/pkg/badgeerr"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := badgeerr.New(badgeerr.CodeUnknownKeyType, "unsupported key type %q", "DSA")

	assert.True(t, errors.Is(err, badgeerr.ErrUnknownKeyType))
	assert.False(t, errors.Is(err, badgeerr.ErrPrivateKeyRead))
	assert.Equal(t, `UNKNOWN_KEY_TYPE: unsupported key type "DSA"`, err.Error())
}

func TestWrapChain(t *testing.T) {
	inner := badgeerr.New(badgeerr.CodePrivateKeyRead, "no private key loaded")
	err := fmt.Errorf("outer: %w", badgeerr.Wrap(inner, badgeerr.CodeErrorSigningFile, "failed to sign"))

	assert.True(t, errors.Is(err, badgeerr.ErrErrorSigningFile))
	assert.True(t, errors.Is(err, badgeerr.ErrPrivateKeyRead))
	assert.Equal(t, badgeerr.CodeErrorSigningFile, badgeerr.CodeOf(err))
	assert.Equal(t, "outer: ERROR_SIGNING_FILE: failed to sign: PRIVATE_KEY_READ_ERROR: no private key loaded", err.Error())
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Equal(t, badgeerr.Code(""), badgeerr.CodeOf(errors.New("plain")))
	assert.Equal(t, badgeerr.Code(""), badgeerr.CodeOf(nil))
	assert.Equal(t, badgeerr.Code(""), badgeerr.CodeOf(errors.Join(errors.New("a"), errors.New("b"))))
}

func TestSentinelMessage(t *testing.T) {
	assert.Equal(t, "SIGNATURE_INVALID", badgeerr.ErrSignatureInvalid.Error())
}
