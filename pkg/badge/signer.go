package badge

import (
	"encoding/json"
	"io"
	"log/slog"
	"time"

	"github.com/openbadges/openbadges-signer/pkg/badgeerr"
	"github.com/openbadges/openbadges-signer/pkg/crypto"
	"github.com/openbadges/openbadges-signer/pkg/jws"
	"github.com/openbadges/openbadges-signer/pkg/svg"
)

// SignerOptions configures a Signer.
type SignerOptions struct {
	// Logger receives signing events. Nil discards them.
	Logger *slog.Logger

	// Now overrides the signing clock (for testing).
	Now func() time.Time

	// SelfCheck verifies every token with the key's public half before returning it.
	SelfCheck bool
}

// Signer produces signed assertions. It holds no key material; the key is
// borrowed for the duration of each call, so one Signer may serve many calls.
type Signer struct {
	logger    *slog.Logger
	now       func() time.Time
	selfCheck bool
}

// SignedBadge is the result of one signing call.
type SignedBadge struct {
	// UID is the instance identifier embedded in the assertion.
	UID UID

	// Header is the JOSE header of the token.
	Header jws.Header

	// Assertion is the signed payload.
	Assertion *Assertion

	// Token is the compact JWS of the assertion.
	Token string

	// SVG is the signed badge image. Empty when only the token was requested.
	SVG []byte
}

// NewSigner creates a Signer.
func NewSigner(opts SignerOptions) *Signer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Signer{
		logger:    logger,
		now:       now,
		selfCheck: opts.SelfCheck,
	}
}

// SignAssertion builds and signs the assertion for identity without touching an image.
func (s *Signer) SignAssertion(identity Identity, key crypto.Key) (*SignedBadge, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	if key == nil {
		return nil, badgeerr.New(badgeerr.CodeErrorSigningFile, "no signing key")
	}

	// 1. Header from the key family
	header, err := jws.HeaderFor(key.Family())
	if err != nil {
		return nil, err
	}

	// 2. UID and payload from the same instant
	now := s.now()
	uid := GenerateUID(identity.Issuer, identity.BadgeName, identity.Receptor, now.Format(TimestampLayout))
	assertion := BuildAssertion(identity, uid, now)

	if identity.Debug {
		s.debugJSON("jose header", header)
		s.debugJSON("jws payload", assertion)
	}

	// 3. Sign
	token, err := jws.Sign(header, assertion, key)
	if err != nil {
		return nil, err
	}

	// 4. Optional self-check
	if s.selfCheck {
		if _, err := jws.Verify(token, key.PublicKey()); err != nil {
			return nil, badgeerr.Wrap(err, badgeerr.CodeErrorSigningFile, "self-check of signed assertion failed")
		}
		s.logger.Debug("assertion self-check passed", "uid", uid.String())
	}

	return &SignedBadge{
		UID:       uid,
		Header:    header,
		Assertion: assertion,
		Token:     token,
	}, nil
}

// SignSVG signs an assertion for identity and embeds it into svgData.
// The signing event is logged before the signed image is returned.
func (s *Signer) SignSVG(identity Identity, key crypto.Key, svgData []byte) (*SignedBadge, error) {
	signed, err := s.SignAssertion(identity, key)
	if err != nil {
		return nil, err
	}

	out, err := svg.Embed(svgData, signed.Token)
	if err != nil {
		return nil, err
	}
	signed.SVG = out

	s.logger.Info("badge signed",
		"badge", identity.BadgeName,
		"receptor", identity.Receptor,
		"uid", signed.UID.String(),
		"alg", string(signed.Header.Algorithm),
	)

	return signed, nil
}

func (s *Signer) debugJSON(msg string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Debug(msg, "error", err)
		return
	}
	s.logger.Debug(msg, "json", string(data))
}
