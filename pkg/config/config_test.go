package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbadges/openbadges-signer/pkg/config"
)

const sampleConfig = `
issuer:
  name: Acme
  url: https://acme.example
keys:
  type: ECC
  private: keys/private.pem
  public: keys/public.pem
  verify_url: https://acme.example/keys/public.pem
signing:
  output_dir: signed
  self_check: true
badges:
  rust100:
    name: Rust100
    image: https://acme.example/badges/rust100.svg
    json: https://acme.example/badges/rust100.json
    file: badges/rust100.svg
  go100:
    name: Go100
    image: https://acme.example/badges/go100.svg
    json: https://acme.example/badges/go100.json
    file: /abs/go100.svg
`

func TestLoadResolvesPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Acme", cfg.Issuer.Name)
	assert.Equal(t, "ECC", cfg.Keys.Type)
	assert.Equal(t, filepath.Join(dir, "keys", "private.pem"), cfg.Keys.Private)
	assert.Equal(t, filepath.Join(dir, "keys", "public.pem"), cfg.Keys.Public)
	assert.Equal(t, filepath.Join(dir, "signed"), cfg.Signing.OutputDir)
	assert.True(t, cfg.Signing.SelfCheck)
	assert.Equal(t, []string{"go100", "rust100"}, cfg.BadgeIDs())

	b, err := cfg.Badge("rust100")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "badges", "rust100.svg"), b.File)

	b, err = cfg.Badge("go100")
	require.NoError(t, err)
	assert.Equal(t, "/abs/go100.svg", b.File)
}

func TestIdentity(t *testing.T) {
	cfg, err := config.Parse([]byte(sampleConfig))
	require.NoError(t, err)

	id, err := cfg.Identity("rust100", "alice@example.com", "https://acme.example/evidence/1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", id.Issuer)
	assert.Equal(t, "Rust100", id.BadgeName)
	assert.Equal(t, "alice@example.com", id.Receptor)
	assert.Equal(t, "https://acme.example/badges/rust100.svg", id.ImageURL)
	assert.Equal(t, "https://acme.example/badges/rust100.json", id.BadgeJSONURL)
	assert.Equal(t, "https://acme.example/keys/public.pem", id.VerifyKeyURL)
	assert.Equal(t, "https://acme.example/evidence/1", id.EvidenceURL)
	assert.NoError(t, id.Validate())

	_, err = cfg.Identity("python100", "alice@example.com", "")
	assert.ErrorContains(t, err, "python100")
}

func TestParseDefaultsOutputDir(t *testing.T) {
	cfg, err := config.Parse([]byte(`
issuer: {name: Acme}
keys: {type: RSA, private: p.pem, public: q.pem, verify_url: https://acme.example/q.pem}
`))
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.Signing.OutputDir)
	assert.Empty(t, cfg.BadgeIDs())
}

func TestValidate(t *testing.T) {
	_, err := config.Parse([]byte(`
keys: {type: DSA}
badges:
  broken: {name: Broken}
`))
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "issuer.name is required")
	assert.Contains(t, msg, "keys.type")
	assert.Contains(t, msg, "keys.private is required")
	assert.Contains(t, msg, "keys.verify_url is required")
	assert.Contains(t, msg, "badges.broken.image is required")
	assert.NotContains(t, msg, "badges.broken.name")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read config")
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := config.Parse([]byte("issuer: [unterminated"))
	assert.ErrorContains(t, err, "failed to parse config")
}
