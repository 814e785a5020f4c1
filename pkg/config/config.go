// Package config loads the issuer configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/openbadges/openbadges-signer/pkg/badge"
	"github.com/openbadges/openbadges-signer/pkg/crypto"
)

// Config is the issuer configuration.
type Config struct {
	Issuer  Issuer           `yaml:"issuer"`
	Keys    Keys             `yaml:"keys"`
	Signing Signing          `yaml:"signing"`
	Badges  map[string]Badge `yaml:"badges"`
}

// Issuer identifies the awarding organization.
type Issuer struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Keys locates the issuer key pair.
type Keys struct {
	// Type is the key family, RSA or ECC.
	Type string `yaml:"type"`

	// Private is the path of the PEM private key.
	Private string `yaml:"private"`

	// Public is the path of the PEM public key.
	Public string `yaml:"public"`

	// VerifyURL is where verifiers can fetch the public key.
	VerifyURL string `yaml:"verify_url"`
}

// Signing holds signing defaults.
type Signing struct {
	OutputDir string `yaml:"output_dir"`
	SelfCheck bool   `yaml:"self_check"`
}

// Badge is one badge profile.
type Badge struct {
	Name  string `yaml:"name"`
	Image string `yaml:"image"`
	JSON  string `yaml:"json"`
	File  string `yaml:"file"`
}

// Load reads and validates the configuration at path. Relative file paths in
// the configuration are resolved against the directory of path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.resolve(filepath.Dir(path))
	return cfg, nil
}

// Parse decodes and validates configuration bytes. Paths are left as written.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Signing.OutputDir == "" {
		cfg.Signing.OutputDir = "."
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required fields.
func (c *Config) Validate() error {
	var errs []error
	if c.Issuer.Name == "" {
		errs = append(errs, errors.New("issuer.name is required"))
	}
	if _, err := crypto.ParseFamily(c.Keys.Type); err != nil {
		errs = append(errs, fmt.Errorf("keys.type: %w", err))
	}
	if c.Keys.Private == "" {
		errs = append(errs, errors.New("keys.private is required"))
	}
	if c.Keys.Public == "" {
		errs = append(errs, errors.New("keys.public is required"))
	}
	if c.Keys.VerifyURL == "" {
		errs = append(errs, errors.New("keys.verify_url is required"))
	}
	for _, id := range c.BadgeIDs() {
		b := c.Badges[id]
		for _, f := range []struct{ name, value string }{
			{"name", b.Name}, {"image", b.Image}, {"json", b.JSON}, {"file", b.File},
		} {
			if f.value == "" {
				errs = append(errs, fmt.Errorf("badges.%s.%s is required", id, f.name))
			}
		}
	}
	return errors.Join(errs...)
}

// BadgeIDs returns the configured badge profile ids, sorted.
func (c *Config) BadgeIDs() []string {
	ids := make([]string, 0, len(c.Badges))
	for id := range c.Badges {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Badge looks up a badge profile.
func (c *Config) Badge(id string) (Badge, error) {
	b, ok := c.Badges[id]
	if !ok {
		return Badge{}, fmt.Errorf("badge %q not configured (have: %s)", id, strings.Join(c.BadgeIDs(), ", "))
	}
	return b, nil
}

// Identity builds the signing identity for awarding badge id to receptor.
func (c *Config) Identity(id, receptor, evidenceURL string) (badge.Identity, error) {
	b, err := c.Badge(id)
	if err != nil {
		return badge.Identity{}, err
	}
	return badge.Identity{
		Issuer:       c.Issuer.Name,
		BadgeName:    b.Name,
		Receptor:     receptor,
		ImageURL:     b.Image,
		BadgeJSONURL: b.JSON,
		VerifyKeyURL: c.Keys.VerifyURL,
		EvidenceURL:  evidenceURL,
	}, nil
}

func (c *Config) resolve(dir string) {
	c.Keys.Private = resolvePath(dir, c.Keys.Private)
	c.Keys.Public = resolvePath(dir, c.Keys.Public)
	c.Signing.OutputDir = resolvePath(dir, c.Signing.OutputDir)
	for id, b := range c.Badges {
		b.File = resolvePath(dir, b.File)
		c.Badges[id] = b
	}
}

func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
