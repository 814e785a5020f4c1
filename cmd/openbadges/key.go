package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-jose/go-jose/v4"
	"github.com/spf13/cobra"

	"github.com/openbadges/openbadges-signer/pkg/crypto"
	"github.com/openbadges/openbadges-signer/pkg/jws"
)

var (
	keyForce   bool
	keyShowJWK bool
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the issuer key pair",
}

var keyGenCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a new issuer key pair",
	Long: `Generate a new issuer key pair of the type configured in keys.type.

RSA keys are 2048-bit and sign with RS256; ECC keys are P-256 and sign with ES256.
The private key is written as PKCS#8 PEM (0600), the public key as PKIX PEM.`,
	Example: `  # Generate the pair configured in config.yaml
  openbadges key gen

  # Replace an existing pair and print the public key as a JWK
  openbadges key gen --force --jwk`,
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if !keyForce {
			for _, p := range []string{cfg.Keys.Private, cfg.Keys.Public} {
				if _, err := os.Stat(p); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", p)
				} else if !errors.Is(err, fs.ErrNotExist) {
					return fmt.Errorf("failed to stat %s: %w", p, err)
				}
			}
		}

		fmt.Printf("🔑 Generating %s key pair for issuer '%s'\n", cfg.Keys.Type, cfg.Issuer.Name)

		// 1. Generate
		privPEM, pubPEM, err := crypto.GenerateKeyPair(cfg.Keys.Type)
		if err != nil {
			return err
		}

		// 2. Save
		if err := writeKeyFile(cfg.Keys.Private, privPEM, 0o600); err != nil {
			return fmt.Errorf("failed to write private key: %w", err)
		}
		fmt.Printf("✅ Private key saved to %s\n", cfg.Keys.Private)

		if err := writeKeyFile(cfg.Keys.Public, pubPEM, 0o644); err != nil {
			return fmt.Errorf("failed to write public key: %w", err)
		}
		fmt.Printf("✅ Public key saved to %s\n", cfg.Keys.Public)

		// 3. Optional JWK view of the public key
		if keyShowJWK {
			key, err := crypto.LoadKeyPair(cfg.Keys.Type, privPEM, pubPEM)
			if err != nil {
				return err
			}
			header, err := jws.HeaderFor(key.Family())
			if err != nil {
				return err
			}
			jwk := jose.JSONWebKey{
				Key:       key.PublicKey(),
				Algorithm: string(header.Algorithm),
				Use:       "sig",
			}
			data, err := jwk.MarshalJSON()
			if err != nil {
				return fmt.Errorf("failed to marshal JWK: %w", err)
			}
			fmt.Println(string(data))
		}

		logger.Info("key pair generated", "type", cfg.Keys.Type, "public", cfg.Keys.Public)
		return nil
	},
}

func writeKeyFile(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, perm)
}

func init() {
	rootCmd.AddCommand(keyCmd)
	keyCmd.AddCommand(keyGenCmd)

	keyGenCmd.Flags().BoolVar(&keyForce, "force", false, "Overwrite an existing key pair")
	keyGenCmd.Flags().BoolVar(&keyShowJWK, "jwk", false, "Print the public key as a JWK")
}
