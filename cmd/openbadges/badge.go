package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openbadges/openbadges-signer/internal/logging"
	"github.com/openbadges/openbadges-signer/pkg/badge"
	"github.com/openbadges/openbadges-signer/pkg/badgeerr"
	"github.com/openbadges/openbadges-signer/pkg/config"
	"github.com/openbadges/openbadges-signer/pkg/crypto"
	"github.com/openbadges/openbadges-signer/pkg/jws"
	"github.com/openbadges/openbadges-signer/pkg/svg"
)

var (
	// Sign command flags
	signBadgeID   string
	signEvidence  string
	signOutputDir string
	signSelfCheck bool
	signTokenOnly bool
	signDebug     bool

	// Verify command flags
	verifyPublicKey string
)

var badgeCmd = &cobra.Command{
	Use:   "badge",
	Short: "Sign and check badges",
}

// loadIssuerKey reads the configured key pair.
func loadIssuerKey(cfg *config.Config) (crypto.Key, error) {
	privPEM, err := os.ReadFile(cfg.Keys.Private)
	if err != nil {
		return nil, badgeerr.Wrap(err, badgeerr.CodePrivateKeyRead, "failed to read private key file")
	}
	pubPEM, err := os.ReadFile(cfg.Keys.Public)
	if err != nil {
		return nil, badgeerr.Wrap(err, badgeerr.CodePublicKeyRead, "failed to read public key file")
	}
	return crypto.LoadKeyPair(cfg.Keys.Type, privPEM, pubPEM)
}

var signCmd = &cobra.Command{
	Use:   "sign <receptor>...",
	Short: "Sign a badge for one or more receptors",
	Long: `Sign a configured badge for each receptor.

The badge SVG is written to <output-dir>/<file>_<receptor>.svg with the signed
assertion embedded. An existing signed file is never overwritten.`,
	Example: `  # Award the rust100 badge
  openbadges badge sign -b rust100 alice@example.com

  # Several receptors, with evidence, verifying each token after signing
  openbadges badge sign -b rust100 -e https://acme.example/evidence/42 --self-check \
    alice@example.com bob@example.com

  # Print only the compact token
  openbadges badge sign -b rust100 --token-only alice@example.com`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, receptors []string) error {
		if signDebug {
			logger = logging.Setup("debug", logFormat, os.Stderr)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		profile, err := cfg.Badge(signBadgeID)
		if err != nil {
			return err
		}

		// 1. Key
		key, err := loadIssuerKey(cfg)
		if err != nil {
			return err
		}

		outputDir := cfg.Signing.OutputDir
		if signOutputDir != "" {
			outputDir = signOutputDir
		}

		signer := badge.NewSigner(badge.SignerOptions{
			Logger:    logger,
			SelfCheck: signSelfCheck || cfg.Signing.SelfCheck,
		})

		// 2. Sign per receptor
		for _, receptor := range receptors {
			identity, err := cfg.Identity(signBadgeID, receptor, signEvidence)
			if err != nil {
				return err
			}
			identity.Debug = signDebug

			if signTokenOnly {
				signed, err := signer.SignAssertion(identity, key)
				if err != nil {
					return err
				}
				fmt.Println(signed.Token)
				continue
			}

			outPath, signed, err := signer.SignFile(identity, key, profile.File, outputDir)
			if err != nil {
				return err
			}
			fmt.Printf("✅ %s signed for %s\n", profile.Name, receptor)
			fmt.Printf("   UID: %s\n", signed.UID)
			fmt.Printf("   File: %s\n", outPath)
		}
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify <signed.svg>...",
	Short: "Check the assertions embedded in signed badges",
	Long: `Check every openbadges:assertion embedded in the given SVG files against the
issuer public key and print the decoded assertion.

This is a signature check only: revocation and remote key lookup are not performed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		pubPath := verifyPublicKey
		keyType := ""
		if pubPath == "" {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			pubPath = cfg.Keys.Public
			keyType = cfg.Keys.Type
		}

		pubPEM, err := os.ReadFile(pubPath)
		if err != nil {
			return badgeerr.Wrap(err, badgeerr.CodePublicKeyRead, "failed to read public key file")
		}
		key, err := loadPublicOnly(keyType, pubPEM)
		if err != nil {
			return err
		}

		failed := 0
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			tokens, err := svg.Assertions(data)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if len(tokens) == 0 {
				fmt.Printf("❌ %s: no assertion found\n", path)
				failed++
				continue
			}

			for _, token := range tokens {
				payload, err := jws.Verify(token, key.PublicKey())
				if err != nil {
					fmt.Printf("❌ %s: %v\n", path, err)
					failed++
					continue
				}
				var pretty bytes.Buffer
				if err := json.Indent(&pretty, payload, "   ", "  "); err != nil {
					return fmt.Errorf("failed to format assertion: %w", err)
				}
				fmt.Printf("✅ %s: signature valid\n   %s\n", path, pretty.String())
			}
		}

		if failed > 0 {
			return badgeerr.New(badgeerr.CodeSignatureInvalid, "%d assertion(s) failed verification", failed)
		}
		return nil
	},
}

// loadPublicOnly loads a public key; with no type given both families are tried.
func loadPublicOnly(keyType string, pubPEM []byte) (crypto.Key, error) {
	types := []string{keyType}
	if keyType == "" {
		types = []string{string(crypto.FamilyRSA), string(crypto.FamilyECC)}
	}

	var lastErr error
	for _, t := range types {
		key, err := crypto.NewKey(t)
		if err != nil {
			return nil, err
		}
		if lastErr = key.LoadPublicKey(pubPEM); lastErr == nil {
			return key, nil
		}
	}
	return nil, lastErr
}

func init() {
	rootCmd.AddCommand(badgeCmd)
	badgeCmd.AddCommand(signCmd)
	badgeCmd.AddCommand(verifyCmd)

	signCmd.Flags().StringVarP(&signBadgeID, "badge", "b", "", "Badge profile id from the configuration")
	signCmd.Flags().StringVarP(&signEvidence, "evidence", "e", "", "Evidence URL")
	signCmd.Flags().StringVarP(&signOutputDir, "output-dir", "o", "", "Override signing.output_dir")
	signCmd.Flags().BoolVar(&signSelfCheck, "self-check", false, "Verify each token with the public key after signing")
	signCmd.Flags().BoolVar(&signTokenOnly, "token-only", false, "Print the compact token instead of writing an SVG")
	signCmd.Flags().BoolVar(&signDebug, "debug", false, "Log the JOSE header and payload at debug level")
	_ = signCmd.MarkFlagRequired("badge")

	verifyCmd.Flags().StringVar(&verifyPublicKey, "pub", "", "Public key PEM (defaults to keys.public from the configuration)")
}
