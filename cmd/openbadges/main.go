// Package main is the entry point for the openbadges CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/openbadges/openbadges-signer/internal/logging"
	"github.com/openbadges/openbadges-signer/pkg/badgeerr"
	"github.com/openbadges/openbadges-signer/pkg/config"
)

const configEnv = "OPENBADGES_CONFIG"

var (
	configPath string
	logLevel   string
	logFormat  string

	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "openbadges",
	Short: "Sign Open Badges assertions into SVG badge images",
	Long: `Issue cryptographically signed Open Badges.

The signed assertion is a compact JWS (RS256 or ES256, following the issuer
key type) embedded into the badge SVG as an openbadges:assertion element.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger = logging.Setup(logLevel, logFormat, os.Stderr)
	},
}

func defaultConfigPath() string {
	if p := os.Getenv(configEnv); p != "" {
		return p
	}
	return "config.yaml"
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath(),
		"Configuration file (env "+configEnv+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")
}

// exitStatus maps a failure to the process exit status: 2 when an input was
// missing or already present, 3 when a signature did not verify, 1 otherwise.
func exitStatus(err error) int {
	switch badgeerr.CodeOf(err) {
	case badgeerr.CodeFileToSignNotExists, badgeerr.CodeBadgeSignedFileExists,
		badgeerr.CodePrivateKeyRead, badgeerr.CodePublicKeyRead:
		return 2
	case badgeerr.CodeSignatureInvalid:
		return 3
	default:
		return 1
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitStatus(err))
	}
}
