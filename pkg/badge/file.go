package badge

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/openbadges/openbadges-signer/pkg/badgeerr"
	"github.com/openbadges/openbadges-signer/pkg/crypto"
)

// OutputFilename derives the signed file name from the source name and the
// receptor: badge.svg for alice@example.com becomes badge_alice_example_com.svg.
func OutputFilename(fileIn, outputDir, receptor string) string {
	base := filepath.Base(fileIn)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	suffix := strings.NewReplacer("@", "_", ".", "_").Replace(receptor)

	return filepath.Join(outputDir, name+"_"+suffix+ext)
}

// SignFile signs the SVG at inPath for identity and writes the result into
// outputDir. It refuses to overwrite an existing signed file. Nothing is written
// unless the whole signed image was produced.
func (s *Signer) SignFile(identity Identity, key crypto.Key, inPath, outputDir string) (string, *SignedBadge, error) {
	// 1. Pre-conditions
	if _, err := os.Stat(inPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, badgeerr.Wrap(err, badgeerr.CodeFileToSignNotExists, "%s", inPath)
		}
		return "", nil, fmt.Errorf("failed to stat %s: %w", inPath, err)
	}

	outPath := OutputFilename(inPath, outputDir, identity.Receptor)
	if _, err := os.Stat(outPath); err == nil {
		return "", nil, badgeerr.New(badgeerr.CodeBadgeSignedFileExists, "%s", outPath)
	}

	// 2. Sign
	svgData, err := os.ReadFile(inPath)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read %s: %w", inPath, err)
	}
	signed, err := s.SignSVG(identity, key, svgData)
	if err != nil {
		return "", nil, err
	}

	// 3. Write
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	if err := writeNew(outPath, signed.SVG); err != nil {
		return "", nil, err
	}

	return outPath, signed, nil
}

// writeNew creates path exclusively and removes it again if the write fails.
func writeNew(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return badgeerr.Wrap(err, badgeerr.CodeBadgeSignedFileExists, "%s", path)
		}
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	_, werr := f.Write(data)
	cerr := f.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(path)
		return fmt.Errorf("failed to write %s: %w", path, errors.Join(werr, cerr))
	}
	return nil
}
