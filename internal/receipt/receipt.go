// Package receipt persists the record of a completed installation as a
// YAML file inside the install directory.
//
// The receipt is the only state pyhula-setup keeps: the status, verify,
// patch, and remove commands all reconstruct what they need from it
// rather than re-probing the environment.
package receipt

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hula-robotics/pyhula-setup/internal/model"
)

// FileName is the fixed receipt file name inside the install directory.
const FileName = "install-receipt.yaml"

// header is prepended to the generated YAML so students opening the file
// know what it is and that it is machine-written.
const header = "# Generated by pyhula-setup. Do not edit — remove and reinstall instead.\n"

// Path returns the receipt location for the given install directory.
func Path(installDir string) string {
	return filepath.Join(installDir, FileName)
}

// Write serializes the receipt into the install directory.
func Write(installDir string, r *model.Receipt) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to serialize install receipt: %w", err)
	}

	if err := os.WriteFile(Path(installDir), append([]byte(header), data...), 0o644); err != nil {
		return fmt.Errorf("failed to write install receipt: %w", err)
	}
	return nil
}

// Read loads the receipt from the install directory. A missing receipt
// means no (complete) installation exists there.
func Read(installDir string) (*model.Receipt, error) {
	data, err := os.ReadFile(Path(installDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no install receipt found in %s — is PyHula installed there?", installDir)
		}
		return nil, fmt.Errorf("failed to read install receipt: %w", err)
	}

	var r model.Receipt
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse install receipt %s: %w", Path(installDir), err)
	}
	return &r, nil
}
