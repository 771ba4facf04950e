// Package metadata signs data files with a YAML sidecar holding a content
// hash and run information, and verifies files against it.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SidecarSuffix is appended to a data file path to name its metadata file.
const SidecarSuffix = ".meta.yaml"

// Version is the sidecar format version written by Sign.
const Version = "1"

// Metadata verification errors.
var (
	ErrNoMetadataFile = errors.New("no metadata file found")
	ErrNoHashFound    = errors.New("no hash found in metadata")
	ErrHashMismatch   = errors.New("hash mismatch")
)

// Metadata contains the status information of a signed data file.
type Metadata struct {
	Version    string    `yaml:"version"`
	LastModify time.Time `yaml:"last_modify"`
	Hash       string    `yaml:"hash"`
	Validation bool      `yaml:"validation"`
	RunID      string    `yaml:"run_id,omitempty"`
	Source     string    `yaml:"source,omitempty"`
	RowsIn     int       `yaml:"rows_in"`
	RowsOut    int       `yaml:"rows_out"`
	Columns    []string  `yaml:"columns,omitempty"`
}

// SidecarPath returns the metadata file path for a data file.
func SidecarPath(path string) string {
	return path + SidecarSuffix
}

// CalculateHash computes the SHA-256 hash of content.
func CalculateHash(content []byte) string {
	hash := sha256.Sum256(content)

	return hex.EncodeToString(hash[:])
}

// HashFile computes the SHA-256 hash of the file at path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Sign writes the sidecar for the file at path with a fresh hash and
// timestamp. Fields of base other than those two are kept; base may be nil.
func Sign(path string, validated bool, base *Metadata) (*Metadata, error) {
	hash, err := HashFile(path)
	if err != nil {
		return nil, err
	}

	meta := &Metadata{}
	if base != nil {
		*meta = *base
	}

	meta.Version = Version
	meta.Hash = hash
	meta.Validation = validated
	meta.LastModify = time.Now().UTC().Truncate(time.Second)

	data, err := yaml.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}

	if err := os.WriteFile(SidecarPath(path), data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata: %w", err)
	}

	return meta, nil
}

// Read loads the sidecar of the data file at path.
func Read(path string) (*Metadata, error) {
	data, err := os.ReadFile(SidecarPath(path))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoMetadataFile, SidecarPath(path))
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	meta := &Metadata{}
	if err := yaml.Unmarshal(data, meta); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}

	return meta, nil
}

// Verify checks if the file at path matches the hash in its sidecar.
func Verify(path string) (bool, error) {
	meta, err := Read(path)
	if err != nil {
		return false, err
	}

	if meta.Hash == "" {
		return false, ErrNoHashFound
	}

	calculated, err := HashFile(path)
	if err != nil {
		return false, err
	}

	if calculated != meta.Hash {
		return false, fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, meta.Hash, calculated)
	}

	return true, nil
}
