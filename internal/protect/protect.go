// Package protect encrypts secrets at rest, bound to the current user and
// machine. Token files written by the CLI are age-encrypted against an
// identity that lives in the user's config directory and never leaves the
// machine, so a token file copied elsewhere cannot be decrypted.
package protect

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"filippo.io/age"
)

// identityFile is the file name of the age identity inside the config dir
const identityFile = "protector.key"

// Protector encrypts and decrypts small secret blobs.
type Protector interface {
	Protect(plaintext []byte) ([]byte, error)
	Unprotect(blob []byte) ([]byte, error)
}

// AgeProtector implements Protector with an age x25519 identity stored on
// disk. The identity file is created on first use with mode 0600 inside a
// 0700 directory, which ties decryption to the OS user account that owns it.
type AgeProtector struct {
	// KeyPath overrides the identity file location. Empty means
	// <user config dir>/azdohist/protector.key.
	KeyPath string
}

// NewAgeProtector returns a Protector using the default identity location.
func NewAgeProtector() *AgeProtector {
	return &AgeProtector{}
}

// Protect encrypts plaintext to the local identity, creating the identity
// first if none exists yet.
func (p *AgeProtector) Protect(plaintext []byte) ([]byte, error) {
	identity, err := p.loadOrCreateIdentity()
	if err != nil {
		return nil, err
	}

	var ciphertext bytes.Buffer
	w, err := age.Encrypt(&ciphertext, identity.Recipient())
	if err != nil {
		return nil, fmt.Errorf("failed to create encryptor: %w", err)
	}
	if _, err := w.Write(plaintext); err != nil {
		return nil, fmt.Errorf("failed to encrypt: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize encryption: %w", err)
	}

	return ciphertext.Bytes(), nil
}

// Unprotect decrypts a blob previously produced by Protect on this machine.
// Fails if the identity file is missing (different user or machine) or the
// blob is corrupted.
func (p *AgeProtector) Unprotect(blob []byte) ([]byte, error) {
	path, err := p.keyPath()
	if err != nil {
		return nil, err
	}

	identity, err := loadIdentity(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load protector key: %w", err)
	}

	r, err := age.Decrypt(bytes.NewReader(blob), identity)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}

	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read decrypted data: %w", err)
	}

	return plaintext, nil
}

func (p *AgeProtector) keyPath() (string, error) {
	if p.KeyPath != "" {
		return p.KeyPath, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine config directory: %w", err)
	}
	return filepath.Join(configDir, "azdohist", identityFile), nil
}

func (p *AgeProtector) loadOrCreateIdentity() (*age.X25519Identity, error) {
	path, err := p.keyPath()
	if err != nil {
		return nil, err
	}

	if identity, err := loadIdentity(path); err == nil {
		return identity, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load protector key: %w", err)
	}

	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("failed to generate protector key: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	if err := os.WriteFile(path, []byte(identity.String()+"\n"), 0600); err != nil {
		return nil, fmt.Errorf("failed to write protector key to %s: %w", path, err)
	}

	return identity, nil
}

func loadIdentity(path string) (*age.X25519Identity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// The key file holds a single AGE-SECRET-KEY-1... line.
	key := string(bytes.TrimSpace(data))
	identity, err := age.ParseX25519Identity(key)
	if err != nil {
		return nil, fmt.Errorf("invalid protector key in %s: %w", path, err)
	}
	return identity, nil
}
