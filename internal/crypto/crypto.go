// Package crypto implements the vault used to protect provider credentials
// at rest. Values are encrypted with AES-256-GCM and stored in
// "nonce:tag:ciphertext" hex form, so tampering with a stored token is
// detected on read instead of yielding garbage plaintext.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// Vault encrypts and decrypts single secret strings.
type Vault struct {
	gcm cipher.AEAD
}

// NewVault creates a Vault from a 64-hex-character (32-byte) key.
func NewVault(hexKey string) (*Vault, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid encryption key hex: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be 64 hex characters (32 bytes), got %d bytes", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Vault{gcm: gcm}, nil
}

// Encrypt encrypts plaintext with a fresh random nonce and returns
// hex(nonce) + ":" + hex(tag) + ":" + hex(ciphertext). Two calls with the
// same plaintext produce different output.
func (v *Vault) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, v.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	// Seal returns ciphertext || tag; split them for the encoded form.
	sealed := v.gcm.Seal(nil, nonce, []byte(plaintext), nil)
	split := len(sealed) - v.gcm.Overhead()
	ciphertext, tag := sealed[:split], sealed[split:]

	return hex.EncodeToString(nonce) + ":" + hex.EncodeToString(tag) + ":" + hex.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt. It reports ok=false instead of an error when the
// input is malformed or fails authentication, so a corrupted stored secret
// reads as "not configured" rather than crashing the read path.
func (v *Vault) Decrypt(encoded string) (string, bool) {
	parts := strings.Split(encoded, ":")
	if len(parts) != 3 {
		return "", false
	}

	nonce, err := hex.DecodeString(parts[0])
	if err != nil || len(nonce) != v.gcm.NonceSize() {
		return "", false
	}
	tag, err := hex.DecodeString(parts[1])
	if err != nil || len(tag) != v.gcm.Overhead() {
		return "", false
	}
	ciphertext, err := hex.DecodeString(parts[2])
	if err != nil {
		return "", false
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := v.gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", false
	}

	return string(plaintext), true
}
