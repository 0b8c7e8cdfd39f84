// Package secrets implements AES-256-GCM decryption for stored provider
// credentials. Credentials are encrypted elsewhere and stored as separate
// ciphertext, IV, and authentication tag fields; this codec recombines
// them for authenticated decryption.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const keySize = 32

// AESGCMCodec decrypts credential material with a process-wide 256-bit key.
type AESGCMCodec struct {
	key []byte
}

// NewAESGCMCodec creates a codec from a raw 32-byte key.
func NewAESGCMCodec(key []byte) (*AESGCMCodec, error) {
	if len(key) != keySize {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", keySize, len(key))
	}
	k := make([]byte, keySize)
	copy(k, key)
	return &AESGCMCodec{key: k}, nil
}

// FromHexKey creates a codec from a 64-character hex-encoded key, the
// format used for the ENCRYPTION_KEY environment variable.
func FromHexKey(hexKey string) (*AESGCMCodec, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("encryption key is not valid hex: %w", err)
	}
	return NewAESGCMCodec(key)
}

// Decrypt recovers the plaintext from ciphertext, IV, and authentication
// tag stored as separate fields. GCM expects the tag appended to the
// ciphertext, so the two are rejoined before opening.
func (c *AESGCMCodec) Decrypt(ciphertext, iv, tag []byte) (string, error) {
	gcm, err := c.newGCM(len(iv))
	if err != nil {
		return "", err
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := gcm.Open(nil, iv, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt credential: %w", err)
	}
	return string(plaintext), nil
}

// Encrypt seals plaintext and returns ciphertext, IV, and tag as the
// separate fields the credential store uses. Primarily for tests and
// tooling; the service itself only decrypts.
func (c *AESGCMCodec) Encrypt(plaintext string) (ciphertext, iv, tag []byte, err error) {
	gcm, err := c.newGCM(0)
	if err != nil {
		return nil, nil, nil, err
	}

	iv = make([]byte, gcm.NonceSize())
	if _, err := rand.Read(iv); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := gcm.Seal(nil, iv, []byte(plaintext), nil)
	split := len(sealed) - gcm.Overhead()
	return sealed[:split], iv, sealed[split:], nil
}

func (c *AESGCMCodec) newGCM(nonceSize int) (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}
	if nonceSize > 0 && nonceSize != 12 {
		return cipher.NewGCMWithNonceSize(block, nonceSize)
	}
	return cipher.NewGCM(block)
}
