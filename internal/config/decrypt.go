package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DecryptPrivateKey reverses the AES-GCM encryption the operator applies
// to a raw signing key before putting it in the environment, so a
// plaintext private key never needs to sit in `.env` or a process
// manager's config. key is an arbitrary-length passphrase (hashed to a
// 32-byte AES-256 key); encryptedHex is `nonce || ciphertext`, hex-encoded.
//
// This mirrors the teacher's cmd/main.go call site
// (`util.Decrypt([]byte(key), encryptedPk)`); the teacher's util.Decrypt
// body itself was not present in the retrieved pack, only its call shape,
// so this body is newly written to the same contract rather than copied.
func DecryptPrivateKey(key, encryptedHex string) (string, error) {
	raw, err := hex.DecodeString(encryptedHex)
	if err != nil {
		return "", fmt.Errorf("decrypt private key: invalid hex: %w", err)
	}

	sum := sha256.Sum256([]byte(key))
	block, err := aes.NewCipher(sum[:])
	if err != nil {
		return "", fmt.Errorf("decrypt private key: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("decrypt private key: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(raw) < nonceSize {
		return "", fmt.Errorf("decrypt private key: ciphertext too short")
	}

	nonce, ciphertext := raw[:nonceSize], raw[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("decrypt private key: %w", err)
	}

	return string(plaintext), nil
}
