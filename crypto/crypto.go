package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// SecretSize is the size in bytes of a generated application secret.
const SecretSize = 32

// RandomData returns a slice of the specified size containing random data.
func RandomData(size int) ([]byte, error) {
	if size < 0 {
		return nil, errors.New("size cannot be negative")
	}

	data := make([]byte, size)
	if _, err := rand.Read(data); err != nil {
		return nil, fmt.Errorf("failed generating random data: %w", err)
	}

	return data, nil
}

// NewSecret generates a random application secret, encoded as base58.
func NewSecret() (string, error) {
	data, err := RandomData(SecretSize)
	if err != nil {
		return "", err
	}

	return base58.Encode(data), nil
}

// DecodeSecret decodes a base58 application secret, and ensures it has enough
// key material.
func DecodeSecret(secret string) ([]byte, error) {
	if secret == "" {
		return nil, errors.New("empty secret")
	}

	data, err := base58.Decode(secret)
	if err != nil {
		return nil, fmt.Errorf("failed decoding secret: %w", err)
	}
	if len(data) < SecretSize {
		return nil, fmt.Errorf("secret is too short: %d bytes, need at least %d", len(data), SecretSize)
	}

	return data, nil
}
