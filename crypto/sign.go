package crypto

import (
	"crypto/hmac"
	"crypto/sha512"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// MACSize is the size in bytes of a message authentication code produced by
// Signer.
const MACSize = sha512.Size256

// Signer authenticates messages with HMAC-SHA512/256. Its key is derived from
// an application secret for a single purpose, so that a MAC produced for one
// purpose is never valid for another.
type Signer struct {
	key *[32]byte
}

// NewSigner returns a Signer whose key is derived from secret and purpose.
func NewSigner(secret []byte, purpose string) (*Signer, error) {
	key, err := DeriveHMACKey(secret, []byte(purpose))
	if err != nil {
		return nil, err
	}

	return &Signer{key: key}, nil
}

// Sign returns the MAC of data.
func (s *Signer) Sign(data []byte) []byte {
	return GenerateHMAC(data, s.key)
}

// Verify reports whether mac is a valid MAC of data. The comparison is done in
// constant time.
func (s *Signer) Verify(data, mac []byte) bool {
	return CheckHMAC(data, mac, s.key)
}

// GenerateHMAC produces a symmetric signature using a shared secret key.
func GenerateHMAC(data []byte, key *[32]byte) []byte {
	h := hmac.New(sha512.New512_256, key[:])
	h.Write(data)
	return h.Sum(nil)
}

// CheckHMAC securely checks the supplied MAC against a message using the
// shared secret key.
func CheckHMAC(data, suppliedMAC []byte, key *[32]byte) bool {
	return hmac.Equal(GenerateHMAC(data, key), suppliedMAC)
}

// DeriveHMACKey derives a 256-bit HMAC key from a secret using
// HKDF-SHA512/256. The info parameter separates keys derived from the same
// secret.
func DeriveHMACKey(secret, info []byte) (*[32]byte, error) {
	r := hkdf.New(sha512.New512_256, secret, nil, info)

	key := &[32]byte{}
	if _, err := io.ReadFull(r, key[:]); err != nil {
		return nil, fmt.Errorf("failed deriving key: %w", err)
	}

	return key, nil
}
