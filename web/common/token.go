// Package common contains the signed token envelope shared by the
// authentication and CSRF protection packages.
package common

import (
	"errors"
	"fmt"

	"github.com/mr-tron/base58"

	"go.hackfix.me/weave/crypto"
)

// ErrInvalidToken is returned when a token signature doesn't match its payload,
// or the token is too short to contain one.
var ErrInvalidToken = errors.New("invalid token")

// EncodeToken signs payload and encodes it together with its MAC as a base58
// string.
func EncodeToken(payload []byte, signer *crypto.Signer) string {
	data := make([]byte, 0, len(payload)+crypto.MACSize)
	data = append(data, payload...)
	data = append(data, signer.Sign(payload)...)

	return base58.Encode(data)
}

// DecodeToken parses the given token string, verifies its MAC, and returns the
// signed payload.
func DecodeToken(token string, signer *crypto.Signer) ([]byte, error) {
	if len(token) == 0 {
		return nil, errors.New("empty token")
	}

	data, err := base58.Decode(token)
	if err != nil {
		return nil, fmt.Errorf("failed decoding token: %w", err)
	}
	if len(data) <= crypto.MACSize {
		return nil, ErrInvalidToken
	}

	payload, mac := data[:len(data)-crypto.MACSize], data[len(data)-crypto.MACSize:]
	if !signer.Verify(payload, mac) {
		return nil, ErrInvalidToken
	}

	return payload, nil
}
