package secrets

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrEmptyAlphabet is returned when a password is requested from an empty character set.
var ErrEmptyAlphabet = errors.New("password alphabet is empty")

// RandomHex returns byteLength cryptographically random bytes, hex-encoded.
// The result is always 2*byteLength lowercase hexadecimal characters.
func RandomHex(byteLength int) (string, error) {
	if byteLength < 0 {
		return "", fmt.Errorf("negative byte length %d", byteLength)
	}
	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// RandomPassword draws length random bytes and maps each into alphabet by modulo.
// The alphabet is indexed by rune, so multi-byte characters are never split.
func RandomPassword(length int, alphabet string) (string, error) {
	symbols := []rune(alphabet)
	if len(symbols) == 0 {
		return "", ErrEmptyAlphabet
	}
	if length < 0 {
		return "", fmt.Errorf("negative password length %d", length)
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	out := make([]rune, length)
	for i, b := range buf {
		out[i] = symbols[int(b)%len(symbols)]
	}
	return string(out), nil
}
