package secrets

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexPattern = regexp.MustCompile(`^[0-9a-f]*$`)

func TestRandomHex(t *testing.T) {
	for _, n := range []int{0, 1, 6, 16, 32} {
		got, err := RandomHex(n)
		require.NoError(t, err)
		assert.Len(t, got, 2*n)
		assert.Regexp(t, hexPattern, got)
	}
}

func TestRandomHex_SuccessiveCallsDiffer(t *testing.T) {
	a, err := RandomHex(16)
	require.NoError(t, err)
	b, err := RandomHex(16)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestRandomHex_NegativeLength(t *testing.T) {
	_, err := RandomHex(-1)
	assert.Error(t, err)
}

func TestRandomPassword(t *testing.T) {
	tests := []struct {
		name     string
		length   int
		alphabet string
	}{
		{"default alphabet", 20, "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz!@#$%^&*()+_-=}{[]|:;\"/?.><,`~"},
		{"single symbol", 8, "x"},
		{"multi-byte symbols", 12, "äöü€"},
		{"zero length", 0, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RandomPassword(tt.length, tt.alphabet)
			require.NoError(t, err)

			runes := []rune(got)
			assert.Len(t, runes, tt.length)
			for _, r := range runes {
				assert.True(t, strings.ContainsRune(tt.alphabet, r), "rune %q not in alphabet", r)
			}
		})
	}
}

func TestRandomPassword_EmptyAlphabet(t *testing.T) {
	_, err := RandomPassword(10, "")
	assert.ErrorIs(t, err, ErrEmptyAlphabet)
}
