package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResponseToken_RoundTrip(t *testing.T) {
	issuedAt := time.Date(2025, 6, 10, 12, 30, 0, 0, time.UTC)

	encoded := EncodeResponseToken("a-1", "v-1", issuedAt)
	decoded, err := DecodeResponseToken(encoded)

	assert.NoError(t, err)
	assert.Equal(t, "a-1", decoded.AssignmentID)
	assert.Equal(t, "v-1", decoded.VolunteerID)
	assert.Equal(t, issuedAt.UnixMilli(), decoded.IssuedAt.UnixMilli())
}

func TestDecodeResponseToken_Malformed(t *testing.T) {
	cases := map[string]string{
		"not base64":       "%%%",
		"too few fields":   "YS0xOnYtMQ==",     // a-1:v-1
		"bad timestamp":    "YS0xOnYtMTpub3c=", // a-1:v-1:now
		"empty assignment": "OnYtMToxMjM=",     // :v-1:123
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeResponseToken(token)
			assert.ErrorIs(t, err, ErrMalformedResponseToken)
		})
	}
}

func TestTokenManager_RoundTrip(t *testing.T) {
	mgr := NewTokenManager("0123456789abcdef0123456789abcdef", 60)

	token, err := mgr.GenerateAccessToken("v-1", "ada@test.com")
	assert.NoError(t, err)

	claims, err := mgr.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "v-1", claims.VolunteerID)
	assert.Equal(t, "ada@test.com", claims.Email)
}

func TestTokenManager_RejectsForeignSignature(t *testing.T) {
	mgr := NewTokenManager("0123456789abcdef0123456789abcdef", 60)
	other := NewTokenManager("another-secret-another-secret-32", 60)

	token, err := other.GenerateAccessToken("v-1", "ada@test.com")
	assert.NoError(t, err)

	_, err = mgr.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
