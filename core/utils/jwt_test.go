package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken("secret", " Testy.Testerson@Gmail.com ", true, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateAndParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "testy.testerson@gmail.com", claims.Email)
	assert.True(t, claims.IsAdmin)
}

func TestValidateAndParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken("secret", "a@b.com", false, time.Hour)
	require.NoError(t, err)

	_, err = ValidateAndParseToken("other", token)
	assert.Error(t, err)
}

func TestValidateAndParseToken_Expired(t *testing.T) {
	token, err := GenerateToken("secret", "a@b.com", false, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateAndParseToken("secret", token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	assert.Len(t, a, 12)
	assert.NotEqual(t, a, b)
}
