package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	token, err := GenerateToken("65f0c0ffee0000000000abcd", "secret", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token, "secret")
	require.NoError(t, err)
	require.Equal(t, "65f0c0ffee0000000000abcd", claims.UserID)
	require.Equal(t, "65f0c0ffee0000000000abcd", claims.Subject)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 2*time.Second)
}

func TestValidate_WrongSecret(t *testing.T) {
	token, err := GenerateToken("user", "secret", time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(token, "other")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Expired(t *testing.T) {
	token, err := GenerateToken("user", "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, "secret")
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidate_RejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{UserID: "user", RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = ValidateToken(token, "secret")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Garbage(t *testing.T) {
	_, err := ValidateToken("not.a.token", "secret")
	require.ErrorIs(t, err, ErrInvalidToken)
}
