package jwtauth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/riskibarqy/sportdata-hub/internal/domain/user"
	"github.com/riskibarqy/sportdata-hub/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifier_RoundTrip(t *testing.T) {
	t.Parallel()

	v := NewVerifier("top-secret", "sportdata-hub")
	token, err := v.Sign(user.Principal{UserID: "u-1", Email: "a@b.c"}, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	got, err := v.VerifyAccessToken(t.Context(), token)
	require.NoError(t, err)
	assert.Equal(t, user.Principal{UserID: "u-1", Email: "a@b.c"}, got)
}

func TestVerifier_UserIDClaimFallback(t *testing.T) {
	t.Parallel()

	v := NewVerifier("top-secret", "")
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": float64(42)}).
		SignedString([]byte("top-secret"))
	require.NoError(t, err)

	got, err := v.VerifyAccessToken(t.Context(), token)
	require.NoError(t, err)
	assert.Equal(t, "42", got.UserID)
}

func TestVerifier_Rejects(t *testing.T) {
	t.Parallel()

	v := NewVerifier("top-secret", "sportdata-hub")
	other := NewVerifier("other-secret", "sportdata-hub")
	wrongIssuer := NewVerifier("top-secret", "someone-else")

	expired, err := v.Sign(user.Principal{UserID: "u-1"}, jwt.MapClaims{"exp": time.Now().Add(-time.Minute).Unix()})
	require.NoError(t, err)
	forged, err := other.Sign(user.Principal{UserID: "u-1"}, nil)
	require.NoError(t, err)
	foreign, err := wrongIssuer.Sign(user.Principal{UserID: "u-1"}, nil)
	require.NoError(t, err)
	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"iss": "sportdata-hub"}).
		SignedString([]byte("top-secret"))
	require.NoError(t, err)

	cases := map[string]string{
		"empty":      "  ",
		"garbage":    "not-a-jwt",
		"expired":    expired,
		"forged":     forged,
		"issuer":     foreign,
		"no subject": noSubject,
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := v.VerifyAccessToken(t.Context(), token)
			if !errors.Is(err, usecase.ErrUnauthorized) {
				t.Fatalf("expected unauthorized, got %v", err)
			}
		})
	}
}

func TestVerifier_Unconfigured(t *testing.T) {
	t.Parallel()

	_, err := NewVerifier("", "").VerifyAccessToken(t.Context(), "a.b.c")
	assert.ErrorIs(t, err, usecase.ErrUnauthorized)
}
