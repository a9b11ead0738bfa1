package jwtauth

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/riskibarqy/sportdata-hub/internal/domain/user"
	"github.com/riskibarqy/sportdata-hub/internal/usecase"
)

const (
	claimSubject = "sub"
	claimUserID  = "user_id"
	claimEmail   = "email"
)

// Verifier validates HS256 bearer tokens locally and extracts the caller.
type Verifier struct {
	secret []byte
	issuer string
}

func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		issuer: strings.TrimSpace(issuer),
	}
}

func (v *Verifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}
	if len(v.secret) == 0 {
		return user.Principal{}, fmt.Errorf("%w: token verification is not configured", usecase.ErrUnauthorized)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return user.Principal{}, fmt.Errorf("%w: invalid token", usecase.ErrUnauthorized)
	}
	if v.issuer != "" && !claims.VerifyIssuer(v.issuer, true) {
		return user.Principal{}, fmt.Errorf("%w: unexpected issuer", usecase.ErrUnauthorized)
	}

	userID := stringClaim(claims, claimSubject)
	if userID == "" {
		userID = stringClaim(claims, claimUserID)
	}
	if userID == "" {
		return user.Principal{}, fmt.Errorf("%w: token has no subject", usecase.ErrUnauthorized)
	}

	return user.Principal{
		UserID: userID,
		Email:  stringClaim(claims, claimEmail),
	}, nil
}

// Sign issues a token for principal. It backs local tooling and tests.
func (v *Verifier) Sign(principal user.Principal, claims jwt.MapClaims) (string, error) {
	out := jwt.MapClaims{claimSubject: principal.UserID}
	if principal.Email != "" {
		out[claimEmail] = principal.Email
	}
	if v.issuer != "" {
		out["iss"] = v.issuer
	}
	for k, val := range claims {
		out[k] = val
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, out).SignedString(v.secret)
}

func stringClaim(claims jwt.MapClaims, name string) string {
	switch v := claims[name].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
	}
	return ""
}
