package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/momentum-app/momentum-api/config"
	"github.com/momentum-app/momentum-api/internal/api"
)

// TokenIssuer mints and validates the access/refresh credential pair. Both
// tokens are self-contained JWTs; there is no revocation list, so a token is
// valid exactly until its TTL runs out or its signature fails.
type TokenIssuer struct {
	cfg config.JWTConfig
}

func NewTokenIssuer(cfg config.JWTConfig) *TokenIssuer {
	if cfg.SecretKey == "" || cfg.RefreshSecretKey == "" {
		panic("JWT secret keys cannot be empty")
	}
	return &TokenIssuer{cfg: cfg}
}

// Issue mints a new credential pair bound to the given user. The access
// token TTL is always shorter than the refresh token TTL.
func (t *TokenIssuer) Issue(userID uuid.UUID, username, email string) (string, string, error) {
	now := time.Now()

	accessClaims := &api.Claims{
		UserID:   userID.String(),
		Username: username,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    t.cfg.Issuer,
			Audience:  jwt.ClaimStrings{t.cfg.Audience},
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.cfg.AccessTokenTTL)),
		},
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString([]byte(t.cfg.SecretKey))
	if err != nil {
		return "", "", fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshClaims := &jwt.RegisteredClaims{
		Subject:   userID.String(),
		Issuer:    t.cfg.Issuer,
		Audience:  jwt.ClaimStrings{t.cfg.Audience},
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.cfg.RefreshTokenTTL)),
	}
	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString([]byte(t.cfg.RefreshSecretKey))
	if err != nil {
		return "", "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return access, refresh, nil
}

// ValidateAccess checks an access token and returns its claims. Malformed,
// expired, badly signed, or wrongly addressed tokens all fail with
// api.ErrUnauthenticated.
func (t *TokenIssuer) ValidateAccess(tokenString string) (*api.Claims, error) {
	claims := &api.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(t.cfg.SecretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("access token rejected (%v): %w", err, api.ErrUnauthenticated)
	}
	if !token.Valid {
		return nil, fmt.Errorf("access token invalid: %w", api.ErrUnauthenticated)
	}
	if claims.Issuer != t.cfg.Issuer {
		return nil, fmt.Errorf("access token issuer mismatch: %w", api.ErrUnauthenticated)
	}
	if !api.VerifyAudience(claims.Audience, t.cfg.Audience) {
		return nil, fmt.Errorf("access token audience mismatch: %w", api.ErrUnauthenticated)
	}
	return claims, nil
}

// ValidateRefresh checks a refresh token and returns the bound user id.
// Access tokens presented here fail the signature check because the two
// token kinds are signed with different secrets.
func (t *TokenIssuer) ValidateRefresh(tokenString string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(t.cfg.RefreshSecretKey), nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("refresh token rejected (%v): %w", err, api.ErrUnauthenticated)
	}
	if !token.Valid || claims.Issuer != t.cfg.Issuer {
		return uuid.Nil, fmt.Errorf("refresh token invalid: %w", api.ErrUnauthenticated)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("refresh token subject malformed: %w", api.ErrUnauthenticated)
	}
	return userID, nil
}
