package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentum-app/momentum-api/config"
	"github.com/momentum-app/momentum-api/internal/api"
)

func TestTokenIssuer(t *testing.T) {
	issuer := testIssuer()
	userID := uuid.New()

	t.Run("AccessRoundTrip", func(t *testing.T) {
		access, refresh, err := issuer.Issue(userID, "alice", "alice@example.com")
		require.NoError(t, err)
		require.NotEmpty(t, access)
		require.NotEmpty(t, refresh)

		claims, err := issuer.ValidateAccess(access)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.UserID)
		assert.Equal(t, "alice", claims.Username)
		assert.Equal(t, "alice@example.com", claims.Email)
		assert.Equal(t, "test-issuer", claims.Issuer)
	})

	t.Run("RefreshRoundTrip", func(t *testing.T) {
		_, refresh, err := issuer.Issue(userID, "alice", "alice@example.com")
		require.NoError(t, err)

		got, err := issuer.ValidateRefresh(refresh)
		require.NoError(t, err)
		assert.Equal(t, userID, got)
	})

	t.Run("CrossKindRejected", func(t *testing.T) {
		access, refresh, err := issuer.Issue(userID, "alice", "alice@example.com")
		require.NoError(t, err)

		// Signed with different secrets, so neither passes as the other.
		_, err = issuer.ValidateAccess(refresh)
		assert.ErrorIs(t, err, api.ErrUnauthenticated)

		_, err = issuer.ValidateRefresh(access)
		assert.ErrorIs(t, err, api.ErrUnauthenticated)
	})

	t.Run("ExpiredAccessRejected", func(t *testing.T) {
		expired := NewTokenIssuer(config.JWTConfig{
			SecretKey:        "test-access-secret",
			RefreshSecretKey: "test-refresh-secret",
			AccessTokenTTL:   -time.Minute,
			RefreshTokenTTL:  7 * 24 * time.Hour,
			Issuer:           "test-issuer",
			Audience:         "test-audience",
		})

		access, _, err := expired.Issue(userID, "alice", "alice@example.com")
		require.NoError(t, err)

		_, err = expired.ValidateAccess(access)
		assert.ErrorIs(t, err, api.ErrUnauthenticated)
	})

	t.Run("ForeignSignatureRejected", func(t *testing.T) {
		other := NewTokenIssuer(config.JWTConfig{
			SecretKey:        "some-other-secret",
			RefreshSecretKey: "some-other-refresh-secret",
			AccessTokenTTL:   15 * time.Minute,
			RefreshTokenTTL:  7 * 24 * time.Hour,
			Issuer:           "test-issuer",
			Audience:         "test-audience",
		})

		access, _, err := other.Issue(userID, "alice", "alice@example.com")
		require.NoError(t, err)

		_, err = issuer.ValidateAccess(access)
		assert.ErrorIs(t, err, api.ErrUnauthenticated)
	})

	t.Run("WrongIssuerRejected", func(t *testing.T) {
		other := NewTokenIssuer(config.JWTConfig{
			SecretKey:        "test-access-secret",
			RefreshSecretKey: "test-refresh-secret",
			AccessTokenTTL:   15 * time.Minute,
			RefreshTokenTTL:  7 * 24 * time.Hour,
			Issuer:           "someone-else",
			Audience:         "test-audience",
		})

		access, _, err := other.Issue(userID, "alice", "alice@example.com")
		require.NoError(t, err)

		_, err = issuer.ValidateAccess(access)
		assert.ErrorIs(t, err, api.ErrUnauthenticated)
	})

	t.Run("GarbageRejected", func(t *testing.T) {
		_, err := issuer.ValidateAccess("not-a-token")
		assert.ErrorIs(t, err, api.ErrUnauthenticated)

		_, err = issuer.ValidateRefresh("not-a-token")
		assert.ErrorIs(t, err, api.ErrUnauthenticated)
	})
}
