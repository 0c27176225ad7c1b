package auth

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	issuer := testIssuer()
	middleware := Authenticate(slog.Default(), issuer)

	var gotUserID uuid.UUID
	var handlerRan bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerRan = true
		gotUserID, _ = GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	run := func(authHeader string) *httptest.ResponseRecorder {
		handlerRan = false
		req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		rr := httptest.NewRecorder()
		middleware(next).ServeHTTP(rr, req)
		return rr
	}

	t.Run("ValidToken", func(t *testing.T) {
		userID := uuid.New()
		access, _, err := issuer.Issue(userID, "alice", "alice@example.com")
		require.NoError(t, err)

		rr := run("Bearer " + access)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, handlerRan)
		assert.Equal(t, userID, gotUserID)
	})

	t.Run("MissingHeader", func(t *testing.T) {
		rr := run("")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.False(t, handlerRan)
	})

	t.Run("MalformedHeader", func(t *testing.T) {
		rr := run("Token abc")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.False(t, handlerRan)
	})

	t.Run("GarbageToken", func(t *testing.T) {
		rr := run("Bearer not-a-token")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.False(t, handlerRan)
	})

	t.Run("RefreshTokenRejected", func(t *testing.T) {
		_, refresh, err := issuer.Issue(uuid.New(), "alice", "alice@example.com")
		require.NoError(t, err)

		rr := run("Bearer " + refresh)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.False(t, handlerRan)
	})
}
