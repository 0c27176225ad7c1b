package food

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentum-app/momentum-api/config"
	"github.com/momentum-app/momentum-api/internal/api"
)

func newTestService(t *testing.T, upstream http.HandlerFunc) (*FoodServiceImpl, *atomic.Int64) {
	t.Helper()
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		upstream(w, r)
	}))
	t.Cleanup(srv.Close)

	svc := NewFoodService(config.NutritionConfig{
		BaseURL:  srv.URL,
		APIKey:   "test-key",
		Timeout:  2 * time.Second,
		CacheTTL: time.Minute,
	}, slog.Default())
	return svc, &calls
}

func TestSearch(t *testing.T) {
	t.Run("TagsResultsWithApiSource", func(t *testing.T) {
		svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
			assert.Equal(t, "/v1/nutrition", r.URL.Path)
			assert.Equal(t, "chicken breast", r.URL.Query().Get("query"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"items":[{"name":"chicken breast","calories":165,"protein_g":31}]}`))
		})

		items, err := svc.Search(context.Background(), "chicken breast")

		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "chicken breast", items[0].Name)
		assert.Equal(t, "api", items[0].Source)
	})

	t.Run("CacheHitSkipsUpstream", func(t *testing.T) {
		svc, calls := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"items":[{"name":"oats","calories":389}]}`))
		})

		_, err := svc.Search(context.Background(), "oats")
		require.NoError(t, err)

		// Same query, different casing and padding, inside the TTL window.
		items, err := svc.Search(context.Background(), "  Oats ")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, int64(1), calls.Load())
	})

	t.Run("UpstreamErrorIsNotCached", func(t *testing.T) {
		var failing atomic.Bool
		failing.Store(true)
		svc, calls := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			if failing.Load() {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Write([]byte(`{"items":[]}`))
		})

		_, err := svc.Search(context.Background(), "banana")
		assert.ErrorIs(t, err, api.ErrUpstream)

		failing.Store(false)
		_, err = svc.Search(context.Background(), "banana")
		assert.NoError(t, err)
		assert.Equal(t, int64(2), calls.Load())
	})

	t.Run("Upstream4xxIsUpstreamError", func(t *testing.T) {
		svc, calls := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		items, err := svc.Search(context.Background(), "apple")

		assert.Nil(t, items)
		assert.ErrorIs(t, err, api.ErrUpstream)
		// One attempt only, no retry.
		assert.Equal(t, int64(1), calls.Load())
	})

	t.Run("TransportFailureIsUpstreamError", func(t *testing.T) {
		svc := NewFoodService(config.NutritionConfig{
			BaseURL:  "http://127.0.0.1:1",
			APIKey:   "test-key",
			Timeout:  500 * time.Millisecond,
			CacheTTL: time.Minute,
		}, slog.Default())

		_, err := svc.Search(context.Background(), "apple")
		assert.ErrorIs(t, err, api.ErrUpstream)
	})

	t.Run("EmptyUpstreamItemsIsEmptySlice", func(t *testing.T) {
		svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"items":[]}`))
		})

		items, err := svc.Search(context.Background(), "nothing")
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})
}
