package food

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/momentum-app/momentum-api/app/observability/metrics"
	"github.com/momentum-app/momentum-api/config"
	"github.com/momentum-app/momentum-api/internal/api"
)

var _ FoodService = (*FoodServiceImpl)(nil)

// FoodService proxies nutrition lookups to the upstream provider.
type FoodService interface {
	// Search returns nutrition facts for a free-text food query. One
	// upstream attempt per call; any upstream problem is ErrUpstream.
	Search(ctx context.Context, query string) ([]FoodItem, error)
}

type FoodServiceImpl struct {
	logger *slog.Logger
	cfg    config.NutritionConfig
	client *http.Client
	cache  *cache.Cache
}

func NewFoodService(cfg config.NutritionConfig, logger *slog.Logger) *FoodServiceImpl {
	return &FoodServiceImpl{
		logger: logger,
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		cache:  cache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
	}
}

// Search consults the per-query cache first so repeated lookups inside the
// TTL window cost nothing upstream.
func (s *FoodServiceImpl) Search(ctx context.Context, query string) ([]FoodItem, error) {
	l := s.logger.With(slog.String("method", "Search"), slog.String("query", query))

	cacheKey := strings.ToLower(strings.TrimSpace(query))
	if cached, found := s.cache.Get(cacheKey); found {
		metrics.Get().FoodLookupsTotal.Add(ctx, 1,
			metric.WithAttributes(attribute.String("outcome", "cache_hit")))
		return cached.([]FoodItem), nil
	}

	items, err := s.fetchUpstream(ctx, query)
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	metrics.Get().FoodLookupsTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("outcome", outcome)))

	if err != nil {
		l.WarnContext(ctx, "Upstream food lookup failed", slog.Any("error", err))
		return nil, err
	}

	s.cache.Set(cacheKey, items, cache.DefaultExpiration)
	return items, nil
}

func (s *FoodServiceImpl) fetchUpstream(ctx context.Context, query string) ([]FoodItem, error) {
	endpoint := fmt.Sprintf("%s/v1/nutrition?query=%s",
		strings.TrimRight(s.cfg.BaseURL, "/"), url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build nutrition request: %w", err)
	}
	req.Header.Set("X-Api-Key", s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nutrition request failed: %w", api.ErrUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("nutrition provider returned status %d: %w", resp.StatusCode, api.ErrUpstream)
	}

	var upstream upstreamResponse
	if err := json.NewDecoder(resp.Body).Decode(&upstream); err != nil {
		return nil, fmt.Errorf("failed to decode nutrition response: %w", api.ErrUpstream)
	}

	items := upstream.Items
	if items == nil {
		items = []FoodItem{}
	}
	for i := range items {
		items[i].Source = "api"
	}
	return items, nil
}
