package recommendation

import (
	"context"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/geulda/go-tour-recommendations/internal/api/place"
	"github.com/geulda/go-tour-recommendations/internal/api/vectorstore"
	"github.com/geulda/go-tour-recommendations/internal/types"
)

const (
	radiusResultLimit   = 10
	keywordResultLimit  = 5
	fallbackResultLimit = 10
	minAcceptableHits   = 3
	semanticTopK        = 3

	visibleCatalogCacheKey = "catalog:visible"
)

// SearchService is the geo/keyword/semantic search gateway. It owns the
// fallback-widening policy; callers never talk to the catalog or the vector
// index directly.
type SearchService struct {
	places place.Service
	index  vectorstore.Index
	logger *slog.Logger
	cache  *gocache.Cache
}

func NewSearchService(places place.Service, index vectorstore.Index, logger *slog.Logger) *SearchService {
	return &SearchService{
		places: places,
		index:  index,
		logger: logger,
		cache:  gocache.New(30*time.Second, time.Minute),
	}
}

// Search runs a radius query and, when a purpose is given, balances the hits
// across categories. At most radiusResultLimit entries come back, popularity
// order preserved within the balancing buckets.
func (s *SearchService) Search(ctx context.Context, lat, lon, radiusKm float64, purpose string) ([]types.Place, error) {
	hits, err := s.places.FindPlacesWithinRadius(ctx, lat, lon, radiusKm)
	if err != nil {
		return nil, err
	}
	if purpose != "" {
		hits = s.places.FilterByPurpose(hits, purpose)
	}
	if len(hits) > radiusResultLimit {
		hits = hits[:radiusResultLimit]
	}
	return hits, nil
}

// SearchWithFallback escalates when the primary search came up short:
// double radius keeping the purpose filter, then double radius without it,
// then an arbitrary slice of the visible catalog.
func (s *SearchService) SearchWithFallback(ctx context.Context, lat, lon, radiusKm float64, purpose string) ([]types.Place, error) {
	s.logger.DebugContext(ctx, "widening search radius",
		slog.Float64("from_km", radiusKm), slog.Float64("to_km", radiusKm*2))

	hits, err := s.Search(ctx, lat, lon, radiusKm*2, purpose)
	if err != nil {
		return nil, err
	}
	if len(hits) >= minAcceptableHits {
		s.logger.DebugContext(ctx, "widened radius found enough places", slog.Int("count", len(hits)))
		return hits, nil
	}

	s.logger.DebugContext(ctx, "dropping purpose filter")
	hits, err = s.Search(ctx, lat, lon, radiusKm*2, "")
	if err != nil {
		return nil, err
	}
	if len(hits) >= minAcceptableHits {
		s.logger.DebugContext(ctx, "unfiltered search found enough places", slog.Int("count", len(hits)))
		return hits, nil
	}

	s.logger.DebugContext(ctx, "falling back to whole visible catalog")
	all, err := s.AllVisible(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) > fallbackResultLimit {
		all = all[:fallbackResultLimit]
	}
	return all, nil
}

// SearchByKeyword substring-matches visible catalog entries by name.
func (s *SearchService) SearchByKeyword(ctx context.Context, keyword string) ([]types.Place, error) {
	hits, err := s.places.FindByKeyword(ctx, keyword)
	if err != nil {
		return nil, err
	}
	if len(hits) > keywordResultLimit {
		hits = hits[:keywordResultLimit]
	}
	return hits, nil
}

// SearchSemantic queries the vector index and never returns an error: an
// unavailable or empty index degrades to a keyword search, and a failure
// there degrades to no results.
func (s *SearchService) SearchSemantic(ctx context.Context, query string) []types.Place {
	hits := s.index.SimilaritySearch(ctx, query, semanticTopK)
	if len(hits) > 0 {
		return hits
	}

	s.logger.DebugContext(ctx, "semantic search empty, trying keyword search", slog.String("query", query))
	hits, err := s.SearchByKeyword(ctx, query)
	if err != nil {
		s.logger.WarnContext(ctx, "keyword fallback for semantic search failed", slog.Any("error", err))
		return nil
	}
	return hits
}

// AllVisible returns the visible catalog, cached briefly since the resolver
// and fallback path may hit it several times within one request.
func (s *SearchService) AllVisible(ctx context.Context) ([]types.Place, error) {
	if cached, ok := s.cache.Get(visibleCatalogCacheKey); ok {
		return cached.([]types.Place), nil
	}
	all, err := s.places.GetAllVisiblePlaces(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(visibleCatalogCacheKey, all, gocache.DefaultExpiration)
	return all, nil
}
