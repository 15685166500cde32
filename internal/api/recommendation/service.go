package recommendation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/geulda/go-tour-recommendations/internal/types"
)

// Default origin: Bucheon city hall area, used when the client sends no
// coordinates.
const (
	defaultOriginLatitude  = 37.4974496
	defaultOriginLongitude = 126.8007892
)

// Pools thinner than this get padded with synthesized places up to padTarget
// before selection runs.
const (
	thinPoolThreshold = 3
	padTarget         = 5
)

const noPlacesSuggestion = "검색 반경을 넓히거나, 여행 목적을 바꾸거나, 위치 정보를 확인해 주세요."

// Service is the recommendation pipeline entry point.
type Service interface {
	Recommend(ctx context.Context, requesterID string, req types.RecommendRequest) (types.RecommendResponse, error)
	GetSession(ctx context.Context, sessionID string) (types.SessionRecord, error)
}

type ServiceImpl struct {
	search    *SearchService
	mustVisit *MustVisitResolver
	selector  *PlaceSelector
	generator *PlaceGenerator
	sessions  SessionStore
	logger    *slog.Logger
}

var _ Service = (*ServiceImpl)(nil)

func NewServiceImpl(search *SearchService, mustVisit *MustVisitResolver, selector *PlaceSelector, generator *PlaceGenerator, sessions SessionStore, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		search:    search,
		mustVisit: mustVisit,
		selector:  selector,
		generator: generator,
		sessions:  sessions,
		logger:    logger,
	}
}

// Recommend runs the full pipeline: search, fallback widening, AI padding,
// exclusion filtering, must-visit resolution, selection, session persistence.
// Unclassified failures (including panics from collaborator clients) come
// back as ErrAIService so the caller can retry.
func (s *ServiceImpl) Recommend(ctx context.Context, requesterID string, req types.RecommendRequest) (resp types.RecommendResponse, err error) {
	ctx, span := otel.Tracer("RecommendationService").Start(ctx, "Recommend")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "recommendation pipeline panicked", slog.Any("panic", r))
			span.SetStatus(codes.Error, "pipeline panic")
			resp = types.RecommendResponse{}
			err = fmt.Errorf("%w: %v", types.ErrAIService, r)
		}
	}()

	lat, lon := req.UserLatitude, req.UserLongitude
	if lat == 0 && lon == 0 {
		lat, lon = defaultOriginLatitude, defaultOriginLongitude
		s.logger.DebugContext(ctx, "no coordinates in request, using default origin")
	}

	purpose := normalizePurpose(req.TravelPurpose)
	transportation := normalizeTransportation(req.Transportation)
	radiusKm := radiusForTransportation(transportation)
	span.SetAttributes(
		attribute.String("recommend.purpose", purpose),
		attribute.String("recommend.transportation", transportation),
		attribute.Float64("recommend.radius_km", radiusKm),
	)

	pool, err := s.search.Search(ctx, lat, lon, radiusKm, purpose)
	if err != nil {
		span.RecordError(err)
		return types.RecommendResponse{}, fmt.Errorf("radius search: %w", err)
	}
	if len(pool) < thinPoolThreshold {
		pool, err = s.search.SearchWithFallback(ctx, lat, lon, radiusKm, purpose)
		if err != nil {
			span.RecordError(err)
			return types.RecommendResponse{}, fmt.Errorf("fallback search: %w", err)
		}
	}
	if len(pool) < thinPoolThreshold {
		s.logger.InfoContext(ctx, "padding thin candidate pool with synthesized places",
			slog.Int("pool_size", len(pool)))
		generated := s.generator.GeneratePlacesNearby(ctx, lat, lon, purpose, transportation, padTarget-len(pool))
		pool = appendUnique(pool, generated)
	}
	if len(pool) == 0 {
		span.SetStatus(codes.Error, "no candidates")
		return types.RecommendResponse{}, fmt.Errorf("%w: %s", types.ErrNoPlacesFound, noPlacesSuggestion)
	}

	parsed := ParseUserRequest(req.MustVisitPlace)
	pool = filterExcludedCategories(pool, parsed.ExcludeCategories)
	if len(pool) == 0 {
		span.SetStatus(codes.Error, "exclusion emptied pool")
		return types.RecommendResponse{}, fmt.Errorf("%w: %s", types.ErrNoPlacesFound, noPlacesSuggestion)
	}

	mustVisit, pool := s.mustVisit.Resolve(ctx, parsed.CleanedMustVisitPlace, pool)

	selected := s.selector.SelectBestPlaces(ctx, mustVisit, pool, purpose, transportation, req.StayDuration, parsed.PlaceCount)
	if len(selected) == 0 {
		span.SetStatus(codes.Error, "selection empty")
		return types.RecommendResponse{}, fmt.Errorf("%w: %s", types.ErrNoPlacesFound, noPlacesSuggestion)
	}

	details := toPlaceDetails(selected)
	record := types.SessionRecord{
		RequesterID:    requesterID,
		Places:         details,
		CreatedAt:      time.Now().UTC(),
		TravelPurpose:  req.TravelPurpose,
		StayDuration:   req.StayDuration,
		Transportation: req.Transportation,
	}
	sessionID, err := s.sessions.Save(ctx, record)
	if err != nil {
		span.RecordError(err)
		return types.RecommendResponse{}, fmt.Errorf("%w: persist session: %v", types.ErrAIService, err)
	}

	span.SetAttributes(attribute.Int("recommend.place_count", len(details)))
	return types.RecommendResponse{
		SessionID:     sessionID,
		Places:        details,
		RouteSummary:  buildRouteSummary(transportation, purpose, len(details)),
		TotalDistance: totalRouteDistance(details, lat, lon),
	}, nil
}

func (s *ServiceImpl) GetSession(ctx context.Context, sessionID string) (types.SessionRecord, error) {
	ctx, span := otel.Tracer("RecommendationService").Start(ctx, "GetSession")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", sessionID))

	record, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		span.RecordError(err)
		return types.SessionRecord{}, err
	}
	return record, nil
}

// buildRouteSummary renders e.g. "자동차로 4곳을 방문하는 데이트 코스".
func buildRouteSummary(transportation, purpose string, count int) string {
	return fmt.Sprintf("%s로 %d곳을 방문하는 %s 코스",
		translateTransportation(transportation), count, translatePurpose(purpose))
}

// filterExcludedCategories drops places whose category matches an excluded
// one in either substring direction, so "카페" excludes both "카페" and
// "북카페" rows.
func filterExcludedCategories(pool []types.Place, excluded []string) []types.Place {
	if len(excluded) == 0 {
		return pool
	}
	kept := make([]types.Place, 0, len(pool))
	for _, p := range pool {
		category := p.CategoryOrDefault()
		banned := false
		for _, ex := range excluded {
			if strings.Contains(category, ex) || strings.Contains(ex, category) {
				banned = true
				break
			}
		}
		if !banned {
			kept = append(kept, p)
		}
	}
	return kept
}

// appendUnique merges synthesized places into the pool, skipping entries the
// pool already holds under the same name and address.
func appendUnique(pool, extra []types.Place) []types.Place {
	seen := make(map[string]struct{}, len(pool))
	for _, p := range pool {
		seen[p.Name+"|"+p.Address] = struct{}{}
	}
	for _, p := range extra {
		key := p.Name + "|" + p.Address
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		pool = append(pool, p)
	}
	return pool
}

func toPlaceDetails(places []types.Place) []types.PlaceDetail {
	details := make([]types.PlaceDetail, 0, len(places))
	for _, p := range places {
		details = append(details, types.PlaceDetail{
			PlaceID:     p.ID,
			Name:        p.Name,
			Address:     p.Address,
			Latitude:    p.Latitude,
			Longitude:   p.Longitude,
			Description: p.Description,
			PlaceImg:    p.PlaceImg,
		})
	}
	return details
}
