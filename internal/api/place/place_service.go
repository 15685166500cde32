package place

import (
	"context"
	"log/slog"
	"math/rand"
	"slices"
	"time"

	"github.com/geulda/go-tour-recommendations/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service exposes catalog access plus purpose-aware category balancing.
type Service interface {
	FindPlacesWithinRadius(ctx context.Context, lat, lon, radiusKm float64) ([]types.Place, error)
	FindByKeyword(ctx context.Context, keyword string) ([]types.Place, error)
	GetAllVisiblePlaces(ctx context.Context) ([]types.Place, error)
	FindByIDs(ctx context.Context, ids []int64) ([]types.Place, error)
	SavePlace(ctx context.Context, p types.Place) (types.Place, error)
	SaveAllPlaces(ctx context.Context, places []types.Place) ([]types.Place, error)

	// FilterByPurpose balances a purpose-filtered candidate list across
	// categories using popularity-weighted random sampling. The result is
	// intentionally non-deterministic.
	FilterByPurpose(places []types.Place, purpose string) []types.Place
}

// Category priority per purpose; dating walks nature-first, everything else
// culture-first.
var (
	datingCategoryPriority  = []string{"자연", "문화시설", "카페", "음식점", "쇼핑", "기타"}
	defaultCategoryPriority = []string{"문화시설", "자연", "음식점", "카페", "쇼핑", "기타"}
)

const (
	perCategoryPoolCap = 10
	perCategoryQuota   = 3
)

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

func NewServiceImpl(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{logger: logger, repo: repo}
}

func (s *ServiceImpl) FindPlacesWithinRadius(ctx context.Context, lat, lon, radiusKm float64) ([]types.Place, error) {
	places, err := s.repo.FindWithinRadius(ctx, lat, lon, radiusKm)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to search places within radius", slog.Any("error", err))
		return nil, err
	}
	return places, nil
}

func (s *ServiceImpl) FindByKeyword(ctx context.Context, keyword string) ([]types.Place, error) {
	places, err := s.repo.FindByNameContaining(ctx, keyword)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to search places by keyword", slog.Any("error", err))
		return nil, err
	}
	return places, nil
}

func (s *ServiceImpl) GetAllVisiblePlaces(ctx context.Context) ([]types.Place, error) {
	places, err := s.repo.FindAllVisible(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load visible places", slog.Any("error", err))
		return nil, err
	}
	return places, nil
}

func (s *ServiceImpl) FindByIDs(ctx context.Context, ids []int64) ([]types.Place, error) {
	places, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load places by ids", slog.Any("error", err))
		return nil, err
	}
	return places, nil
}

func (s *ServiceImpl) SavePlace(ctx context.Context, p types.Place) (types.Place, error) {
	saved, err := s.repo.SavePlace(ctx, p)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to save place", slog.String("name", p.Name), slog.Any("error", err))
		return types.Place{}, err
	}
	return saved, nil
}

func (s *ServiceImpl) SaveAllPlaces(ctx context.Context, places []types.Place) ([]types.Place, error) {
	saved, err := s.repo.SaveAllPlaces(ctx, places)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to save places", slog.Int("count", len(places)), slog.Any("error", err))
		return nil, err
	}
	return saved, nil
}

// koreanPurpose maps the normalized English purpose to the Korean tag form
// stored in the catalog.
func koreanPurpose(purpose string) string {
	switch purpose {
	case "dating":
		return "데이트"
	case "family":
		return "가족"
	case "friendship":
		return "친구"
	case "foodie":
		return "식도락"
	default:
		return purpose
	}
}

func (s *ServiceImpl) FilterByPurpose(places []types.Place, purpose string) []types.Place {
	korean := koreanPurpose(purpose)

	priority := defaultCategoryPriority
	if purpose == "dating" || korean == "데이트" {
		priority = datingCategoryPriority
	}

	// Fresh source per call: concurrent recommendations never share state and
	// repeated calls never repeat a draw sequence.
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))

	result := make([]types.Place, 0, len(priority)*perCategoryQuota)
	for _, category := range priority {
		bucket := make([]types.Place, 0, perCategoryPoolCap)
		for _, p := range places {
			if matchesPurposeAndCategory(p, purpose, korean, category) {
				bucket = append(bucket, p)
				if len(bucket) >= perCategoryPoolCap {
					break
				}
			}
		}
		result = append(result, weightedRandomSample(bucket, perCategoryQuota, rnd)...)
	}
	return result
}

func matchesPurposeAndCategory(p types.Place, purpose, korean, category string) bool {
	if p.CategoryOrDefault() != category {
		return false
	}
	tags := p.PurposeTags()
	return slices.Contains(tags, purpose) || slices.Contains(tags, korean)
}

// popularityWeight is the 0.5 / 1.0 / 3.0 tier multiplier used for sampling.
func popularityWeight(score int) float64 {
	switch {
	case score < 40:
		return 0.5
	case score >= 70:
		return 3.0
	default:
		return 1.0
	}
}

// weightedRandomSample draws up to count places without replacement, each
// draw proportional to its popularity tier weight.
func weightedRandomSample(places []types.Place, count int, rnd *rand.Rand) []types.Place {
	if len(places) == 0 {
		return nil
	}
	if len(places) <= count {
		return slices.Clone(places)
	}

	type weighted struct {
		place  types.Place
		weight float64
	}
	remaining := make([]weighted, 0, len(places))
	totalWeight := 0.0
	for _, p := range places {
		w := popularityWeight(p.PopularityScore)
		remaining = append(remaining, weighted{place: p, weight: w})
		totalWeight += w
	}

	result := make([]types.Place, 0, count)
	for i := 0; i < count && len(remaining) > 0; i++ {
		draw := rnd.Float64() * totalWeight
		cumulative := 0.0
		chosen := len(remaining) - 1
		for j, wp := range remaining {
			cumulative += wp.weight
			if draw <= cumulative {
				chosen = j
				break
			}
		}
		result = append(result, remaining[chosen].place)
		totalWeight -= remaining[chosen].weight
		remaining = slices.Delete(remaining, chosen, chosen+1)
	}
	return result
}
