package recommendation

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/geulda/go-tour-recommendations/internal/types"
)

func newResolverFixture() (*MockPlaceService, *MockTextGenerator, *MustVisitResolver) {
	logger := slog.Default()
	mockPlaces := new(MockPlaceService)
	mockAI := new(MockTextGenerator)
	search := NewSearchService(mockPlaces, &stubIndex{}, logger)
	generator := NewPlaceGenerator(mockAI, mockPlaces, logger)
	resolver := NewMustVisitResolver(search, mockAI, generator, logger)
	return mockPlaces, mockAI, resolver
}

func TestResolveEmptyPhrase(t *testing.T) {
	_, _, resolver := newResolverFixture()
	pool := makePlaces(3, "카페")

	resolved, remaining := resolver.Resolve(context.Background(), "  ", pool)

	assert.Empty(t, resolved)
	assert.Equal(t, pool, remaining)
}

func TestResolveExactMatchInPool(t *testing.T) {
	_, _, resolver := newResolverFixture()
	pool := []types.Place{
		{ID: 1, Name: "서울랜드"},
		{ID: 2, Name: "롯데월드"},
	}

	resolved, remaining := resolver.Resolve(context.Background(), "롯데월드", pool)

	assert.Equal(t, []types.Place{{ID: 2, Name: "롯데월드"}}, resolved)
	assert.Equal(t, []types.Place{{ID: 1, Name: "서울랜드"}}, remaining)
}

func TestResolveExactPreemptsPartial(t *testing.T) {
	// A pool holding both "롯데월드" and "롯데월드 아쿠아리움" must resolve the
	// exact name, not the first partial hit.
	_, _, resolver := newResolverFixture()
	pool := []types.Place{
		{ID: 1, Name: "롯데월드 아쿠아리움"},
		{ID: 2, Name: "롯데월드"},
	}

	resolved, _ := resolver.Resolve(context.Background(), "롯데월드", pool)

	assert.Equal(t, int64(2), resolved[0].ID)
}

func TestResolvePartialMatchInPool(t *testing.T) {
	_, _, resolver := newResolverFixture()
	pool := []types.Place{
		{ID: 1, Name: "부천중앙공원"},
		{ID: 2, Name: "현대백화점 중동점"},
	}

	resolved, remaining := resolver.Resolve(context.Background(), "중앙공원", pool)

	assert.Equal(t, int64(1), resolved[0].ID)
	assert.Len(t, remaining, 1)
}

func TestResolveMultiRequestSearchesWholeCatalog(t *testing.T) {
	mockPlaces, _, resolver := newResolverFixture()
	pool := []types.Place{{ID: 9, Name: "부천중앙공원"}}

	catalog := []types.Place{
		{ID: 19, Name: "이스케이프룸 부천점"},
		{ID: 20, Name: "방탈출카페 신중동점"},
		{ID: 21, Name: "방탈출카페 상동점"},
	}
	mockPlaces.On("GetAllVisiblePlaces", mock.Anything).Return(catalog, nil).Once()

	resolved, remaining := resolver.Resolve(context.Background(), "방탈출 모두", pool)

	assert.Equal(t, []types.Place{catalog[1], catalog[2]}, resolved)
	// Resolved places were never in the radius pool, so the pool stays put.
	assert.Equal(t, pool, remaining)
	mockPlaces.AssertExpectations(t)
}

func TestResolveMultiRequestReturnsEveryMatch(t *testing.T) {
	// "all X" must return every matching catalog entry, not a capped page.
	mockPlaces, _, resolver := newResolverFixture()
	pool := []types.Place{{ID: 9, Name: "부천중앙공원"}}

	catalog := []types.Place{{ID: 100, Name: "부천자연생태공원"}}
	for i := 1; i <= 7; i++ {
		catalog = append(catalog, types.Place{ID: int64(i), Name: fmt.Sprintf("방탈출카페 %d호점", i)})
	}
	mockPlaces.On("GetAllVisiblePlaces", mock.Anything).Return(catalog, nil).Once()

	resolved, _ := resolver.Resolve(context.Background(), "방탈출 모두", pool)

	assert.Len(t, resolved, 7)
	mockPlaces.AssertExpectations(t)
}

func TestResolveExactInCatalog(t *testing.T) {
	mockPlaces, _, resolver := newResolverFixture()
	pool := []types.Place{{ID: 1, Name: "부천중앙공원"}}

	mockPlaces.On("GetAllVisiblePlaces", mock.Anything).
		Return([]types.Place{{ID: 29, Name: "웅진플레이도시"}, {ID: 30, Name: "아인스월드"}}, nil).Once()

	resolved, _ := resolver.Resolve(context.Background(), "아인스월드", pool)

	assert.Equal(t, int64(30), resolved[0].ID)
}

func TestResolveExactInCatalogNotShadowedByPopularNames(t *testing.T) {
	// An exact name match must win even when many more popular places contain
	// the phrase as a substring.
	mockPlaces, _, resolver := newResolverFixture()
	pool := []types.Place{{ID: 1, Name: "부천중앙공원"}}

	catalog := make([]types.Place, 0, 6)
	for i := 1; i <= 5; i++ {
		catalog = append(catalog, types.Place{
			ID: int64(i), Name: fmt.Sprintf("아인스월드 별관%d", i), PopularityScore: 90,
		})
	}
	catalog = append(catalog, types.Place{ID: 30, Name: "아인스월드", PopularityScore: 10})
	mockPlaces.On("GetAllVisiblePlaces", mock.Anything).Return(catalog, nil).Once()

	resolved, _ := resolver.Resolve(context.Background(), "아인스월드", pool)

	assert.Equal(t, int64(30), resolved[0].ID)
	mockPlaces.AssertExpectations(t)
}

func TestResolveAIContextSelection(t *testing.T) {
	mockPlaces, mockAI, resolver := newResolverFixture()
	pool := []types.Place{{ID: 1, Name: "부천중앙공원"}}
	catalog := []types.Place{
		{ID: 1, Name: "부천중앙공원"},
		{ID: 40, Name: "웅진플레이도시"},
	}

	// No exact name in the catalog, then the model picks id 40 from it.
	mockPlaces.On("GetAllVisiblePlaces", mock.Anything).Return(catalog, nil).Once()
	mockAI.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return(`{"placeId": 40, "reason": "실내 워터파크 시설"}`, nil).Once()

	resolved, _ := resolver.Resolve(context.Background(), "실내 워터파크", pool)

	assert.Equal(t, int64(40), resolved[0].ID)
	mockAI.AssertExpectations(t)
}

func TestResolveSemanticRelevanceRejection(t *testing.T) {
	logger := slog.Default()
	mockPlaces := new(MockPlaceService)
	mockAI := new(MockTextGenerator)
	semanticHit := []types.Place{{ID: 50, Name: "부천시립박물관", Category: "문화시설"}}
	search := NewSearchService(mockPlaces, &stubIndex{hits: semanticHit}, logger)
	generator := NewPlaceGenerator(mockAI, mockPlaces, logger)
	resolver := NewMustVisitResolver(search, mockAI, generator, logger)

	pool := []types.Place{{ID: 1, Name: "부천중앙공원"}}

	mockPlaces.On("GetAllVisiblePlaces", mock.Anything).Return([]types.Place{}, nil).Once()
	// Relevance check answers false, synthesis then fails too.
	mockAI.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return("false", nil).Once()
	mockAI.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return("", assert.AnError).Once()

	resolved, remaining := resolver.Resolve(context.Background(), "스카이다이빙", pool)

	assert.Empty(t, resolved)
	assert.Equal(t, pool, remaining)
}

func TestResolveSemanticRelevanceAccepted(t *testing.T) {
	logger := slog.Default()
	mockPlaces := new(MockPlaceService)
	mockAI := new(MockTextGenerator)
	semanticHit := []types.Place{{ID: 50, Name: "부천시립박물관", Category: "문화시설"}}
	search := NewSearchService(mockPlaces, &stubIndex{hits: semanticHit}, logger)
	generator := NewPlaceGenerator(mockAI, mockPlaces, logger)
	resolver := NewMustVisitResolver(search, mockAI, generator, logger)

	pool := []types.Place{{ID: 1, Name: "부천중앙공원"}}

	mockPlaces.On("GetAllVisiblePlaces", mock.Anything).Return([]types.Place{}, nil).Once()
	mockAI.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return("True", nil).Once()

	resolved, _ := resolver.Resolve(context.Background(), "박물관 관람", pool)

	assert.Equal(t, int64(50), resolved[0].ID)
}

func TestResolveSynthesisLastResort(t *testing.T) {
	mockPlaces, mockAI, resolver := newResolverFixture()
	pool := []types.Place{{ID: 1, Name: "부천중앙공원"}}

	// The semantic stage falls back to a keyword search when the index is empty.
	mockPlaces.On("FindByKeyword", mock.Anything, "글램핑").Return([]types.Place{}, nil).Once()
	mockPlaces.On("GetAllVisiblePlaces", mock.Anything).Return([]types.Place{}, nil).Once()
	mockAI.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return(`{"places": [{"name": "부천글램핑장", "address": "부천시 오정구", "latitude": 37.52, "longitude": 126.79, "description": "도심 글램핑", "category": "자연", "tourPurposeTags": "친구,가족"}]}`, nil).Once()

	saved := []types.Place{{ID: 60, Name: "부천글램핑장", Address: "부천시 오정구", Category: "자연"}}
	mockPlaces.On("SaveAllPlaces", mock.Anything, mock.Anything).Return(saved, nil).Once()

	resolved, _ := resolver.Resolve(context.Background(), "글램핑", pool)

	assert.Equal(t, int64(60), resolved[0].ID)
	mockPlaces.AssertExpectations(t)
}
