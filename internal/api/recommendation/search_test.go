package recommendation

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/geulda/go-tour-recommendations/internal/types"
)

func makePlaces(n int, category string) []types.Place {
	places := make([]types.Place, 0, n)
	for i := 0; i < n; i++ {
		places = append(places, types.Place{
			ID:       int64(i + 1),
			Name:     fmt.Sprintf("장소%d", i+1),
			Address:  fmt.Sprintf("부천시 %d번길", i+1),
			Category: category,
		})
	}
	return places
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("BalancesWhenPurposeGiven", func(t *testing.T) {
		mockPlaces := new(MockPlaceService)
		svc := NewSearchService(mockPlaces, &stubIndex{}, logger)

		hits := makePlaces(4, "카페")
		mockPlaces.On("FindPlacesWithinRadius", ctx, 37.5, 126.8, 3.0).Return(hits, nil).Once()
		mockPlaces.On("FilterByPurpose", hits, "dating").Return(hits[:2]).Once()

		got, err := svc.Search(ctx, 37.5, 126.8, 3.0, "dating")

		require.NoError(t, err)
		assert.Len(t, got, 2)
		mockPlaces.AssertExpectations(t)
	})

	t.Run("SkipsBalancingWithoutPurpose", func(t *testing.T) {
		mockPlaces := new(MockPlaceService)
		svc := NewSearchService(mockPlaces, &stubIndex{}, logger)

		hits := makePlaces(4, "카페")
		mockPlaces.On("FindPlacesWithinRadius", ctx, 37.5, 126.8, 3.0).Return(hits, nil).Once()

		got, err := svc.Search(ctx, 37.5, 126.8, 3.0, "")

		require.NoError(t, err)
		assert.Len(t, got, 4)
		mockPlaces.AssertNotCalled(t, "FilterByPurpose", mock.Anything, mock.Anything)
	})

	t.Run("CapsAtResultLimit", func(t *testing.T) {
		mockPlaces := new(MockPlaceService)
		svc := NewSearchService(mockPlaces, &stubIndex{}, logger)

		hits := makePlaces(15, "자연")
		mockPlaces.On("FindPlacesWithinRadius", ctx, 37.5, 126.8, 10.0).Return(hits, nil).Once()

		got, err := svc.Search(ctx, 37.5, 126.8, 10.0, "")

		require.NoError(t, err)
		assert.Len(t, got, 10)
	})
}

func TestSearchWithFallback(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("WiderRadiusSuffices", func(t *testing.T) {
		mockPlaces := new(MockPlaceService)
		svc := NewSearchService(mockPlaces, &stubIndex{}, logger)

		hits := makePlaces(5, "문화시설")
		mockPlaces.On("FindPlacesWithinRadius", ctx, 37.5, 126.8, 6.0).Return(hits, nil).Once()
		mockPlaces.On("FilterByPurpose", hits, "family").Return(hits[:3]).Once()

		got, err := svc.SearchWithFallback(ctx, 37.5, 126.8, 3.0, "family")

		require.NoError(t, err)
		assert.Len(t, got, 3)
		mockPlaces.AssertExpectations(t)
	})

	t.Run("DropsPurposeFilterNext", func(t *testing.T) {
		mockPlaces := new(MockPlaceService)
		svc := NewSearchService(mockPlaces, &stubIndex{}, logger)

		hits := makePlaces(4, "음식점")
		// Widened search with purpose finds too few, unfiltered pass finds
		// enough.
		mockPlaces.On("FindPlacesWithinRadius", ctx, 37.5, 126.8, 6.0).Return(hits, nil).Twice()
		mockPlaces.On("FilterByPurpose", hits, "foodie").Return(hits[:1]).Once()

		got, err := svc.SearchWithFallback(ctx, 37.5, 126.8, 3.0, "foodie")

		require.NoError(t, err)
		assert.Len(t, got, 4)
		mockPlaces.AssertExpectations(t)
	})

	t.Run("WholeCatalogLastResort", func(t *testing.T) {
		mockPlaces := new(MockPlaceService)
		svc := NewSearchService(mockPlaces, &stubIndex{}, logger)

		mockPlaces.On("FindPlacesWithinRadius", ctx, 37.5, 126.8, 6.0).Return([]types.Place{}, nil).Twice()
		catalog := makePlaces(12, "기타")
		mockPlaces.On("GetAllVisiblePlaces", ctx).Return(catalog, nil).Once()

		got, err := svc.SearchWithFallback(ctx, 37.5, 126.8, 3.0, "")

		require.NoError(t, err)
		assert.Len(t, got, 10)
		mockPlaces.AssertExpectations(t)
	})
}

func TestSearchByKeyword(t *testing.T) {
	ctx := context.Background()
	mockPlaces := new(MockPlaceService)
	svc := NewSearchService(mockPlaces, &stubIndex{}, slog.Default())

	mockPlaces.On("FindByKeyword", ctx, "방탈출").Return(makePlaces(8, "기타"), nil).Once()

	got, err := svc.SearchByKeyword(ctx, "방탈출")

	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestSearchSemantic(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("IndexHit", func(t *testing.T) {
		mockPlaces := new(MockPlaceService)
		indexHits := makePlaces(2, "자연")
		svc := NewSearchService(mockPlaces, &stubIndex{hits: indexHits}, logger)

		got := svc.SearchSemantic(ctx, "한적한 공원")

		assert.Equal(t, indexHits, got)
		mockPlaces.AssertNotCalled(t, "FindByKeyword", mock.Anything, mock.Anything)
	})

	t.Run("EmptyIndexFallsBackToKeyword", func(t *testing.T) {
		mockPlaces := new(MockPlaceService)
		svc := NewSearchService(mockPlaces, &stubIndex{}, logger)

		mockPlaces.On("FindByKeyword", ctx, "공원").Return(makePlaces(1, "자연"), nil).Once()

		got := svc.SearchSemantic(ctx, "공원")

		assert.Len(t, got, 1)
	})

	t.Run("NeverErrors", func(t *testing.T) {
		mockPlaces := new(MockPlaceService)
		svc := NewSearchService(mockPlaces, &stubIndex{}, logger)

		mockPlaces.On("FindByKeyword", ctx, "공원").Return(nil, assert.AnError).Once()

		got := svc.SearchSemantic(ctx, "공원")

		assert.Nil(t, got)
	})
}

func TestAllVisibleCaches(t *testing.T) {
	ctx := context.Background()
	mockPlaces := new(MockPlaceService)
	svc := NewSearchService(mockPlaces, &stubIndex{}, slog.Default())

	catalog := makePlaces(3, "기타")
	mockPlaces.On("GetAllVisiblePlaces", ctx).Return(catalog, nil).Once()

	first, err := svc.AllVisible(ctx)
	require.NoError(t, err)
	second, err := svc.AllVisible(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	mockPlaces.AssertExpectations(t)
}
