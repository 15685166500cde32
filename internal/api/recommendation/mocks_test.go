package recommendation

import (
	"context"

	"github.com/stretchr/testify/mock"

	generativeAI "github.com/geulda/go-tour-recommendations/internal/api/generative_ai"
	"github.com/geulda/go-tour-recommendations/internal/api/vectorstore"
	"github.com/geulda/go-tour-recommendations/internal/types"
)

// MockPlaceService is a mock implementation of the place.Service interface.
type MockPlaceService struct {
	mock.Mock
}

func (m *MockPlaceService) FindPlacesWithinRadius(ctx context.Context, lat, lon, radiusKm float64) ([]types.Place, error) {
	args := m.Called(ctx, lat, lon, radiusKm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Place), args.Error(1)
}

func (m *MockPlaceService) FindByKeyword(ctx context.Context, keyword string) ([]types.Place, error) {
	args := m.Called(ctx, keyword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Place), args.Error(1)
}

func (m *MockPlaceService) GetAllVisiblePlaces(ctx context.Context) ([]types.Place, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Place), args.Error(1)
}

func (m *MockPlaceService) FindByIDs(ctx context.Context, ids []int64) ([]types.Place, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Place), args.Error(1)
}

func (m *MockPlaceService) SavePlace(ctx context.Context, p types.Place) (types.Place, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(types.Place), args.Error(1)
}

func (m *MockPlaceService) SaveAllPlaces(ctx context.Context, places []types.Place) ([]types.Place, error) {
	args := m.Called(ctx, places)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Place), args.Error(1)
}

func (m *MockPlaceService) FilterByPurpose(places []types.Place, purpose string) []types.Place {
	args := m.Called(places, purpose)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]types.Place)
}

// MockTextGenerator is a mock implementation of generativeAI.TextGenerator.
type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) GenerateContent(ctx context.Context, prompt string, opts *generativeAI.GenerateOptions) (string, error) {
	args := m.Called(ctx, prompt, opts)
	return args.String(0), args.Error(1)
}

// MockSessionStore is a mock implementation of SessionStore.
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Save(ctx context.Context, record types.SessionRecord) (string, error) {
	args := m.Called(ctx, record)
	return args.String(0), args.Error(1)
}

func (m *MockSessionStore) Get(ctx context.Context, sessionID string) (types.SessionRecord, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(types.SessionRecord), args.Error(1)
}

// stubIndex is a fixed-answer vector index for tests.
type stubIndex struct {
	hits  []types.Place
	state vectorstore.State
}

func (s *stubIndex) SimilaritySearch(_ context.Context, _ string, _ int) []types.Place {
	return s.hits
}

func (s *stubIndex) State() vectorstore.State { return s.state }

func (s *stubIndex) Rebuild(_ context.Context) error { return nil }
