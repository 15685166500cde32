package place

import (
	"context"
	"log/slog"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geulda/go-tour-recommendations/internal/types"
)

var placeRows = []string{
	"id", "name", "address", "latitude", "longitude",
	"category", "description", "popularity_score", "tour_purpose_tags",
	"place_img", "is_hidden", "data_source",
}

func placeRow(mockPool pgxmock.PgxPoolIface, p types.Place) *pgxmock.Rows {
	return mockPool.NewRows(placeRows).AddRow(
		p.ID, p.Name, p.Address, p.Latitude, p.Longitude,
		p.Category, p.Description, p.PopularityScore, p.TourPurposeTags,
		p.PlaceImg, p.IsHidden, p.DataSource,
	)
}

func TestFindWithinRadius(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPostgresPlaceRepo(mockPool, slog.Default())
	ctx := context.Background()

	expected := types.Place{
		ID: 1, Name: "부천중앙공원", Address: "부천시 길주로 1",
		Latitude: 37.5, Longitude: 126.78, Category: "자연",
		PopularityScore: 80, DataSource: "MANUAL",
	}

	mockPool.ExpectQuery("FROM places").
		WithArgs(37.5, 126.8, 3.0).
		WillReturnRows(placeRow(mockPool, expected))

	got, err := repo.FindWithinRadius(ctx, 37.5, 126.8, 3.0)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, expected, got[0])
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestFindByNameContaining(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPostgresPlaceRepo(mockPool, slog.Default())

	expected := types.Place{ID: 2, Name: "방탈출카페 신중동점", Category: "기타", PopularityScore: 55, DataSource: "MANUAL"}
	mockPool.ExpectQuery("name LIKE").
		WithArgs("방탈출").
		WillReturnRows(placeRow(mockPool, expected))

	got, err := repo.FindByNameContaining(context.Background(), "방탈출")

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "방탈출카페 신중동점", got[0].Name)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestFindByIDsEmptyShortCircuits(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPostgresPlaceRepo(mockPool, slog.Default())

	got, err := repo.FindByIDs(context.Background(), nil)

	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestSavePlaceUpsert(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPostgresPlaceRepo(mockPool, slog.Default())

	input := types.Place{
		Name: "부천글램핑장", Address: "부천시 오정구", Latitude: 37.52, Longitude: 126.79,
		Description: "도심 글램핑", Category: "자연", TourPurposeTags: "친구,가족",
		DataSource: "AI_GENERATED",
	}
	stored := input
	stored.ID = 77
	stored.PopularityScore = 50

	mockPool.ExpectQuery("ON CONFLICT \\(name, address\\)").
		WithArgs(input.Name, input.Address, input.Latitude, input.Longitude,
			"자연", input.Description, 50, input.TourPurposeTags, "",
			false, "AI_GENERATED").
		WillReturnRows(placeRow(mockPool, stored))

	got, err := repo.SavePlace(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, int64(77), got.ID)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestSaveAllPlacesSkipsFailures(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPostgresPlaceRepo(mockPool, slog.Default())

	first := types.Place{Name: "A", Address: "주소1", Category: "기타", PopularityScore: 50, DataSource: "MANUAL"}
	second := types.Place{Name: "B", Address: "주소2", Category: "기타", PopularityScore: 50, DataSource: "MANUAL"}
	firstStored := first
	firstStored.ID = 1

	mockPool.ExpectQuery("INSERT INTO places").
		WithArgs(first.Name, first.Address, first.Latitude, first.Longitude,
			"기타", "", 50, "", "", false, "MANUAL").
		WillReturnRows(placeRow(mockPool, firstStored))
	mockPool.ExpectQuery("INSERT INTO places").
		WithArgs(second.Name, second.Address, second.Latitude, second.Longitude,
			"기타", "", 50, "", "", false, "MANUAL").
		WillReturnError(assert.AnError)

	got, err := repo.SaveAllPlaces(context.Background(), []types.Place{first, second})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Name)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestFindNearestByEmbedding(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPostgresPlaceRepo(mockPool, slog.Default())

	expected := types.Place{ID: 5, Name: "부천시립박물관", Category: "문화시설", PopularityScore: 60, DataSource: "MANUAL"}
	mockPool.ExpectQuery("embedding <=>").
		WithArgs("[0.1,0.2]", 3).
		WillReturnRows(placeRow(mockPool, expected))

	got, err := repo.FindNearestByEmbedding(context.Background(), []float32{0.1, 0.2}, 3)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(5), got[0].ID)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestUpdateEmbedding(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPostgresPlaceRepo(mockPool, slog.Default())

	mockPool.ExpectExec("UPDATE places SET embedding").
		WithArgs("[0.5]", int64(9)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.UpdateEmbedding(context.Background(), 9, []float32{0.5})

	require.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
