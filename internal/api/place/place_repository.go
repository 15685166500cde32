package place

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/geulda/go-tour-recommendations/internal/types"
)

var _ Repository = (*PostgresPlaceRepo)(nil)

// Repository is the catalog query contract consumed by the recommendation
// pipeline and the vector store rebuild job.
type Repository interface {
	FindWithinRadius(ctx context.Context, lat, lon, radiusKm float64) ([]types.Place, error)
	FindByNameContaining(ctx context.Context, keyword string) ([]types.Place, error)
	FindAllVisible(ctx context.Context) ([]types.Place, error)
	FindByIDs(ctx context.Context, ids []int64) ([]types.Place, error)
	// SavePlace inserts a place and assigns its identifier. Duplicates by
	// (name, address) resolve to the already stored row.
	SavePlace(ctx context.Context, p types.Place) (types.Place, error)
	SaveAllPlaces(ctx context.Context, places []types.Place) ([]types.Place, error)

	// Vector index support
	FindNearestByEmbedding(ctx context.Context, embedding []float32, limit int) ([]types.Place, error)
	UpdateEmbedding(ctx context.Context, placeID int64, embedding []float32) error
}

// PgxPool is the subset of *pgxpool.Pool the repository uses. Declared as an
// interface so tests can substitute pgxmock.
type PgxPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ PgxPool = (*pgxpool.Pool)(nil)

type PostgresPlaceRepo struct {
	pool   PgxPool
	logger *slog.Logger
}

func NewPostgresPlaceRepo(pool PgxPool, logger *slog.Logger) *PostgresPlaceRepo {
	return &PostgresPlaceRepo{pool: pool, logger: logger}
}

const placeColumns = `
	id, name, COALESCE(address, ''), latitude, longitude,
	COALESCE(NULLIF(category, ''), '기타'), COALESCE(description, ''),
	COALESCE(popularity_score, 50), COALESCE(tour_purpose_tags, ''),
	COALESCE(place_img, ''), is_hidden, COALESCE(data_source, 'MANUAL')`

func scanPlaces(rows pgx.Rows) ([]types.Place, error) {
	defer rows.Close()
	var places []types.Place
	for rows.Next() {
		var p types.Place
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Address, &p.Latitude, &p.Longitude,
			&p.Category, &p.Description, &p.PopularityScore, &p.TourPurposeTags,
			&p.PlaceImg, &p.IsHidden, &p.DataSource,
		); err != nil {
			return nil, fmt.Errorf("failed to scan place row: %w", err)
		}
		places = append(places, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("place rows iteration error: %w", err)
	}
	return places, nil
}

// FindWithinRadius returns visible places within radiusKm of (lat, lon),
// sorted by popularity descending. Distance uses the haversine formula
// evaluated in SQL so the ordering and cut happen database-side.
func (r *PostgresPlaceRepo) FindWithinRadius(ctx context.Context, lat, lon, radiusKm float64) ([]types.Place, error) {
	ctx, span := otel.Tracer("PlaceRepo").Start(ctx, "FindWithinRadius", trace.WithAttributes(
		attribute.Float64("search.lat", lat),
		attribute.Float64("search.lon", lon),
		attribute.Float64("search.radius_km", radiusKm),
	))
	defer span.End()

	query := fmt.Sprintf(`
        SELECT %s
        FROM places
        WHERE is_hidden = FALSE
          AND (6371 * acos(LEAST(1.0,
                cos(radians($1)) * cos(radians(latitude)) *
                cos(radians(longitude) - radians($2)) +
                sin(radians($1)) * sin(radians(latitude))))) <= $3
        ORDER BY popularity_score DESC, id`, placeColumns)

	rows, err := r.pool.Query(ctx, query, lat, lon, radiusKm)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("radius query failed: %w", err)
	}
	places, err := scanPlaces(rows)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetStatus(codes.Ok, "radius search complete")
	return places, nil
}

func (r *PostgresPlaceRepo) FindByNameContaining(ctx context.Context, keyword string) ([]types.Place, error) {
	ctx, span := otel.Tracer("PlaceRepo").Start(ctx, "FindByNameContaining")
	defer span.End()

	query := fmt.Sprintf(`
        SELECT %s
        FROM places
        WHERE is_hidden = FALSE AND name LIKE '%%' || $1 || '%%'
        ORDER BY popularity_score DESC, id`, placeColumns)

	rows, err := r.pool.Query(ctx, query, keyword)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("keyword query failed: %w", err)
	}
	return scanPlaces(rows)
}

func (r *PostgresPlaceRepo) FindAllVisible(ctx context.Context) ([]types.Place, error) {
	ctx, span := otel.Tracer("PlaceRepo").Start(ctx, "FindAllVisible")
	defer span.End()

	query := fmt.Sprintf(`
        SELECT %s
        FROM places
        WHERE is_hidden = FALSE
        ORDER BY popularity_score DESC, id`, placeColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("visible places query failed: %w", err)
	}
	return scanPlaces(rows)
}

func (r *PostgresPlaceRepo) FindByIDs(ctx context.Context, ids []int64) ([]types.Place, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ctx, span := otel.Tracer("PlaceRepo").Start(ctx, "FindByIDs", trace.WithAttributes(
		attribute.Int("ids.count", len(ids)),
	))
	defer span.End()

	query := fmt.Sprintf(`
        SELECT %s
        FROM places
        WHERE id = ANY($1)
        ORDER BY popularity_score DESC, id`, placeColumns)

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("ids query failed: %w", err)
	}
	return scanPlaces(rows)
}

// SavePlace persists one place. A unique index on (name, address) plus an
// upsert makes concurrent synthesis of the same place converge on one row.
func (r *PostgresPlaceRepo) SavePlace(ctx context.Context, p types.Place) (types.Place, error) {
	ctx, span := otel.Tracer("PlaceRepo").Start(ctx, "SavePlace", trace.WithAttributes(
		attribute.String("place.name", p.Name),
	))
	defer span.End()

	query := fmt.Sprintf(`
        INSERT INTO places
            (name, address, latitude, longitude, category, description,
             popularity_score, tour_purpose_tags, place_img, is_hidden, data_source)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10, $11)
        ON CONFLICT (name, address) DO UPDATE SET name = EXCLUDED.name
        RETURNING %s`, placeColumns)

	row := r.pool.QueryRow(ctx, query,
		p.Name, p.Address, p.Latitude, p.Longitude, p.CategoryOrDefault(),
		p.Description, p.Popularity(), p.TourPurposeTags, p.PlaceImg,
		p.IsHidden, p.DataSource,
	)

	var saved types.Place
	err := row.Scan(
		&saved.ID, &saved.Name, &saved.Address, &saved.Latitude, &saved.Longitude,
		&saved.Category, &saved.Description, &saved.PopularityScore, &saved.TourPurposeTags,
		&saved.PlaceImg, &saved.IsHidden, &saved.DataSource,
	)
	if err != nil {
		span.RecordError(err)
		return types.Place{}, fmt.Errorf("failed to save place %q: %w", p.Name, err)
	}
	span.SetStatus(codes.Ok, "place saved")
	return saved, nil
}

func (r *PostgresPlaceRepo) SaveAllPlaces(ctx context.Context, places []types.Place) ([]types.Place, error) {
	saved := make([]types.Place, 0, len(places))
	for _, p := range places {
		sp, err := r.SavePlace(ctx, p)
		if err != nil {
			r.logger.WarnContext(ctx, "skipping place that failed to save",
				slog.String("name", p.Name), slog.Any("error", err))
			continue
		}
		saved = append(saved, sp)
	}
	if len(saved) == 0 && len(places) > 0 {
		return nil, errors.New("no places could be saved")
	}
	return saved, nil
}

// FindNearestByEmbedding runs a pgvector cosine-distance scan over places that
// carry an embedding, nearest first.
func (r *PostgresPlaceRepo) FindNearestByEmbedding(ctx context.Context, embedding []float32, limit int) ([]types.Place, error) {
	ctx, span := otel.Tracer("PlaceRepo").Start(ctx, "FindNearestByEmbedding", trace.WithAttributes(
		attribute.Int("embedding.dimension", len(embedding)),
		attribute.Int("limit", limit),
	))
	defer span.End()

	query := fmt.Sprintf(`
        SELECT %s
        FROM places
        WHERE is_hidden = FALSE AND embedding IS NOT NULL
        ORDER BY embedding <=> $1::vector
        LIMIT $2`, placeColumns)

	rows, err := r.pool.Query(ctx, query, vectorLiteral(embedding), limit)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("embedding query failed: %w", err)
	}
	return scanPlaces(rows)
}

func (r *PostgresPlaceRepo) UpdateEmbedding(ctx context.Context, placeID int64, embedding []float32) error {
	ctx, span := otel.Tracer("PlaceRepo").Start(ctx, "UpdateEmbedding", trace.WithAttributes(
		attribute.Int64("place.id", placeID),
	))
	defer span.End()

	_, err := r.pool.Exec(ctx,
		`UPDATE places SET embedding = $1::vector WHERE id = $2`,
		vectorLiteral(embedding), placeID,
	)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update embedding for place %d: %w", placeID, err)
	}
	return nil
}

// vectorLiteral renders a []float32 as a pgvector input literal, e.g. [0.1,0.2].
func vectorLiteral(embedding []float32) string {
	parts := make([]string, len(embedding))
	for i, v := range embedding {
		parts[i] = fmt.Sprintf("%g", v)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
