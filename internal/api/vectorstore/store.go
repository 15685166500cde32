package vectorstore

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	generativeAI "github.com/geulda/go-tour-recommendations/internal/api/generative_ai"
	"github.com/geulda/go-tour-recommendations/internal/api/place"
	"github.com/geulda/go-tour-recommendations/internal/types"
)

// State tracks the index lifecycle. A plain bool cannot distinguish "never
// built" from "rebuild in flight" from "last rebuild blew up", and callers
// need all three.
type State int

const (
	StateUninitialized State = iota
	StateBuilding
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateBuilding:
		return "building"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "uninitialized"
	}
}

// Index answers semantic (vector similarity) queries over the place catalog.
type Index interface {
	// SimilaritySearch returns up to topK places nearest to the query.
	// "No results" and "index not ready" both yield an empty slice, never an
	// error; the recommendation path treats them identically.
	SimilaritySearch(ctx context.Context, query string, topK int) []types.Place
	State() State
	Rebuild(ctx context.Context) error
}

var _ Index = (*PgVectorIndex)(nil)

// PgVectorIndex keeps place embeddings in the pgvector column of the places
// table and queries them by cosine distance.
type PgVectorIndex struct {
	repo     place.Repository
	embedder generativeAI.Embedder
	logger   *slog.Logger

	mu      sync.RWMutex
	state   State
	builtAt time.Time
}

func NewPgVectorIndex(repo place.Repository, embedder generativeAI.Embedder, logger *slog.Logger) *PgVectorIndex {
	return &PgVectorIndex{
		repo:     repo,
		embedder: embedder,
		logger:   logger,
		state:    StateUninitialized,
	}
}

func (idx *PgVectorIndex) State() State {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.state
}

func (idx *PgVectorIndex) setState(s State) {
	idx.mu.Lock()
	idx.state = s
	if s == StateReady {
		idx.builtAt = time.Now()
	}
	idx.mu.Unlock()
}

func (idx *PgVectorIndex) SimilaritySearch(ctx context.Context, query string, topK int) []types.Place {
	if idx.State() != StateReady {
		idx.logger.DebugContext(ctx, "vector index not ready, returning no semantic results",
			slog.String("state", idx.State().String()))
		return nil
	}

	embedding, err := idx.embedder.EmbedText(ctx, query)
	if err != nil {
		idx.logger.WarnContext(ctx, "query embedding failed", slog.Any("error", err))
		return nil
	}

	places, err := idx.repo.FindNearestByEmbedding(ctx, embedding, topK)
	if err != nil {
		idx.logger.WarnContext(ctx, "vector similarity query failed", slog.Any("error", err))
		return nil
	}
	return places
}

const rebuildConcurrency = 4

// Rebuild embeds every visible place and writes the vectors back, moving the
// index through building -> ready (or failed). Callers already holding a
// building state get a typed not-ready error instead of a second build.
func (idx *PgVectorIndex) Rebuild(ctx context.Context) error {
	idx.mu.Lock()
	if idx.state == StateBuilding {
		idx.mu.Unlock()
		return fmt.Errorf("%w: rebuild already in progress", types.ErrIndexNotReady)
	}
	idx.state = StateBuilding
	idx.mu.Unlock()

	start := time.Now()
	places, err := idx.repo.FindAllVisible(ctx)
	if err != nil {
		idx.setState(StateFailed)
		return fmt.Errorf("failed to load places for index rebuild: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rebuildConcurrency)

	for _, p := range places {
		g.Go(func() error {
			text := fmt.Sprintf("%s. %s. 카테고리: %s. %s",
				p.Name, p.Address, p.CategoryOrDefault(), p.Description)
			embedding, err := idx.embedder.EmbedText(gctx, text)
			if err != nil {
				return fmt.Errorf("embedding place %d failed: %w", p.ID, err)
			}
			return idx.repo.UpdateEmbedding(gctx, p.ID, embedding)
		})
	}

	if err := g.Wait(); err != nil {
		idx.setState(StateFailed)
		idx.logger.ErrorContext(ctx, "vector index rebuild failed", slog.Any("error", err))
		return err
	}

	idx.setState(StateReady)
	idx.logger.InfoContext(ctx, "vector index rebuilt",
		slog.Int("places", len(places)),
		slog.Duration("took", time.Since(start)))
	return nil
}
