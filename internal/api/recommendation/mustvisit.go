package recommendation

import (
	"context"
	"log/slog"
	"strings"

	generativeAI "github.com/geulda/go-tour-recommendations/internal/api/generative_ai"
	"github.com/geulda/go-tour-recommendations/internal/types"
)

// multiRequestMarkers flag a must-visit phrase that asks for every matching
// place rather than a single one, e.g. "방탈출 카페 모두".
var multiRequestMarkers = []string{"모두", "전부", "모든", "전체"}

// keywordNoise is stripped from a multi-request phrase before the keyword
// lookup. Order matters: longer tokens first so "모두" is removed before a
// bare "들" suffix is considered.
var keywordNoise = []string{"만", "모두", "전부", "모든", "전체", "들", "알려줘", "보여줘", "찾아줘", "관련", "시설"}

// MustVisitResolver pins the places a user explicitly asked for. Strategies
// run in order from cheapest to most expensive; the first one that produces
// a result wins, and resolved places are removed from the candidate pool so
// the selector does not pick them twice.
type MustVisitResolver struct {
	search    *SearchService
	ai        generativeAI.TextGenerator
	generator *PlaceGenerator
	logger    *slog.Logger
}

func NewMustVisitResolver(search *SearchService, ai generativeAI.TextGenerator, generator *PlaceGenerator, logger *slog.Logger) *MustVisitResolver {
	return &MustVisitResolver{search: search, ai: ai, generator: generator, logger: logger}
}

type mustVisitStrategy func(ctx context.Context, phrase string, pool []types.Place) []types.Place

// Resolve returns the resolved must-visit places and the candidate pool with
// those places removed. An empty phrase, or every strategy failing, returns
// no places and the pool untouched.
func (r *MustVisitResolver) Resolve(ctx context.Context, phrase string, pool []types.Place) ([]types.Place, []types.Place) {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return nil, pool
	}

	strategies := []mustVisitStrategy{
		r.resolveMultiRequest,
		r.resolveExactInPool,
		r.resolvePartialInPool,
		r.resolveExactInCatalog,
		r.resolveByContextSelection,
		r.resolveBySemanticRelevance,
		r.resolveBySynthesis,
	}

	for _, strategy := range strategies {
		resolved := strategy(ctx, phrase, pool)
		if len(resolved) == 0 {
			continue
		}
		r.logger.InfoContext(ctx, "must-visit phrase resolved",
			slog.String("phrase", phrase), slog.Int("count", len(resolved)))
		return resolved, removeResolved(pool, resolved)
	}

	r.logger.WarnContext(ctx, "must-visit phrase could not be resolved", slog.String("phrase", phrase))
	return nil, pool
}

// resolveMultiRequest handles "all X" phrases by filtering the full visible
// catalog, so every matching place counts — hits outside the radius pool
// included, with no result cap.
func (r *MustVisitResolver) resolveMultiRequest(ctx context.Context, phrase string, _ []types.Place) []types.Place {
	if !isMultiRequest(phrase) {
		return nil
	}
	keyword := extractKeyword(phrase)
	if keyword == "" {
		return nil
	}

	catalog, err := r.search.AllVisible(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "could not load catalog for multi-request",
			slog.String("keyword", keyword), slog.Any("error", err))
		return nil
	}
	var hits []types.Place
	for _, p := range catalog {
		if strings.Contains(p.Name, keyword) {
			hits = append(hits, p)
		}
	}
	return hits
}

func (r *MustVisitResolver) resolveExactInPool(_ context.Context, phrase string, pool []types.Place) []types.Place {
	for _, p := range pool {
		if p.Name == phrase {
			return []types.Place{p}
		}
	}
	return nil
}

func (r *MustVisitResolver) resolvePartialInPool(_ context.Context, phrase string, pool []types.Place) []types.Place {
	for _, p := range pool {
		if strings.Contains(p.Name, phrase) || strings.Contains(phrase, p.Name) {
			return []types.Place{p}
		}
	}
	return nil
}

// resolveExactInCatalog matches the phrase against every visible place name,
// so an exact match cannot be shadowed by more popular partial matches.
func (r *MustVisitResolver) resolveExactInCatalog(ctx context.Context, phrase string, _ []types.Place) []types.Place {
	catalog, err := r.search.AllVisible(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "could not load catalog for exact match",
			slog.String("phrase", phrase), slog.Any("error", err))
		return nil
	}
	for _, p := range catalog {
		if p.Name == phrase {
			return []types.Place{p}
		}
	}
	return nil
}

// resolveByContextSelection hands the full visible catalog to the model and
// asks it to pick the best match for the phrase, or null when nothing fits.
func (r *MustVisitResolver) resolveByContextSelection(ctx context.Context, phrase string, _ []types.Place) []types.Place {
	catalog, err := r.search.AllVisible(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "could not load catalog for context selection", slog.Any("error", err))
		return nil
	}
	if len(catalog) == 0 {
		return nil
	}

	response, err := r.ai.GenerateContent(ctx, buildContextSelectionPrompt(catalog, phrase), nil)
	if err != nil {
		r.logger.ErrorContext(ctx, "context selection call failed", slog.Any("error", err))
		return nil
	}
	id, ok, err := parsePlaceSelection(response)
	if err != nil {
		r.logger.WarnContext(ctx, "could not parse context selection", slog.Any("error", err))
		return nil
	}
	if !ok {
		return nil
	}
	for _, p := range catalog {
		if p.ID == id {
			return []types.Place{p}
		}
	}
	return nil
}

// resolveBySemanticRelevance finds the nearest catalog entry in embedding
// space and keeps it only if the model confirms it actually matches the
// phrase.
func (r *MustVisitResolver) resolveBySemanticRelevance(ctx context.Context, phrase string, _ []types.Place) []types.Place {
	hits := r.search.SearchSemantic(ctx, phrase)
	if len(hits) == 0 {
		return nil
	}

	best := hits[0]
	response, err := r.ai.GenerateContent(ctx, buildRelevancePrompt(best, phrase), nil)
	if err != nil {
		r.logger.ErrorContext(ctx, "relevance check call failed", slog.Any("error", err))
		return nil
	}
	if !strings.Contains(strings.ToLower(response), "true") {
		r.logger.DebugContext(ctx, "semantic hit rejected as irrelevant",
			slog.String("phrase", phrase), slog.String("place", best.Name))
		return nil
	}
	return []types.Place{best}
}

// resolveBySynthesis is the last resort: have the model propose real places
// for the phrase, persist them, and pin the first as the must-visit.
func (r *MustVisitResolver) resolveBySynthesis(ctx context.Context, phrase string, _ []types.Place) []types.Place {
	generated := r.generator.GeneratePlacesByUserRequest(ctx, phrase)
	if len(generated) == 0 {
		return nil
	}
	return generated[:1]
}

func isMultiRequest(phrase string) bool {
	for _, marker := range multiRequestMarkers {
		if strings.Contains(phrase, marker) {
			return true
		}
	}
	return strings.HasSuffix(phrase, "들")
}

func extractKeyword(phrase string) string {
	keyword := phrase
	for _, noise := range keywordNoise {
		keyword = strings.ReplaceAll(keyword, noise, "")
	}
	return strings.TrimSpace(keyword)
}

func removeResolved(pool, resolved []types.Place) []types.Place {
	if len(resolved) == 0 {
		return pool
	}
	taken := make(map[int64]struct{}, len(resolved))
	for _, p := range resolved {
		taken[p.ID] = struct{}{}
	}
	remaining := make([]types.Place, 0, len(pool))
	for _, p := range pool {
		if _, ok := taken[p.ID]; ok {
			continue
		}
		remaining = append(remaining, p)
	}
	return remaining
}
