package recommendation

import (
	"context"
	"log/slog"
	"sort"

	generativeAI "github.com/geulda/go-tour-recommendations/internal/api/generative_ai"
	"github.com/geulda/go-tour-recommendations/internal/types"
)

// rankingTemperature keeps the ranking call creative enough to vary between
// identical requests without drifting off the candidate list.
const rankingTemperature = 0.8

// PlaceSelector picks the final itinerary from the candidate pool. Must-visit
// places always come first; the rest of the slots are filled by a model
// ranking call, with a popularity-ordered fallback when the model is
// unavailable or answers garbage. Selection never fails.
type PlaceSelector struct {
	ai     generativeAI.TextGenerator
	logger *slog.Logger
}

func NewPlaceSelector(ai generativeAI.TextGenerator, logger *slog.Logger) *PlaceSelector {
	return &PlaceSelector{ai: ai, logger: logger}
}

func (s *PlaceSelector) SelectBestPlaces(ctx context.Context, mustVisit, pool []types.Place, purpose, transportation, stayDuration string, targetCount int) []types.Place {
	if targetCount <= 0 {
		return nil
	}
	if len(mustVisit) >= targetCount {
		return mustVisit[:targetCount]
	}

	remaining := targetCount - len(mustVisit)
	selected := make([]types.Place, 0, targetCount)
	selected = append(selected, mustVisit...)

	if len(pool) <= remaining {
		return append(selected, pool...)
	}

	ranked := s.rankByModel(ctx, pool, purpose, transportation, stayDuration, remaining)
	if len(ranked) == 0 {
		ranked = topByPopularity(pool, remaining)
	}
	if len(ranked) > remaining {
		ranked = ranked[:remaining]
	}
	return append(selected, ranked...)
}

// rankByModel returns the model's picks in the order it named them. IDs that
// do not belong to the pool are discarded. Any failure yields nil so the
// caller falls back.
func (s *PlaceSelector) rankByModel(ctx context.Context, pool []types.Place, purpose, transportation, stayDuration string, remaining int) []types.Place {
	prompt := buildRankingPrompt(pool, purpose, transportation, stayDuration, remaining)
	response, err := s.ai.GenerateContent(ctx, prompt, &generativeAI.GenerateOptions{Temperature: rankingTemperature})
	if err != nil {
		s.logger.WarnContext(ctx, "ranking call failed, falling back to popularity order", slog.Any("error", err))
		return nil
	}

	ids, err := parseRecommendationIDs(response)
	if err != nil {
		s.logger.WarnContext(ctx, "could not parse ranking response", slog.Any("error", err))
		return nil
	}

	byID := make(map[int64]types.Place, len(pool))
	for _, p := range pool {
		byID[p.ID] = p
	}
	picks := make([]types.Place, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			s.logger.DebugContext(ctx, "ranking named an unknown place id", slog.Int64("place_id", id))
			continue
		}
		picks = append(picks, p)
	}
	return picks
}

func topByPopularity(pool []types.Place, n int) []types.Place {
	sorted := make([]types.Place, len(pool))
	copy(sorted, pool)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PopularityScore > sorted[j].PopularityScore
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
