package recommendation

import (
	"context"
	"log/slog"

	generativeAI "github.com/geulda/go-tour-recommendations/internal/api/generative_ai"
	"github.com/geulda/go-tour-recommendations/internal/api/place"
	"github.com/geulda/go-tour-recommendations/internal/types"
)

// PlaceGenerator synthesizes catalog entries through the text-generation
// capability when the stored catalog cannot satisfy a request. Synthesized
// places are persisted (deduplicated by name+address in the repository) so
// later requests find them without another model call.
type PlaceGenerator struct {
	ai     generativeAI.TextGenerator
	places place.Service
	logger *slog.Logger
}

func NewPlaceGenerator(ai generativeAI.TextGenerator, places place.Service, logger *slog.Logger) *PlaceGenerator {
	return &PlaceGenerator{ai: ai, places: places, logger: logger}
}

// GeneratePlacesByUserRequest proposes 2-3 real places matching a must-visit
// phrase. Failures are absorbed: the resolver treats an empty slice as "this
// strategy did not apply".
func (g *PlaceGenerator) GeneratePlacesByUserRequest(ctx context.Context, userRequest string) []types.Place {
	response, err := g.ai.GenerateContent(ctx, buildUserRequestSynthesisPrompt(userRequest), nil)
	if err != nil {
		g.logger.ErrorContext(ctx, "place synthesis call failed", slog.Any("error", err))
		return nil
	}

	return g.persistGenerated(ctx, response, "데이트,친구,가족")
}

// GeneratePlacesNearby pads a thin candidate pool with count synthesized
// places around the given center.
func (g *PlaceGenerator) GeneratePlacesNearby(ctx context.Context, centerLat, centerLon float64, purpose, transportation string, count int) []types.Place {
	prompt := buildNearbySynthesisPrompt(centerLat, centerLon, purpose, transportation, count)
	response, err := g.ai.GenerateContent(ctx, prompt, nil)
	if err != nil {
		g.logger.ErrorContext(ctx, "nearby place synthesis call failed", slog.Any("error", err))
		return nil
	}

	return g.persistGenerated(ctx, response, purpose)
}

func (g *PlaceGenerator) persistGenerated(ctx context.Context, response, defaultTags string) []types.Place {
	parsed, err := parseGeneratedPlaces(response)
	if err != nil {
		g.logger.WarnContext(ctx, "could not parse synthesized places", slog.Any("error", err))
		return nil
	}

	toSave := make([]types.Place, 0, len(parsed))
	for _, gp := range parsed {
		if gp.Name == "" || gp.Address == "" {
			g.logger.WarnContext(ctx, "dropping synthesized place without name or address")
			continue
		}
		description := gp.Description
		if description == "" {
			description = "AI 추천 장소"
		}
		category := gp.Category
		if category == "" {
			category = types.DefaultCategory
		}
		tags := gp.TourPurposeTags
		if tags == "" {
			tags = defaultTags
		}
		toSave = append(toSave, types.Place{
			Name:            gp.Name,
			Address:         gp.Address,
			Latitude:        gp.Latitude,
			Longitude:       gp.Longitude,
			Description:     description,
			Category:        category,
			TourPurposeTags: tags,
			PopularityScore: types.DefaultPopularityScore,
			DataSource:      types.DataSourceAIGenerated,
		})
	}
	if len(toSave) == 0 {
		return nil
	}

	saved, err := g.places.SaveAllPlaces(ctx, toSave)
	if err != nil {
		g.logger.ErrorContext(ctx, "failed to persist synthesized places", slog.Any("error", err))
		return nil
	}

	for _, p := range saved {
		g.logger.DebugContext(ctx, "synthesized place stored",
			slog.String("name", p.Name), slog.String("address", p.Address))
	}
	return saved
}
