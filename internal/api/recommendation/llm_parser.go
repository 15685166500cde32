package recommendation

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON isolates the JSON object embedded in raw model output. It
// strips markdown code fences and cuts from the first '{' to the last '}'.
// Every AI-response consumer in the pipeline goes through this one function
// so the extraction semantics stay identical everywhere.
func ExtractJSON(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
	}
	response = strings.TrimSuffix(strings.TrimSpace(response), "```")
	response = strings.TrimSpace(response)

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start >= 0 && end > start {
		return response[start : end+1]
	}
	return response
}

// placeSelection is the strict schema required from the context-selection
// prompt. A null placeId is a valid "nothing fits" answer.
type placeSelection struct {
	PlaceID *int64 `json:"placeId"`
	Reason  string `json:"reason"`
}

// parsePlaceSelection reads a `{"placeId": id|null, "reason": ...}` response.
// Returns (id, true, nil) on a concrete pick, (0, false, nil) on an explicit
// rejection, and an error when the text is not the expected shape.
func parsePlaceSelection(raw string) (int64, bool, error) {
	var sel placeSelection
	if err := json.Unmarshal([]byte(ExtractJSON(raw)), &sel); err != nil {
		return 0, false, fmt.Errorf("failed to parse place selection: %w", err)
	}
	if sel.PlaceID == nil {
		return 0, false, nil
	}
	return *sel.PlaceID, true, nil
}

// parseRecommendationIDs reads the ranking prompt's
// `{"recommendations": [{"placeId": ...}, ...]}` response, preserving order.
func parseRecommendationIDs(raw string) ([]int64, error) {
	var payload struct {
		Recommendations []struct {
			PlaceID int64 `json:"placeId"`
		} `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(ExtractJSON(raw)), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse recommendations: %w", err)
	}
	ids := make([]int64, 0, len(payload.Recommendations))
	for _, rec := range payload.Recommendations {
		ids = append(ids, rec.PlaceID)
	}
	return ids, nil
}

// generatedPlace is the shape the synthesis prompts demand.
type generatedPlace struct {
	Name            string  `json:"name"`
	Address         string  `json:"address"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	Description     string  `json:"description"`
	Category        string  `json:"category"`
	TourPurposeTags string  `json:"tourPurposeTags"`
}

// parseGeneratedPlaces reads a `{"places": [...]}` synthesis response.
func parseGeneratedPlaces(raw string) ([]generatedPlace, error) {
	var payload struct {
		Places []generatedPlace `json:"places"`
	}
	if err := json.Unmarshal([]byte(ExtractJSON(raw)), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse generated places: %w", err)
	}
	if payload.Places == nil {
		return nil, fmt.Errorf("response has no places array")
	}
	return payload.Places, nil
}
