package types

import "strings"

// Data source markers for catalog entries.
const (
	DataSourceManual      = "MANUAL"
	DataSourceAIGenerated = "AI_GENERATED"
)

// Defaults applied when the catalog row carries no value.
const (
	DefaultCategory        = "기타"
	DefaultPopularityScore = 50
)

// Place is a single tourist place from the catalog. Within one
// recommendation call it is treated as an immutable snapshot.
type Place struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Address         string  `json:"address"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	Category        string  `json:"category"`
	Description     string  `json:"description"`
	PopularityScore int     `json:"popularity_score"`
	TourPurposeTags string  `json:"tour_purpose_tags"`
	PlaceImg        string  `json:"place_img,omitempty"`
	IsHidden        bool    `json:"is_hidden"`
	DataSource      string  `json:"data_source"`
}

// CategoryOrDefault never returns an empty category.
func (p Place) CategoryOrDefault() string {
	if p.Category == "" {
		return DefaultCategory
	}
	return p.Category
}

// Popularity is the score to persist for a place built without one, e.g. a
// synthesized entry. Places read back from the catalog carry an authoritative
// PopularityScore, where zero is a valid value; use the field directly there.
func (p Place) Popularity() int {
	if p.PopularityScore == 0 {
		return DefaultPopularityScore
	}
	return p.PopularityScore
}

// PurposeTags splits the comma-separated purpose tag column.
func (p Place) PurposeTags() []string {
	if strings.TrimSpace(p.TourPurposeTags) == "" {
		return nil
	}
	parts := strings.Split(p.TourPurposeTags, ",")
	tags := make([]string, 0, len(parts))
	for _, t := range parts {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
