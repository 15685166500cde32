package types

import "time"

// RecommendRequest is the inbound recommendation payload.
// Purpose and transportation arrive as free text (Korean or English) and are
// normalized inside the recommendation service.
type RecommendRequest struct {
	TravelPurpose  string  `json:"travelPurpose" validate:"required"`
	StayDuration   string  `json:"stayDuration" validate:"required"`
	Transportation string  `json:"transportation" validate:"required"`
	UserLatitude   float64 `json:"userLatitude,omitempty"`
	UserLongitude  float64 `json:"userLongitude,omitempty"`
	MustVisitPlace string  `json:"mustVisitPlace,omitempty"`
}

// ParsedRequest is the structured form of the free-text must-visit field.
type ParsedRequest struct {
	CleanedMustVisitPlace string
	ExcludeCategories     []string
	PlaceCount            int
}

// PlaceDetail is the reduced place view returned to callers.
type PlaceDetail struct {
	PlaceID     int64   `json:"placeId"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Description string  `json:"description"`
	PlaceImg    string  `json:"placeImg,omitempty"`
}

// RecommendResponse is the final ordered recommendation.
type RecommendResponse struct {
	SessionID     string        `json:"sessionId"`
	Places        []PlaceDetail `json:"places"`
	RouteSummary  string        `json:"routeSummary"`
	TotalDistance float64       `json:"totalDistance"`
}

// SessionRecord is the TTL-bound persisted copy of one recommendation.
// Read-only after creation; it disappears with the store TTL.
type SessionRecord struct {
	RequesterID    string        `json:"requesterId,omitempty"`
	Places         []PlaceDetail `json:"places"`
	CreatedAt      time.Time     `json:"createdAt"`
	TravelPurpose  string        `json:"travelPurpose"`
	StayDuration   string        `json:"stayDuration"`
	Transportation string        `json:"transportation"`
}
