package events

import "time"

// Domain constants
const (
	ClosetDomain          = "closet"
	ClosetExchange        = "closet.item"
	VisualizationExchange = "closet.visualization"
)

// Event names
const (
	ItemCreatedEvent          = "item.created"
	ItemDeletedEvent          = "item.deleted"
	VisualizationCreatedEvent = "visualization.created"
	VisualizationDeletedEvent = "visualization.deleted"
)

// Event versions
const (
	EventVersionV1 = "v1"
)

// ItemCreatedPayload represents the payload for item.created event
type ItemCreatedPayload struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"ownerId"`
	Category     string    `json:"category"`
	OriginalURL  string    `json:"originalUrl"`
	ProcessedURL string    `json:"processedUrl"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ItemDeletedPayload represents the payload for item.deleted event
type ItemDeletedPayload struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	DeletedAt time.Time `json:"deletedAt"`
}

// VisualizationCreatedPayload represents the payload for visualization.created event
type VisualizationCreatedPayload struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	ItemIDs   []string  `json:"itemIds"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// VisualizationDeletedPayload represents the payload for visualization.deleted event
type VisualizationDeletedPayload struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	DeletedAt time.Time `json:"deletedAt"`
}
