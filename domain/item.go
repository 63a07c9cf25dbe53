package domain

import "time"

// Garment categories accepted by the closet. Kept in sync with the
// `oneof` tag on the upload request.
const (
	CategoryTop       = "top"
	CategoryBottom    = "bottom"
	CategoryShoes     = "shoes"
	CategoryOuterwear = "outerwear"
	CategoryAccessory = "accessory"
)

// Item is one clothing piece in a user's closet. OriginalURL points at the
// bytes exactly as uploaded, ProcessedURL at the background-removed PNG.
// Both blobs exist in storage before a row is ever written.
type Item struct {
	ID           string    `db:"id" json:"id"`
	OwnerID      string    `db:"owner_id" json:"ownerID"`
	Category     string    `db:"category" json:"category"`
	OriginalURL  string    `db:"original_url" json:"originalURL"`
	ProcessedURL string    `db:"processed_url" json:"processedURL"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}
