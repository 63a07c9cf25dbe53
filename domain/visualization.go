package domain

import (
	"time"

	"github.com/lib/pq"
)

// Visualization is one generated outfit composite. ItemIDs keeps the input
// items in the order the user arranged them; the references are loose, so
// deleting an item later does not invalidate an existing visualization.
type Visualization struct {
	ID        string         `db:"id" json:"id"`
	OwnerID   string         `db:"owner_id" json:"ownerID"`
	ItemIDs   pq.StringArray `db:"item_ids" json:"itemIDs"`
	ImageURL  string         `db:"image_url" json:"imageURL"`
	Prompt    *string        `db:"prompt" json:"prompt"`
	CreatedAt time.Time      `db:"created_at" json:"createdAt"`
}
