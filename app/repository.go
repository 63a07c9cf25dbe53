package app

import (
	"context"

	"github.com/stylehaus/closet/domain"
)

type Repository interface {
	Close() error

	CreateItem(ctx context.Context, item *domain.Item) (domain.Item, error)
	GetOwnerItems(ctx context.Context, ownerID, category string, limit, offset int) ([]domain.Item, error)
	CountOwnerItems(ctx context.Context, ownerID, category string) (int, error)
	GetOwnerItem(ctx context.Context, id, ownerID string) (domain.Item, error)
	GetOwnerItemsByIDs(ctx context.Context, ownerID string, ids []string) ([]domain.Item, error)
	DeleteItem(ctx context.Context, id, ownerID string) error

	CreateVisualization(ctx context.Context, v *domain.Visualization) (domain.Visualization, error)
	GetOwnerVisualizations(ctx context.Context, ownerID string, limit, offset int) ([]domain.Visualization, error)
	CountOwnerVisualizations(ctx context.Context, ownerID string) (int, error)
	GetOwnerVisualization(ctx context.Context, id, ownerID string) (domain.Visualization, error)
	DeleteVisualization(ctx context.Context, id, ownerID string) error
}
