package app

import (
	"context"
	"database/sql"

	"github.com/stylehaus/closet/domain"
	"github.com/stylehaus/closet/pkg/httperror"
)

type GetItemHandler struct {
	repository Repository
}

func NewGetItemHandler(repository Repository) *GetItemHandler {
	return &GetItemHandler{
		repository: repository,
	}
}

type GetItemRequest struct {
	ItemID string `params:"id" validate:"required"`
}

type GetItemResponse struct {
	Item domain.Item `json:"item"`
}

func (h *GetItemHandler) Handle(ctx context.Context, req *GetItemRequest) (*GetItemResponse, error) {
	ownerID, authErr := ownerFromContext(ctx)
	if authErr != nil {
		return nil, authErr
	}

	item, err := h.repository.GetOwnerItem(ctx, req.ItemID, ownerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, httperror.NotFound(
				"item.show.not_found",
				"Item not found",
				nil,
			)
		}
		return nil, httperror.InternalServerError(
			"item.show.failed",
			"Failed to retrieve item",
			nil,
		)
	}

	return &GetItemResponse{Item: item}, nil
}
