package app

import (
	"context"

	"github.com/stylehaus/closet/domain"
	"github.com/stylehaus/closet/pkg/httperror"
)

// GetItemsHandler serves the closet grid: the caller's items, newest first,
// optionally filtered by category.
type GetItemsHandler struct {
	repository Repository
}

func NewGetItemsHandler(repository Repository) *GetItemsHandler {
	return &GetItemsHandler{
		repository: repository,
	}
}

type GetItemsRequest struct {
	Page     int    `query:"page"`
	PageSize int    `query:"pageSize"`
	Category string `query:"category"`
}

type GetItemsResponse struct {
	Items      []domain.Item `json:"items"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	TotalItems int           `json:"totalItems"`
	TotalPages int           `json:"totalPages"`
}

func (h *GetItemsHandler) Handle(ctx context.Context, req *GetItemsRequest) (*GetItemsResponse, error) {
	ownerID, authErr := ownerFromContext(ctx)
	if authErr != nil {
		return nil, authErr
	}

	page := max(req.Page, 1)
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	offset := (page - 1) * pageSize

	items, err := h.repository.GetOwnerItems(ctx, ownerID, req.Category, pageSize, offset)
	if err != nil {
		return nil, httperror.InternalServerError(
			"closet.index.failed",
			"Failed to retrieve closet items",
			nil,
		)
	}

	totalItems, err := h.repository.CountOwnerItems(ctx, ownerID, req.Category)
	if err != nil {
		return nil, httperror.InternalServerError(
			"closet.count.failed",
			"Failed to count closet items",
			nil,
		)
	}

	totalPages := (totalItems + pageSize - 1) / pageSize

	return &GetItemsResponse{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}, nil
}
