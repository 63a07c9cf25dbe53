package app

import (
	"context"

	"github.com/stylehaus/closet/domain"
	"github.com/stylehaus/closet/pkg/httperror"
)

type GetVisualizationsHandler struct {
	repository Repository
}

func NewGetVisualizationsHandler(repository Repository) *GetVisualizationsHandler {
	return &GetVisualizationsHandler{
		repository: repository,
	}
}

type GetVisualizationsRequest struct {
	Page     int `query:"page"`
	PageSize int `query:"pageSize"`
}

type GetVisualizationsResponse struct {
	Visualizations []domain.Visualization `json:"visualizations"`
	Page           int                    `json:"page"`
	PageSize       int                    `json:"pageSize"`
	TotalItems     int                    `json:"totalItems"`
	TotalPages     int                    `json:"totalPages"`
}

func (h *GetVisualizationsHandler) Handle(ctx context.Context, req *GetVisualizationsRequest) (*GetVisualizationsResponse, error) {
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

	visualizations, err := h.repository.GetOwnerVisualizations(ctx, ownerID, pageSize, offset)
	if err != nil {
		return nil, httperror.InternalServerError(
			"visualization.index.failed",
			"Failed to retrieve visualizations",
			nil,
		)
	}

	totalItems, err := h.repository.CountOwnerVisualizations(ctx, ownerID)
	if err != nil {
		return nil, httperror.InternalServerError(
			"visualization.count.failed",
			"Failed to count visualizations",
			nil,
		)
	}

	totalPages := (totalItems + pageSize - 1) / pageSize

	return &GetVisualizationsResponse{
		Visualizations: visualizations,
		Page:           page,
		PageSize:       pageSize,
		TotalItems:     totalItems,
		TotalPages:     totalPages,
	}, nil
}
