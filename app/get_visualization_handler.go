package app

import (
	"context"
	"database/sql"

	"github.com/stylehaus/closet/domain"
	"github.com/stylehaus/closet/pkg/httperror"
)

type GetVisualizationHandler struct {
	repository Repository
}

func NewGetVisualizationHandler(repository Repository) *GetVisualizationHandler {
	return &GetVisualizationHandler{
		repository: repository,
	}
}

type GetVisualizationRequest struct {
	VisualizationID string `params:"id" validate:"required"`
}

type GetVisualizationResponse struct {
	Visualization domain.Visualization `json:"visualization"`
}

func (h *GetVisualizationHandler) Handle(ctx context.Context, req *GetVisualizationRequest) (*GetVisualizationResponse, error) {
	ownerID, authErr := ownerFromContext(ctx)
	if authErr != nil {
		return nil, authErr
	}

	visualization, err := h.repository.GetOwnerVisualization(ctx, req.VisualizationID, ownerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, httperror.NotFound(
				"visualization.show.not_found",
				"Visualization not found",
				nil,
			)
		}
		return nil, httperror.InternalServerError(
			"visualization.show.failed",
			"Failed to retrieve visualization",
			nil,
		)
	}

	return &GetVisualizationResponse{Visualization: visualization}, nil
}
