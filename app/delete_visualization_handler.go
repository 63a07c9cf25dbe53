package app

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/stylehaus/closet/domain"
	"github.com/stylehaus/closet/pkg/events"
	"github.com/stylehaus/closet/pkg/httperror"
)

// DeleteVisualizationHandler follows the same policy as item deletion:
// blob first, row last.
type DeleteVisualizationHandler struct {
	repository     Repository
	storage        BlobStore
	eventPublisher events.Publisher
}

func NewDeleteVisualizationHandler(repository Repository, storage BlobStore, eventPublisher events.Publisher) *DeleteVisualizationHandler {
	return &DeleteVisualizationHandler{
		repository:     repository,
		storage:        storage,
		eventPublisher: eventPublisher,
	}
}

type DeleteVisualizationRequest struct {
	VisualizationID string `params:"id" validate:"required"`
}

type DeleteVisualizationResponse struct {
	Success bool `json:"success"`
}

func (h *DeleteVisualizationHandler) Handle(ctx context.Context, req *DeleteVisualizationRequest) (*DeleteVisualizationResponse, error) {
	ownerID, authErr := ownerFromContext(ctx)
	if authErr != nil {
		return nil, authErr
	}

	visualization, err := h.repository.GetOwnerVisualization(ctx, req.VisualizationID, ownerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, httperror.NotFound(
				"visualization.delete.not_found",
				"Visualization not found",
				nil,
			)
		}
		return nil, httperror.InternalServerError(
			"visualization.delete.record_failed",
			"Failed to look up visualization",
			nil,
		)
	}

	key := h.storage.KeyFromURL(visualization.ImageURL)
	if err := h.storage.Delete(key); err != nil {
		return nil, httperror.InternalServerError(
			"visualization.delete.storage_failed",
			"Failed to delete stored image",
			err.Error(),
		)
	}

	if err := h.repository.DeleteVisualization(ctx, req.VisualizationID, ownerID); err != nil {
		return nil, httperror.InternalServerError(
			"visualization.delete.record_failed",
			"Failed to delete visualization record",
			nil,
		)
	}

	h.publishDeleted(ctx, visualization)

	return &DeleteVisualizationResponse{Success: true}, nil
}

func (h *DeleteVisualizationHandler) publishDeleted(ctx context.Context, v domain.Visualization) {
	if h.eventPublisher == nil {
		return
	}

	headers := events.Headers{
		TraceID:       events.GenerateTraceID(),
		CorrelationID: events.GenerateCorrelationID(),
		Service:       events.ClosetDomain,
	}

	event := events.NewEvent(
		events.VisualizationDeletedEvent,
		events.EventVersionV1,
		events.VisualizationDeletedPayload{
			ID:        v.ID,
			OwnerID:   v.OwnerID,
			DeletedAt: time.Now(),
		},
		headers,
	)

	if err := h.eventPublisher.Publish(ctx, events.VisualizationExchange, event, headers); err != nil {
		zap.L().Error("Failed to publish visualization.deleted event",
			zap.String("visualizationID", v.ID),
			zap.Error(err),
		)
	}
}
