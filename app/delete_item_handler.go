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

// DeleteItemHandler removes an item the caller owns. Blobs go first and the
// row last, so a storage failure leaves the row in place and the delete can
// simply be retried.
type DeleteItemHandler struct {
	repository     Repository
	storage        BlobStore
	eventPublisher events.Publisher
}

func NewDeleteItemHandler(repository Repository, storage BlobStore, eventPublisher events.Publisher) *DeleteItemHandler {
	return &DeleteItemHandler{
		repository:     repository,
		storage:        storage,
		eventPublisher: eventPublisher,
	}
}

type DeleteItemRequest struct {
	ItemID string `params:"id" validate:"required"`
}

type DeleteItemResponse struct {
	Success bool `json:"success"`
}

func (h *DeleteItemHandler) Handle(ctx context.Context, req *DeleteItemRequest) (*DeleteItemResponse, error) {
	ownerID, authErr := ownerFromContext(ctx)
	if authErr != nil {
		return nil, authErr
	}

	item, err := h.repository.GetOwnerItem(ctx, req.ItemID, ownerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, httperror.NotFound(
				"item.delete.not_found",
				"Item not found",
				nil,
			)
		}
		return nil, httperror.InternalServerError(
			"item.delete.record_failed",
			"Failed to look up item",
			nil,
		)
	}

	for _, url := range []string{item.OriginalURL, item.ProcessedURL} {
		key := h.storage.KeyFromURL(url)
		if err := h.storage.Delete(key); err != nil {
			return nil, httperror.InternalServerError(
				"item.delete.storage_failed",
				"Failed to delete stored image",
				err.Error(),
			)
		}
	}

	if err := h.repository.DeleteItem(ctx, req.ItemID, ownerID); err != nil {
		return nil, httperror.InternalServerError(
			"item.delete.record_failed",
			"Failed to delete item record",
			nil,
		)
	}

	h.publishDeleted(ctx, item)

	return &DeleteItemResponse{Success: true}, nil
}

func (h *DeleteItemHandler) publishDeleted(ctx context.Context, item domain.Item) {
	if h.eventPublisher == nil {
		return
	}

	headers := events.Headers{
		TraceID:       events.GenerateTraceID(),
		CorrelationID: events.GenerateCorrelationID(),
		Service:       events.ClosetDomain,
	}

	event := events.NewEvent(
		events.ItemDeletedEvent,
		events.EventVersionV1,
		events.ItemDeletedPayload{
			ID:        item.ID,
			OwnerID:   item.OwnerID,
			DeletedAt: time.Now(),
		},
		headers,
	)

	if err := h.eventPublisher.Publish(ctx, events.ClosetExchange, event, headers); err != nil {
		zap.L().Error("Failed to publish item.deleted event",
			zap.String("itemID", item.ID),
			zap.Error(err),
		)
	}
}
