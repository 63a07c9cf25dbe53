package consumers

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/stylehaus/closet/pkg/events"
)

// ClosetEventHandler is the worker-side consumer for closet events. It keeps
// a structured audit trail of item and visualization lifecycle changes; the
// queue is also where future followers (thumbnailing, usage metering) would
// hook in without touching the request path.
type ClosetEventHandler struct {
	logger *zap.Logger
}

func NewClosetEventHandler(logger *zap.Logger) *ClosetEventHandler {
	return &ClosetEventHandler{
		logger: logger,
	}
}

func (h *ClosetEventHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	h.logger.Info("Closet event received",
		zap.String("event", event.Event),
		zap.String("version", event.Version),
		zap.String("traceId", event.TraceID),
	)

	switch event.Event {
	case events.ItemCreatedEvent:
		return h.handleItemCreated(event)
	case events.ItemDeletedEvent:
		return h.handleItemDeleted(event)
	case events.VisualizationCreatedEvent:
		return h.handleVisualizationCreated(event)
	case events.VisualizationDeletedEvent:
		h.logger.Info("Visualization deleted", zap.String("traceId", event.TraceID))
		return nil
	default:
		h.logger.Warn("Unknown closet event type", zap.String("event", event.Event))
		return nil
	}
}

func (h *ClosetEventHandler) handleItemCreated(event *events.Event) error {
	var payload events.ItemCreatedPayload
	if err := decodePayload(event.Payload, &payload); err != nil {
		return err
	}

	if payload.ID == "" || payload.OwnerID == "" {
		return fmt.Errorf("malformed payload - id or ownerId missing")
	}

	h.logger.Info("Item added to closet",
		zap.String("itemId", payload.ID),
		zap.String("ownerId", payload.OwnerID),
		zap.String("category", payload.Category),
		zap.String("processedUrl", payload.ProcessedURL),
		zap.String("traceId", event.TraceID),
	)
	return nil
}

func (h *ClosetEventHandler) handleItemDeleted(event *events.Event) error {
	var payload events.ItemDeletedPayload
	if err := decodePayload(event.Payload, &payload); err != nil {
		return err
	}

	if payload.ID == "" {
		return fmt.Errorf("malformed payload - id missing")
	}

	h.logger.Info("Item removed from closet",
		zap.String("itemId", payload.ID),
		zap.String("ownerId", payload.OwnerID),
		zap.String("traceId", event.TraceID),
	)
	return nil
}

func (h *ClosetEventHandler) handleVisualizationCreated(event *events.Event) error {
	var payload events.VisualizationCreatedPayload
	if err := decodePayload(event.Payload, &payload); err != nil {
		return err
	}

	if payload.ID == "" || len(payload.ItemIDs) < 2 {
		return fmt.Errorf("malformed payload - id missing or fewer than two item ids")
	}

	h.logger.Info("Outfit visualization generated",
		zap.String("visualizationId", payload.ID),
		zap.String("ownerId", payload.OwnerID),
		zap.Strings("itemIds", payload.ItemIDs),
		zap.String("imageUrl", payload.ImageURL),
		zap.String("traceId", event.TraceID),
	)
	return nil
}

// decodePayload round-trips the generic payload through JSON into the typed
// struct, since the envelope decodes payloads as map[string]interface{}.
func decodePayload(payload interface{}, out interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("malformed payload - marshal failed: %w", err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("malformed payload - unmarshal failed: %w", err)
	}

	return nil
}
