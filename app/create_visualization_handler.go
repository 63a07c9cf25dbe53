package app

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/stylehaus/closet/domain"
	"github.com/stylehaus/closet/internal/ai"
	"github.com/stylehaus/closet/pkg/events"
	"github.com/stylehaus/closet/pkg/httperror"
)

// CreateVisualizationHandler runs the visualization pipeline: resolve the
// requested items owner-scoped, hand their processed URLs to the generator
// in request order, store the composite and insert the row. Resolution fails
// closed: one unknown or foreign id rejects the whole request.
type CreateVisualizationHandler struct {
	repository     Repository
	storage        BlobStore
	generator      ai.OutfitGenerator
	eventPublisher events.Publisher
}

func NewCreateVisualizationHandler(repository Repository, storage BlobStore, generator ai.OutfitGenerator, eventPublisher events.Publisher) *CreateVisualizationHandler {
	return &CreateVisualizationHandler{
		repository:     repository,
		storage:        storage,
		generator:      generator,
		eventPublisher: eventPublisher,
	}
}

type CreateVisualizationRequest struct {
	ItemIDs []string `json:"item_ids" validate:"required,min=2,dive,required"`
	Prompt  string   `json:"prompt"`
}

type CreateVisualizationResponse struct {
	VisualizationID string   `json:"visualization_id"`
	ImageURL        string   `json:"image_url"`
	ItemIDs         []string `json:"item_ids"`
}

func (h *CreateVisualizationHandler) Handle(ctx context.Context, req *CreateVisualizationRequest) (*CreateVisualizationResponse, error) {
	ownerID, authErr := ownerFromContext(ctx)
	if authErr != nil {
		return nil, authErr
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(req); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			return nil, httperror.BadRequest(
				"visualization.invalid_input",
				"At least two item ids are required",
				ve.Error(),
			)
		}

		return nil, httperror.InternalServerError(
			"visualization.validation_error",
			"An unexpected validation error occurred",
			nil,
		)
	}

	items, err := h.repository.GetOwnerItemsByIDs(ctx, ownerID, req.ItemIDs)
	if err != nil {
		zap.L().Error("Failed to resolve items for visualization",
			zap.String("ownerID", ownerID),
			zap.Error(err),
		)
		return nil, httperror.InternalServerError("visualization.failed", "Failed to create visualization", nil)
	}

	byID := make(map[string]domain.Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	imageURLs := make([]string, 0, len(req.ItemIDs))
	for _, id := range req.ItemIDs {
		item, ok := byID[id]
		if !ok {
			return nil, httperror.NotFound(
				"visualization.items_not_found",
				"One or more items were not found in your closet",
				fiber.Map{"missing_id": id},
			)
		}
		imageURLs = append(imageURLs, item.ProcessedURL)
	}

	composite, err := h.generator.Generate(ctx, imageURLs, req.Prompt)
	if err != nil {
		zap.L().Error("Outfit generation failed",
			zap.String("ownerID", ownerID),
			zap.Strings("itemIDs", req.ItemIDs),
			zap.Error(err),
		)
		return nil, httperror.InternalServerError("visualization.failed", "Failed to create visualization", nil)
	}

	key := outfitKey(ownerID)
	if err := h.storage.Upload(key, composite); err != nil {
		zap.L().Error("Failed to store generated outfit",
			zap.String("ownerID", ownerID),
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, httperror.InternalServerError("visualization.failed", "Failed to create visualization", nil)
	}

	visualization := &domain.Visualization{
		OwnerID:  ownerID,
		ItemIDs:  req.ItemIDs,
		ImageURL: h.storage.PublicURL(key),
	}
	if req.Prompt != "" {
		visualization.Prompt = &req.Prompt
	}

	saved, err := h.repository.CreateVisualization(ctx, visualization)
	if err != nil {
		if delErr := h.storage.Delete(key); delErr != nil {
			zap.L().Error("Failed to roll back outfit blob",
				zap.String("key", key),
				zap.Error(delErr),
			)
		}
		zap.L().Error("Failed to save visualization record",
			zap.String("ownerID", ownerID),
			zap.Error(err),
		)
		return nil, httperror.InternalServerError("visualization.failed", "Failed to create visualization", nil)
	}

	h.publishCreated(ctx, saved)

	return &CreateVisualizationResponse{
		VisualizationID: saved.ID,
		ImageURL:        saved.ImageURL,
		ItemIDs:         saved.ItemIDs,
	}, nil
}

func (h *CreateVisualizationHandler) publishCreated(ctx context.Context, v domain.Visualization) {
	if h.eventPublisher == nil {
		return
	}

	headers := events.Headers{
		TraceID:       events.GenerateTraceID(),
		CorrelationID: events.GenerateCorrelationID(),
		Service:       events.ClosetDomain,
	}

	event := events.NewEvent(
		events.VisualizationCreatedEvent,
		events.EventVersionV1,
		events.VisualizationCreatedPayload{
			ID:        v.ID,
			OwnerID:   v.OwnerID,
			ItemIDs:   v.ItemIDs,
			ImageURL:  v.ImageURL,
			CreatedAt: time.Now(),
		},
		headers,
	)

	if err := h.eventPublisher.Publish(ctx, events.VisualizationExchange, event, headers); err != nil {
		zap.L().Error("Failed to publish visualization.created event",
			zap.String("visualizationID", v.ID),
			zap.Error(err),
		)
	}
}
