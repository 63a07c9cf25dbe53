package app

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/stylehaus/closet/domain"
	"github.com/stylehaus/closet/internal/ai"
	"github.com/stylehaus/closet/pkg/events"
	"github.com/stylehaus/closet/pkg/httperror"
)

// UploadItemHandler runs the upload pipeline: store the original, strip the
// background, store the processed PNG, insert the row. Any failure after a
// blob write rolls back the blobs written in this request, so a half-done
// upload never leaves a row or an orphan behind.
type UploadItemHandler struct {
	repository     Repository
	storage        BlobStore
	remover        ai.BackgroundRemover
	eventPublisher events.Publisher
}

func NewUploadItemHandler(repository Repository, storage BlobStore, remover ai.BackgroundRemover, eventPublisher events.Publisher) *UploadItemHandler {
	return &UploadItemHandler{
		repository:     repository,
		storage:        storage,
		remover:        remover,
		eventPublisher: eventPublisher,
	}
}

type UploadItemRequest struct {
	Category string `form:"category" validate:"required,oneof=top bottom shoes outerwear accessory"`
}

type UploadItemResponse struct {
	Item domain.Item `json:"item"`
}

func (h *UploadItemHandler) Handle(ctx context.Context, req *UploadItemRequest) (*UploadItemResponse, error) {
	ownerID, authErr := ownerFromContext(ctx)
	if authErr != nil {
		return nil, authErr
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(req); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			return nil, httperror.BadRequest(
				"upload.invalid_input",
				"Validation failed for the request",
				ve.Error(),
			)
		}

		return nil, httperror.InternalServerError(
			"upload.validation_error",
			"An unexpected validation error occurred",
			nil,
		)
	}

	fiberCtx := ctx.Value("fiber")
	if fiberCtx == nil {
		return nil, httperror.InternalServerError("upload.no_context", "Fiber context not found", nil)
	}

	c, ok := fiberCtx.(*fiber.Ctx)
	if !ok {
		return nil, httperror.InternalServerError("upload.invalid_context", "Invalid Fiber context", nil)
	}

	file, err := c.FormFile("image")
	if err != nil {
		return nil, httperror.BadRequest("upload.invalid_input", "Image file is required (use 'image' field)", fiber.Map{"error": err.Error()})
	}

	const maxFileSize = 5 * 1024 * 1024
	if file.Size > maxFileSize {
		return nil, httperror.BadRequest("upload.invalid_input", "File size must not exceed 5MB",
			fiber.Map{
				"size_mb": float64(file.Size) / 1024 / 1024,
				"max_mb":  5,
			})
	}

	contentType := file.Header.Get("Content-Type")

	allowedTypes := map[string]bool{
		"image/png":  true,
		"image/jpeg": true,
		"image/jpg":  true,
	}
	if !allowedTypes[contentType] {
		return nil, httperror.BadRequest("upload.invalid_input", "Only PNG, JPEG/JPG images are allowed",
			fiber.Map{
				"received": contentType,
				"allowed":  []string{"image/png", "image/jpeg", "image/jpg"},
			})
	}

	fileReader, err := file.Open()
	if err != nil {
		return nil, httperror.InternalServerError("upload.file_open_error", "Failed to open uploaded file", err.Error())
	}
	defer fileReader.Close()

	fileBytes, err := io.ReadAll(fileReader)
	if err != nil {
		return nil, httperror.InternalServerError("upload.file_read_error", "Failed to read file content", err.Error())
	}

	return h.processUpload(ctx, ownerID, req.Category, fileBytes, contentType)
}

func (h *UploadItemHandler) processUpload(ctx context.Context, ownerID, category string, imageData []byte, contentType string) (*UploadItemResponse, error) {
	origKey := originalKey(ownerID, contentType)

	if err := h.storage.Upload(origKey, imageData); err != nil {
		return nil, httperror.InternalServerError("upload.storage_failed", "Failed to store original image", err.Error())
	}

	processedBytes, err := h.remover.RemoveBackground(ctx, imageData, contentType)
	if err != nil {
		h.rollbackBlobs(origKey)
		if errors.Is(err, ai.ErrGatewayTimeout) {
			return nil, httperror.GatewayTimeout("upload.background_removal_failed", "Background removal timed out", err.Error())
		}
		return nil, httperror.BadGateway("upload.background_removal_failed", "Background removal failed", err.Error())
	}

	procKey := processedKey(ownerID)
	if err := h.storage.Upload(procKey, processedBytes); err != nil {
		h.rollbackBlobs(origKey)
		return nil, httperror.InternalServerError("upload.storage_failed", "Failed to store processed image", err.Error())
	}

	item := &domain.Item{
		OwnerID:      ownerID,
		Category:     category,
		OriginalURL:  h.storage.PublicURL(origKey),
		ProcessedURL: h.storage.PublicURL(procKey),
	}

	saved, err := h.repository.CreateItem(ctx, item)
	if err != nil {
		h.rollbackBlobs(origKey, procKey)
		return nil, httperror.InternalServerError("upload.record_failed", "Failed to save item record", err.Error())
	}

	h.publishCreated(ctx, saved)

	return &UploadItemResponse{Item: saved}, nil
}

// rollbackBlobs removes blobs written earlier in the same request. Deletion
// failures are only logged: the keys are uuid-scoped, so a leftover blob can
// never be observed through any record.
func (h *UploadItemHandler) rollbackBlobs(keys ...string) {
	for _, key := range keys {
		if err := h.storage.Delete(key); err != nil {
			zap.L().Error("Failed to roll back blob",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}
}

func (h *UploadItemHandler) publishCreated(ctx context.Context, item domain.Item) {
	if h.eventPublisher == nil {
		return
	}

	headers := events.Headers{
		TraceID:       events.GenerateTraceID(),
		CorrelationID: events.GenerateCorrelationID(),
		Service:       events.ClosetDomain,
	}

	event := events.NewEvent(
		events.ItemCreatedEvent,
		events.EventVersionV1,
		events.ItemCreatedPayload{
			ID:           item.ID,
			OwnerID:      item.OwnerID,
			Category:     item.Category,
			OriginalURL:  item.OriginalURL,
			ProcessedURL: item.ProcessedURL,
			CreatedAt:    time.Now(),
		},
		headers,
	)

	if err := h.eventPublisher.Publish(ctx, events.ClosetExchange, event, headers); err != nil {
		zap.L().Error("Failed to publish item.created event",
			zap.String("itemID", item.ID),
			zap.Error(err),
		)
	}
}
