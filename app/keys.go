package app

import (
	"fmt"

	"github.com/google/uuid"
)

// Blob keys are owner-scoped and uuid-unique, so re-uploading the same file
// never collides with an earlier upload.

func originalKey(ownerID, contentType string) string {
	return fmt.Sprintf("closet/%s/originals/%s%s", ownerID, uuid.New().String(), getExtensionFromContentType(contentType))
}

func processedKey(ownerID string) string {
	return fmt.Sprintf("closet/%s/processed/%s.png", ownerID, uuid.New().String())
}

func outfitKey(ownerID string) string {
	return fmt.Sprintf("closet/%s/outfits/%s.png", ownerID, uuid.New().String())
}

func getExtensionFromContentType(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
