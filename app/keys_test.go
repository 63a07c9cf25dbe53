package app

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlobKeysAreOwnerScoped(t *testing.T) {
	assert.True(t, strings.HasPrefix(originalKey("user-1", "image/jpeg"), "closet/user-1/originals/"))
	assert.True(t, strings.HasPrefix(processedKey("user-1"), "closet/user-1/processed/"))
	assert.True(t, strings.HasPrefix(outfitKey("user-1"), "closet/user-1/outfits/"))
}

func TestBlobKeysNeverCollide(t *testing.T) {
	assert.NotEqual(t, processedKey("user-1"), processedKey("user-1"))
	assert.NotEqual(t, originalKey("user-1", "image/png"), originalKey("user-1", "image/png"))
}

func TestProcessedAndOutfitKeysArePNG(t *testing.T) {
	assert.True(t, strings.HasSuffix(processedKey("user-1"), ".png"))
	assert.True(t, strings.HasSuffix(outfitKey("user-1"), ".png"))
}

func TestGetExtensionFromContentType(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
	}{
		{"image/png", ".png"},
		{"image/jpeg", ".jpg"},
		{"image/jpg", ".jpg"},
		{"image/webp", ".webp"},
		{"application/octet-stream", ".jpg"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, getExtensionFromContentType(tt.contentType), tt.contentType)
	}
}
