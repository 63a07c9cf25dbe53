package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylehaus/closet/internal/ai"
)

type fakeFetcher struct {
	data        []byte
	contentType string
	err         error
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string) ([]byte, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	return f.data, f.contentType, nil
}

func newRemoveBackgroundApp(fetcher ImageFetcher, remover ai.BackgroundRemover) *fiber.App {
	app := fiber.New()
	app.Post("/remove-background", NewRemoveBackgroundHandler(fetcher, remover))
	return app
}

func postRemoveBackground(t *testing.T, app *fiber.App, body string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest("POST", "/remove-background", bytes.NewBufferString(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	res, err := app.Test(req, -1)
	require.NoError(t, err)

	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, data
}

func decodeErrorCode(t *testing.T, body []byte) string {
	t.Helper()
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	code, _ := payload["code"].(string)
	return code
}

func TestRemoveBackgroundReturnsProcessedImage(t *testing.T) {
	fetcher := &fakeFetcher{data: []byte("jpeg bytes"), contentType: "image/jpeg"}
	remover := &fakeRemover{result: pngBytes}
	app := newRemoveBackgroundApp(fetcher, remover)

	res, body := postRemoveBackground(t, app, `{"image_url":"https://example.com/shirt.jpg"}`)

	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Equal(t, "image/png", res.Header.Get(fiber.HeaderContentType))
	assert.Equal(t, pngBytes, body)
	assert.Equal(t, 1, remover.calls)
}

func TestRemoveBackgroundRejectsMissingURL(t *testing.T) {
	app := newRemoveBackgroundApp(&fakeFetcher{}, &fakeRemover{})

	res, body := postRemoveBackground(t, app, `{}`)

	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "remove_background.invalid_input", decodeErrorCode(t, body))
}

func TestRemoveBackgroundRejectsMalformedURL(t *testing.T) {
	app := newRemoveBackgroundApp(&fakeFetcher{}, &fakeRemover{})

	res, body := postRemoveBackground(t, app, `{"image_url":"not a url"}`)

	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "remove_background.invalid_input", decodeErrorCode(t, body))
}

func TestRemoveBackgroundFetchFailureReturnsBadGateway(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	remover := &fakeRemover{}
	app := newRemoveBackgroundApp(fetcher, remover)

	res, body := postRemoveBackground(t, app, `{"image_url":"https://example.com/gone.jpg"}`)

	assert.Equal(t, fiber.StatusBadGateway, res.StatusCode)
	assert.Equal(t, "remove_background.fetch_failed", decodeErrorCode(t, body))
	assert.Zero(t, remover.calls)
}

func TestRemoveBackgroundGatewayFailureReturnsBadGateway(t *testing.T) {
	fetcher := &fakeFetcher{data: []byte("jpeg bytes"), contentType: "image/jpeg"}
	app := newRemoveBackgroundApp(fetcher, &fakeRemover{err: ai.ErrGatewayUnavailable})

	res, body := postRemoveBackground(t, app, `{"image_url":"https://example.com/shirt.jpg"}`)

	assert.Equal(t, fiber.StatusBadGateway, res.StatusCode)
	assert.Equal(t, "remove_background.gateway_unavailable", decodeErrorCode(t, body))
}

func TestRemoveBackgroundGatewayTimeoutReturnsGatewayTimeout(t *testing.T) {
	fetcher := &fakeFetcher{data: []byte("jpeg bytes"), contentType: "image/jpeg"}
	app := newRemoveBackgroundApp(fetcher, &fakeRemover{err: ai.ErrGatewayTimeout})

	res, body := postRemoveBackground(t, app, `{"image_url":"https://example.com/shirt.jpg"}`)

	assert.Equal(t, fiber.StatusGatewayTimeout, res.StatusCode)
	assert.Equal(t, "remove_background.gateway_timeout", decodeErrorCode(t, body))
}
