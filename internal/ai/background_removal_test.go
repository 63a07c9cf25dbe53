package ai

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferenceRemoverSendsImageAndReturnsResponse(t *testing.T) {
	processed := []byte{0x89, 'P', 'N', 'G'}
	var gotAuth, gotContentType string
	var gotBody []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(processed)
	}))
	defer server.Close()

	remover := NewInferenceRemover(server.URL, "secret-key", 5*time.Second)

	result, err := remover.RemoveBackground(context.Background(), []byte("raw jpeg"), "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, processed, result)
	assert.Equal(t, "Bearer secret-key", gotAuth)
	assert.Equal(t, "application/octet-stream", gotContentType)
	assert.Equal(t, []byte("raw jpeg"), gotBody)
}

func TestInferenceRemoverClassifiesNon200AsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"model loading"}`))
	}))
	defer server.Close()

	remover := NewInferenceRemover(server.URL, "secret-key", 5*time.Second)

	_, err := remover.RemoveBackground(context.Background(), []byte("raw"), "image/jpeg")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
	assert.Contains(t, err.Error(), "503")
}

func TestInferenceRemoverClassifiesSlowGatewayAsTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	remover := NewInferenceRemover(server.URL, "secret-key", 20*time.Millisecond)

	_, err := remover.RemoveBackground(context.Background(), []byte("raw"), "image/jpeg")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGatewayTimeout)
}

func TestInferenceRemoverHonorsContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	remover := NewInferenceRemover(server.URL, "secret-key", 5*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := remover.RemoveBackground(ctx, []byte("raw"), "image/jpeg")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGatewayTimeout)
}

func TestInferenceRemoverUnreachableHostIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // port is now refusing connections

	remover := NewInferenceRemover(server.URL, "secret-key", 5*time.Second)

	_, err := remover.RemoveBackground(context.Background(), []byte("raw"), "image/jpeg")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}
