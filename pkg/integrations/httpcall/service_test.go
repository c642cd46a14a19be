package httpcall

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/dukex/areion/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalContext(credential *models.Credential) models.EvaluationContext {
	return models.EvaluationContext{
		Credential: credential,
		Logger:     slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})),
	}
}

func TestRequest_SendsMethodHeadersAndBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer api-token", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, `{"text":"hello"}`, string(body))

		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	reaction := NewService().Reactions()[0]

	err := reaction.Execute(context.Background(), map[string]any{
		"url":     server.URL,
		"method":  "post",
		"headers": map[string]any{"Content-Type": "application/json"},
		"body":    `{"text":"hello"}`,
	}, evalContext(&models.Credential{AccessToken: "api-token"}))

	require.NoError(t, err)
}

func TestRequest_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)

			return
		}

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	reaction := NewService().Reactions()[0]

	err := reaction.Execute(context.Background(), map[string]any{
		"url":   server.URL,
		"retry": map[string]any{"attempts": float64(3)},
	}, evalContext(nil))

	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRequest_ExhaustedRetriesFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	reaction := NewService().Reactions()[0]

	err := reaction.Execute(context.Background(), map[string]any{
		"url":   server.URL,
		"retry": map[string]any{"attempts": float64(2)},
	}, evalContext(nil))

	require.ErrorIs(t, err, ErrServerError)
}

func TestRequest_ClientErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	reaction := NewService().Reactions()[0]

	err := reaction.Execute(context.Background(), map[string]any{
		"url":   server.URL,
		"retry": map[string]any{"attempts": float64(3)},
	}, evalContext(nil))

	require.ErrorIs(t, err, ErrRequestRejected)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRequest_MissingURL(t *testing.T) {
	reaction := NewService().Reactions()[0]

	err := reaction.Execute(context.Background(), map[string]any{}, evalContext(nil))
	require.ErrorIs(t, err, ErrURLRequired)
}
