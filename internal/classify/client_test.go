package classify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quicksortapp/quicksort/internal/common"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(Config{BaseURL: server.URL})
	require.NoError(t, err)
	return client
}

func TestPredict_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/predict", r.URL.Path)

		var req predictRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "https://images.test/u1/1.jpg", req.ImageURL)

		_ = json.NewEncoder(w).Encode(predictResponse{
			Status:   " ",
			Category: "캔류",
			Detail:   "음료캔",
		})
	})

	got, err := client.Predict(context.Background(), "https://images.test/u1/1.jpg")
	require.NoError(t, err)
	assert.Equal(t, "캔류", got.Category)
	assert.Equal(t, "음료캔", got.SubDetail)
}

func TestPredict_Non200IsClassificationFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.Predict(context.Background(), "https://images.test/u1/1.jpg")
	assert.ErrorIs(t, err, common.ErrClassificationFailed)
}

func TestPredict_ErrorStatusIsClassificationFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(predictResponse{Status: "error", Category: "캔류"})
	})

	_, err := client.Predict(context.Background(), "https://images.test/u1/1.jpg")
	assert.ErrorIs(t, err, common.ErrClassificationFailed)
}

func TestPredict_MissingCategoryIsClassificationFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(predictResponse{Status: "ok"})
	})

	_, err := client.Predict(context.Background(), "https://images.test/u1/1.jpg")
	assert.ErrorIs(t, err, common.ErrClassificationFailed)
}

func TestPing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ping", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "pong"})
	})

	assert.NoError(t, client.Ping(context.Background()))
}

func TestNewHTTPClient_RequiresBaseURL(t *testing.T) {
	_, err := NewHTTPClient(Config{})
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}
