package spotify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ewilliams-labs/remixense/internal/core/domain"
	"github.com/ewilliams-labs/remixense/internal/core/ports"
)

const searchBody = `{
  "tracks": {
    "items": [
      {"id": "cover", "name": "Strobe", "duration_ms": 600000, "artists": [{"id": "x", "name": "Tribute Band"}]},
      {"id": "orig", "name": "Strobe", "duration_ms": 634000, "preview_url": "https://p.scdn.co/mp3-preview/abc",
       "external_ids": {"isrc": "CA5KR0900061"}, "artists": [{"id": "d", "name": "deadmau5"}]}
    ]
  }
}`

func newTestServer(t *testing.T, featuresStatus int, featuresBody string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "track", r.URL.Query().Get("type"))
		assert.Contains(t, r.URL.Query().Get("q"), "track:Strobe")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchBody))
	})
	mux.HandleFunc("GET /audio-features", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "orig", r.URL.Query().Get("ids"))
		w.WriteHeader(featuresStatus)
		_, _ = w.Write([]byte(featuresBody))
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestClient_GetTrackByMetadata(t *testing.T) {
	t.Run("resolves and analyses best match", func(t *testing.T) {
		ts := newTestServer(t, http.StatusOK, `{"audio_features":[{"id":"orig","energy":0.74,"tempo":128.0,"key":9,"mode":0}]}`)
		c := NewClient(ts.Client(), ts.URL, WithRetry(1, time.Millisecond))

		got, err := c.GetTrackByMetadata(context.Background(), "Strobe", "deadmau5")
		require.NoError(t, err)
		assert.Equal(t, "orig", got.ID)
		assert.Equal(t, "8A", got.Key)
		require.NotNil(t, got.Tempo)
		assert.InDelta(t, 128.0, *got.Tempo, 1e-9)
		require.NotNil(t, got.Energy)
		assert.Equal(t, 7, *got.Energy)
		assert.Equal(t, "https://p.scdn.co/mp3-preview/abc", got.PreviewURL)
	})

	t.Run("forbidden features leave track unanalyzed", func(t *testing.T) {
		ts := newTestServer(t, http.StatusForbidden, `{"error":{"status":403}}`)
		c := NewClient(ts.Client(), ts.URL, WithRetry(1, time.Millisecond))

		got, err := c.GetTrackByMetadata(context.Background(), "Strobe", "deadmau5")
		require.NoError(t, err)
		assert.Equal(t, "orig", got.ID)
		assert.Nil(t, got.Tempo)
		assert.Nil(t, got.Energy)
	})

	t.Run("null features entry", func(t *testing.T) {
		ts := newTestServer(t, http.StatusOK, `{"audio_features":[null]}`)
		c := NewClient(ts.Client(), ts.URL, WithRetry(1, time.Millisecond))

		got, err := c.GetTrackByMetadata(context.Background(), "Strobe", "deadmau5")
		require.NoError(t, err)
		assert.Nil(t, got.Tempo)
	})

	t.Run("features server error", func(t *testing.T) {
		ts := newTestServer(t, http.StatusInternalServerError, `{}`)
		c := NewClient(ts.Client(), ts.URL, WithRetry(2, time.Millisecond))

		_, err := c.GetTrackByMetadata(context.Background(), "Strobe", "deadmau5")
		require.Error(t, err)
	})

	t.Run("no confident match", func(t *testing.T) {
		ts := newTestServer(t, http.StatusOK, `{"audio_features":[]}`)
		c := NewClient(ts.Client(), ts.URL, WithRetry(1, time.Millisecond))

		_, err := c.GetTrackByMetadata(context.Background(), "Strobe Light Symphony", "Completely Unknown Orchestra")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ports.ErrNoConfidentMatch))
	})

	t.Run("missing input", func(t *testing.T) {
		c := NewClient(nil, "")
		_, err := c.GetTrackByMetadata(context.Background(), " ", "deadmau5")
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})
}
