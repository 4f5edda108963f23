package spotify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/ewilliams-labs/remixense/internal/core/domain"
	"github.com/ewilliams-labs/remixense/internal/core/ports"
)

const searchLimit = 10

type searchResponse struct {
	Tracks struct {
		Items []spotifyTrack `json:"items"`
	} `json:"tracks"`
}

type audioFeaturesResponse struct {
	AudioFeatures []*spotifyAudioFeatures `json:"audio_features"`
}

// GetTrackByMetadata searches the catalog for title and artist and returns the
// best confident match with its audio analysis attached.
func (c *Client) GetTrackByMetadata(ctx context.Context, title, artist string) (domain.Track, error) {
	title = strings.TrimSpace(title)
	artist = strings.TrimSpace(artist)
	if title == "" || artist == "" {
		return domain.Track{}, fmt.Errorf("spotify adapter: title and artist are required: %w", domain.ErrInvalidArgument)
	}

	q := url.Values{}
	q.Set("q", fmt.Sprintf("track:%s artist:%s", title, artist))
	q.Set("type", "track")
	q.Set("limit", fmt.Sprint(searchLimit))

	var res searchResponse
	if err := c.getJSON(ctx, "/search", q, &res); err != nil {
		return domain.Track{}, fmt.Errorf("spotify adapter: search: %w", err)
	}

	st, ok := bestMatch(res.Tracks.Items, title, artist)
	if !ok {
		return domain.Track{}, &ports.NoConfidentMatchError{Title: title, Artist: artist}
	}

	features, err := c.audioFeatures(ctx, st.ID)
	if err != nil {
		return domain.Track{}, err
	}
	return mapTrackToDomain(st, features), nil
}

// audioFeatures fetches tempo, key and energy for a single track. Spotify
// refuses the endpoint for some apps and tracks; those come back as nil so the
// track is stored unanalyzed instead of failing the import.
func (c *Client) audioFeatures(ctx context.Context, id string) (*spotifyAudioFeatures, error) {
	q := url.Values{}
	q.Set("ids", id)

	var res audioFeaturesResponse
	err := c.getJSON(ctx, "/audio-features", q, &res)
	var se *statusError
	if errors.As(err, &se) && (se.Status == http.StatusForbidden || se.Status == http.StatusNotFound) {
		log.Printf("WARN spotify adapter: audio features unavailable for %s (status %d)", id, se.Status)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: audio features: %w", err)
	}

	for _, f := range res.AudioFeatures {
		if f != nil && f.ID == id {
			return f, nil
		}
	}
	return nil, nil
}
