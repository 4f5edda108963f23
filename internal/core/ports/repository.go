package ports

import (
	"context"

	"github.com/ewilliams-labs/remixense/internal/core/domain"
)

// TrackCatalog stores the user's track library.
type TrackCatalog interface {
	SaveTrack(ctx context.Context, t domain.Track) error
	// SaveTracks upserts a batch; new tracks keep the batch order.
	SaveTracks(ctx context.Context, tracks []domain.Track) error
	GetTrack(ctx context.Context, id string) (domain.Track, error)
	// ListTracks returns the catalog in insertion order.
	ListTracks(ctx context.Context) ([]domain.Track, error)
	UpdateTrackAnalysis(ctx context.Context, trackID string, energy int) error
}

// MixSessionRepository persists saved mixes.
type MixSessionRepository interface {
	SaveSession(ctx context.Context, s domain.MixSession) error
	GetSession(ctx context.Context, id string) (domain.MixSession, error)
	// ListSessions returns sessions newest first.
	ListSessions(ctx context.Context) ([]domain.MixSession, error)
}
