package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ewilliams-labs/remixense/internal/core/domain"
	"github.com/ewilliams-labs/remixense/internal/core/mixing"
	"github.com/ewilliams-labs/remixense/internal/core/ports"
)

// ErrProviderUnavailable is returned when no metadata provider is configured.
var ErrProviderUnavailable = errors.New("service: metadata provider not configured")

// Orchestrator coordinates the track catalog, saved sessions and the mix engine.
type Orchestrator struct {
	catalog   ports.TrackCatalog
	sessions  ports.MixSessionRepository
	provider  ports.MetadataProvider
	engine    *mixing.Engine
	maxTracks int
	now       func() time.Time
	newID     func() string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithDefaultMaxTracks sets the mix size used when a request does not name one.
func WithDefaultMaxTracks(n int) Option {
	return func(o *Orchestrator) {
		if n >= 2 {
			o.maxTracks = n
		}
	}
}

// WithClock overrides the session timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// NewOrchestrator constructs an Orchestrator. provider may be nil, in which
// case ImportTrack returns ErrProviderUnavailable. A nil engine uses the default.
func NewOrchestrator(catalog ports.TrackCatalog, sessions ports.MixSessionRepository, provider ports.MetadataProvider, engine *mixing.Engine, opts ...Option) *Orchestrator {
	if engine == nil {
		engine = mixing.NewEngine()
	}
	o := &Orchestrator{
		catalog:   catalog,
		sessions:  sessions,
		provider:  provider,
		engine:    engine,
		maxTracks: mixing.DefaultMaxTracks,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// NewTrack is the input for AddTrack.
type NewTrack struct {
	ID         string
	Title      string
	Artist     string
	Tempo      *float64
	Key        string
	Energy     *int
	Duration   string
	ISRC       string
	PreviewURL string
}

// AddTrack validates and stores a track in the catalog.
func (o *Orchestrator) AddTrack(ctx context.Context, in NewTrack) (domain.Track, error) {
	t, err := o.buildTrack(in)
	if err != nil {
		return domain.Track{}, err
	}
	if err := o.catalog.SaveTrack(ctx, t); err != nil {
		return domain.Track{}, fmt.Errorf("service: failed to save track: %w", err)
	}
	return t, nil
}

// AddTracks validates a batch and stores the valid tracks in one write, keeping
// their order. Invalid entries are skipped and reported in rejected.
func (o *Orchestrator) AddTracks(ctx context.Context, in []NewTrack) (saved []domain.Track, rejected []error, err error) {
	saved = make([]domain.Track, 0, len(in))
	for i, nt := range in {
		t, err := o.buildTrack(nt)
		if err != nil {
			rejected = append(rejected, fmt.Errorf("track %d %q: %w", i, nt.Title, err))
			continue
		}
		saved = append(saved, t)
	}
	if len(saved) == 0 {
		return nil, rejected, nil
	}
	if err := o.catalog.SaveTracks(ctx, saved); err != nil {
		return nil, rejected, fmt.Errorf("service: failed to save tracks: %w", err)
	}
	return saved, rejected, nil
}

func (o *Orchestrator) buildTrack(in NewTrack) (domain.Track, error) {
	title := strings.TrimSpace(in.Title)
	artist := strings.TrimSpace(in.Artist)
	if title == "" || artist == "" {
		return domain.Track{}, fmt.Errorf("service: title and artist are required: %w", domain.ErrInvalidArgument)
	}
	if in.Tempo != nil && (*in.Tempo < 0 || math.IsNaN(*in.Tempo) || math.IsInf(*in.Tempo, 0)) {
		return domain.Track{}, fmt.Errorf("service: tempo must be a non-negative number: %w", domain.ErrInvalidArgument)
	}
	if in.Energy != nil && (*in.Energy < 1 || *in.Energy > 10) {
		return domain.Track{}, fmt.Errorf("service: energy must be between 1 and 10: %w", domain.ErrInvalidArgument)
	}
	seconds, err := domain.ParseDuration(in.Duration)
	if err != nil {
		return domain.Track{}, fmt.Errorf("service: %w", err)
	}

	t := domain.Track{
		ID:              in.ID,
		Title:           title,
		Artist:          artist,
		Tempo:           in.Tempo,
		Key:             mixing.NormalizeKey(in.Key),
		Energy:          in.Energy,
		Duration:        strings.TrimSpace(in.Duration),
		DurationSeconds: seconds,
		ISRC:            in.ISRC,
		PreviewURL:      in.PreviewURL,
	}
	if t.ID == "" {
		t.ID = o.newID()
	}
	return t, nil
}

// ImportTrack resolves a track through the metadata provider and stores it.
func (o *Orchestrator) ImportTrack(ctx context.Context, title, artist string) (domain.Track, error) {
	if o.provider == nil {
		return domain.Track{}, ErrProviderUnavailable
	}
	if strings.TrimSpace(title) == "" || strings.TrimSpace(artist) == "" {
		return domain.Track{}, fmt.Errorf("service: title and artist are required: %w", domain.ErrInvalidArgument)
	}

	t, err := o.provider.GetTrackByMetadata(ctx, title, artist)
	if err != nil {
		return domain.Track{}, fmt.Errorf("service: failed to fetch track: %w", err)
	}
	if t.ID == "" {
		t.ID = o.newID()
	}
	t.Key = mixing.NormalizeKey(t.Key)

	if err := o.catalog.SaveTrack(ctx, t); err != nil {
		return domain.Track{}, fmt.Errorf("service: failed to save track: %w", err)
	}
	return t, nil
}

// ListTracks returns the catalog.
func (o *Orchestrator) ListTracks(ctx context.Context) ([]domain.Track, error) {
	tracks, err := o.catalog.ListTracks(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load tracks: %w", err)
	}
	return tracks, nil
}

// QuickMix builds a mix from the current catalog snapshot. A maxTracks of zero
// uses the configured default. domain.ErrInsufficientTracks is passed through.
func (o *Orchestrator) QuickMix(ctx context.Context, maxTracks int) (domain.MixResult, error) {
	if maxTracks == 0 {
		maxTracks = o.maxTracks
	}
	if maxTracks < 2 {
		return domain.MixResult{}, fmt.Errorf("service: max tracks must be at least 2: %w", domain.ErrInvalidArgument)
	}

	catalog, err := o.catalog.ListTracks(ctx)
	if err != nil {
		return domain.MixResult{}, fmt.Errorf("service: failed to load tracks: %w", err)
	}

	result, err := o.engine.BuildMix(catalog, maxTracks)
	if err != nil {
		return domain.MixResult{}, fmt.Errorf("service: %w", err)
	}
	return result, nil
}

// SaveSession stores an already computed result under a name.
func (o *Orchestrator) SaveSession(ctx context.Context, name string, result domain.MixResult) (domain.MixSession, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.MixSession{}, fmt.Errorf("service: session name cannot be empty: %w", domain.ErrInvalidArgument)
	}

	s, err := domain.NewMixSession(o.newID(), name, o.now(), result)
	if err != nil {
		return domain.MixSession{}, fmt.Errorf("service: %w", err)
	}
	if err := o.sessions.SaveSession(ctx, *s); err != nil {
		return domain.MixSession{}, fmt.Errorf("service: failed to persist session: %w", err)
	}
	return *s, nil
}

// CreateSession builds a quick mix and saves it in one step.
func (o *Orchestrator) CreateSession(ctx context.Context, name string, maxTracks int) (domain.MixSession, error) {
	if strings.TrimSpace(name) == "" {
		return domain.MixSession{}, fmt.Errorf("service: session name cannot be empty: %w", domain.ErrInvalidArgument)
	}
	result, err := o.QuickMix(ctx, maxTracks)
	if err != nil {
		return domain.MixSession{}, err
	}
	return o.SaveSession(ctx, name, result)
}

// GetSession loads a saved session.
func (o *Orchestrator) GetSession(ctx context.Context, id string) (domain.MixSession, error) {
	if id == "" {
		return domain.MixSession{}, fmt.Errorf("service: session id cannot be empty: %w", domain.ErrInvalidArgument)
	}
	s, err := o.sessions.GetSession(ctx, id)
	if err != nil {
		return domain.MixSession{}, fmt.Errorf("service: failed to load session: %w", err)
	}
	return s, nil
}

// ListSessions returns saved sessions, newest first.
func (o *Orchestrator) ListSessions(ctx context.Context) ([]domain.MixSession, error) {
	sessions, err := o.sessions.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load sessions: %w", err)
	}
	return sessions, nil
}
