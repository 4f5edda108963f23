package sqlite

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/ewilliams-labs/remixense/internal/core/domain"
	"github.com/ewilliams-labs/remixense/internal/core/mixing"
)

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()
	a, err := NewAdapter(":memory:")
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestAdapter_GetTrack(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, a *Adapter) string
		wantErr error
		want    domain.Track
	}{
		{
			name: "not found",
			setup: func(t *testing.T, a *Adapter) string {
				return "missing"
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "analyzed track keeps all attributes",
			setup: func(t *testing.T, a *Adapter) string {
				tr := domain.Track{
					ID: "t1", Title: "Song One", Artist: "Artist A",
					Tempo: domain.Float(124.5), Key: "8A", Energy: domain.Int(7),
					Duration: "3:30", DurationSeconds: 210, ISRC: "ISRC-1",
					PreviewURL: "https://cdn.test/1.mp3",
				}
				if err := a.SaveTrack(context.Background(), tr); err != nil {
					t.Fatalf("save track: %v", err)
				}
				return tr.ID
			},
			want: domain.Track{
				ID: "t1", Title: "Song One", Artist: "Artist A",
				Tempo: domain.Float(124.5), Key: "8A", Energy: domain.Int(7),
				Duration: "3:30", DurationSeconds: 210, ISRC: "ISRC-1",
				PreviewURL: "https://cdn.test/1.mp3",
			},
		},
		{
			name: "unanalyzed track keeps optional fields unset",
			setup: func(t *testing.T, a *Adapter) string {
				if err := a.SaveTrack(context.Background(), domain.Track{ID: "t2", Title: "Raw", Artist: "B"}); err != nil {
					t.Fatalf("save track: %v", err)
				}
				return "t2"
			},
			want: domain.Track{ID: "t2", Title: "Raw", Artist: "B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAdapter(t)

			id := tt.setup(t, a)
			got, err := a.GetTrack(context.Background(), id)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("track mismatch:\n got %+v\nwant %+v", got, tt.want)
			}
		})
	}
}

func TestAdapter_ListTracksKeepsInsertionOrder(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	batch := []domain.Track{
		{ID: "c", Title: "C", Artist: "X", Tempo: domain.Float(120)},
		{ID: "a", Title: "A", Artist: "X", Tempo: domain.Float(122)},
	}
	if err := a.SaveTracks(ctx, batch); err != nil {
		t.Fatalf("save tracks: %v", err)
	}
	if err := a.SaveTrack(ctx, domain.Track{ID: "b", Title: "B", Artist: "X"}); err != nil {
		t.Fatalf("save track: %v", err)
	}
	// updating an existing track must not move it
	if err := a.SaveTrack(ctx, domain.Track{ID: "c", Title: "C2", Artist: "X", Tempo: domain.Float(121)}); err != nil {
		t.Fatalf("update track: %v", err)
	}

	got, err := a.ListTracks(ctx)
	if err != nil {
		t.Fatalf("list tracks: %v", err)
	}
	var order []string
	for _, tr := range got {
		order = append(order, tr.ID)
	}
	if !reflect.DeepEqual(order, []string{"c", "a", "b"}) {
		t.Fatalf("order: got %v", order)
	}
	if got[0].Title != "C2" || *got[0].Tempo != 121 {
		t.Fatalf("expected updated track, got %+v", got[0])
	}
}

func TestAdapter_UpdateTrackAnalysis(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	if err := a.SaveTrack(ctx, domain.Track{ID: "t1", Title: "Song", Artist: "X"}); err != nil {
		t.Fatalf("save track: %v", err)
	}
	if err := a.UpdateTrackAnalysis(ctx, "t1", 8); err != nil {
		t.Fatalf("update analysis: %v", err)
	}
	got, err := a.GetTrack(ctx, "t1")
	if err != nil {
		t.Fatalf("get track: %v", err)
	}
	if got.Energy == nil || *got.Energy != 8 {
		t.Fatalf("energy not updated: %+v", got)
	}

	if err := a.UpdateTrackAnalysis(ctx, "missing", 3); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAdapter_SessionRoundTrip(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	catalog := []domain.Track{
		{ID: "a", Title: "A", Artist: "X", Tempo: domain.Float(120), Key: "8A", Energy: domain.Int(3), Duration: "3:00", DurationSeconds: 180},
		{ID: "b", Title: "B", Artist: "X", Tempo: domain.Float(124), Key: "9A", Energy: domain.Int(5), Duration: "4:00", DurationSeconds: 240},
		{ID: "c", Title: "C", Artist: "X", Tempo: domain.Float(135), Energy: domain.Int(8), Duration: "5:00", DurationSeconds: 300},
	}
	result, err := mixing.NewEngine().BuildMix(catalog, 3)
	if err != nil {
		t.Fatalf("build mix: %v", err)
	}

	older := domain.MixSession{ID: "s1", Name: "Older", CreatedAt: time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC), Result: result}
	newer := domain.MixSession{ID: "s2", Name: "Newer", CreatedAt: time.Date(2026, 1, 1, 10, 0, 0, 500, time.UTC), Result: result}
	for _, s := range []domain.MixSession{older, newer} {
		if err := a.SaveSession(ctx, s); err != nil {
			t.Fatalf("save session: %v", err)
		}
	}

	got, err := a.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.Name != "Older" || !got.CreatedAt.Equal(older.CreatedAt) {
		t.Fatalf("unexpected session header %+v", got)
	}
	if !reflect.DeepEqual(got.Result, result) {
		t.Fatalf("result mismatch:\n got %+v\nwant %+v", got.Result, result)
	}

	list, err := a.ListSessions(ctx)
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(list) != 2 || list[0].ID != "s2" || list[1].ID != "s1" {
		t.Fatalf("expected newest first, got %+v", list)
	}

	if _, err := a.GetSession(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
