// Package sqlite provides a SQLite-backed implementation of the repository ports.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously

	"github.com/ewilliams-labs/remixense/internal/core/domain"
	"github.com/ewilliams-labs/remixense/internal/core/mixing"
	"github.com/ewilliams-labs/remixense/internal/core/ports"
)

var (
	_ ports.TrackCatalog         = (*Adapter)(nil)
	_ ports.MixSessionRepository = (*Adapter)(nil)
)

// Adapter implements the catalog and session ports for SQLite
type Adapter struct {
	db *sql.DB
}

// NewAdapter creates a connection and runs the schema migration
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	if storagePath == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db}

	if err := adapter.migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return adapter, nil
}

// Close ensures the DB connection is closed gracefully
func (a *Adapter) Close() error {
	return a.db.Close()
}

const upsertTrack = `
	INSERT INTO tracks (
		id, title, artist, tempo, musical_key, energy, duration, duration_seconds, isrc, preview_url
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		title=excluded.title,
		artist=excluded.artist,
		tempo=excluded.tempo,
		musical_key=excluded.musical_key,
		energy=excluded.energy,
		duration=excluded.duration,
		duration_seconds=excluded.duration_seconds,
		isrc=excluded.isrc,
		preview_url=excluded.preview_url;
`

const selectTrack = `
	SELECT id, title, artist, tempo, musical_key, energy, duration, duration_seconds, isrc, preview_url
	FROM tracks
`

// SaveTrack inserts a track or updates it in place, keeping its catalog position.
func (a *Adapter) SaveTrack(ctx context.Context, t domain.Track) error {
	if _, err := a.db.ExecContext(ctx, upsertTrack, trackArgs(t)...); err != nil {
		return fmt.Errorf("failed to save track %s: %w", t.ID, err)
	}
	return nil
}

// SaveTracks upserts a batch in a single transaction.
func (a *Adapter) SaveTracks(ctx context.Context, tracks []domain.Track) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertTrack)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range tracks {
		if _, err := stmt.ExecContext(ctx, trackArgs(t)...); err != nil {
			return fmt.Errorf("failed to save track %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transaction commit failed: %w", err)
	}
	return nil
}

func (a *Adapter) GetTrack(ctx context.Context, id string) (domain.Track, error) {
	row := a.db.QueryRowContext(ctx, selectTrack+" WHERE id = ?", id)
	t, err := scanTrack(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Track{}, domain.ErrNotFound
		}
		return domain.Track{}, fmt.Errorf("failed to load track: %w", err)
	}
	return t, nil
}

func (a *Adapter) ListTracks(ctx context.Context) ([]domain.Track, error) {
	rows, err := a.db.QueryContext(ctx, selectTrack+" ORDER BY rowid ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to load tracks: %w", err)
	}
	defer rows.Close()

	tracks := []domain.Track{}
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tracks: %w", err)
	}
	return tracks, nil
}

func (a *Adapter) UpdateTrackAnalysis(ctx context.Context, trackID string, energy int) error {
	res, err := a.db.ExecContext(ctx, "UPDATE tracks SET energy = ? WHERE id = ?", energy, trackID)
	if err != nil {
		return fmt.Errorf("failed to update track analysis: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (a *Adapter) SaveSession(ctx context.Context, s domain.MixSession) error {
	record, err := mixing.EncodeResult(s.Result)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO mix_sessions (id, name, created_at, track_count, average_tempo, energy_flow, record)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name,
			track_count=excluded.track_count,
			average_tempo=excluded.average_tempo,
			energy_flow=excluded.energy_flow,
			record=excluded.record;
	`
	if _, err := a.db.ExecContext(
		ctx,
		query,
		s.ID,
		s.Name,
		s.CreatedAt.UTC().Format(sessionTimeLayout),
		len(s.Result.Tracks),
		s.Result.AverageTempo,
		s.Result.EnergyFlow.String(),
		record,
	); err != nil {
		return fmt.Errorf("failed to save session %s: %w", s.ID, err)
	}
	return nil
}

func (a *Adapter) GetSession(ctx context.Context, id string) (domain.MixSession, error) {
	row := a.db.QueryRowContext(ctx, "SELECT id, name, created_at, record FROM mix_sessions WHERE id = ?", id)
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.MixSession{}, domain.ErrNotFound
		}
		return domain.MixSession{}, fmt.Errorf("failed to load session: %w", err)
	}
	return s, nil
}

func (a *Adapter) ListSessions(ctx context.Context) ([]domain.MixSession, error) {
	rows, err := a.db.QueryContext(ctx, "SELECT id, name, created_at, record FROM mix_sessions ORDER BY created_at DESC, rowid DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}
	defer rows.Close()

	sessions := []domain.MixSession{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}
	return sessions, nil
}

// fixed width so created_at sorts lexically
const sessionTimeLayout = "2006-01-02T15:04:05.000000000Z"

type scanner interface {
	Scan(dest ...any) error
}

func trackArgs(t domain.Track) []any {
	var tempo sql.NullFloat64
	if t.Tempo != nil {
		tempo = sql.NullFloat64{Float64: *t.Tempo, Valid: true}
	}
	var energy sql.NullInt64
	if t.Energy != nil {
		energy = sql.NullInt64{Int64: int64(*t.Energy), Valid: true}
	}
	key := sql.NullString{String: t.Key, Valid: t.Key != ""}

	return []any{
		t.ID, t.Title, t.Artist, tempo, key, energy, t.Duration, t.DurationSeconds, t.ISRC, t.PreviewURL,
	}
}

func scanTrack(row scanner) (domain.Track, error) {
	var (
		t          domain.Track
		tempo      sql.NullFloat64
		key        sql.NullString
		energy     sql.NullInt64
		duration   sql.NullString
		isrc       sql.NullString
		previewURL sql.NullString
	)
	if err := row.Scan(&t.ID, &t.Title, &t.Artist, &tempo, &key, &energy, &duration, &t.DurationSeconds, &isrc, &previewURL); err != nil {
		return domain.Track{}, err
	}
	if tempo.Valid {
		t.Tempo = domain.Float(tempo.Float64)
	}
	if key.Valid {
		t.Key = key.String
	}
	if energy.Valid {
		t.Energy = domain.Int(int(energy.Int64))
	}
	t.Duration = duration.String
	t.ISRC = isrc.String
	t.PreviewURL = previewURL.String
	return t, nil
}

func scanSession(row scanner) (domain.MixSession, error) {
	var (
		s         domain.MixSession
		createdAt string
		record    []byte
	)
	if err := row.Scan(&s.ID, &s.Name, &createdAt, &record); err != nil {
		return domain.MixSession{}, err
	}
	ts, err := time.Parse(sessionTimeLayout, createdAt)
	if err != nil {
		return domain.MixSession{}, fmt.Errorf("session %s: bad timestamp: %w", s.ID, err)
	}
	s.CreatedAt = ts
	result, err := mixing.DecodeResult(record)
	if err != nil {
		return domain.MixSession{}, fmt.Errorf("session %s: %w", s.ID, err)
	}
	s.Result = result
	return s, nil
}

func (a *Adapter) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS tracks (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		artist TEXT NOT NULL,
		tempo REAL,
		musical_key TEXT,
		energy INTEGER,
		duration TEXT,
		duration_seconds REAL NOT NULL DEFAULT 0,
		isrc TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS mix_sessions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL,
		track_count INTEGER NOT NULL,
		average_tempo INTEGER NOT NULL,
		energy_flow TEXT NOT NULL,
		record BLOB NOT NULL
	);
	`
	if _, err := a.db.Exec(query); err != nil {
		return err
	}

	// columns added after the first release
	for _, stmt := range []string{
		"ALTER TABLE tracks ADD COLUMN preview_url TEXT",
	} {
		if _, err := a.db.Exec(stmt); err != nil && !isDuplicateColumnError(err) {
			return err
		}
	}

	return nil
}

func isDuplicateColumnError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "duplicate column") || strings.Contains(err.Error(), "already exists"))
}
