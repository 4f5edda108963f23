// Package mongo provides a MongoDB-backed implementation of the repository ports.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/ewilliams-labs/remixense/internal/core/domain"
	"github.com/ewilliams-labs/remixense/internal/core/mixing"
	"github.com/ewilliams-labs/remixense/internal/core/ports"
)

const (
	tracksCollection   = "tracks"
	sessionsCollection = "mix_sessions"
	countersCollection = "counters"
)

var (
	_ ports.TrackCatalog         = (*Adapter)(nil)
	_ ports.MixSessionRepository = (*Adapter)(nil)
)

// Adapter stores tracks and sessions in two collections. Tracks carry a
// seq drawn from a counter document so listing follows insertion order.
type Adapter struct {
	client   *mongo.Client
	tracks   *mongo.Collection
	sessions *mongo.Collection
	counters *mongo.Collection
}

// NewAdapter connects, pings the primary and ensures indexes.
func NewAdapter(ctx context.Context, uri, database string) (*Adapter, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	db := client.Database(database)
	a := &Adapter{
		client:   client,
		tracks:   db.Collection(tracksCollection),
		sessions: db.Collection(sessionsCollection),
		counters: db.Collection(countersCollection),
	}

	indexes := []struct {
		coll  *mongo.Collection
		model mongo.IndexModel
	}{
		{a.tracks, mongo.IndexModel{Keys: bson.D{{Key: "seq", Value: 1}}}},
		{a.sessions, mongo.IndexModel{Keys: bson.D{{Key: "created_at", Value: -1}}}},
	}
	for _, idx := range indexes {
		if _, err := idx.coll.Indexes().CreateOne(ctx, idx.model); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("failed to create index: %w", err)
		}
	}

	return a, nil
}

// Close disconnects the client.
func (a *Adapter) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.client.Disconnect(ctx)
}

type trackDocument struct {
	ID              string   `bson:"_id"`
	Title           string   `bson:"title"`
	Artist          string   `bson:"artist"`
	Tempo           *float64 `bson:"tempo,omitempty"`
	Key             string   `bson:"key,omitempty"`
	Energy          *int     `bson:"energy,omitempty"`
	Duration        string   `bson:"duration,omitempty"`
	DurationSeconds float64  `bson:"duration_seconds"`
	ISRC            string   `bson:"isrc,omitempty"`
	PreviewURL      string   `bson:"preview_url,omitempty"`
}

func toTrackDocument(t domain.Track) trackDocument {
	return trackDocument{
		ID:              t.ID,
		Title:           t.Title,
		Artist:          t.Artist,
		Tempo:           t.Tempo,
		Key:             t.Key,
		Energy:          t.Energy,
		Duration:        t.Duration,
		DurationSeconds: t.DurationSeconds,
		ISRC:            t.ISRC,
		PreviewURL:      t.PreviewURL,
	}
}

func (d trackDocument) toDomain() domain.Track {
	return domain.Track{
		ID:              d.ID,
		Title:           d.Title,
		Artist:          d.Artist,
		Tempo:           d.Tempo,
		Key:             d.Key,
		Energy:          d.Energy,
		Duration:        d.Duration,
		DurationSeconds: d.DurationSeconds,
		ISRC:            d.ISRC,
		PreviewURL:      d.PreviewURL,
	}
}

// trackUpdate replaces the track fields while keeping seq from the first insert.
func trackUpdate(t domain.Track, seq int64) bson.M {
	doc := toTrackDocument(t)
	set := bson.M{
		"title":            doc.Title,
		"artist":           doc.Artist,
		"duration_seconds": doc.DurationSeconds,
		"duration":         doc.Duration,
		"key":              doc.Key,
		"isrc":             doc.ISRC,
		"preview_url":      doc.PreviewURL,
	}
	unset := bson.M{}
	if doc.Tempo != nil {
		set["tempo"] = *doc.Tempo
	} else {
		unset["tempo"] = ""
	}
	if doc.Energy != nil {
		set["energy"] = *doc.Energy
	} else {
		unset["energy"] = ""
	}

	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"seq": seq},
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update
}

// reserveSeq reserves n consecutive ordering numbers and returns the first.
// Numbers reserved for tracks that already exist are simply skipped.
func (a *Adapter) reserveSeq(ctx context.Context, n int) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := a.counters.FindOneAndUpdate(ctx, bson.M{"_id": tracksCollection}, bson.M{"$inc": bson.M{"seq": int64(n)}}, opts).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to reserve track sequence: %w", err)
	}
	return counter.Seq - int64(n) + 1, nil
}

// trackWrites builds one upsert per track, numbering new tracks from first on.
func trackWrites(tracks []domain.Track, first int64) []mongo.WriteModel {
	models := make([]mongo.WriteModel, 0, len(tracks))
	for i, t := range tracks {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": t.ID}).
			SetUpdate(trackUpdate(t, first+int64(i))).
			SetUpsert(true))
	}
	return models
}

func (a *Adapter) SaveTrack(ctx context.Context, t domain.Track) error {
	seq, err := a.reserveSeq(ctx, 1)
	if err != nil {
		return err
	}
	if _, err := a.tracks.UpdateByID(ctx, t.ID, trackUpdate(t, seq), options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to save track %s: %w", t.ID, err)
	}
	return nil
}

// SaveTracks upserts a batch with a single ordered bulk write.
func (a *Adapter) SaveTracks(ctx context.Context, tracks []domain.Track) error {
	if len(tracks) == 0 {
		return nil
	}
	first, err := a.reserveSeq(ctx, len(tracks))
	if err != nil {
		return err
	}
	if _, err := a.tracks.BulkWrite(ctx, trackWrites(tracks, first), options.BulkWrite().SetOrdered(true)); err != nil {
		return fmt.Errorf("failed to save tracks: %w", err)
	}
	return nil
}

func (a *Adapter) GetTrack(ctx context.Context, id string) (domain.Track, error) {
	var doc trackDocument
	if err := a.tracks.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Track{}, domain.ErrNotFound
		}
		return domain.Track{}, fmt.Errorf("failed to load track: %w", err)
	}
	return doc.toDomain(), nil
}

func (a *Adapter) ListTracks(ctx context.Context) ([]domain.Track, error) {
	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}})
	cur, err := a.tracks.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load tracks: %w", err)
	}
	var docs []trackDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode tracks: %w", err)
	}

	tracks := make([]domain.Track, 0, len(docs))
	for _, d := range docs {
		tracks = append(tracks, d.toDomain())
	}
	return tracks, nil
}

func (a *Adapter) UpdateTrackAnalysis(ctx context.Context, trackID string, energy int) error {
	res, err := a.tracks.UpdateByID(ctx, trackID, bson.M{"$set": bson.M{"energy": energy}})
	if err != nil {
		return fmt.Errorf("failed to update track analysis: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type sessionDocument struct {
	ID        string        `bson:"_id"`
	Name      string        `bson:"name"`
	CreatedAt time.Time     `bson:"created_at"`
	Record    mixing.Record `bson:"record"`
}

func toSessionDocument(s domain.MixSession) sessionDocument {
	return sessionDocument{
		ID:        s.ID,
		Name:      s.Name,
		CreatedAt: s.CreatedAt.UTC(),
		Record:    mixing.NewRecord(s.Result),
	}
}

func (d sessionDocument) toDomain() (domain.MixSession, error) {
	result, err := d.Record.Result()
	if err != nil {
		return domain.MixSession{}, fmt.Errorf("session %s: %w", d.ID, err)
	}
	return domain.MixSession{
		ID:        d.ID,
		Name:      d.Name,
		CreatedAt: d.CreatedAt.UTC(),
		Result:    result,
	}, nil
}

func (a *Adapter) SaveSession(ctx context.Context, s domain.MixSession) error {
	doc := toSessionDocument(s)
	_, err := a.sessions.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", s.ID, err)
	}
	return nil
}

func (a *Adapter) GetSession(ctx context.Context, id string) (domain.MixSession, error) {
	var doc sessionDocument
	if err := a.sessions.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.MixSession{}, domain.ErrNotFound
		}
		return domain.MixSession{}, fmt.Errorf("failed to load session: %w", err)
	}
	return doc.toDomain()
}

func (a *Adapter) ListSessions(ctx context.Context) ([]domain.MixSession, error) {
	cur, err := a.sessions.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}
	var docs []sessionDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode sessions: %w", err)
	}

	sessions := make([]domain.MixSession, 0, len(docs))
	for _, d := range docs {
		s, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}
