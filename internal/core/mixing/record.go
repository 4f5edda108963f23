package mixing

import (
	"encoding/json"
	"fmt"

	"github.com/ewilliams-labs/remixense/internal/core/domain"
)

// RecordVersion is bumped whenever the stored layout changes.
const RecordVersion = 1

// Record is the storage form of a MixResult. It keeps a snapshot of every
// selected track so a reload reproduces the same suggestions even after the
// catalog has changed.
type Record struct {
	Version              int           `json:"version" bson:"version"`
	Entries              []RecordEntry `json:"entries" bson:"entries"`
	TotalDurationSeconds float64       `json:"total_duration_seconds" bson:"total_duration_seconds"`
	AverageTempo         int           `json:"average_tempo" bson:"average_tempo"`
	EnergyFlow           string        `json:"energy_flow" bson:"energy_flow"`
}

// RecordEntry is one MixSuggestion.
type RecordEntry struct {
	TrackID         string   `json:"track_id" bson:"track_id"`
	Title           string   `json:"title" bson:"title"`
	Artist          string   `json:"artist" bson:"artist"`
	Tempo           *float64 `json:"tempo,omitempty" bson:"tempo,omitempty"`
	Key             string   `json:"key,omitempty" bson:"key,omitempty"`
	Energy          *int     `json:"energy,omitempty" bson:"energy,omitempty"`
	Duration        string   `json:"duration,omitempty" bson:"duration,omitempty"`
	DurationSeconds float64  `json:"duration_seconds" bson:"duration_seconds"`
	ISRC            string   `json:"isrc,omitempty" bson:"isrc,omitempty"`
	PreviewURL      string   `json:"preview_url,omitempty" bson:"preview_url,omitempty"`
	Transition      string   `json:"transition" bson:"transition"`
	MatchScore      int      `json:"match_score" bson:"match_score"`
	Reason          string   `json:"reason" bson:"reason"`
}

// NewRecord flattens a result for storage.
func NewRecord(r domain.MixResult) Record {
	entries := make([]RecordEntry, len(r.Tracks))
	for i, s := range r.Tracks {
		t := s.Track
		entries[i] = RecordEntry{
			TrackID:         t.ID,
			Title:           t.Title,
			Artist:          t.Artist,
			Tempo:           copyFloat(t.Tempo),
			Key:             t.Key,
			Energy:          copyInt(t.Energy),
			Duration:        t.Duration,
			DurationSeconds: t.DurationSeconds,
			ISRC:            t.ISRC,
			PreviewURL:      t.PreviewURL,
			Transition:      s.TransitionType.String(),
			MatchScore:      s.MatchScore,
			Reason:          s.Reason,
		}
	}
	return Record{
		Version:              RecordVersion,
		Entries:              entries,
		TotalDurationSeconds: r.TotalDurationSeconds,
		AverageTempo:         r.AverageTempo,
		EnergyFlow:           r.EnergyFlow.String(),
	}
}

// Result rebuilds the MixResult a record was made from.
func (rec Record) Result() (domain.MixResult, error) {
	if rec.Version != RecordVersion {
		return domain.MixResult{}, fmt.Errorf("mixing: unsupported record version %d", rec.Version)
	}
	flow, err := domain.ParseEnergyFlow(rec.EnergyFlow)
	if err != nil {
		return domain.MixResult{}, fmt.Errorf("mixing: decode record: %w", err)
	}

	tracks := make([]domain.MixSuggestion, len(rec.Entries))
	for i, e := range rec.Entries {
		transition, err := domain.ParseTransitionType(e.Transition)
		if err != nil {
			return domain.MixResult{}, fmt.Errorf("mixing: decode record entry %d: %w", i, err)
		}
		tracks[i] = domain.MixSuggestion{
			Track: domain.Track{
				ID:              e.TrackID,
				Title:           e.Title,
				Artist:          e.Artist,
				Tempo:           copyFloat(e.Tempo),
				Key:             e.Key,
				Energy:          copyInt(e.Energy),
				Duration:        e.Duration,
				DurationSeconds: e.DurationSeconds,
				ISRC:            e.ISRC,
				PreviewURL:      e.PreviewURL,
			},
			TransitionType: transition,
			MatchScore:     e.MatchScore,
			Reason:         e.Reason,
		}
	}

	return domain.MixResult{
		Tracks:               tracks,
		TotalDurationSeconds: rec.TotalDurationSeconds,
		AverageTempo:         rec.AverageTempo,
		EnergyFlow:           flow,
	}, nil
}

// EncodeResult serialises a result as a JSON record.
func EncodeResult(r domain.MixResult) ([]byte, error) {
	b, err := json.Marshal(NewRecord(r))
	if err != nil {
		return nil, fmt.Errorf("mixing: encode record: %w", err)
	}
	return b, nil
}

// DecodeResult is the inverse of EncodeResult.
func DecodeResult(b []byte) (domain.MixResult, error) {
	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return domain.MixResult{}, fmt.Errorf("mixing: decode record: %w", err)
	}
	return rec.Result()
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
