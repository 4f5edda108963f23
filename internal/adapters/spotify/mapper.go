package spotify

import (
	"math"
	"strings"

	"github.com/ewilliams-labs/remixense/internal/core/domain"
	"github.com/ewilliams-labs/remixense/internal/core/mixing"
)

// mapTrackToDomain converts a raw Spotify track to a domain track.
// features can be nil when the analysis endpoint had nothing for the track;
// the track is then stored unanalyzed.
func mapTrackToDomain(st spotifyTrack, features *spotifyAudioFeatures) domain.Track {
	names := make([]string, 0, len(st.Artists))
	for _, a := range st.Artists {
		names = append(names, a.Name)
	}

	seconds := float64(st.DurationMs) / 1000
	dt := domain.Track{
		ID:              st.ID,
		Title:           st.Name,
		Artist:          strings.Join(names, ", "),
		DurationSeconds: seconds,
		ISRC:            st.ExternalIDs.ISRC,
		PreviewURL:      st.PreviewURL,
	}
	if st.DurationMs > 0 {
		dt.Duration = domain.FormatDuration(seconds)
	}

	if features != nil {
		if features.Tempo > 0 {
			dt.Tempo = domain.Float(math.Round(features.Tempo*10) / 10)
		}
		dt.Key = mixing.CamelotFromPitchClass(features.Key, features.Mode)
		dt.Energy = domain.Int(energyLevel(features.Energy))
	}

	return dt
}

// energyLevel maps Spotify's 0..1 energy onto the 1..10 scale.
func energyLevel(energy float64) int {
	level := int(math.Round(energy * 10))
	if level < 1 {
		return 1
	}
	if level > 10 {
		return 10
	}
	return level
}
