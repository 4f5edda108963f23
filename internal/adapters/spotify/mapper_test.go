package spotify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapTrackToDomain(t *testing.T) {
	st := spotifyTrack{
		ID:         "sp-1",
		Name:       "Strobe",
		Artists:    []spotifyArtist{{Name: "deadmau5"}, {Name: "Guest"}},
		DurationMs: 634000,
		PreviewURL: "https://p.scdn.co/mp3-preview/abc",
	}
	st.ExternalIDs.ISRC = "CA5KR0900061"

	t.Run("with features", func(t *testing.T) {
		got := mapTrackToDomain(st, &spotifyAudioFeatures{ID: "sp-1", Energy: 0.74, Tempo: 128.004, Key: 9, Mode: 0})

		assert.Equal(t, "sp-1", got.ID)
		assert.Equal(t, "deadmau5, Guest", got.Artist)
		assert.Equal(t, "10:34", got.Duration)
		assert.InDelta(t, 634.0, got.DurationSeconds, 1e-9)
		assert.Equal(t, "CA5KR0900061", got.ISRC)
		require.NotNil(t, got.Tempo)
		assert.InDelta(t, 128.0, *got.Tempo, 1e-9)
		assert.Equal(t, "8A", got.Key)
		require.NotNil(t, got.Energy)
		assert.Equal(t, 7, *got.Energy)
	})

	t.Run("without features", func(t *testing.T) {
		got := mapTrackToDomain(st, nil)
		assert.Nil(t, got.Tempo)
		assert.Nil(t, got.Energy)
		assert.Empty(t, got.Key)
		assert.False(t, got.Eligible())
	})

	t.Run("undetected key", func(t *testing.T) {
		got := mapTrackToDomain(st, &spotifyAudioFeatures{Energy: 0.5, Tempo: 120, Key: -1, Mode: 1})
		assert.Empty(t, got.Key)
		assert.True(t, got.Eligible())
	})
}

func TestEnergyLevel(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 1},
		{0.04, 1},
		{0.15, 2},
		{0.5, 5},
		{0.96, 10},
		{1, 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, energyLevel(tt.in), "energy %v", tt.in)
	}
}
