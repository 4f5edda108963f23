package spotify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "bracketed edit", in: "Strobe (Radio Edit)", want: "strobe"},
		{name: "remaster tag", in: "One More Time - Remastered 2010", want: "one more time"},
		{name: "featured artist", in: "Titanium feat. Sia", want: "titanium"},
		{name: "punctuation", in: "AC/DC", want: "acdc"},
		{name: "ampersand", in: "Simon & Garfunkel", want: "simon garfunkel"},
		{name: "whitespace", in: "  Levels  ", want: "levels"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize(tt.in))
		})
	}
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 3, levenshtein("kitten", "sitting"))
	assert.Equal(t, 0, levenshtein("", ""))
	assert.Equal(t, 4, levenshtein("", "abcd"))
	assert.Equal(t, 1, levenshtein("café", "cafe"))
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, similarity("Strobe", "strobe (Extended Mix)"))
	assert.Less(t, similarity("Strobe", "Ghosts n Stuff"), 0.5)
}

func TestBestMatch(t *testing.T) {
	original := spotifyTrack{ID: "orig", Name: "Strobe", Artists: []spotifyArtist{{Name: "deadmau5"}}}
	cover := spotifyTrack{ID: "cover", Name: "Strobe", Artists: []spotifyArtist{{Name: "Tribute Band"}}}
	collab := spotifyTrack{ID: "collab", Name: "Raise Your Weapon", Artists: []spotifyArtist{{Name: "Greta Svabo Bech"}, {Name: "deadmau5"}}}

	t.Run("prefers exact artist", func(t *testing.T) {
		got, ok := bestMatch([]spotifyTrack{cover, original}, "Strobe", "deadmau5")
		assert.True(t, ok)
		assert.Equal(t, "orig", got.ID)
	})

	t.Run("matches any credited artist", func(t *testing.T) {
		got, ok := bestMatch([]spotifyTrack{original, collab}, "Raise Your Weapon", "deadmau5")
		assert.True(t, ok)
		assert.Equal(t, "collab", got.ID)
	})

	t.Run("rejects unrelated results", func(t *testing.T) {
		_, ok := bestMatch([]spotifyTrack{original}, "Something Else", "Nobody")
		assert.False(t, ok)
	})

	t.Run("empty results", func(t *testing.T) {
		_, ok := bestMatch(nil, "Strobe", "deadmau5")
		assert.False(t, ok)
	})
}
