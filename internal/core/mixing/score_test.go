package mixing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ewilliams-labs/remixense/internal/core/domain"
)

func track(id string, tempo float64, key string, energy int) domain.Track {
	t := domain.Track{ID: id, Title: id, Artist: "Artist " + id, Key: key}
	if tempo != 0 {
		t.Tempo = domain.Float(tempo)
	}
	if energy != 0 {
		t.Energy = domain.Int(energy)
	}
	return t
}

func TestScorer_IdenticalTracks(t *testing.T) {
	s := Scorer{}
	a := track("a", 124, "8A", 6)

	assert.Equal(t, 100, s.Score(a, a), "key listed in the table scores the full 30")

	// 5A is not in the partial table, so an identical key only reaches the 25 tier.
	b := track("b", 124, "5A", 6)
	assert.Equal(t, 95, s.Score(b, b))

	full := Scorer{Keys: FullCamelotWheel()}
	assert.Equal(t, 100, full.Score(b, b))
}

func TestScorer_TempoAxis(t *testing.T) {
	tests := []struct {
		name  string
		delta float64
		want  int
	}{
		{"identical", 0, 40},
		{"within 5", 5, 40},
		{"just over 5", 5.5, 30},
		{"exactly 10", 10, 30},
		{"just over 10", 10.5, 20},
		{"exactly 20", 20, 20},
		{"over 20", 21, 10},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := track("a", 120, "", 0)
			b := track("b", 120+tc.delta, "", 0)
			assert.Equal(t, tc.want, Scorer{}.Score(a, b))
			assert.Equal(t, tc.want, Scorer{}.Score(b, a), "score is symmetric on tempo")
		})
	}
}

func TestScorer_EnergyAxis(t *testing.T) {
	tests := []struct {
		a, b int
		want int
	}{
		{5, 5, 30},
		{5, 6, 30},
		{5, 7, 20},
		{5, 8, 10},
		{1, 10, 10},
	}
	for _, tc := range tests {
		a := domain.Track{ID: "a", Energy: domain.Int(tc.a)}
		b := domain.Track{ID: "b", Energy: domain.Int(tc.b)}
		assert.Equal(t, tc.want, Scorer{}.Score(a, b), "energy %d vs %d", tc.a, tc.b)
	}
}

func TestScorer_KeyAxis(t *testing.T) {
	tests := []struct {
		name string
		keys KeyTable
		a, b string
		want int
	}{
		{"neighbour in partial table", nil, "8A", "9A", 30},
		{"relative letter in partial table", nil, "8A", "8B", 30},
		{"unlisted neighbour falls to differ tier", nil, "5A", "6A", 10},
		{"unlisted identical key", nil, "5A", "5A", 25},
		{"clashing keys", nil, "8A", "3B", 10},
		{"missing key on one side", nil, "8A", "", 0},
		{"full wheel neighbour", FullCamelotWheel(), "5A", "6A", 30},
		{"full wheel wraps around", FullCamelotWheel(), "12B", "1B", 30},
		{"full wheel still rejects clashes", FullCamelotWheel(), "5A", "11B", 10},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := Scorer{Keys: tc.keys}
			a := domain.Track{ID: "a", Key: tc.a}
			b := domain.Track{ID: "b", Key: tc.b}
			assert.Equal(t, tc.want, s.Score(a, b))
		})
	}
}

func TestScorer_MissingMetadata(t *testing.T) {
	a := domain.Track{ID: "a"}
	b := domain.Track{ID: "b"}
	assert.Equal(t, 0, Scorer{}.Score(a, b))

	c := track("c", 128, "", 0)
	assert.Equal(t, 0, Scorer{}.Score(a, c), "tempo on one side only contributes nothing")
}

func TestScorer_Bounds(t *testing.T) {
	tempos := []float64{0, 60, 118, 120, 125, 131, 175}
	keys := []string{"", "8A", "8B", "9A", "5A", "11B", "Am"}
	energies := []int{0, 1, 4, 5, 7, 10}

	var tracks []domain.Track
	for _, tempo := range tempos {
		for _, key := range keys {
			for _, e := range energies {
				tracks = append(tracks, track("x", tempo, key, e))
			}
		}
	}

	for _, keys := range []KeyTable{PartialCamelotTable, FullCamelotWheel()} {
		s := Scorer{Keys: keys}
		for _, a := range tracks {
			for _, b := range tracks {
				got := s.Score(a, b)
				if got < 0 || got > 100 {
					t.Fatalf("score out of bounds: %d for %+v vs %+v", got, a, b)
				}
			}
		}
	}
}

func TestClassifyTransition(t *testing.T) {
	tests := []struct {
		name string
		a, b domain.Track
		want domain.TransitionType
	}{
		{"diff of exactly 2 fades", track("a", 120, "", 0), track("b", 122, "", 0), domain.TransitionFade},
		{"just over 2 filters", track("a", 120, "", 0), track("b", 122.5, "", 0), domain.TransitionFilter},
		{"diff of exactly 10 filters", track("a", 120, "", 0), track("b", 110, "", 0), domain.TransitionFilter},
		{"diff of 11 cuts", track("a", 120, "", 0), track("b", 131, "", 0), domain.TransitionCut},
		{"missing tempo on the left fades", track("a", 0, "", 0), track("b", 150, "", 0), domain.TransitionFade},
		{"missing tempo on the right fades", track("a", 90, "", 0), track("b", 0, "", 0), domain.TransitionFade},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyTransition(tc.a, tc.b))
		})
	}
}

func TestReasonFor(t *testing.T) {
	assert.Equal(t, ReasonExcellent, ReasonFor(100))
	assert.Equal(t, ReasonExcellent, ReasonFor(70))
	assert.Equal(t, ReasonGood, ReasonFor(69))
	assert.Equal(t, ReasonGood, ReasonFor(50))
	assert.Equal(t, ReasonAcceptable, ReasonFor(49))
	assert.Equal(t, ReasonAcceptable, ReasonFor(0))
}
