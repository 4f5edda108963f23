package mixing

import (
	"math"

	"github.com/ewilliams-labs/remixense/internal/core/domain"
)

// Scorer rates how well two tracks blend. The zero value uses PartialCamelotTable.
type Scorer struct {
	Keys KeyTable
}

// Score returns a compatibility score in [0, 100] built from three
// independent axes: tempo (40), key (30) and energy (30). An axis with data
// missing on either side contributes nothing.
func (s Scorer) Score(a, b domain.Track) int {
	return tempoScore(a, b) + s.keyScore(a, b) + energyScore(a, b)
}

func tempoScore(a, b domain.Track) int {
	if a.Tempo == nil || b.Tempo == nil {
		return 0
	}
	d := math.Abs(*a.Tempo - *b.Tempo)
	switch {
	case d <= 5:
		return 40
	case d <= 10:
		return 30
	case d <= 20:
		return 20
	default:
		return 10
	}
}

func (s Scorer) keyScore(a, b domain.Track) int {
	if !a.HasKey() || !b.HasKey() {
		return 0
	}
	keys := s.Keys
	if keys == nil {
		keys = PartialCamelotTable
	}
	switch {
	case keys.Compatible(a.Key, b.Key):
		return 30
	case a.Key == b.Key:
		return 25
	default:
		return 10
	}
}

func energyScore(a, b domain.Track) int {
	if a.Energy == nil || b.Energy == nil {
		return 0
	}
	d := *a.Energy - *b.Energy
	if d < 0 {
		d = -d
	}
	switch {
	case d <= 1:
		return 30
	case d <= 2:
		return 20
	default:
		return 10
	}
}

// ClassifyTransition picks how to move from a into b based on the tempo gap.
func ClassifyTransition(a, b domain.Track) domain.TransitionType {
	if a.Tempo == nil || b.Tempo == nil {
		return domain.TransitionFade
	}
	d := math.Abs(*a.Tempo - *b.Tempo)
	switch {
	case d <= 2:
		return domain.TransitionFade
	case d <= 10:
		return domain.TransitionFilter
	default:
		return domain.TransitionCut
	}
}

const (
	ReasonOpening    = "opening track, balanced energy"
	ReasonExcellent  = "excellent compatibility"
	ReasonGood       = "good compatibility"
	ReasonAcceptable = "acceptable compatibility"
)

// ReasonFor labels a match score for display.
func ReasonFor(score int) string {
	switch {
	case score >= 70:
		return ReasonExcellent
	case score >= 50:
		return ReasonGood
	default:
		return ReasonAcceptable
	}
}
