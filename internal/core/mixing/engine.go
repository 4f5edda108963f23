// Package mixing builds quick mixes: it scores how well two tracks blend and
// chains a catalog into an ordered set using a greedy nearest-neighbour walk.
package mixing

import (
	"math"
	"sort"

	"github.com/ewilliams-labs/remixense/internal/core/domain"
)

// DefaultMaxTracks is used when the caller does not ask for a size.
const DefaultMaxTracks = 4

// neutralEnergy stands in for a missing energy level when ordering.
const neutralEnergy = 5

// Engine sequences tracks into a MixResult. It holds no mutable state and is
// safe for concurrent use.
type Engine struct {
	scorer Scorer
}

// Option configures an Engine.
type Option func(*Engine)

// WithKeyTable swaps the harmonic lookup used for the key axis.
func WithKeyTable(keys KeyTable) Option {
	return func(e *Engine) {
		e.scorer.Keys = keys
	}
}

// NewEngine returns an Engine using PartialCamelotTable unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{scorer: Scorer{Keys: PartialCamelotTable}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Score exposes the engine's pairwise compatibility score.
func (e *Engine) Score(a, b domain.Track) int {
	return e.scorer.Score(a, b)
}

// BuildMix orders up to maxTracks eligible tracks from catalog. The opening
// track is the median by energy; each following track is the remaining
// candidate scoring highest against the previous pick, first seen on ties.
// Choices are never revisited.
//
// It returns domain.InsufficientTracksError when fewer than two tracks carry a
// tempo. The catalog is not modified.
func (e *Engine) BuildMix(catalog []domain.Track, maxTracks int) (domain.MixResult, error) {
	if maxTracks <= 0 {
		maxTracks = DefaultMaxTracks
	}

	pool := make([]domain.Track, 0, len(catalog))
	for _, t := range catalog {
		if t.Eligible() {
			pool = append(pool, t)
		}
	}
	if len(pool) < 2 {
		return domain.MixResult{}, domain.InsufficientTracksError{Eligible: len(pool)}
	}

	sort.SliceStable(pool, func(i, j int) bool {
		return energyOrDefault(pool[i]) < energyOrDefault(pool[j])
	})

	openIdx := len(pool) / 2
	current := pool[openIdx]
	pool = append(pool[:openIdx:openIdx], pool[openIdx+1:]...)

	selected := []domain.MixSuggestion{{
		Track:          current,
		TransitionType: domain.TransitionFade,
		MatchScore:     100,
		Reason:         ReasonOpening,
	}}

	for len(selected) < maxTracks && len(pool) > 0 {
		bestIdx, bestScore := -1, -1
		for i, candidate := range pool {
			if score := e.scorer.Score(current, candidate); score > bestScore {
				bestIdx, bestScore = i, score
			}
		}

		next := pool[bestIdx]
		selected = append(selected, domain.MixSuggestion{
			Track:          next,
			TransitionType: ClassifyTransition(current, next),
			MatchScore:     bestScore,
			Reason:         ReasonFor(bestScore),
		})
		pool = append(pool[:bestIdx:bestIdx], pool[bestIdx+1:]...)
		current = next
	}

	return summarize(selected), nil
}

func summarize(selected []domain.MixSuggestion) domain.MixResult {
	var duration, tempo float64
	levels := make([]int, len(selected))
	for i, s := range selected {
		duration += s.Track.DurationSeconds
		tempo += *s.Track.Tempo
		levels[i] = energyOrDefault(s.Track)
	}

	return domain.MixResult{
		Tracks:               selected,
		TotalDurationSeconds: duration,
		AverageTempo:         int(math.Round(tempo / float64(len(selected)))),
		EnergyFlow:           ClassifyEnergyFlow(levels),
	}
}

// ClassifyEnergyFlow reports the trend of a sequence of energy levels.
// Non-decreasing is checked first, so a flat or single element sequence is
// ascending.
func ClassifyEnergyFlow(levels []int) domain.EnergyFlow {
	ascending, descending := true, true
	for i := 1; i < len(levels); i++ {
		if levels[i] < levels[i-1] {
			ascending = false
		}
		if levels[i] > levels[i-1] {
			descending = false
		}
	}
	switch {
	case ascending:
		return domain.FlowAscending
	case descending:
		return domain.FlowDescending
	default:
		return domain.FlowWave
	}
}

func energyOrDefault(t domain.Track) int {
	if t.Energy == nil {
		return neutralEnergy
	}
	return *t.Energy
}
