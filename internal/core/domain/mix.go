package domain

import (
	"fmt"
	"time"
)

// TransitionType is the recommended technique for moving into a track.
type TransitionType int

const (
	TransitionFade TransitionType = iota
	TransitionCut
	TransitionFilter
)

var transitionNames = map[TransitionType]string{
	TransitionFade:   "fade",
	TransitionCut:    "cut",
	TransitionFilter: "filter",
}

func (t TransitionType) String() string {
	if name, ok := transitionNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TransitionType(%d)", int(t))
}

// ParseTransitionType is the inverse of String.
func ParseTransitionType(s string) (TransitionType, error) {
	for t, name := range transitionNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown transition type %q", ErrInvalidArgument, s)
}

func (t TransitionType) MarshalText() ([]byte, error) {
	if _, ok := transitionNames[t]; !ok {
		return nil, fmt.Errorf("%w: unknown transition type %d", ErrInvalidArgument, int(t))
	}
	return []byte(t.String()), nil
}

func (t *TransitionType) UnmarshalText(b []byte) error {
	parsed, err := ParseTransitionType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// EnergyFlow is the overall intensity trend across a mix.
type EnergyFlow int

const (
	FlowAscending EnergyFlow = iota
	FlowDescending
	FlowWave
)

var flowNames = map[EnergyFlow]string{
	FlowAscending:  "ascending",
	FlowDescending: "descending",
	FlowWave:       "wave",
}

func (f EnergyFlow) String() string {
	if name, ok := flowNames[f]; ok {
		return name
	}
	return fmt.Sprintf("EnergyFlow(%d)", int(f))
}

// ParseEnergyFlow is the inverse of String.
func ParseEnergyFlow(s string) (EnergyFlow, error) {
	for f, name := range flowNames {
		if name == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown energy flow %q", ErrInvalidArgument, s)
}

func (f EnergyFlow) MarshalText() ([]byte, error) {
	if _, ok := flowNames[f]; !ok {
		return nil, fmt.Errorf("%w: unknown energy flow %d", ErrInvalidArgument, int(f))
	}
	return []byte(f.String()), nil
}

func (f *EnergyFlow) UnmarshalText(b []byte) error {
	parsed, err := ParseEnergyFlow(string(b))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// MixSuggestion is one selected track together with how to transition into it.
type MixSuggestion struct {
	Track          Track          `json:"track"`
	TransitionType TransitionType `json:"transition_type"`
	MatchScore     int            `json:"match_score"`
	Reason         string         `json:"reason"`
}

// MixResult is an ordered set plus its summary statistics.
type MixResult struct {
	Tracks               []MixSuggestion `json:"tracks"`
	TotalDurationSeconds float64         `json:"total_duration_seconds"`
	AverageTempo         int             `json:"average_tempo"`
	EnergyFlow           EnergyFlow      `json:"energy_flow"`
}

// TrackIDs returns the selected track ids in mix order.
func (r MixResult) TrackIDs() []string {
	ids := make([]string, len(r.Tracks))
	for i, s := range r.Tracks {
		ids[i] = s.Track.ID
	}
	return ids
}

// MixSession is a named, saved MixResult.
type MixSession struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Result    MixResult `json:"result"`
}

// NewMixSession validates and builds a session around an already computed result.
func NewMixSession(id, name string, createdAt time.Time, result MixResult) (*MixSession, error) {
	if id == "" || name == "" {
		return nil, ErrInvalidArgument
	}
	if len(result.Tracks) == 0 {
		return nil, fmt.Errorf("%w: session has no tracks", ErrInvalidArgument)
	}
	return &MixSession{
		ID:        id,
		Name:      name,
		CreatedAt: createdAt.UTC(),
		Result:    result,
	}, nil
}
