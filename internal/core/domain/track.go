package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	wholeSegment   = regexp.MustCompile(`^[0-9]+$`)
	secondsSegment = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)
)

// Track represents a library track and the attributes the mix engine reads.
// Tempo, Key and Energy are optional: they stay unset until the track is analyzed.
type Track struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Artist          string   `json:"artist"`
	Tempo           *float64 `json:"tempo,omitempty"`
	Key             string   `json:"key,omitempty"`
	Energy          *int     `json:"energy,omitempty"`
	Duration        string   `json:"duration,omitempty"`
	DurationSeconds float64  `json:"duration_seconds"`
	ISRC            string   `json:"isrc,omitempty"`
	PreviewURL      string   `json:"preview_url,omitempty"`
}

// Eligible reports whether the track carries a positive tempo and can enter a mix.
func (t Track) Eligible() bool {
	return t.Tempo != nil && *t.Tempo > 0
}

// HasKey reports whether a key signature is known.
func (t Track) HasKey() bool {
	return t.Key != ""
}

// Float returns a pointer to v. Handy for optional track attributes.
func Float(v float64) *float64 {
	return &v
}

// Int returns a pointer to v.
func Int(v int) *int {
	return &v
}

// ParseDuration converts a "mm:ss" or "h:mm:ss" display string into seconds.
// The rightmost segment is seconds and may carry a decimal fraction, the next
// minutes, and an optional leftmost segment hours. Segments below the leftmost
// must be under 60. An empty string parses to zero.
func ParseDuration(display string) (float64, error) {
	display = strings.TrimSpace(display)
	if display == "" {
		return 0, nil
	}

	parts := strings.Split(display, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("domain: invalid duration %q: %w", display, ErrInvalidArgument)
	}

	total := 0.0
	multiplier := 1.0
	for i := len(parts) - 1; i >= 0; i-- {
		seg := strings.TrimSpace(parts[i])
		pattern := wholeSegment
		if i == len(parts)-1 {
			pattern = secondsSegment
		}
		if !pattern.MatchString(seg) {
			return 0, fmt.Errorf("domain: invalid duration %q: %w", display, ErrInvalidArgument)
		}
		v, err := strconv.ParseFloat(seg, 64)
		if err != nil || (i > 0 && v >= 60) {
			return 0, fmt.Errorf("domain: invalid duration %q: %w", display, ErrInvalidArgument)
		}
		total += v * multiplier
		multiplier *= 60
	}
	return total, nil
}

// FormatDuration renders seconds back into the display form used by ParseDuration.
func FormatDuration(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	s := int(seconds + 0.5)
	h, m, sec := s/3600, (s%3600)/60, s%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}
