package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("domain: not found")
	ErrInvalidArgument = errors.New("domain: invalid argument")

	// ErrInsufficientTracks indicates the catalog holds fewer than two eligible tracks.
	ErrInsufficientTracks = errors.New("not enough analyzed tracks to build a mix")
)

// InsufficientTracksError carries how many eligible tracks were found.
type InsufficientTracksError struct {
	Eligible int
}

func (e InsufficientTracksError) Error() string {
	return fmt.Sprintf("%s: need at least 2 tracks with a tempo, found %d", ErrInsufficientTracks.Error(), e.Eligible)
}

func (e InsufficientTracksError) Is(target error) bool {
	return target == ErrInsufficientTracks
}
