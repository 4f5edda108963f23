package spotify

type spotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// spotifyTrack represents the Spotify API response for a track.
type spotifyTrack struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []spotifyArtist `json:"artists"`
	DurationMs  int             `json:"duration_ms"`
	PreviewURL  string          `json:"preview_url"`
	ExternalIDs struct {
		ISRC string `json:"isrc"`
	} `json:"external_ids"`
}

// spotifyAudioFeatures is the subset of /audio-features the mix engine uses.
// Key is a pitch class (-1 when undetected) and Mode is 0 minor, 1 major.
type spotifyAudioFeatures struct {
	ID     string  `json:"id"`
	Energy float64 `json:"energy"`
	Tempo  float64 `json:"tempo"`
	Key    int     `json:"key"`
	Mode   int     `json:"mode"`
}
