package tagreader

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromTags(t *testing.T) {
	tests := []struct {
		name       string
		comment    string
		raw        map[string]interface{}
		wantTempo  float64
		wantKey    string
		wantEnergy int
	}{
		{
			name:      "id3 frames",
			raw:       map[string]interface{}{"TBPM": "128", "TKEY": "Am"},
			wantTempo: 128,
			wantKey:   "8A",
		},
		{
			name:      "mp4 integer tempo",
			raw:       map[string]interface{}{"tmpo": 124},
			wantTempo: 124,
		},
		{
			name:       "mixed in key comment",
			comment:    "8A - Energy 6",
			raw:        map[string]interface{}{"TBP": "126.5"},
			wantTempo:  126.5,
			wantKey:    "8A",
			wantEnergy: 6,
		},
		{
			name:    "frame key wins over comment",
			comment: "1B - Energy 3",
			raw:     map[string]interface{}{"TKEY": "12b"},
			wantKey: "12B",
			// energy still comes from the comment
			wantEnergy: 3,
		},
		{
			name:    "garbage tempo ignored",
			comment: "Energy 42",
			raw:     map[string]interface{}{"TBPM": "fast"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fromTags(" Strobe ", "deadmau5", tt.comment, tt.raw)

			assert.Equal(t, "Strobe", got.Title)
			assert.Equal(t, "deadmau5", got.Artist)
			if tt.wantTempo == 0 {
				assert.Nil(t, got.Tempo)
			} else {
				require.NotNil(t, got.Tempo)
				assert.InDelta(t, tt.wantTempo, *got.Tempo, 1e-9)
			}
			assert.Equal(t, tt.wantKey, got.Key)
			if tt.wantEnergy == 0 {
				assert.Nil(t, got.Energy)
			} else {
				require.NotNil(t, got.Energy)
				assert.Equal(t, tt.wantEnergy, *got.Energy)
			}
		})
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.mp3"))
	require.Error(t, err)
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not audio"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.mp3"), []byte("not really an mp3"), 0o600))

	tracks, errs := ScanDir(dir)
	assert.Empty(t, tracks)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "broken.mp3")
}

func TestMP3DurationRejectsNonMP3(t *testing.T) {
	_, err := mp3Duration(bytes.NewReader([]byte("ID3 but nothing else")))
	require.Error(t, err)

	_, err = mp3Duration(bytes.NewReader(nil))
	require.Error(t, err)
}
