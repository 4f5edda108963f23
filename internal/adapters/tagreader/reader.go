// Package tagreader seeds the catalog from tagged audio files on disk.
package tagreader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/dhowden/tag"
	"github.com/google/uuid"
	"github.com/hajimehoshi/go-mp3"

	"github.com/ewilliams-labs/remixense/internal/core/domain"
	"github.com/ewilliams-labs/remixense/internal/core/mixing"
)

var (
	tempoFrames = []string{"TBPM", "TBP", "BPM", "bpm", "tmpo"}
	keyFrames   = []string{"TKEY", "TKE", "INITIALKEY", "initialkey", "KEY"}

	// Mixed In Key writes "8A - Energy 6" into the comment frame.
	commentKey    = regexp.MustCompile(`(?i)\b(\d{1,2}[AB])\s*-\s*Energy`)
	commentEnergy = regexp.MustCompile(`(?i)Energy\s+(\d{1,2})\b`)
)

var audioExtensions = map[string]bool{
	".mp3":  true,
	".m4a":  true,
	".flac": true,
	".ogg":  true,
}

// ReadFile reads a single audio file. The returned track id is derived from the
// absolute path so importing the same file twice updates the stored track.
func ReadFile(path string) (domain.Track, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return domain.Track{}, fmt.Errorf("tagreader: resolve %s: %w", path, err)
	}

	f, err := os.Open(abs)
	if err != nil {
		return domain.Track{}, fmt.Errorf("tagreader: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return domain.Track{}, fmt.Errorf("tagreader: read tags %s: %w", path, err)
	}

	t := fromTags(m.Title(), m.Artist(), m.Comment(), m.Raw())
	if t.Title == "" {
		t.Title = strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	}
	t.ID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+abs)).String()

	if strings.EqualFold(filepath.Ext(abs), ".mp3") {
		seconds, err := mp3Duration(f)
		if err != nil {
			log.Printf("WARN tagreader: no duration for %s: %v", path, err)
		} else {
			t.DurationSeconds = seconds
			t.Duration = domain.FormatDuration(seconds)
		}
	}
	return t, nil
}

// mp3Duration measures an MP3 stream by walking its frames. The decoder
// yields 16-bit stereo PCM, so each sample frame is 4 bytes.
func mp3Duration(r io.ReadSeeker) (float64, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("tagreader: rewind: %w", err)
	}
	d, err := mp3.NewDecoder(r)
	if err != nil {
		return 0, fmt.Errorf("tagreader: decode mp3: %w", err)
	}
	if d.Length() <= 0 || d.SampleRate() <= 0 {
		return 0, errors.New("tagreader: mp3 length unknown")
	}
	return float64(d.Length()) / 4 / float64(d.SampleRate()), nil
}

// ScanDir reads every audio file below root. Files that fail to read are
// reported in errs and skipped.
func ScanDir(root string) (tracks []domain.Track, errs []error) {
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		if d.IsDir() || !audioExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		t, err := ReadFile(path)
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		tracks = append(tracks, t)
		return nil
	})
	if walkErr != nil {
		errs = append(errs, fmt.Errorf("tagreader: walk %s: %w", root, walkErr))
	}
	return tracks, errs
}

func fromTags(title, artist, comment string, raw map[string]interface{}) domain.Track {
	t := domain.Track{
		Title:  strings.TrimSpace(title),
		Artist: strings.TrimSpace(artist),
	}

	if bpm := rawTempo(raw); bpm > 0 {
		t.Tempo = domain.Float(bpm)
	}

	key := rawString(raw, keyFrames)
	if key == "" {
		if m := commentKey.FindStringSubmatch(comment); m != nil {
			key = m[1]
		}
	}
	t.Key = mixing.NormalizeKey(key)

	if m := commentEnergy.FindStringSubmatch(comment); m != nil {
		if e, err := strconv.Atoi(m[1]); err == nil && e >= 1 && e <= 10 {
			t.Energy = domain.Int(e)
		}
	}
	return t
}

func rawTempo(raw map[string]interface{}) float64 {
	for _, k := range tempoFrames {
		v, ok := raw[k]
		if !ok {
			continue
		}
		var bpm float64
		switch x := v.(type) {
		case string:
			bpm, _ = strconv.ParseFloat(strings.TrimSpace(x), 64)
		case int:
			bpm = float64(x)
		case float64:
			bpm = x
		}
		if bpm > 0 && !math.IsInf(bpm, 0) {
			return bpm
		}
	}
	return 0
}

func rawString(raw map[string]interface{}, keys []string) string {
	for _, k := range keys {
		if s, ok := raw[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
