package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/hajimehoshi/go-mp3"
)

// rmsCeiling is the RMS treated as maximum loudness. Mastered dance music
// rarely exceeds it, so levels spread across the whole 1..10 range.
const rmsCeiling = 0.35

// Analyzer measures the loudness of a preview clip as normalised RMS in 0..1.
type Analyzer interface {
	Analyze(ctx context.Context, previewURL string) (float64, error)
}

// AnalyzerFunc adapts a plain function to Analyzer.
type AnalyzerFunc func(ctx context.Context, previewURL string) (float64, error)

func (f AnalyzerFunc) Analyze(ctx context.Context, previewURL string) (float64, error) {
	return f(ctx, previewURL)
}

// PreviewAnalyzer downloads MP3 previews and computes RMS over the decoded PCM.
type PreviewAnalyzer struct {
	client *http.Client
}

// NewPreviewAnalyzer returns an analyzer using client, or a 15s-timeout client when nil.
func NewPreviewAnalyzer(client *http.Client) *PreviewAnalyzer {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &PreviewAnalyzer{client: client}
}

func (a *PreviewAnalyzer) Analyze(ctx context.Context, previewURL string) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, previewURL, nil)
	if err != nil {
		return 0, fmt.Errorf("worker: preview request: %w", err)
	}
	// #nosec G107 -- preview URLs come from the metadata provider or the catalog owner
	resp, err := a.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("worker: preview fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("worker: preview fetch status %d", resp.StatusCode)
	}
	return rmsEnergy(resp.Body)
}

// rmsEnergy decodes an MP3 stream to 16-bit little-endian PCM and returns its RMS.
func rmsEnergy(r io.Reader) (float64, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return 0, fmt.Errorf("worker: preview decode failed: %w", err)
	}

	buf := make([]byte, 4096)
	var sumSquares, count float64
	for {
		n, err := decoder.Read(buf)
		for i := 0; i+1 < n; i += 2 {
			sample := float64(int16(buf[i]) | int16(buf[i+1])<<8)
			sumSquares += sample * sample
			count++
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("worker: preview read failed: %w", err)
		}
	}

	if count == 0 {
		return 0, errors.New("worker: preview contains no samples")
	}
	return math.Min(math.Sqrt(sumSquares/count)/32768.0, 1), nil
}

// EnergyLevel maps normalised RMS onto the catalog's 1..10 energy scale.
func EnergyLevel(rms float64) int {
	level := int(math.Ceil(rms / rmsCeiling * 10))
	return max(1, min(level, 10))
}
