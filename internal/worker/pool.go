// Package worker provides background processing for track-related jobs.
package worker

import (
	"context"
	"log"
	"sync"

	"github.com/ewilliams-labs/remixense/internal/core/ports"
)

// Job asks for a track's energy to be measured from its preview clip.
type Job struct {
	TrackID    string
	PreviewURL string
}

// Pool manages background workers for async jobs.
type Pool struct {
	catalog  ports.TrackCatalog
	analyzer Analyzer
	workers  int
	jobs     chan Job
	wg       sync.WaitGroup
}

// NewPool creates a worker pool with the given worker count and queue size.
func NewPool(catalog ports.TrackCatalog, analyzer Analyzer, workers int, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	if analyzer == nil {
		analyzer = NewPreviewAnalyzer(nil)
	}
	return &Pool{catalog: catalog, analyzer: analyzer, workers: workers, jobs: make(chan Job, queueSize)}
}

// Start launches the worker goroutines. ctx bounds each analysis; Stop
// still drains whatever is queued.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.processJob(ctx, job)
			}
		}()
	}
}

// Stop waits for workers to finish after closing the queue.
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}

// Submit queues a job without blocking. It reports false when the job was dropped.
func (p *Pool) Submit(job Job) bool {
	select {
	case p.jobs <- job:
		return true
	default:
		log.Printf("WARN worker: queue full, dropping job for %s", job.TrackID)
		return false
	}
}

func (p *Pool) processJob(ctx context.Context, job Job) {
	if job.PreviewURL == "" {
		log.Printf("WARN worker: no preview URL for track %s, skipping analysis", job.TrackID)
		return
	}

	rms, err := p.analyzer.Analyze(ctx, job.PreviewURL)
	if err != nil {
		log.Printf("WARN worker: analysis failed for track %s: %v", job.TrackID, err)
		return
	}

	level := EnergyLevel(rms)
	if err := p.catalog.UpdateTrackAnalysis(ctx, job.TrackID, level); err != nil {
		log.Printf("WARN worker: failed to update track %s: %v", job.TrackID, err)
		return
	}
	log.Printf("DEBUG worker: track %s energy %d (rms %.3f)", job.TrackID, level, rms)
}
