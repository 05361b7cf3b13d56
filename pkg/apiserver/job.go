// Package apiserver exposes the clustering engine over HTTP, grounded in
// graph-clustering-backend/src2/service/job.go's JobService: an in-memory
// job map guarded by a mutex, a worker-slot channel bounding concurrency,
// and background goroutines doing the actual clustering work.
package apiserver

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/alutov/hirecs/pkg/hierarchy"
	"github.com/alutov/hirecs/pkg/hig"
)

// JobStatus mirrors the teacher's models.JobStatus enum.
type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// Job is the externally visible state of one clustering request.
type Job struct {
	ID          string    `json:"id"`
	Status      JobStatus `json:"status"`
	Message     string    `json:"message,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	input     []byte
	opts      hierarchy.Options
	symmetric *bool
	shuffle   bool

	hierarchy *hierarchy.Hierarchy
	err       error
}

// SubmitRequest bundles the parsed request body for Submit: the raw .hig
// payload plus the clustering options to run it with. Options.Symmetric is
// always ignored: SymmetricOverride decides it when set, and otherwise the
// job service derives it from the parsed graph itself (unsigned and
// undirected), per SPEC_FULL.md §10, once the payload is loaded.
type SubmitRequest struct {
	Payload           []byte
	Shuffle           bool
	Options           hierarchy.Options
	SymmetricOverride *bool
}

// JobService runs clustering jobs submitted as raw .hig payloads in the
// background and exposes their results once complete.
type JobService struct {
	mu      sync.RWMutex
	jobs    map[string]*Job
	workers chan struct{}
	logger  zerolog.Logger
}

// NewJobService creates a service bounding concurrent clustering runs to
// maxConcurrent goroutines.
func NewJobService(maxConcurrent int, logger zerolog.Logger) *JobService {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &JobService{
		jobs:    make(map[string]*Job),
		workers: make(chan struct{}, maxConcurrent),
		logger:  logger,
	}
}

// Submit queues a new clustering job over the given .hig payload and
// returns its id immediately; the job runs in the background.
func (s *JobService) Submit(req SubmitRequest) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	job := &Job{
		ID:        uuid.New().String(),
		Status:    JobQueued,
		CreatedAt: time.Now(),
		input:     req.Payload,
		opts:      req.Options,
		symmetric: req.SymmetricOverride,
		shuffle:   req.Shuffle,
	}
	s.jobs[job.ID] = job
	s.logger.Info().Str("job_id", job.ID).Msg("clustering job submitted")

	go s.run(job)
	return job
}

// Get retrieves a job snapshot by id.
func (s *JobService) Get(id string) (*Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	if !ok {
		return nil, false
	}
	snapshot := *j
	return &snapshot, true
}

// Result returns the finished hierarchy for a succeeded job.
func (s *JobService) Result(id string) (*hierarchy.Hierarchy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job not found: %s", id)
	}
	if j.Status != JobSucceeded {
		return nil, fmt.Errorf("job %s has not succeeded (status=%s)", id, j.Status)
	}
	return j.hierarchy, nil
}

func (s *JobService) run(job *Job) {
	s.workers <- struct{}{}
	defer func() { <-s.workers }()

	s.setStatus(job.ID, JobRunning, "clustering")

	nodes, directed, signed, err := hig.Load(bytes.NewReader(job.input), job.shuffle)
	if err != nil {
		s.fail(job.ID, err)
		return
	}

	opts := job.opts
	if job.symmetric != nil {
		opts.Symmetric = *job.symmetric
	} else {
		// Per SPEC_FULL.md §10: symmetric only applies to unsigned,
		// undirected graphs, derived from the parsed graph itself.
		opts.Symmetric = !signed && !directed
	}

	h, err := hierarchy.Build(nodes, opts)
	if err != nil {
		s.fail(job.ID, err)
		return
	}

	s.mu.Lock()
	job.hierarchy = h
	job.Status = JobSucceeded
	now := time.Now()
	job.CompletedAt = &now
	s.mu.Unlock()

	s.logger.Info().Str("job_id", job.ID).Float64("modularity", h.Score()).Msg("clustering job succeeded")
}

func (s *JobService) setStatus(id string, status JobStatus, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.jobs[id]; ok {
		j.Status = status
		j.Message = message
	}
}

func (s *JobService) fail(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.jobs[id]; ok {
		j.Status = JobFailed
		j.Message = err.Error()
		j.err = err
		now := time.Now()
		j.CompletedAt = &now
	}
	s.logger.Error().Str("job_id", id).Err(err).Msg("clustering job failed")
}
