package services

import (
	"github.com/dmartell/clientia-api/internal/jobs"
)

// JobService surfaces the background worker state for the admin panel.
type JobService struct {
	worker *jobs.Worker
}

// JobStatus is the payload returned by the admin jobs endpoint.
type JobStatus struct {
	Active        int   `json:"active"`
	Completed     int64 `json:"completed"`
	Failed        int64 `json:"failed"`
	Queued        int   `json:"queued"`
	MaxConcurrent int   `json:"max_concurrent"`
	// Idle is true when nothing is running and the queue is drained.
	Idle bool `json:"idle"`
}

func NewJobService(worker *jobs.Worker) *JobService {
	return &JobService{worker: worker}
}

func (s *JobService) GetStatus() JobStatus {
	stats := s.worker.GetStats()
	return JobStatus{
		Active:        stats.ActiveJobs,
		Completed:     stats.CompletedJobs,
		Failed:        stats.FailedJobs,
		Queued:        stats.QueueLength,
		MaxConcurrent: stats.MaxConcurrent,
		Idle:          stats.ActiveJobs == 0 && stats.QueueLength == 0,
	}
}
