package jobs

import (
	"context"
	"time"
)

// JobType identifies the kind of work a job carries.
type JobType string

const (
	// JobTypeMaterializeRun is one full pass of the recurring-transaction
	// materializer over all users.
	JobTypeMaterializeRun JobType = "materialize_run"
)

// JobStatus is the lifecycle state of a job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// MaterializeRunJob is a request to run the materializer once. A failed run is
// not retried by the queue; the next scheduled run resumes from each
// schedule's cursor, which makes the whole batch safe to re-run.
type MaterializeRunJob struct {
	JobID string `json:"job_id"`

	// Trigger records what started the run: "timer", "http" or "cli".
	Trigger string `json:"trigger"`

	Status JobStatus `json:"status"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Error string `json:"error,omitempty"`

	// Result counters, filled in when the run completes.
	Users               int `json:"users"`
	SchedulesProcessed  int `json:"schedules_processed"`
	TransactionsCreated int `json:"transactions_created"`
	SchedulesFailed     int `json:"schedules_failed"`
}

// Job is the generic interface over job types.
type Job interface {
	GetID() string
	GetType() JobType
	GetStatus() JobStatus
}

func (j *MaterializeRunJob) GetID() string        { return j.JobID }
func (j *MaterializeRunJob) GetType() JobType     { return JobTypeMaterializeRun }
func (j *MaterializeRunJob) GetStatus() JobStatus { return j.Status }

// Publisher enqueues jobs. The abstraction keeps the door open for Cloud
// Tasks or Pub/Sub without touching callers.
type Publisher interface {
	PublishMaterializeRun(ctx context.Context, job *MaterializeRunJob) error
	Close() error
}

// Consumer drains jobs and hands them to a handler.
type Consumer interface {
	Start(ctx context.Context, handler JobHandler) error
	Stop(ctx context.Context) error
}

// JobHandler processes one job. A returned error marks the job failed.
type JobHandler func(ctx context.Context, job Job) error

// JobStore tracks run history so the API can expose it.
type JobStore interface {
	SaveJob(ctx context.Context, job *MaterializeRunJob) error
	GetJob(ctx context.Context, jobID string) (*MaterializeRunJob, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]*MaterializeRunJob, error)
}

// JobFilter narrows ListJobs results.
type JobFilter struct {
	Status JobStatus
	Limit  int
	Offset int
}
