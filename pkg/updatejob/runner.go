package updatejob

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pyronexus/cointracking/pkg/logger"
)

const (
	DefaultJobIDDelay = 10 * time.Second
	DefaultJobDelay   = 60 * time.Second
)

// Trigger fires the refresh of one importer job id.
type Trigger interface {
	Trigger(ctx context.Context, path string, jobID int) error
}

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// TriggerError is a failed trigger request for one job id.
type TriggerError struct {
	Job   string
	JobID int
	Err   error
}

func (e *TriggerError) Error() string {
	return fmt.Sprintf("update job %s id %d: %v", e.Job, e.JobID, e.Err)
}

func (e *TriggerError) Unwrap() error {
	return e.Err
}

// Attempt is the outcome of one trigger request. Err is nil on success.
type Attempt struct {
	Job   string
	JobID int
	Err   *TriggerError
}

// Report lists the attempts of a run in the order they were made.
type Report struct {
	RunID    string
	Attempts []Attempt
}

// Failed returns the attempts whose trigger request failed.
func (r Report) Failed() []Attempt {
	var failed []Attempt
	for _, a := range r.Attempts {
		if a.Err != nil {
			failed = append(failed, a)
		}
	}
	return failed
}

// Runner triggers a fixed list of update jobs one id at a time, pausing
// between ids and between jobs so the importer endpoints are not flooded.
type Runner struct {
	trigger     Trigger
	jobs        []Job
	jobIDDelay  time.Duration
	jobDelay    time.Duration
	stopOnError bool
	sleep       Sleeper
	log         logrus.FieldLogger
}

type Option func(*Runner)

func WithJobIDDelay(d time.Duration) Option {
	return func(r *Runner) { r.jobIDDelay = d }
}

func WithJobDelay(d time.Duration) Option {
	return func(r *Runner) { r.jobDelay = d }
}

// WithStopOnError ends the run at the first failed trigger. By default
// failures are logged and the run continues.
func WithStopOnError() Option {
	return func(r *Runner) { r.stopOnError = true }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Runner) { r.log = l }
}

// WithSleeper replaces the delay implementation.
func WithSleeper(s Sleeper) Option {
	return func(r *Runner) { r.sleep = s }
}

// NewRunner returns a runner over a private copy of jobs.
func NewRunner(trigger Trigger, jobs []Job, opts ...Option) *Runner {
	r := &Runner{
		trigger:    trigger,
		jobs:       cloneJobs(jobs),
		jobIDDelay: DefaultJobIDDelay,
		jobDelay:   DefaultJobDelay,
		sleep:      Sleep,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.Component("updatejob")
	}
	return r
}

// Jobs returns a copy of the configured jobs.
func (r *Runner) Jobs() []Job {
	return cloneJobs(r.jobs)
}

// Run triggers every job id in order. It returns ctx.Err() once the context
// is done, and the first *TriggerError when stopping on errors; the report
// holds every attempt made up to that point.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	report := Report{RunID: uuid.NewString()}
	log := r.log.WithField("run_id", report.RunID)

	log.Info("Running update jobs...")
	for _, job := range r.jobs {
		jobLog := log.WithFields(logrus.Fields{"job": job.label(), "path": job.Path})
		jobLog.Debugf("Running update jobs for %s", job.label())

		for _, id := range job.JobIDs {
			if err := ctx.Err(); err != nil {
				return report, err
			}

			jobLog.WithField("job_id", id).Debugf("Running update job for %s with id %d", job.label(), id)
			attempt := Attempt{Job: job.label(), JobID: id}
			if err := r.trigger.Trigger(ctx, job.Path, id); err != nil {
				attempt.Err = &TriggerError{Job: job.label(), JobID: id, Err: err}
			}
			report.Attempts = append(report.Attempts, attempt)

			if attempt.Err != nil {
				if ctx.Err() != nil {
					return report, ctx.Err()
				}
				jobLog.WithField("job_id", id).WithError(attempt.Err.Err).Warn("update trigger failed")
				if r.stopOnError {
					return report, attempt.Err
				}
			}

			jobLog.Debugf("Update finished. Delaying %s before the next job id run...", r.jobIDDelay)
			if err := r.sleep(ctx, r.jobIDDelay); err != nil {
				return report, err
			}
		}

		jobLog.Debugf("Update finished for %s. Delaying %s before the next job run...", job.label(), r.jobDelay)
		if err := r.sleep(ctx, r.jobDelay); err != nil {
			return report, err
		}
	}

	log.WithField("failed", len(report.Failed())).Info("Update jobs finished")
	return report, nil
}

// Sleep waits for d unless ctx is done first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
