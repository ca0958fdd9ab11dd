// Package scheduler runs periodic maintenance jobs on cron definitions.
package scheduler

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/calventeramirez/baseDatos/logger"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/recoilme/pudge"
	"github.com/robfig/cron/v3"
)

// Names of the session store maintenance jobs.
const (
	SessionBackupJob = "session-backup"
	SessionSweepJob  = "session-sweep"
)

var (
	ErrDisabled   = errors.New("job is disabled")
	ErrUnknownJob = errors.New("unknown job")
)

// Job is one scheduled task.
type Job struct {
	ID      string
	Name    string
	Spec    string
	Added   time.Time
	LastRun time.Time
	LastErr error
	Run     func() error `json:"-"`

	entry cron.EntryID
}

// Scheduler owns a cron runner with second precision.
type Scheduler struct {
	cron *cron.Cron
	mu   sync.Mutex
	jobs map[string]*Job
}

func New() *Scheduler {
	return &Scheduler{cron: cron.New(cron.WithSeconds()), jobs: make(map[string]*Job)}
}

// Add registers run under name. An empty spec disables the job.
func (s *Scheduler) Add(name, spec string, run func() error) (*Job, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, ErrDisabled
	}
	job := &Job{ID: uuid.New().String(), Name: name, Spec: spec, Added: time.Now(), Run: run}
	entry, err := s.cron.AddFunc(spec, func() {
		s.execute(job)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "invalid cron definition %q", spec)
	}
	job.entry = entry

	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.jobs[name]; ok {
		s.cron.Remove(old.entry)
	}
	s.jobs[name] = job
	return job, nil
}

func (s *Scheduler) execute(job *Job) {
	started := time.Now()
	err := job.Run()

	s.mu.Lock()
	job.LastRun = started
	job.LastErr = err
	s.mu.Unlock()

	entry := logger.Log.WithField("job", job.Name).WithField("job_id", job.ID)
	if err != nil {
		entry.WithError(err).Error("job failed")
		return
	}
	entry.Debug("job finished in ", time.Since(started))
}

// RunNow executes the named job immediately in the calling goroutine.
func (s *Scheduler) RunNow(name string) error {
	s.mu.Lock()
	job, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return errors.Wrap(ErrUnknownJob, name)
	}
	s.execute(job)
	s.mu.Lock()
	defer s.mu.Unlock()
	return job.LastErr
}

// Jobs returns a snapshot of the registered jobs sorted by name.
func (s *Scheduler) Jobs() []Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		out = append(out, *job)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Next reports when the named job runs next; zero before Start.
func (s *Scheduler) Next(name string) time.Time {
	s.mu.Lock()
	job, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return time.Time{}
	}
	return s.cron.Entry(job.entry).Next
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// AddSessionBackup copies every open pudge database into ./backup on spec.
func AddSessionBackup(s *Scheduler, spec string) error {
	_, err := s.Add(SessionBackupJob, spec, func() error {
		return pudge.BackupAll("")
	})
	return err
}

// Sweeper removes expired entries and reports how many went away.
type Sweeper interface {
	Sweep() (int, error)
}

// AddSessionSweep purges expired sessions from store on spec.
func AddSessionSweep(s *Scheduler, spec string, store Sweeper) error {
	_, err := s.Add(SessionSweepJob, spec, func() error {
		removed, err := store.Sweep()
		if removed > 0 {
			logger.Log.WithField("job", SessionSweepJob).Infoln("Removed expired sessions:", removed)
		}
		return err
	})
	return err
}
