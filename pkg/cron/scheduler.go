// Copyright 2025 LunaBeam Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cron

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lunabeam/lunabeam/pkg/log"
	"github.com/lunabeam/lunabeam/pkg/safe"
	robfig "github.com/robfig/cron"
)

var ErrDuplicateJob = errors.New("cron job already registered")

// JobFunc is a scheduled unit of work. The context is cancelled when the
// scheduler stops.
type JobFunc func(ctx context.Context) error

// MetricsRecorder observes every job run.
type MetricsRecorder interface {
	RecordJobRun(jobName string, duration time.Duration, err error)
}

type Option func(*Scheduler)

func WithMetricsRecorder(r MetricsRecorder) Option {
	return func(s *Scheduler) { s.recorder = r }
}

// Scheduler runs named jobs on cron specs. The spec format is robfig's:
// six fields with seconds, or descriptors such as "@every 5m".
type Scheduler struct {
	mu       sync.Mutex
	cron     *robfig.Cron
	jobs     map[string]struct{}
	recorder MetricsRecorder
	ctx      context.Context
	cancel   context.CancelFunc
	running  sync.WaitGroup
}

func New(opts ...Option) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:   robfig.NewWithLocation(time.UTC),
		jobs:   make(map[string]struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddFunc registers fn under a unique name.
func (s *Scheduler) AddFunc(name, spec string, fn JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, name)
	}
	if err := s.cron.AddFunc(spec, func() { s.Run(name, fn) }); err != nil {
		return fmt.Errorf("invalid spec %q for job %s: %w", spec, name, err)
	}
	s.jobs[name] = struct{}{}
	log.Infow("cron job registered", "job", name, "spec", spec)
	return nil
}

// Run executes fn once under the scheduler's context, recording and
// logging the outcome. Panics are recovered.
func (s *Scheduler) Run(name string, fn JobFunc) {
	s.running.Add(1)
	defer s.running.Done()

	start := time.Now()
	var err error
	if !safe.Do(func() { err = fn(s.ctx) }) {
		err = fmt.Errorf("job %s panicked", name)
	}
	elapsed := time.Since(start)

	if s.recorder != nil {
		s.recorder.RecordJobRun(name, elapsed, err)
	}
	if err != nil {
		log.Errorw("cron job failed", "job", name, "elapsed", elapsed, "error", err)
		return
	}
	log.Debugw("cron job finished", "job", name, "elapsed", elapsed)
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling, cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.cancel()
	s.running.Wait()
}

func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}
