// Package job sequences staging, discovery, compilation and artifact
// resolution as one build job, off the caller's goroutine.
package job

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"sketchforge/internal/compile"
	"sketchforge/internal/firmware"
	"sketchforge/internal/logfields"
	"sketchforge/internal/metrics"
	"sketchforge/internal/sketch"
)

// ErrJobInFlight is returned by Submit while another job is still running.
// Jobs are strictly serialized; a failed or finished job releases the slot.
var ErrJobInFlight = errors.New("a build job is already in flight")

// Request contains the inputs for one build job.
type Request struct {
	Title  string // display name, used for logging and history
	Source sketch.Source
	Config firmware.BuildConfiguration
}

// Result is the terminal outcome of one build job. The staging directory is
// already deleted by the time a Result is delivered; ArtifactPath is only
// meaningful to the export hook that ran before cleanup.
type Result struct {
	ID            string
	Title         string
	State         State
	Err           error
	ArtifactPath  string
	SuggestedName string // default export file name, <projectDirBase>.hex
	ProjectDir    string
	Commit        string // abbreviated HEAD commit for remote sources
	StartTime     time.Time
	EndTime       time.Time
	StateTimings  map[State]time.Duration
}

// StatusFunc observes state transitions as they happen.
type StatusFunc func(jobID string, state State)

// ExportFunc receives the successful result while the artifact still exists
// on disk. Its error is reported independently and never changes the job's
// terminal state.
type ExportFunc func(res Result) error

// Orchestrator runs build jobs one at a time.
type Orchestrator struct {
	stager   *sketch.Stager
	invoker  *compile.Invoker
	recorder metrics.Recorder
	status   StatusFunc
	export   ExportFunc

	mu sync.Mutex // held for the duration of one job
}

// New creates an orchestrator over the given stager and invoker.
func New(stager *sketch.Stager, invoker *compile.Invoker) *Orchestrator {
	return &Orchestrator{stager: stager, invoker: invoker, recorder: metrics.NoopRecorder{}}
}

// WithRecorder attaches a metrics recorder (fluent helper).
func (o *Orchestrator) WithRecorder(r metrics.Recorder) *Orchestrator {
	if r != nil {
		o.recorder = r
	}
	return o
}

// WithStatusFunc attaches a state transition observer (fluent helper).
func (o *Orchestrator) WithStatusFunc(fn StatusFunc) *Orchestrator { o.status = fn; return o }

// WithExportFunc attaches the export boundary hook (fluent helper).
func (o *Orchestrator) WithExportFunc(fn ExportFunc) *Orchestrator { o.export = fn; return o }

// Submit starts a build job and returns a channel that delivers its single
// terminal Result. A second Submit while a job runs fails with ErrJobInFlight.
func (o *Orchestrator) Submit(ctx context.Context, req Request) (<-chan Result, error) {
	if req.Source == nil {
		return nil, errors.New("build request has no sketch source")
	}
	if !o.mu.TryLock() {
		return nil, ErrJobInFlight
	}

	id := uuid.NewString()
	results := make(chan Result, 1)
	go func() {
		defer o.mu.Unlock()
		results <- o.run(ctx, id, req)
	}()
	return results, nil
}

// run executes the full pipeline. The staging directory is removed on every
// exit path before the Result is returned.
func (o *Orchestrator) run(ctx context.Context, id string, req Request) Result {
	res := Result{
		ID:           id,
		Title:        req.Title,
		State:        StateIdle,
		StartTime:    time.Now(),
		StateTimings: make(map[State]time.Duration),
	}
	stateStart := res.StartTime
	enter := func(s State) {
		now := time.Now()
		if !res.State.IsTerminal() && res.State != StateIdle {
			d := now.Sub(stateStart)
			res.StateTimings[res.State] = d
			o.recorder.ObserveStateDuration(string(res.State), d)
		}
		stateStart = now
		res.State = s
		slog.Info("Build job state changed", logfields.JobID(id), logfields.JobState(string(s)))
		if o.status != nil {
			o.status(id, s)
		}
	}
	fail := func(err error) Result {
		res.Err = err
		enter(StateFailed)
		o.finish(&res)
		return res
	}

	slog.Info("Build job started", logfields.JobID(id), logfields.Name(req.Title))

	enter(StateStaging)
	dir, err := o.stager.Stage(ctx, req.Source)
	if err != nil {
		return fail(err)
	}
	defer func() {
		if cerr := dir.Cleanup(); cerr != nil {
			// Cleanup failure must never mask the job's actual outcome.
			slog.Warn("Staging cleanup failed", logfields.JobID(id), logfields.Error(cerr))
		}
	}()
	if _, ok := req.Source.(sketch.RemoteGit); ok {
		res.Commit = sketch.HeadCommit(dir.Path())
	}

	enter(StateDiscovering)
	entry, err := sketch.Locate(dir.Path())
	if err != nil {
		return fail(err)
	}
	entry = sketch.EnforceNaming(entry)
	projectDir := filepath.Dir(entry)
	buildDir := filepath.Join(projectDir, "build")

	enter(StateCompiling)
	flags := firmware.Derive(req.Config)
	if err := o.invoker.Compile(ctx, projectDir, buildDir, flags); err != nil {
		return fail(err)
	}

	enter(StateResolving)
	artifact, err := compile.ResolveArtifact(buildDir, filepath.Base(projectDir))
	if err != nil {
		return fail(err)
	}

	res.ArtifactPath = artifact
	res.ProjectDir = projectDir
	res.SuggestedName = filepath.Base(projectDir) + ".hex"
	enter(StateSucceeded)

	// Hand the artifact to the export boundary before the deferred cleanup
	// destroys it. Export failures are its own to report.
	if o.export != nil {
		if eerr := o.export(res); eerr != nil {
			slog.Error("Artifact export failed", logfields.JobID(id), logfields.Error(eerr))
		}
	}

	o.finish(&res)
	return res
}

func (o *Orchestrator) finish(res *Result) {
	res.EndTime = time.Now()
	total := res.EndTime.Sub(res.StartTime)
	o.recorder.ObserveJobDuration(total)
	o.recorder.IncJobOutcome(string(res.State))
	if res.Err != nil {
		slog.Error("Build job failed", logfields.JobID(res.ID), logfields.Error(res.Err),
			logfields.DurationMS(float64(total.Milliseconds())))
		return
	}
	slog.Info("Build job succeeded", logfields.JobID(res.ID), logfields.Artifact(res.ArtifactPath),
		logfields.DurationMS(float64(total.Milliseconds())))
}
