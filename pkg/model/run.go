package model

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vinisalazar/bioprov/pkg/errors"
)

// Status is the lifecycle state of a Run.
type Status string

// Run statuses. The only valid transitions are
// Pending → Running → {Finished, Failed}; Finished and Failed are terminal.
const (
	StatusPending  Status = "Pending"
	StatusRunning  Status = "Running"
	StatusFinished Status = "Finished"
	StatusFailed   Status = "Failed"
)

func validStatus(s Status) bool {
	switch s {
	case StatusPending, StatusRunning, StatusFinished, StatusFailed:
		return true
	}
	return false
}

// validNext encodes the run state machine.
var validNext = map[Status][]Status{
	StatusPending: {StatusRunning},
	StatusRunning: {StatusFinished, StatusFailed},
}

// RunResult is the outcome an external process invocation reports back to
// the core: exit status, captured output, and timestamps. The core never
// inspects process internals.
type RunResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Start    time.Time
	End      time.Time
}

// Runner executes an external command and reports its outcome. The concrete
// implementation lives outside the core (package runner); tests substitute
// fakes. A non-nil error means the command could not be invoked at all, not
// that it exited non-zero.
type Runner interface {
	Run(ctx context.Context, command string) (RunResult, error)
}

// Run is one execution attempt of a Program. Failed attempts are kept: they
// are provenance-relevant.
type Run struct {
	ID        string
	Status    Status
	StartTime time.Time
	EndTime   time.Time
	Stdout    string
	Stderr    string
	ExitCode  int

	// Env is the computing context the run executed in. Exactly one per
	// run, set when execution starts and never replaced.
	Env *Environment

	program *Program
}

// Program returns the program this run belongs to.
func (r *Run) Program() *Program { return r.program }

// Transition moves the run to the next status, rejecting anything outside
// Pending → Running → {Finished, Failed}.
func (r *Run) Transition(to Status) error {
	for _, next := range validNext[r.Status] {
		if next == to {
			r.Status = to
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidRunTransition,
		"run %q cannot transition from %s to %s", r.ID, r.Status, to)
}

// Execute drives one run of the program: it records a Pending run, moves it
// to Running, delegates to the runner, and settles the run on Finished or
// Failed from the reported exit status. On success, declared output files
// are attached to the program's owner before returning.
//
// A non-zero exit or an invocation failure produces a Failed run, which is
// valid provenance, not an error. Execute itself only fails on graph
// inconsistencies (unowned program, output attachment conflicts).
func (pg *Program) Execute(ctx context.Context, runner Runner, env *Environment) (*Run, error) {
	if pg.owner == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"program %q must be attached to a sample or project before running", pg.Name)
	}
	if pg.Preset != nil {
		if err := pg.Bind(); err != nil {
			return nil, err
		}
	}

	run := &Run{
		ID:      uuid.NewString(),
		Status:  StatusPending,
		Env:     env,
		program: pg,
	}
	pg.runs = append(pg.runs, run)

	if err := run.Transition(StatusRunning); err != nil {
		return nil, err
	}

	res, invokeErr := runner.Run(ctx, pg.Command())
	run.Stdout = res.Stdout
	run.Stderr = res.Stderr
	run.ExitCode = res.ExitCode
	run.StartTime = res.Start
	run.EndTime = res.End

	if invokeErr != nil {
		if run.Stderr == "" {
			run.Stderr = invokeErr.Error()
		}
		if run.ExitCode == 0 {
			run.ExitCode = -1
		}
		return run, run.Transition(StatusFailed)
	}
	if res.ExitCode != 0 {
		return run, run.Transition(StatusFailed)
	}

	if err := run.Transition(StatusFinished); err != nil {
		return nil, err
	}
	if err := pg.attachOutputs(); err != nil {
		return nil, err
	}
	return run, nil
}

// attachOutputs adds the program's declared output files to its owner.
// Outputs already attached (e.g. by a previous run) are left alone.
func (pg *Program) attachOutputs() error {
	for _, p := range pg.params.values() {
		if p.Kind != ParamOutput {
			continue
		}
		if _, exists := pg.owner.File(p.Tag); exists {
			continue
		}
		out := NewFile(p.Value, p.Tag)
		if err := out.Stat(); err != nil {
			return err
		}
		if err := pg.owner.AddFile(out); err != nil {
			return err
		}
	}
	return nil
}

// Duration returns the elapsed time of a settled run, or zero if the run
// has not ended.
func (r *Run) Duration() time.Duration {
	if r.EndTime.IsZero() || r.StartTime.IsZero() {
		return 0
	}
	return r.EndTime.Sub(r.StartTime)
}
