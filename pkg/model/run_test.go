package model

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vinisalazar/bioprov/pkg/errors"
)

// fakeRunner reports a canned outcome without spawning a process.
type fakeRunner struct {
	result RunResult
	err    error
	cmds   []string
}

func (f *fakeRunner) Run(_ context.Context, command string) (RunResult, error) {
	f.cmds = append(f.cmds, command)
	return f.result, f.err
}

func okResult() RunResult {
	start := time.Date(2021, 3, 1, 12, 0, 0, 0, time.UTC)
	return RunResult{
		Stdout:   "done\n",
		ExitCode: 0,
		Start:    start,
		End:      start.Add(2 * time.Second),
	}
}

func testEnv() *Environment {
	return NewEnvironment("vini", "node01", "linux", nil)
}

func sampleWithProgram(t *testing.T) (*Sample, *Program) {
	t.Helper()
	p, _ := NewProject("P")
	s := NewSample("s1", "")
	if err := p.AddSample(s); err != nil {
		t.Fatal(err)
	}
	if err := s.AddFile(NewFile("g.fasta", "genome")); err != nil {
		t.Fatal(err)
	}
	pg := NewPresetProgram("prodigal", PresetSpec{
		Inputs:    map[string]string{"-i": "genome"},
		Outputs:   map[string]OutputSpec{"-a": {Tag: "proteins", Suffix: "_proteins.faa"}},
		PrefixTag: "genome",
	})
	if err := s.AddProgram(pg); err != nil {
		t.Fatal(err)
	}
	return s, pg
}

func TestTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		wantErr bool
	}{
		{name: "PendingToRunning", from: StatusPending, to: StatusRunning},
		{name: "RunningToFinished", from: StatusRunning, to: StatusFinished},
		{name: "RunningToFailed", from: StatusRunning, to: StatusFailed},
		{name: "PendingToFinished", from: StatusPending, to: StatusFinished, wantErr: true},
		{name: "FinishedIsTerminal", from: StatusFinished, to: StatusRunning, wantErr: true},
		{name: "FailedIsTerminal", from: StatusFailed, to: StatusRunning, wantErr: true},
		{name: "NoBackwards", from: StatusRunning, to: StatusPending, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Run{ID: "r1", Status: tt.from}
			err := r.Transition(tt.to)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidRunTransition) {
					t.Errorf("Transition() code = %q, want INVALID_RUN_TRANSITION", errors.GetCode(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("Transition() error = %v", err)
			}
			if r.Status != tt.to {
				t.Errorf("Status = %q, want %q", r.Status, tt.to)
			}
		})
	}
}

func TestExecuteFinished(t *testing.T) {
	s, pg := sampleWithProgram(t)
	fr := &fakeRunner{result: okResult()}

	run, err := pg.Execute(context.Background(), fr, testEnv())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if run.Status != StatusFinished {
		t.Errorf("Status = %q, want Finished", run.Status)
	}
	if run.ID == "" {
		t.Error("run has no ID")
	}
	if run.Stdout != "done\n" {
		t.Errorf("Stdout = %q, want captured output", run.Stdout)
	}
	if run.Duration() != 2*time.Second {
		t.Errorf("Duration() = %v, want 2s", run.Duration())
	}
	if len(fr.cmds) != 1 || fr.cmds[0] != "prodigal -i g.fasta -a g_proteins.faa" {
		t.Errorf("runner saw command %v", fr.cmds)
	}

	// Outputs attached to the program's owner.
	out, ok := s.File("proteins")
	if !ok {
		t.Fatal("output file not attached to sample")
	}
	if out.Path != "g_proteins.faa" {
		t.Errorf("output path = %q, want %q", out.Path, "g_proteins.faa")
	}
}

func TestExecuteFailedExit(t *testing.T) {
	s, pg := sampleWithProgram(t)
	res := okResult()
	res.ExitCode = 1
	res.Stderr = "segfault\n"

	run, err := pg.Execute(context.Background(), &fakeRunner{result: res}, testEnv())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if run.Status != StatusFailed {
		t.Errorf("Status = %q, want Failed", run.Status)
	}
	if run.Stderr != "segfault\n" {
		t.Errorf("Stderr = %q, want captured stderr", run.Stderr)
	}

	// No outputs on failure, but the run is recorded.
	if _, ok := s.File("proteins"); ok {
		t.Error("output attached despite failed run")
	}
	if len(pg.Runs()) != 1 {
		t.Errorf("Runs() = %d, want 1", len(pg.Runs()))
	}
}

func TestExecuteInvocationError(t *testing.T) {
	_, pg := sampleWithProgram(t)
	fr := &fakeRunner{err: stderrors.New("executable not found")}

	run, err := pg.Execute(context.Background(), fr, testEnv())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if run.Status != StatusFailed {
		t.Errorf("Status = %q, want Failed", run.Status)
	}
	if run.Stderr != "executable not found" {
		t.Errorf("Stderr = %q, want invocation error", run.Stderr)
	}
	if run.ExitCode == 0 {
		t.Error("ExitCode = 0 for failed invocation")
	}
}

func TestExecuteUnownedProgram(t *testing.T) {
	pg := NewProgram("prodigal")
	_, err := pg.Execute(context.Background(), &fakeRunner{result: okResult()}, testEnv())
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Execute() code = %q, want INVALID_INPUT", errors.GetCode(err))
	}
}

func TestExecuteSharesEnvironment(t *testing.T) {
	_, pg := sampleWithProgram(t)
	env := testEnv()

	first, _ := pg.Execute(context.Background(), &fakeRunner{result: okResult()}, env)
	second, _ := pg.Execute(context.Background(), &fakeRunner{result: okResult()}, env)
	if first.Env != second.Env {
		t.Error("runs in the same environment hold different references")
	}
	if first.Env.ContentHash() != env.ContentHash() {
		t.Error("run environment differs from the one passed in")
	}
}

func TestRunProgramsInOrder(t *testing.T) {
	p, _ := NewProject("P")
	s := NewSample("s1", "")
	if err := p.AddSample(s); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"first", "second"} {
		if err := s.AddProgram(NewProgram(name)); err != nil {
			t.Fatal(err)
		}
	}

	fr := &fakeRunner{result: okResult()}
	err := s.Session(func(s *Sample) error {
		return s.RunPrograms(context.Background(), fr, testEnv())
	})
	if err != nil {
		t.Fatalf("RunPrograms() error = %v", err)
	}
	if len(fr.cmds) != 2 || fr.cmds[0] != "first" || fr.cmds[1] != "second" {
		t.Errorf("commands = %v, want insertion order", fr.cmds)
	}
}

func TestAddRunRejectsUnknownStatus(t *testing.T) {
	pg := NewProgram("prodigal")
	err := pg.AddRun(&Run{ID: "r1", Status: "Exploded"})
	if !errors.Is(err, errors.ErrCodeInvalidRunTransition) {
		t.Errorf("AddRun() code = %q, want INVALID_RUN_TRANSITION", errors.GetCode(err))
	}
}

func TestExecuteMeasuresOutputs(t *testing.T) {
	p, _ := NewProject("P")
	s := NewSample("s1", "")
	if err := p.AddSample(s); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "p.faa")
	if err := os.WriteFile(out, []byte(">p1\nMKV\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	pg := NewProgram("prodigal")
	mustAddParam(t, pg, &Parameter{Key: "-a", Value: out, Tag: "proteins", Kind: ParamOutput})
	if err := s.AddProgram(pg); err != nil {
		t.Fatal(err)
	}

	if _, err := pg.Execute(context.Background(), &fakeRunner{result: okResult()}, testEnv()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	f, ok := s.File("proteins")
	if !ok {
		t.Fatal("output file not attached to sample")
	}
	if !f.Exists {
		t.Error("Exists = false for an output present on disk")
	}
	if f.Size == 0 || f.Hash == "" {
		t.Errorf("output not measured: size=%d hash=%q", f.Size, f.Hash)
	}
}
