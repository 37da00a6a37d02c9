// Package runner executes program command lines on the host. It is the
// process-invocation collaborator behind model.Runner: the graph only sees
// the reported outcome, captured output and timestamps.
package runner

import (
	"bytes"
	"context"
	stderrors "errors"
	"os/exec"
	"strings"
	"time"

	"github.com/vinisalazar/bioprov/pkg/errors"
	"github.com/vinisalazar/bioprov/pkg/model"
)

// ExecRunner runs commands via os/exec. The zero value inherits the parent
// process environment and working directory.
type ExecRunner struct {
	// Dir is the working directory for commands, empty for the caller's.
	Dir string

	// Env overrides environment variables, nil to inherit.
	Env []string
}

// New returns a runner with inherited environment and working directory.
func New() *ExecRunner { return &ExecRunner{} }

// Run executes the command line and reports its outcome. A non-zero exit
// status is not an error here; it comes back in the result and the caller
// records it as a failed run. The returned error covers invocation
// problems only, binary not found or a cancelled context.
func (r *ExecRunner) Run(ctx context.Context, command string) (model.RunResult, error) {
	tokens, err := splitCommand(command)
	if err != nil {
		return model.RunResult{}, err
	}
	if len(tokens) == 0 {
		return model.RunResult{}, errors.New(errors.ErrCodeInvalidInput, "empty command")
	}

	cmd := exec.CommandContext(ctx, tokens[0], tokens[1:]...)
	cmd.Dir = r.Dir
	if r.Env != nil {
		cmd.Env = r.Env
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	res := model.RunResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
		Start:  start,
		End:    time.Now(),
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if stderrors.As(runErr, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, errors.Wrap(errors.ErrCodeInternal, ctxErr, "run %q", tokens[0])
		}
		return res, errors.Wrap(errors.ErrCodeInvalidInput, runErr, "invoke %q", tokens[0])
	}
	res.ExitCode = cmd.ProcessState.ExitCode()
	return res, nil
}

// splitCommand tokenizes a command line, honoring single and double quotes
// the way a shell would for plain arguments. No expansion is performed.
func splitCommand(command string) ([]string, error) {
	var (
		tokens []string
		cur    strings.Builder
		quote  rune
		open   bool
		inTok  bool
	)
	for _, r := range command {
		switch {
		case open:
			if r == quote {
				open = false
			} else {
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			open = true
			inTok = true
			quote = r
		case r == ' ' || r == '\t':
			if inTok {
				tokens = append(tokens, cur.String())
				cur.Reset()
				inTok = false
			}
		default:
			cur.WriteRune(r)
			inTok = true
		}
	}
	if open {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unbalanced quote in command %q", command)
	}
	if inTok {
		tokens = append(tokens, cur.String())
	}
	return tokens, nil
}
