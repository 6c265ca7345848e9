package analyzer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
)

// Output is what the external analyzer produced.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Executor runs the external analyzer against a project directory.
type Executor interface {
	Analyze(ctx context.Context, projectPath string) (*Output, error)
}

// CommandExecutor runs Argv followed by the project path as a subprocess and
// captures its output.
type CommandExecutor struct {
	Argv []string
}

func NewCommandExecutor(argv []string) (*CommandExecutor, error) {
	if len(argv) == 0 {
		return nil, errors.New("analyzer command is empty")
	}
	return &CommandExecutor{Argv: argv}, nil
}

// Analyze blocks until the analyzer exits. A non-zero exit status is reported
// in Output.ExitCode, not as an error. The binary is resolved on every call so
// a missing analyzer surfaces here as ErrAnalyzerNotFound.
func (e *CommandExecutor) Analyze(ctx context.Context, projectPath string) (*Output, error) {
	bin, err := e.lookPath()
	if err != nil {
		return nil, err
	}

	args := append(append([]string{}, e.Argv[1:]...), projectPath)
	cmd := exec.CommandContext(ctx, bin, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("analyzer run aborted: %w", ctxErr)
	}

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return nil, fmt.Errorf("failed to run analyzer: %w", err)
	}

	return &Output{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: cmd.ProcessState.ExitCode(),
	}, nil
}

func (e *CommandExecutor) lookPath() (string, error) {
	bin, err := exec.LookPath(e.Argv[0])
	if err == nil {
		return bin, nil
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrAnalyzerNotFound, e.Argv[0])
	}
	return "", fmt.Errorf("failed to resolve analyzer %s: %w", e.Argv[0], err)
}
