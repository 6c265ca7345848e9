package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/noperator/qanalyze/pkg/console"
	"github.com/noperator/qanalyze/pkg/logging"
	"github.com/noperator/qanalyze/pkg/report"
)

const (
	toolName   = "Amazon Q Developer"
	installURL = "https://docs.aws.amazon.com/amazonq/latest/qdev-ug/what-is-q-developer.html"
)

// Request describes one analysis run.
type Request struct {
	ProjectPath string
	OutputFile  string
	Verbose     bool
}

// Result is the outcome of a completed run. ExitCode is the analyzer's own
// exit status; a non-zero value does not make the run fail.
type Result struct {
	Output
	Elapsed time.Duration
}

// Runner drives a single analysis: validation, header, optional scan,
// analyzer invocation, presentation, optional report and statistics.
type Runner struct {
	Executor Executor
	Printer  *console.Printer
	Logger   *slog.Logger

	// Exclude holds doublestar patterns dropped from the verbose file count.
	Exclude []string
	// CountLines adds a gocloc line count to the verbose scan.
	CountLines bool

	Now func() time.Time
}

func NewRunner(executor Executor, printer *console.Printer, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Runner{
		Executor: executor,
		Printer:  printer,
		Logger:   logger,
		Now:      time.Now,
	}
}

// Run performs the analysis described by req. Every failure is printed before
// it is returned and is an *Error whose Kind tells the caller what went wrong.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	info, err := os.Stat(req.ProjectPath)
	if err != nil || !info.IsDir() {
		r.Printer.Printf(console.Error, "Error: The specified path is not a directory: %s", req.ProjectPath)
		r.Logger.Debug("invalid target",
			"component", "runner",
			"path", req.ProjectPath)
		return nil, &Error{Kind: KindInvalidTarget, Path: req.ProjectPath, Err: ErrInvalidTarget}
	}

	result, err := r.run(ctx, req)
	if err != nil {
		aerr := classify(req.ProjectPath, err)
		r.printFailure(aerr)
		r.Logger.Error("analysis failed",
			"component", "runner",
			"kind", aerr.Kind.String(),
			"error", aerr.Err)
		return nil, aerr
	}
	return result, nil
}

func (r *Runner) run(ctx context.Context, req Request) (*Result, error) {
	start := r.Now()

	absPath, err := filepath.Abs(req.ProjectPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", req.ProjectPath, err)
	}
	projectName := filepath.Base(absPath)

	r.Printer.Plain("")
	r.Printer.Println(console.Title, "Launching "+toolName+" Analysis")
	r.Printer.Printf(console.Info, "Project: %s", projectName)
	r.Printer.Printf(console.Info, "Path: %s", absPath)
	r.Printer.Printf(console.Info, "Start time: %s", start.Format(report.TimeLayout))

	if req.Verbose {
		if err := r.scan(req.ProjectPath); err != nil {
			return nil, err
		}
	}

	r.Printer.Plain("")
	r.Printer.Plain("Executing analysis command...")
	r.Logger.Debug("running analyzer",
		"component", "runner",
		"operation", "analyze",
		"path", absPath)

	out, err := r.Executor.Analyze(ctx, req.ProjectPath)
	if err != nil {
		return nil, err
	}

	r.Logger.Debug("analyzer finished",
		"component", "runner",
		"exit_code", out.ExitCode,
		"stdout_bytes", len(out.Stdout),
		"stderr_bytes", len(out.Stderr))

	r.section(console.Success, report.ResultsHeading)
	if out.Stdout != "" {
		r.Printer.Plain(out.Stdout)
	} else {
		r.Printer.Println(console.Warning, "No data in standard output.")
	}
	if out.Stderr != "" {
		r.section(console.Error, report.ErrorsHeading)
		r.Printer.Plain(out.Stderr)
	}

	if req.OutputFile != "" {
		rep := &report.Report{
			Name:   projectName,
			Path:   absPath,
			Time:   r.Now(),
			Stdout: out.Stdout,
			Stderr: out.Stderr,
		}
		if err := report.WriteFile(rep, req.OutputFile); err != nil {
			return nil, err
		}
		r.Printer.Plain("")
		r.Printer.Printf(console.Success, "Results saved to file: %s", req.OutputFile)
	}

	elapsed := r.Now().Sub(start)

	r.section(console.Info, "=== STATISTICS ===")
	r.Printer.Plainf("Execution time: %.2f seconds", elapsed.Seconds())
	if req.Verbose {
		r.Printer.Plainf("Return code: %d", out.ExitCode)
	}

	r.Logger.Info("analysis complete",
		"component", "runner",
		"project", projectName,
		"exit_code", out.ExitCode,
		"elapsed", elapsed)

	return &Result{Output: *out, Elapsed: elapsed}, nil
}

func (r *Runner) scan(root string) error {
	r.Printer.Plain("")
	r.Printer.Plain("Scanning project structure...")

	count, err := CountFiles(root, r.Exclude)
	if err != nil {
		return err
	}
	r.Printer.Plainf("Files found: %d", count)

	if r.CountLines {
		lines, err := CountLines(root, r.Exclude)
		if err != nil {
			r.Logger.Warn("line count skipped",
				"component", "runner",
				"operation", "count_lines",
				"error", err)
			return nil
		}
		r.Printer.Plainf("Lines of code: %d", lines)
	}
	return nil
}

func (r *Runner) section(label console.Label, title string) {
	r.Printer.Plain("")
	r.Printer.Println(label, title)
}

func (r *Runner) printFailure(err *Error) {
	switch err.Kind {
	case KindAnalyzerNotFound:
		r.Printer.Println(console.Error, "Error: "+toolName+" CLI tool not found.")
		r.Printer.Println(console.Warning, "Please install "+toolName+" CLI by following the official guide:")
		r.Printer.Println(console.Warning, installURL)
	default:
		msg := err.Err
		if errors.Is(msg, context.DeadlineExceeded) {
			msg = fmt.Errorf("analyzer timed out: %w", msg)
		}
		r.Printer.Printf(console.Error, "Error during analysis: %v", msg)
	}
}
