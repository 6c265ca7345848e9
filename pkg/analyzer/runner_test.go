package analyzer

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/noperator/qanalyze/pkg/console"
)

type fakeExecutor struct {
	out   *Output
	err   error
	calls []string
}

func (f *fakeExecutor) Analyze(ctx context.Context, projectPath string) (*Output, error) {
	f.calls = append(f.calls, projectPath)
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

func newTestRunner(exec Executor) (*Runner, *bytes.Buffer) {
	var buf bytes.Buffer
	r := NewRunner(exec, console.NewPrinter(&buf, console.DefaultStyles(false)), nil)
	clock := time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)
	r.Now = func() time.Time {
		clock = clock.Add(1250 * time.Millisecond)
		return clock
	}
	return r, &buf
}

func TestRunInvalidTarget(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{filepath.Join(t.TempDir(), "missing"), file} {
		exec := &fakeExecutor{out: &Output{}}
		r, buf := newTestRunner(exec)

		_, err := r.Run(context.Background(), Request{ProjectPath: path})
		var aerr *Error
		if !errors.As(err, &aerr) || aerr.Kind != KindInvalidTarget {
			t.Fatalf("%s: err = %v, want invalid target", path, err)
		}
		if !errors.Is(err, ErrInvalidTarget) {
			t.Fatalf("%s: errors.Is(ErrInvalidTarget) = false", path)
		}
		if len(exec.calls) != 0 {
			t.Fatalf("%s: executor called %d times", path, len(exec.calls))
		}
		if !strings.Contains(buf.String(), "Error: The specified path is not a directory: "+path) {
			t.Fatalf("%s: missing error message in %q", path, buf.String())
		}
		if strings.Contains(buf.String(), "Launching") {
			t.Fatalf("%s: header printed for invalid target", path)
		}
	}
}

func TestRunStdoutOnly(t *testing.T) {
	dir := t.TempDir()
	exec := &fakeExecutor{out: &Output{Stdout: "OUT"}}
	r, buf := newTestRunner(exec)

	res, err := r.Run(context.Background(), Request{ProjectPath: dir})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(exec.calls) != 1 || exec.calls[0] != dir {
		t.Fatalf("executor calls = %q", exec.calls)
	}
	if res.Stdout != "OUT" || res.ExitCode != 0 {
		t.Fatalf("result = %+v", res)
	}

	out := buf.String()
	if !strings.Contains(out, "=== ANALYSIS RESULTS ===\nOUT\n") {
		t.Fatalf("results section missing OUT: %q", out)
	}
	if strings.Contains(out, "=== ERRORS ===") {
		t.Fatalf("unexpected error section: %q", out)
	}
	if strings.Contains(out, "Return code") || strings.Contains(out, "Files found") {
		t.Fatalf("verbose output without verbose flag: %q", out)
	}
	abs, _ := filepath.Abs(dir)
	for _, want := range []string{
		"Launching Amazon Q Developer Analysis",
		"Project: " + filepath.Base(abs),
		"Path: " + abs,
		"Start time: 2024-03-09 14:05:08",
		"=== STATISTICS ===",
		"Execution time: 1.25 seconds",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Index(out, "Launching") > strings.Index(out, "Executing analysis command...") {
		t.Error("header printed after invocation")
	}
}

func TestRunEmptyStdout(t *testing.T) {
	r, buf := newTestRunner(&fakeExecutor{out: &Output{}})

	if _, err := r.Run(context.Background(), Request{ProjectPath: t.TempDir()}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(buf.String(), "=== ANALYSIS RESULTS ===\nNo data in standard output.\n") {
		t.Fatalf("missing no-data notice: %q", buf.String())
	}
}

func TestRunStderrRegardlessOfExitCode(t *testing.T) {
	for _, code := range []int{0, 3} {
		dir := t.TempDir()
		reportPath := filepath.Join(t.TempDir(), "report.txt")
		r, buf := newTestRunner(&fakeExecutor{out: &Output{Stdout: "OUT\n", Stderr: "WARN\n", ExitCode: code}})

		res, err := r.Run(context.Background(), Request{ProjectPath: dir, OutputFile: reportPath, Verbose: true})
		if err != nil {
			t.Fatalf("exit %d: Run: %v", code, err)
		}
		if res.ExitCode != code {
			t.Fatalf("exit code = %d, want %d", res.ExitCode, code)
		}

		out := buf.String()
		if !strings.Contains(out, "=== ERRORS ===\nWARN\n") {
			t.Fatalf("exit %d: console missing error section: %q", code, out)
		}
		if !strings.Contains(out, "Results saved to file: "+reportPath) {
			t.Fatalf("exit %d: missing saved notice", code)
		}
		if !strings.Contains(out, "Return code: ") || !strings.HasSuffix(out, "Return code: "+itoa(code)+"\n") {
			t.Fatalf("exit %d: missing return code line: %q", code, out)
		}

		data, err := os.ReadFile(reportPath)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasSuffix(string(data), "=== ANALYSIS RESULTS ===\nOUT\n\n=== ERRORS ===\nWARN\n") {
			t.Fatalf("exit %d: report missing error section: %q", code, data)
		}
	}
}

func TestRunReportLayoutAndOverwrite(t *testing.T) {
	dir := t.TempDir()
	abs, _ := filepath.Abs(dir)
	reportPath := filepath.Join(t.TempDir(), "report.txt")

	r, _ := newTestRunner(&fakeExecutor{out: &Output{Stdout: "first", Stderr: "oops"}})
	if _, err := r.Run(context.Background(), Request{ProjectPath: dir, OutputFile: reportPath}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	r, _ = newTestRunner(&fakeExecutor{out: &Output{Stdout: "OUT"}})
	if _, err := r.Run(context.Background(), Request{ProjectPath: dir, OutputFile: reportPath}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatal(err)
	}
	want := "Project Analysis: " + filepath.Base(abs) + "\n" +
		"Path: " + abs + "\n" +
		"Time: 2024-03-09 14:05:09\n\n" +
		"=== ANALYSIS RESULTS ===\n" +
		"OUT"
	if string(data) != want {
		t.Fatalf("report:\n%q\nwant:\n%q", data, want)
	}
}

func TestRunAnalyzerNotFound(t *testing.T) {
	exec := &fakeExecutor{err: ErrAnalyzerNotFound}
	r, buf := newTestRunner(exec)

	_, err := r.Run(context.Background(), Request{ProjectPath: t.TempDir()})
	var aerr *Error
	if !errors.As(err, &aerr) || aerr.Kind != KindAnalyzerNotFound {
		t.Fatalf("err = %v, want analyzer not found", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Error: Amazon Q Developer CLI tool not found.",
		"Please install Amazon Q Developer CLI",
		installURL,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRunRuntimeFailure(t *testing.T) {
	r, buf := newTestRunner(&fakeExecutor{err: errors.New("broken pipe")})

	_, err := r.Run(context.Background(), Request{ProjectPath: t.TempDir()})
	var aerr *Error
	if !errors.As(err, &aerr) || aerr.Kind != KindRuntime {
		t.Fatalf("err = %v, want runtime", err)
	}
	if !strings.Contains(buf.String(), "Error during analysis: broken pipe") {
		t.Fatalf("missing generic error: %q", buf.String())
	}
}

func TestRunReportWriteFailure(t *testing.T) {
	reportPath := filepath.Join(t.TempDir(), "missing", "report.txt")
	r, buf := newTestRunner(&fakeExecutor{out: &Output{Stdout: "OUT"}})

	_, err := r.Run(context.Background(), Request{ProjectPath: t.TempDir(), OutputFile: reportPath})
	var aerr *Error
	if !errors.As(err, &aerr) || aerr.Kind != KindRuntime {
		t.Fatalf("err = %v, want runtime", err)
	}
	if !strings.Contains(buf.String(), "Error during analysis: ") {
		t.Fatalf("missing generic error: %q", buf.String())
	}
	if _, err := os.Stat(reportPath); err == nil {
		t.Fatal("report should not exist")
	}
}

func TestRunVerboseFileCount(t *testing.T) {
	for _, n := range []int{0, 1, 4, 9} {
		dir := t.TempDir()
		makeTree(t, dir, n)
		r, buf := newTestRunner(&fakeExecutor{out: &Output{Stdout: "OUT", ExitCode: 0}})

		if _, err := r.Run(context.Background(), Request{ProjectPath: dir, Verbose: true}); err != nil {
			t.Fatalf("n=%d: Run: %v", n, err)
		}
		want := "Scanning project structure...\nFiles found: " + itoa(n) + "\n"
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("n=%d: output %q missing %q", n, buf.String(), want)
		}
		if !strings.Contains(buf.String(), "Return code: 0") {
			t.Fatalf("n=%d: missing return code", n)
		}
	}
}
