package remote

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestExecRunner_Run(t *testing.T) {
	runner := NewExecRunner()
	if err := runner.Run(context.Background(), "sh", "-c", "true"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := runner.Run(context.Background(), "sh", "-c", "exit 3"); err == nil {
		t.Fatal("non-zero exit must be an error")
	}
}

func TestExecRunner_ReturnsOnOversizedOutputLine(t *testing.T) {
	runner := NewExecRunner()

	// A single output line larger than the scan buffer must not stall the
	// run: the pipe has to be drained so the child can finish writing.
	done := make(chan error, 1)
	go func() {
		done <- runner.Run(context.Background(), "sh", "-c",
			"head -c 2000000 /dev/zero | tr '\\0' 'a'")
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return for a command with an oversized output line")
	}
}

func TestExecRunner_Output(t *testing.T) {
	runner := NewExecRunner()
	out, err := runner.Output(context.Background(), "sh", "-c", "printf hello")
	if err != nil {
		t.Fatalf("Output: %v", err)
	}
	if out != "hello" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestExecRunner_OutputFailureCarriesStderr(t *testing.T) {
	runner := NewExecRunner()
	_, err := runner.Output(context.Background(), "sh", "-c",
		"echo 'cat: daos_hosts: No such file or directory' >&2; exit 1")
	if err == nil {
		t.Fatal("expected failure")
	}
	if !strings.Contains(err.Error(), "No such file or directory") {
		t.Fatalf("error must carry the command's stderr, got %v", err)
	}
}
