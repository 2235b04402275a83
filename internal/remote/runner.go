// Package remote wraps the external command-line tools the orchestrator
// drives: ssh, scp, rsync, git, and the cloud SSH bootstrap. All of them
// are opaque collaborators; this package only invokes them and reports
// their exit status.
package remote

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"io500-bench/internal/logging"

	"github.com/sirupsen/logrus"
)

// Runner executes one external command, blocking until it exits. Tests
// substitute a fake; production uses ExecRunner.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs commands through os/exec and streams their combined
// output line by line through the remote logger.
type ExecRunner struct{}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	logger := logging.GetLogger()
	remoteLogger := logging.GetRemoteLogger()

	logger.WithFields(logrus.Fields{
		"command": name,
		"args":    strings.Join(args, " "),
	}).Debug("Running external command")

	cmd := exec.CommandContext(ctx, name, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to attach to %s: %w", name, err)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		remoteLogger.WithField("command", name).Info(scanner.Text())
	}
	if scanErr := scanner.Err(); scanErr != nil {
		// An oversized line stops the scan; keep draining the pipe so the
		// child never blocks on a full buffer and Wait can return.
		remoteLogger.WithField("command", name).WithError(scanErr).Warn("Output logging truncated")
		_, _ = io.Copy(io.Discard, stdout)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return nil
}

func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	logger := logging.GetLogger()
	logger.WithFields(logrus.Fields{
		"command": name,
		"args":    strings.Join(args, " "),
	}).Debug("Running external command for output")

	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err,
				strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return string(out), nil
}
