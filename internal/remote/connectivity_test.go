package remote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// scriptedRunner fails ssh probes until unlocked by the bootstrap command.
type scriptedRunner struct {
	calls           []string
	bootstrapFixes  bool
	bootstrapFailed bool
	reachable       bool
}

func (r *scriptedRunner) Run(ctx context.Context, name string, args ...string) error {
	call := name + " " + strings.Join(args, " ")
	r.calls = append(r.calls, call)

	if name == "gcloud" {
		if r.bootstrapFailed {
			return errors.New("gcloud failed")
		}
		if r.bootstrapFixes {
			r.reachable = true
		}
		return nil
	}

	if name == "ssh" {
		if !r.reachable {
			return errors.New("ssh: connection refused")
		}
		return nil
	}
	return nil
}

func (r *scriptedRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	if err := r.Run(ctx, name, args...); err != nil {
		return "", err
	}
	return "", nil
}

func (r *scriptedRunner) countCalls(prefix string) int {
	n := 0
	for _, c := range r.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func TestEnsureConnectivity_AlreadyReachable(t *testing.T) {
	runner := &scriptedRunner{reachable: true}
	client := NewClient(runner)

	if err := EnsureConnectivity(context.Background(), client, runner, "ctl", "proj"); err != nil {
		t.Fatalf("EnsureConnectivity: %v", err)
	}
	if got := runner.countCalls("gcloud"); got != 0 {
		t.Fatalf("bootstrap must not run when the controller is reachable, ran %d times", got)
	}
}

func TestEnsureConnectivity_BootstrapThenRetrySucceeds(t *testing.T) {
	runner := &scriptedRunner{bootstrapFixes: true}
	client := NewClient(runner)

	if err := EnsureConnectivity(context.Background(), client, runner, "ctl", "proj"); err != nil {
		t.Fatalf("EnsureConnectivity after bootstrap: %v", err)
	}
	if got := runner.countCalls("gcloud compute config-ssh"); got != 1 {
		t.Fatalf("expected exactly one bootstrap, got %d", got)
	}
	if got := runner.countCalls("ssh"); got != 2 {
		t.Fatalf("expected exactly two probes, got %d", got)
	}
}

func TestEnsureConnectivity_SecondProbeFailureIsFatal(t *testing.T) {
	runner := &scriptedRunner{} // bootstrap runs but does not fix trust
	client := NewClient(runner)

	err := EnsureConnectivity(context.Background(), client, runner, "ctl", "proj")
	if err == nil {
		t.Fatal("expected failure when retry probe also fails")
	}
	if got := runner.countCalls("ssh"); got != 2 {
		t.Fatalf("expected exactly two probes with no further retries, got %d", got)
	}
}

func TestClient_CommandShape(t *testing.T) {
	runner := &scriptedRunner{reachable: true}
	client := NewClient(runner)

	if err := client.Command(context.Background(), "host-a", "true"); err != nil {
		t.Fatalf("Command: %v", err)
	}
	want := "ssh -o BatchMode=yes host-a true"
	if runner.calls[0] != want {
		t.Fatalf("unexpected ssh invocation %q, want %q", runner.calls[0], want)
	}
}

func TestClient_MirrorDeletesAndPullDoesNot(t *testing.T) {
	runner := &scriptedRunner{reachable: true}
	client := NewClient(runner)
	ctx := context.Background()

	if err := client.Mirror(ctx, "/local/repo", "ctl", "repo"); err != nil {
		t.Fatalf("Mirror: %v", err)
	}
	if err := client.Pull(ctx, "ctl", "results/s1", "/local/results/s1"); err != nil {
		t.Fatalf("Pull: %v", err)
	}

	mirror := runner.calls[0]
	if !strings.Contains(mirror, "--delete") {
		t.Fatalf("mirror must delete-reconcile, got %q", mirror)
	}
	if !strings.HasSuffix(mirror, fmt.Sprintf("%s/ %s", "/local/repo", "ctl:repo/")) {
		t.Fatalf("unexpected mirror direction: %q", mirror)
	}

	pull := runner.calls[1]
	if strings.Contains(pull, "--delete") {
		t.Fatalf("pull must not delete local files, got %q", pull)
	}
	if !strings.Contains(pull, "ctl:results/s1/ /local/results/s1/") {
		t.Fatalf("unexpected pull direction: %q", pull)
	}
}
