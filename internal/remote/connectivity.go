package remote

import (
	"context"
	"fmt"

	"io500-bench/internal/logging"
)

// EnsureConnectivity verifies ssh trust to the controller with a no-op
// remote command. On failure it runs the cloud SSH bootstrap once and
// probes again; a second failure is fatal to the caller. No backoff, no
// further retries: everything downstream assumes connectivity is settled.
func EnsureConnectivity(ctx context.Context, client *Client, runner Runner, controller, project string) error {
	logger := logging.GetLogger()

	if err := client.Command(ctx, controller, "true"); err == nil {
		logger.WithField("controller", controller).Debug("Controller reachable")
		return nil
	}

	logger.WithField("controller", controller).Info("Controller unreachable, bootstrapping cloud SSH config")
	if err := bootstrapSSH(ctx, runner, project); err != nil {
		return fmt.Errorf("ssh bootstrap failed: %w", err)
	}

	if err := client.Command(ctx, controller, "true"); err != nil {
		return fmt.Errorf("controller %s unreachable after ssh bootstrap: %w", controller, err)
	}

	logger.WithField("controller", controller).Info("Controller reachable after bootstrap")
	return nil
}

func bootstrapSSH(ctx context.Context, runner Runner, project string) error {
	args := []string{"compute", "config-ssh"}
	if project != "" {
		args = append(args, "--project", project)
	}
	return runner.Run(ctx, "gcloud", args...)
}
