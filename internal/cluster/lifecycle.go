// Package cluster drives the external start and stop procedures on the
// controller host. Both are opaque scripts inside the provisioning
// repository; failures propagate unmodified.
package cluster

import (
	"context"
	"fmt"
	"path"

	"io500-bench/internal/logging"
	"io500-bench/internal/remote"

	"github.com/sirupsen/logrus"
)

type Driver struct {
	client      *remote.Client
	controller  string
	scriptDir   string
	startScript string
	stopScript  string
}

func NewDriver(client *remote.Client, controller, repoDir, scriptDir, startScript, stopScript string) *Driver {
	return &Driver{
		client:      client,
		controller:  controller,
		scriptDir:   path.Join(repoDir, scriptDir),
		startScript: startScript,
		stopScript:  stopScript,
	}
}

// Start provisions the cluster with the materialized config, blocking
// until the external procedure completes.
func (d *Driver) Start(ctx context.Context, remoteConfigPath string) error {
	logger := logging.GetLogger()
	logger.WithFields(logrus.Fields{
		"controller": d.controller,
		"config":     remoteConfigPath,
	}).Info("Starting DAOS cluster")

	command := fmt.Sprintf("cd %s && ./%s %s", d.scriptDir, d.startScript, anchorHome(remoteConfigPath))
	if err := d.client.Command(ctx, d.controller, command); err != nil {
		return fmt.Errorf("cluster start failed: %w", err)
	}

	logger.Info("DAOS cluster started")
	return nil
}

// anchorHome keeps home-relative paths valid after the cd into the script
// directory. The materializer ships the config with mkdir/scp, which the
// remote side resolves against $HOME; the start script must receive the
// same resolution.
func anchorHome(p string) string {
	if path.IsAbs(p) {
		return p
	}
	return `"$HOME/` + p + `"`
}

// Stop tears the cluster down. The external procedure takes no arguments.
func (d *Driver) Stop(ctx context.Context) error {
	logger := logging.GetLogger()
	logger.WithField("controller", d.controller).Info("Stopping DAOS cluster")

	command := fmt.Sprintf("cd %s && ./%s", d.scriptDir, d.stopScript)
	if err := d.client.Command(ctx, d.controller, command); err != nil {
		return fmt.Errorf("cluster stop failed: %w", err)
	}

	logger.Info("DAOS cluster stopped")
	return nil
}
