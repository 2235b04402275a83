// Package repo keeps the provisioning-repository clone present locally and
// mirrored onto the controller host.
package repo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"io500-bench/internal/config"
	"io500-bench/internal/logging"
	"io500-bench/internal/remote"

	"github.com/sirupsen/logrus"
)

type Syncer struct {
	runner     Runner
	client     *remote.Client
	settings   *config.Settings
	controller string
}

// Runner is the subset of remote.Runner the syncer needs for git.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

func NewSyncer(runner Runner, client *remote.Client, settings *config.Settings) *Syncer {
	return &Syncer{
		runner:     runner,
		client:     client,
		settings:   settings,
		controller: settings.ControllerHost,
	}
}

// EnsureClone clones the provisioning repository at the configured branch
// if no local copy exists yet. An existing directory is used as-is.
func (s *Syncer) EnsureClone(ctx context.Context) error {
	logger := logging.GetLogger()

	if _, err := os.Stat(s.settings.Repo.Dir); err == nil {
		logger.WithField("dir", s.settings.Repo.Dir).Debug("Provisioning repository already present")
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", s.settings.Repo.Dir, err)
	}

	logger.WithFields(logrus.Fields{
		"url":    s.settings.Repo.URL,
		"branch": s.settings.Repo.Branch,
		"dir":    s.settings.Repo.Dir,
	}).Info("Cloning provisioning repository")

	if err := s.runner.Run(ctx, "git", "clone", "-b", s.settings.Repo.Branch,
		s.settings.Repo.URL, s.settings.Repo.Dir); err != nil {
		return fmt.Errorf("failed to clone provisioning repository: %w", err)
	}
	return nil
}

// MirrorToController makes the controller's copy of the provisioning
// repository an exact mirror of the local clone. Runs at startup and again
// after the per-run config and ini overrides are written.
func (s *Syncer) MirrorToController(ctx context.Context) error {
	logger := logging.GetLogger()
	remoteDir := filepath.Base(s.settings.Repo.Dir)

	logger.WithFields(logrus.Fields{
		"controller": s.controller,
		"remote_dir": remoteDir,
	}).Info("Mirroring provisioning repository to controller")

	if err := s.client.Mirror(ctx, s.settings.Repo.Dir, s.controller, remoteDir); err != nil {
		return fmt.Errorf("failed to mirror repository to %s: %w", s.controller, err)
	}
	return nil
}

// ScriptPath returns the local path of a file inside the repository's
// script directory.
func (s *Syncer) ScriptPath(name string) string {
	return filepath.Join(s.settings.Repo.Dir, s.settings.ScriptDir, name)
}
