// Package orchestrator sequences one end-to-end benchmark session:
// connectivity check, repository sync, config materialization, cluster
// start, the benchmark run loop, and cluster stop. Single-threaded and
// fail-fast; each phase blocks until its external tooling returns.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"io500-bench/internal/bench"
	"io500-bench/internal/cluster"
	"io500-bench/internal/config"
	"io500-bench/internal/deploy"
	"io500-bench/internal/logging"
	"io500-bench/internal/remote"
	"io500-bench/internal/repo"
	"io500-bench/internal/session"

	"github.com/sirupsen/logrus"
)

type Orchestrator struct {
	settings *config.Settings
	opts     *config.RunOptions
	sess     *session.Context

	runner       remote.Runner
	client       *remote.Client
	syncer       *repo.Syncer
	materializer *deploy.Materializer
	injector     deploy.IniInjector
	driver       *cluster.Driver
	loop         *bench.Loop

	iterations []bench.Iteration
}

// New wires the pipeline. All stage collaborators share one Runner so
// tests can substitute a fake for the whole run.
func New(settings *config.Settings, opts *config.RunOptions, runner remote.Runner) *Orchestrator {
	client := remote.NewClient(runner)

	localRoot := settings.LocalResultsRoot
	if opts.ResultsRoot != "" {
		localRoot = opts.ResultsRoot
	}
	sess := session.New(localRoot, settings.RemoteResultsRoot)

	repoBase := filepath.Base(settings.Repo.Dir)
	return &Orchestrator{
		settings:     settings,
		opts:         opts,
		sess:         sess,
		runner:       runner,
		client:       client,
		syncer:       repo.NewSyncer(runner, client, settings),
		materializer: deploy.NewMaterializer(client, settings.ControllerHost),
		injector: deploy.NewOverwriteInjector(
			filepath.Join(settings.Repo.Dir, settings.ScriptDir, settings.WellKnownIni)),
		driver: cluster.NewDriver(client, settings.ControllerHost, repoBase,
			settings.ScriptDir, settings.StartScript, settings.StopScript),
		loop: bench.NewLoop(client, settings.ControllerHost, settings.HostsInventory,
			settings.BenchmarkScript, settings.ClientResultsDir, sess),
	}
}

// Session exposes the session context, mainly for reporting.
func (o *Orchestrator) Session() *session.Context {
	return o.sess
}

// Iterations returns the records of completed benchmark passes.
func (o *Orchestrator) Iterations() []bench.Iteration {
	return o.iterations
}

// Execute runs the full pipeline. SIGINT/SIGTERM cancel the context, which
// aborts whichever external command is in flight.
func (o *Orchestrator) Execute(ctx context.Context) error {
	logger := logging.GetLogger()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		<-sigChan
		logger.Info("Received interrupt signal, shutting down")
		cancel()
	}()

	logger.WithFields(logrus.Fields{
		"session":    o.sess.ID,
		"iterations": o.opts.Iterations,
		"duration_s": o.opts.Duration,
		"properties": o.opts.PropertyString(),
		"ini":        o.opts.IniFile,
	}).Info("Starting benchmark session")

	logger.Info("Checking controller connectivity")
	if err := remote.EnsureConnectivity(ctx, o.client, o.runner,
		o.settings.ControllerHost, o.settings.Project); err != nil {
		return stageErr(StageConnect, err)
	}

	logger.Info("Preparing provisioning repository")
	if err := o.syncer.EnsureClone(ctx); err != nil {
		return stageErr(StageSync, err)
	}
	if err := o.syncer.MirrorToController(ctx); err != nil {
		return stageErr(StageSync, err)
	}

	logger.Info("Materializing cluster configuration")
	if err := o.materialize(ctx); err != nil {
		return stageErr(StageMaterialize, err)
	}
	// Second mirror checkpoint: ship the ini override written into the
	// local clone.
	if err := o.syncer.MirrorToController(ctx); err != nil {
		return stageErr(StageSync, err)
	}

	if err := o.driver.Start(ctx, o.sess.RemoteConfigPath()); err != nil {
		return stageErr(StageStart, err)
	}

	logger.WithField("iterations", o.opts.Iterations).Info("Running benchmark loop")
	iterations, err := o.loop.Run(ctx, o.opts.Iterations)
	o.iterations = iterations
	if err != nil {
		benchErr := stageErr(StageBenchmark, err)
		if !o.opts.TeardownOnFailure {
			logger.Warn("Benchmark failed; leaving cluster running for post-mortem (teardown-on-failure disabled)")
			return benchErr
		}
		logger.Warn("Benchmark failed; tearing cluster down per policy")
		if stopErr := o.driver.Stop(ctx); stopErr != nil {
			logger.WithError(stopErr).Error("Cluster teardown after failure also failed")
		}
		return benchErr
	}

	if err := o.driver.Stop(ctx); err != nil {
		return stageErr(StageStop, err)
	}

	logger.WithFields(logrus.Fields{
		"session":     o.sess.ID,
		"iterations":  len(o.iterations),
		"results_dir": o.sess.LocalRoot,
	}).Info("Benchmark session completed")

	return nil
}

func (o *Orchestrator) materialize(ctx context.Context) error {
	iniPath := o.opts.IniFile
	if !filepath.IsAbs(iniPath) {
		iniPath = filepath.Join(o.settings.Repo.Dir, o.settings.ScriptDir, iniPath)
	}
	if err := o.injector.Inject(iniPath); err != nil {
		return err
	}

	templatePath := o.syncer.ScriptPath(o.settings.ConfigTemplate)
	values := deploy.Values{
		SessionID:  o.sess.ID,
		Properties: o.opts.PropertyString(),
		Duration:   o.opts.Duration,
		IniFile:    o.opts.IniFile,
	}
	return o.materializer.Materialize(ctx, templatePath, values, o.sess)
}

// RenderPreview renders the session config without touching any remote
// host, for the render subcommand.
func (o *Orchestrator) RenderPreview() (string, error) {
	templatePath := o.syncer.ScriptPath(o.settings.ConfigTemplate)
	values := deploy.Values{
		SessionID:  o.sess.ID,
		Properties: o.opts.PropertyString(),
		Duration:   o.opts.Duration,
		IniFile:    o.opts.IniFile,
	}
	rendered, err := deploy.RenderFile(templatePath, values)
	if err != nil {
		return "", fmt.Errorf("failed to render config: %w", err)
	}
	return rendered, nil
}
