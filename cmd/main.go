// Package cmd builds the io500-bench command-line surface.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"io500-bench/internal/config"
	"io500-bench/internal/logging"
	"io500-bench/internal/orchestrator"
	"io500-bench/internal/remote"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const Version = "1.0.0"

func loadEnvironment() {
	logger := logging.GetLogger()

	// Try to load .env file from current directory
	envFile := ".env"
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			logger.WithField("file", envFile).WithError(err).Warn("Error loading .env file")
		} else {
			logger.WithField("file", envFile).Debug("Loaded environment variables")
		}
		return
	}

	// Try to load from the application directory
	if execPath, err := os.Executable(); err == nil {
		appDir := filepath.Dir(execPath)
		envFile = filepath.Join(appDir, ".env")
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				logger.WithField("file", envFile).WithError(err).Warn("Error loading .env file")
			} else {
				logger.WithField("file", envFile).Debug("Loaded environment variables")
			}
		}
	}
}

// Execute parses the command line and runs the selected subcommand.
func Execute() error {
	loadEnvironment()
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var settingsFile string
	var logLevel string
	var raw config.RawRunOptions

	rootCmd := &cobra.Command{
		Use:     "io500-bench",
		Version: Version,
		Short:   "IO500 benchmark orchestrator for DAOS clusters",
		Long:    "Deploys a DAOS storage cluster in GCP via the provisioning repository, runs the IO500 benchmark repeatedly, collects per-iteration results, and tears the cluster down",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logLevel != "" {
				if err := logging.SetLogLevel(logLevel); err != nil {
					return fmt.Errorf("invalid log level: %w", err)
				}
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&settingsFile, "config", "c", "", "Path to orchestrator settings file")

	addRunFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVarP(&raw.Iterations, "iterations", "i", "1", "Number of benchmark iterations")
		cmd.Flags().StringVarP(&raw.Duration, "duration", "d", "300", "Benchmark stonewall time in seconds")
		cmd.Flags().StringVarP(&raw.Properties, "properties", "p", "rf:0", "Comma-separated container properties (key:value)")
		cmd.Flags().StringVar(&raw.IniFile, "ini", "", "Benchmark ini filename (defaults from settings)")
		cmd.Flags().BoolVar(&raw.TeardownOnFailure, "teardown-on-failure", false, "Stop the cluster even when the benchmark loop fails")
		cmd.Flags().StringVar(&raw.ResultsRoot, "results-dir", "", "Local results root (defaults from settings)")
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Deploy the cluster and run the benchmark loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, opts, err := buildConfiguration(settingsFile, raw, args)
			if err != nil {
				return err
			}
			return runSession(settings, opts)
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate settings and run options without any remote action",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, opts, err := buildConfiguration(settingsFile, raw, args)
			if err != nil {
				return err
			}
			logging.GetLogger().WithFields(logrus.Fields{
				"controller": settings.ControllerHost,
				"iterations": opts.Iterations,
				"duration_s": opts.Duration,
				"properties": opts.PropertyString(),
				"ini":        opts.IniFile,
			}).Info("Configuration is valid")
			return nil
		},
	}

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Render the cluster config for this invocation to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, opts, err := buildConfiguration(settingsFile, raw, args)
			if err != nil {
				return err
			}
			orch := orchestrator.New(settings, opts, remote.NewExecRunner())
			rendered, err := orch.RenderPreview()
			if err != nil {
				return err
			}
			fmt.Print(rendered)
			return nil
		},
	}

	addRunFlags(runCmd)
	addRunFlags(validateCmd)
	addRunFlags(renderCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(renderCmd)

	// pflag stops at the first unrecognized flag; values bound before that
	// point still get validated so the user sees every problem in one pass.
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		bound := raw
		if bound.IniFile == "" {
			// Defaulted from settings later; not a user error here.
			bound.IniFile = "-"
		}
		if _, errs := config.BuildRunOptions(bound); len(errs) > 0 {
			for _, e := range errs {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", e)
			}
		}
		return err
	})

	return rootCmd
}

// buildConfiguration loads settings and validates the raw flag values,
// reporting every invalid value at once so the user fixes all of them in
// one pass.
func buildConfiguration(settingsFile string, raw config.RawRunOptions, args []string) (*config.Settings, *config.RunOptions, error) {
	logger := logging.GetLogger()

	settings, err := config.LoadSettings(settingsFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load settings: %w", err)
	}

	var errs []error
	for _, arg := range args {
		errs = append(errs, fmt.Errorf("unrecognized option %q", arg))
	}

	if raw.IniFile == "" {
		raw.IniFile = settings.DefaultIni
	}

	opts, optErrs := config.BuildRunOptions(raw)
	errs = append(errs, optErrs...)

	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "Error: %v\n", e)
		}
		logger.WithField("error_count", len(errs)).Error("Invalid arguments")
		return nil, nil, config.JoinErrors(errs)
	}

	if raw.TeardownOnFailure {
		opts.TeardownOnFailure = true
	} else {
		opts.TeardownOnFailure = settings.TeardownOnFailure
	}

	return settings, opts, nil
}

func runSession(settings *config.Settings, opts *config.RunOptions) error {
	logger := logging.GetLogger()

	orch := orchestrator.New(settings, opts, remote.NewExecRunner())
	if err := orch.Execute(context.Background()); err != nil {
		logger.WithError(err).Error("Benchmark session failed")
		return err
	}

	logger.WithFields(logrus.Fields{
		"session":     orch.Session().ID,
		"results_dir": orch.Session().LocalRoot,
	}).Info("Results available")
	return nil
}
