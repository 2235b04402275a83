package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"io500-bench/internal/logging"

	"gopkg.in/yaml.v3"
)

// DefaultSettings returns the settings used when no settings file is given.
// They match the layout of the google-cloud-daos IO500 example deployment.
func DefaultSettings() *Settings {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Settings{
		ControllerHost: "daos-io500-controller",
		Project:        os.Getenv("GCP_PROJECT"),
		Repo: RepoSettings{
			URL:    "https://github.com/daos-stack/google-cloud-daos.git",
			Branch: "main",
			Dir:    filepath.Join(home, "google-cloud-daos"),
		},
		ScriptDir:         "terraform/examples/io500",
		StartScript:       "start_daos_cluster.sh",
		StopScript:        "stop_daos_cluster.sh",
		BenchmarkScript:   "./run_io500.sh",
		ConfigTemplate:    "io500_config.sh.in",
		WellKnownIni:      "io500.ini",
		DefaultIni:        "io500-base.ini",
		HostsInventory:    "daos_hosts",
		ClientResultsDir:  "io500/results",
		LocalResultsRoot:  filepath.Join(home, "io500_results"),
		RemoteResultsRoot: "io500_results",
	}
}

// LoadSettings reads a YAML settings file on top of the defaults. An empty
// path returns the defaults unchanged.
func LoadSettings(path string) (*Settings, error) {
	logger := logging.GetLogger()

	settings := DefaultSettings()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.WithField("filepath", path).WithError(err).Error("Failed to read settings file")
		return nil, err
	}

	// Expand environment variables
	expanded := expandEnvVars(string(data))

	if err := yaml.Unmarshal([]byte(expanded), settings); err != nil {
		logger.WithField("filepath", path).WithError(err).Error("Failed to parse settings file")
		return nil, err
	}

	if err := validateSettings(settings); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	return settings, nil
}

func expandEnvVars(content string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(content, func(match string) string {
		envVar := strings.Trim(match, "${}")
		if value := os.Getenv(envVar); value != "" {
			return value
		}
		return match
	})
}

func validateSettings(s *Settings) error {
	if s.ControllerHost == "" {
		return fmt.Errorf("controller_host must not be empty")
	}
	if s.Repo.URL == "" {
		return fmt.Errorf("repo.url must not be empty")
	}
	if s.Repo.Branch == "" {
		return fmt.Errorf("repo.branch must not be empty")
	}
	if s.Repo.Dir == "" {
		return fmt.Errorf("repo.dir must not be empty")
	}
	if s.StartScript == "" || s.StopScript == "" {
		return fmt.Errorf("start_script and stop_script must not be empty")
	}
	if s.WellKnownIni == "" {
		return fmt.Errorf("well_known_ini must not be empty")
	}
	return nil
}
