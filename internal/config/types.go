package config

import "strings"

// Settings holds the deployment constants of one orchestrator installation:
// where the controller lives, where the provisioning repository comes from,
// and which scripts inside it drive the cluster. Loaded from an optional
// YAML file; every field has a default.
type Settings struct {
	ControllerHost string `yaml:"controller_host"`
	Project        string `yaml:"project"`

	Repo RepoSettings `yaml:"repo"`

	// ScriptDir is the directory inside the provisioning repository that
	// holds the cluster scripts and the config template.
	ScriptDir       string `yaml:"script_dir"`
	StartScript     string `yaml:"start_script"`
	StopScript      string `yaml:"stop_script"`
	BenchmarkScript string `yaml:"benchmark_script"`
	ConfigTemplate  string `yaml:"config_template"`

	// WellKnownIni is the filename the external benchmark runner insists
	// on; the selected ini file is copied over it before deployment.
	WellKnownIni string `yaml:"well_known_ini"`
	DefaultIni   string `yaml:"default_ini"`

	// HostsInventory is the path on the controller of the generated
	// connection-configuration file listing cluster nodes.
	HostsInventory string `yaml:"hosts_inventory"`

	// ClientResultsDir is where the benchmark writes its output on the
	// client node.
	ClientResultsDir string `yaml:"client_results_dir"`

	LocalResultsRoot  string `yaml:"local_results_root"`
	RemoteResultsRoot string `yaml:"remote_results_root"`

	TeardownOnFailure bool `yaml:"teardown_on_failure"`
}

type RepoSettings struct {
	URL    string `yaml:"url"`
	Branch string `yaml:"branch"`
	Dir    string `yaml:"dir"`
}

// Property is one container key:value pair, passed through opaquely to the
// storage cluster (redundancy factor, checksum type, ...).
type Property struct {
	Key   string
	Value string
}

// RunOptions is the per-invocation configuration built from command-line
// flags. Immutable after construction.
type RunOptions struct {
	Iterations int
	Duration   int
	Properties []Property
	IniFile    string

	TeardownOnFailure bool
	ResultsRoot       string
}

// PropertyString serializes the properties comma-joined in input order,
// the form the cluster scripts consume.
func (o *RunOptions) PropertyString() string {
	parts := make([]string, 0, len(o.Properties))
	for _, p := range o.Properties {
		parts = append(parts, p.Key+":"+p.Value)
	}
	return strings.Join(parts, ",")
}
