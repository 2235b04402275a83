package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// RawRunOptions carries the flag values exactly as the user typed them.
// Numeric flags stay strings here so that one bad value does not stop
// validation of the others.
type RawRunOptions struct {
	Iterations string
	Duration   string
	Properties string
	IniFile    string

	TeardownOnFailure bool
	ResultsRoot       string
}

// BuildRunOptions validates the raw flag values and builds the immutable
// RunOptions record. Every invalid value is collected so the user sees all
// problems in one pass instead of fixing them flag by flag.
func BuildRunOptions(raw RawRunOptions) (*RunOptions, []error) {
	var errs []error

	opts := &RunOptions{
		TeardownOnFailure: raw.TeardownOnFailure,
		ResultsRoot:       raw.ResultsRoot,
	}

	if n, err := parsePositiveInt("--iterations", raw.Iterations); err != nil {
		errs = append(errs, err)
	} else {
		opts.Iterations = n
	}

	if n, err := parsePositiveInt("--duration", raw.Duration); err != nil {
		errs = append(errs, err)
	} else {
		opts.Duration = n
	}

	props, perrs := ParseProperties(raw.Properties)
	if len(perrs) > 0 {
		errs = append(errs, perrs...)
	} else {
		opts.Properties = props
	}

	if strings.TrimSpace(raw.IniFile) == "" {
		errs = append(errs, fmt.Errorf("--ini: filename must not be empty"))
	} else {
		opts.IniFile = strings.TrimSpace(raw.IniFile)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return opts, nil
}

func parsePositiveInt(flag, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", flag, value)
	}
	if n < 1 {
		return 0, fmt.Errorf("%s: must be a positive integer, got %d", flag, n)
	}
	return n, nil
}

// ParseProperties parses a comma-separated key:value list such as
// "rf:1,cksum:crc64". Order is preserved.
func ParseProperties(spec string) ([]Property, []error) {
	var errs []error

	if strings.TrimSpace(spec) == "" {
		return nil, []error{fmt.Errorf("--properties: list must not be empty")}
	}

	var props []Property
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			errs = append(errs, fmt.Errorf("--properties: empty entry in %q", spec))
			continue
		}
		key, value, ok := strings.Cut(part, ":")
		if !ok || strings.TrimSpace(key) == "" || strings.TrimSpace(value) == "" {
			errs = append(errs, fmt.Errorf("--properties: %q is not a key:value pair", part))
			continue
		}
		props = append(props, Property{Key: strings.TrimSpace(key), Value: strings.TrimSpace(value)})
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return props, nil
}

// JoinErrors flattens an accumulated error list into one error for
// propagation after all of them have been printed.
func JoinErrors(errs []error) error {
	return errors.Join(errs...)
}
