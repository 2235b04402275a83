package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestRun_UnknownFlagStillReportsValueErrors(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"run", "--duration", "abc", "--bogus"})

	err := root.Execute()
	if err == nil {
		t.Fatal("expected parse failure")
	}
	if !strings.Contains(err.Error(), "bogus") {
		t.Fatalf("unknown flag must be reported: %v", err)
	}
	// The bad value bound before the unknown flag is reported alongside it.
	if !strings.Contains(out.String(), "--duration") {
		t.Fatalf("value errors accumulated before the unknown flag must be printed, got:\n%s", out.String())
	}
}

func TestRun_UnknownFlagAloneReportsNoValueErrors(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"run", "--bogus"})

	if err := root.Execute(); err == nil {
		t.Fatal("expected parse failure")
	}
	if strings.Contains(out.String(), "Error: --") {
		t.Fatalf("defaulted values must not produce spurious errors, got:\n%s", out.String())
	}
}

func TestHelp_ExitsCleanly(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"run", "--help"})

	if err := root.Execute(); err != nil {
		t.Fatalf("help must succeed: %v", err)
	}
	if !strings.Contains(out.String(), "--iterations") {
		t.Fatalf("usage text missing flags:\n%s", out.String())
	}
}
