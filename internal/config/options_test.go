package config

import (
	"strings"
	"testing"
)

func validRaw() RawRunOptions {
	return RawRunOptions{
		Iterations: "3",
		Duration:   "60",
		Properties: "rf:0",
		IniFile:    "io500-base.ini",
	}
}

func TestBuildRunOptions_Valid(t *testing.T) {
	opts, errs := BuildRunOptions(validRaw())
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if opts.Iterations != 3 || opts.Duration != 60 {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if got := opts.PropertyString(); got != "rf:0" {
		t.Fatalf("expected property string rf:0, got %q", got)
	}
}

func TestBuildRunOptions_NonNumericDuration(t *testing.T) {
	raw := validRaw()
	raw.Duration = "sixty"
	_, errs := BuildRunOptions(raw)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	if !strings.Contains(errs[0].Error(), "--duration") {
		t.Fatalf("error should reference --duration, got %v", errs[0])
	}
}

func TestBuildRunOptions_NegativeIterations(t *testing.T) {
	raw := validRaw()
	raw.Iterations = "-2"
	_, errs := BuildRunOptions(raw)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	if !strings.Contains(errs[0].Error(), "--iterations") {
		t.Fatalf("error should reference --iterations, got %v", errs[0])
	}
}

func TestBuildRunOptions_AccumulatesAllErrors(t *testing.T) {
	raw := validRaw()
	raw.Duration = "0"
	raw.Iterations = "abc"
	_, errs := BuildRunOptions(raw)
	if len(errs) != 2 {
		t.Fatalf("expected both errors reported together, got %v", errs)
	}
	joined := JoinErrors(errs).Error()
	if !strings.Contains(joined, "--duration") || !strings.Contains(joined, "--iterations") {
		t.Fatalf("joined error should name both flags, got %q", joined)
	}
}

func TestBuildRunOptions_EmptyIni(t *testing.T) {
	raw := validRaw()
	raw.IniFile = "  "
	_, errs := BuildRunOptions(raw)
	if len(errs) != 1 || !strings.Contains(errs[0].Error(), "--ini") {
		t.Fatalf("expected one --ini error, got %v", errs)
	}
}

func TestParseProperties_OrderPreserved(t *testing.T) {
	props, errs := ParseProperties("rf:1,cksum:crc64")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(props) != 2 {
		t.Fatalf("expected 2 properties, got %d", len(props))
	}
	if props[0].Key != "rf" || props[0].Value != "1" {
		t.Fatalf("unexpected first property: %+v", props[0])
	}
	if props[1].Key != "cksum" || props[1].Value != "crc64" {
		t.Fatalf("unexpected second property: %+v", props[1])
	}

	opts := RunOptions{Properties: props}
	if got := opts.PropertyString(); got != "rf:1,cksum:crc64" {
		t.Fatalf("round trip mismatch: %q", got)
	}
}

func TestParseProperties_Invalid(t *testing.T) {
	if _, errs := ParseProperties(""); len(errs) == 0 {
		t.Fatal("empty list should fail")
	}
	if _, errs := ParseProperties("rf"); len(errs) == 0 {
		t.Fatal("missing value should fail")
	}
	if _, errs := ParseProperties("rf:,cksum"); len(errs) != 2 {
		t.Fatal("expected one error per malformed pair")
	}
}
