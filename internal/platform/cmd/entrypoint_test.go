package cmd

import (
	"context"
	"errors"
	"flag"
	"testing"
)

type testConfig struct {
	Samples int    `env:"CMD_TEST_SAMPLES" envDefault:"100"`
	CSVPath string `env:"CMD_TEST_CSV" envDefault:"HOV.csv"`
}

func TestParseConfigReadsEnvAndFlags(t *testing.T) {
	t.Setenv("CMD_TEST_SAMPLES", "250")
	t.Setenv("CMD_TEST_CSV", "env.csv")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfgRef := testConfig{}
	if err := ParseConfig(&cfgRef); err != nil {
		t.Fatalf("load config defaults: %v", err)
	}
	fs.IntVar(&cfgRef.Samples, "samples", cfgRef.Samples, "samples")
	fs.StringVar(&cfgRef.CSVPath, "csv", cfgRef.CSVPath, "csv")

	if err := ParseArgs(fs, []string{"-samples", "500"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if cfgRef.Samples != 500 {
		t.Fatalf("expected flag value for samples, got %d", cfgRef.Samples)
	}
	if cfgRef.CSVPath != "env.csv" {
		t.Fatalf("expected env csv path, got %q", cfgRef.CSVPath)
	}
}

func TestParseConfigRejectsNilTarget(t *testing.T) {
	if err := ParseConfig[testConfig](nil); err == nil {
		t.Fatal("expected parse config to reject nil target")
	}
}

func TestParseArgsRejectsNilParser(t *testing.T) {
	if err := ParseArgs(nil, []string{}); err == nil {
		t.Fatal("expected parse args to reject nil parser")
	}
}

func TestRunWithTelemetryRejectsMissingInputs(t *testing.T) {
	if err := RunWithTelemetry(context.Background(), "", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected missing service error")
	}
	if err := RunWithTelemetry(context.Background(), ServiceSimulator, nil); err == nil {
		t.Fatal("expected missing run function error")
	}
}

func TestRunWithTelemetryReturnsRunError(t *testing.T) {
	t.Setenv("HOVSIM_OTEL_ENDPOINT", "")
	want := errors.New("run failed")
	called := false
	err := RunWithTelemetry(context.Background(), ServiceSimulator, func(context.Context) error {
		called = true
		return want
	})
	if !called {
		t.Fatal("expected run function to be called")
	}
	if !errors.Is(err, want) {
		t.Fatalf("RunWithTelemetry() error = %v, want %v", err, want)
	}
}
