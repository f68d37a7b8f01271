// Package main runs the HOV lane revenue-loss simulation.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	hovsimcmd "github.com/louisbranch/hovlane/internal/cmd/hovsim"
	platformcmd "github.com/louisbranch/hovlane/internal/platform/cmd"
	"github.com/louisbranch/hovlane/internal/platform/config"
)

func main() {
	cfg, err := hovsimcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceSimulator, func(ctx context.Context) error {
		return hovsimcmd.Run(ctx, cfg, os.Stdin, os.Stdout, os.Stderr)
	})
	if err != nil {
		stop()
		config.ExitErr(err)
	}
}
