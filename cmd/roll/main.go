package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	rollcmd "github.com/louisbranch/dicenotation/internal/cmd/roll"
	entrypoint "github.com/louisbranch/dicenotation/internal/platform/cmd"
	"github.com/louisbranch/dicenotation/internal/platform/config"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: roll [-n N] [-seed S] [-explain] EXPR...\n")
		flag.PrintDefaults()
	}
	cfg, err := rollcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.ExitCodef(config.ExitUsage, "roll: %v", err)
	}
	entrypoint.ConfigureLogging(entrypoint.ServiceRoll)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rollcmd.Run(ctx, cfg, os.Stdout); err != nil {
		stop()
		config.Exitf("roll: %v", err)
	}
}
