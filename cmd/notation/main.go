package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	notationcmd "github.com/louisbranch/dicenotation/internal/cmd/notation"
	entrypoint "github.com/louisbranch/dicenotation/internal/platform/cmd"
)

func main() {
	cfg, err := notationcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	entrypoint.ConfigureLogging(entrypoint.ServiceNotation)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := notationcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
