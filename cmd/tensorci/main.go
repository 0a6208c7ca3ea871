package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newApp(os.Stderr).RunContext(ctx, os.Args)

	stop()

	if err == nil {
		return
	}

	// Command failures are logged where they happen; anything else (flag
	// parsing, config) is reported here.
	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.ExitCode())
	}

	log.Error().Err(err).Msg("Command failed")
	os.Exit(1)
}
