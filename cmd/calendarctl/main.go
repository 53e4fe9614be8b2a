package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"neirocalendar/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(cli.OpenFromEnv).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, cli.Error("error: "+err.Error()))
		os.Exit(1)
	}
}
