package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"auction-draft-mcp/internal/cli"
	"auction-draft-mcp/internal/render"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, render.Error(err))
		stop()
		os.Exit(1)
	}
}
