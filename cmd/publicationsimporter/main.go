package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"PublicationsImporter/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.NewCLI().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "publicationsimporter:", err)
		stop()
		os.Exit(1)
	}
}
