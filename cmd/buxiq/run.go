package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/fx"
)

func run(ctx context.Context, app *fx.App) {
	if err := app.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "buxiq: invalid configuration: %v\n", err)
		os.Exit(2)
	}

	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "buxiq: failed to start: %v\n", err)
		os.Exit(1)
	}

	select {
	case <-ctx.Done():
	case <-app.Done():
	}

	if err := app.Stop(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "buxiq: failed to stop: %v\n", err)
		os.Exit(1)
	}
}
