// Package main is the entry point for the pbuild CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.pbuild.dev/pbuild/cmd/pbuild/commands"
	"go.pbuild.dev/pbuild/internal/app"
	_ "go.pbuild.dev/pbuild/internal/wiring"
)

// ComponentProvider resolves the application's dependency graph.
type ComponentProvider func(context.Context) (*app.Components, error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr, func(ctx context.Context) (*app.Components, error) {
		c, _, err := graft.ExecuteFor[*app.Components](ctx)
		return c, err
	}))
}

func run(ctx context.Context, args []string, stderr io.Writer, provider ComponentProvider) int {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, err := provider(ctx)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}

	cli := commands.New(components.App)
	cli.SetArgs(args)

	if err := cli.Execute(ctx); err != nil {
		var exitErr commands.ExitCodeError
		if errors.As(err, &exitErr) {
			return int(exitErr)
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}
