package app

import (
	"go.pbuild.dev/pbuild/internal/core/ports"
)

// Components bundles the pieces cmd/pbuild needs once graft has resolved the
// whole dependency graph: the App to dispatch subcommands to, and a Logger
// for startup/shutdown messages outside any single App call.
type Components struct {
	App    *App
	Logger ports.Logger
}
