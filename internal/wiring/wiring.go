// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.pbuild.dev/pbuild/internal/adapters/cache"
	_ "go.pbuild.dev/pbuild/internal/adapters/compiler"
	_ "go.pbuild.dev/pbuild/internal/adapters/config"
	_ "go.pbuild.dev/pbuild/internal/adapters/fs"
	_ "go.pbuild.dev/pbuild/internal/adapters/logger"
	_ "go.pbuild.dev/pbuild/internal/adapters/report"
	_ "go.pbuild.dev/pbuild/internal/adapters/telemetry"
	_ "go.pbuild.dev/pbuild/internal/adapters/watch"
	// Register app and engine nodes.
	_ "go.pbuild.dev/pbuild/internal/app"
	_ "go.pbuild.dev/pbuild/internal/engine/classifier"
	_ "go.pbuild.dev/pbuild/internal/engine/driver"
)
