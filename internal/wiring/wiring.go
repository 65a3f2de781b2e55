// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/bale/internal/adapters/cache"
	_ "go.trai.ch/bale/internal/adapters/config"
	_ "go.trai.ch/bale/internal/adapters/fs"
	_ "go.trai.ch/bale/internal/adapters/lang"
	_ "go.trai.ch/bale/internal/adapters/logger"
	_ "go.trai.ch/bale/internal/adapters/telemetry"
	// Register app nodes.
	_ "go.trai.ch/bale/internal/app"
)
