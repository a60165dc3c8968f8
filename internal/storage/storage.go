// Package storage defines the export sinks a finished run can be written to.
package storage

import (
	"context"

	"github.com/solarviz/orbits/internal/render"
	"github.com/solarviz/orbits/pkg/core"
)

// Backend is the interface all export implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Export writes a computed run and its figure. The figure may be nil for
	// backends that only persist the numbers.
	Export(ctx context.Context, run *core.Run, fig *render.Figure) error
}

// Exported is an optional interface for backends that produce a file on disk.
type Exported interface {
	ExportedPath() string
}
