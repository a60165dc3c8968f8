package logging

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/Graylog2/go-gelf/gelf"
)

// NewGELFHandler returns a handler that ships records to a Graylog GELF UDP
// input at addr. The returned closer releases the socket.
func NewGELFHandler(addr string, level slog.Level) (slog.Handler, io.Closer, error) {
	w, err := gelf.NewWriter(addr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create GELF writer: %w", err)
	}
	w.Facility = "orbits"
	return slog.NewTextHandler(w, HandlerOptions(level)), w, nil
}
