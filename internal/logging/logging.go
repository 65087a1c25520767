// Package logging builds the zerolog logger shared by every component.
package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/locations/pkg/types"
)

// New returns a timestamped logger writing to w at the configured level.
// The console format is meant for terminals; json for collection.
func New(w io.Writer, cfg types.LogConfig) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("parsing log level: %w", err)
		}
		level = parsed
	}

	switch cfg.Format {
	case "", types.LogFormatConsole:
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	case types.LogFormatJSON:
	default:
		return zerolog.Nop(), fmt.Errorf("%w: %q", types.ErrLogFormatUnknown, cfg.Format)
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}
