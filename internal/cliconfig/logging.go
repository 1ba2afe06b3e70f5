package cliconfig

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/expopush/pkg/log"
)

// NewLogger returns the CLI's console logger writing to w.
func NewLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().Timestamp().Logger(), nil
}
