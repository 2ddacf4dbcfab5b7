package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// logger fields
const (
	Component = "component"
	CartID    = "cart_id"
	ProductID = "product_id"
	Op        = "op"
)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
}

// New builds the root logger. Development output is the human readable console format.
func New(w io.Writer, level string, development bool) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if development {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339Nano}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// For returns a child logger tagged with the component name.
func For(parent zerolog.Logger, component string) zerolog.Logger {
	return parent.With().Str(Component, component).Logger()
}
