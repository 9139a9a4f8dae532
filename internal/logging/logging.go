package logging

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Setup configures the process-wide logger. Output goes to stderr so the MCP
// stdio transport keeps stdout to itself.
func Setup(level, component string) {
	SetupWriter(os.Stderr, level, component)
}

func SetupWriter(w io.Writer, level, component string) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	logger := log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          component,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	log.SetDefault(logger)
	if err != nil {
		log.Warn("unknown LOG_LEVEL, using info", "value", level)
	}
}
