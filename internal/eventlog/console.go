package eventlog

import (
	"io"

	"github.com/sirupsen/logrus"
)

// NewConsole is the human-facing logger used by the CLI. verbose enables
// debug output, where every engine event is printed.
func NewConsole(w io.Writer, verbose bool) *logrus.Logger {
	lg := logrus.New()
	lg.SetOutput(w)
	if verbose {
		lg.SetLevel(logrus.DebugLevel)
	} else {
		lg.SetLevel(logrus.InfoLevel)
	}
	lg.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return lg
}

// Debug forwards engine events to lg at debug level.
func Debug(lg *logrus.Logger) Func {
	return func(event string, kv map[string]any) {
		if !lg.IsLevelEnabled(logrus.DebugLevel) {
			return
		}
		lg.WithFields(logrus.Fields(kv)).Debug(event)
	}
}
