// Package eventlog records engine events as JSON lines and fans them out to
// other observers.
package eventlog

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Func is the engine's observer signature.
type Func func(event string, kv map[string]any)

// Log writes one JSON object per event with "ts" and "event" keys plus the
// event's own fields.
type Log struct {
	logger *logrus.Logger
	closer io.Closer
}

// Create truncates path on fs and logs to it.
func Create(fs afero.Fs, path string) (*Log, error) {
	f, err := fs.Create(path)
	if err != nil {
		return nil, err
	}
	l := New(f)
	l.closer = f
	return l, nil
}

// New logs to w.
func New(w io.Writer) *Log {
	lg := logrus.New()
	lg.SetOutput(w)
	lg.SetLevel(logrus.InfoLevel)
	lg.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "ts",
			logrus.FieldKeyMsg:  "event",
		},
		DisableHTMLEscape: true,
	})
	return &Log{logger: lg}
}

// Event logs one record. abort events are logged at warning level.
func (l *Log) Event(event string, kv map[string]any) {
	entry := l.logger.WithFields(logrus.Fields(kv))
	if event == "abort" {
		entry.Warn(event)
		return
	}
	entry.Info(event)
}

func (l *Log) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// Chain calls every non-nil observer in order.
func Chain(fns ...Func) Func {
	var live []Func
	for _, f := range fns {
		if f != nil {
			live = append(live, f)
		}
	}
	return func(event string, kv map[string]any) {
		for _, f := range live {
			f(event, kv)
		}
	}
}
