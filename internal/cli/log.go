package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger writes timestamped lines ("15:04:05.00") at level and above.
// Debug output also reports the caller.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
	l.SetReportCaller(level <= log.DebugLevel)
	return l
}

// stage times one step of a command and logs it with a "took" field.
type stage struct {
	logger *log.Logger
	name   string
	start  time.Time
}

func startStage(l *log.Logger, name string) *stage {
	l.Debug("start", "stage", name)
	return &stage{logger: l, name: name, start: time.Now()}
}

// done logs msg with the extra key/value pairs and the elapsed time.
func (s *stage) done(msg string, kv ...any) {
	kv = append(kv, "stage", s.name, "took", time.Since(s.start).Round(time.Millisecond))
	s.logger.Info(msg, kv...)
}
