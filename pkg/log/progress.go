package log

import (
	"fmt"
	"strings"
)

// Progress is the reporting sink training algorithms write to. It accepts
// formatted lines at nested indent levels. Implementations must be purely
// observational: training never depends on a Progress for correctness and
// a nil-safe NopProgress is substituted when the caller passes nil.
type Progress interface {
	// Printf reports one formatted progress line at the current indent.
	Printf(format string, args ...any)

	// Indent returns a Progress one level deeper. The receiver is unchanged.
	Indent() Progress
}

// NewProgress returns a Progress writing debug records through logger.
func NewProgress(logger Logger) Progress {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &loggerProgress{logger: logger, level: 0}
}

// NopProgress returns a Progress that discards everything.
func NopProgress() Progress {
	return &loggerProgress{logger: NewNopLogger(), level: 0}
}

type loggerProgress struct {
	logger Logger
	level  int
}

func (p *loggerProgress) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if p.level > 0 {
		msg = strings.Repeat("  ", p.level) + msg
	}
	p.logger.Debug(msg, "indent", p.level)
}

func (p *loggerProgress) Indent() Progress {
	return &loggerProgress{logger: p.logger, level: p.level + 1}
}
