package syncer

import (
	"log/slog"
	"time"

	"github.com/aevon-lab/download-stats/internal/core/downloads"
)

// Progress describes the fetch unit about to be requested.
// Range mode fills Start/End; per-day mode fills Day.
type Progress struct {
	Document string
	Repo     string
	Day      time.Time
	Start    time.Time
	End      time.Time
}

// Span renders the requested day or range for log lines.
func (p Progress) Span() string {
	if !p.Day.IsZero() {
		return p.Day.Format(downloads.DayLayout)
	}
	return downloads.Window{Start: p.Start, End: p.End}.String()
}

// Observer receives progress notifications. It is purely observational:
// nothing it does affects the sync pass.
type Observer interface {
	OnProgress(p Progress)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(p Progress)

func (f ObserverFunc) OnProgress(p Progress) { f(p) }

type noopObserver struct{}

func (noopObserver) OnProgress(Progress) {}

// Message renders the progress line shown to operators,
// e.g. "Getting [assemble] downloads for 2019-12-31 to 2020-01-04".
func (p Progress) Message() string {
	target := "total npm"
	if p.Repo != "" {
		target = p.Repo
	}
	return "Getting [" + target + "] downloads for " + p.Span()
}

// LogObserver logs every progress event through logger at info level.
func LogObserver(logger *slog.Logger) Observer {
	return ObserverFunc(func(p Progress) {
		logger.Info(p.Message(), "document", p.Document)
	})
}
