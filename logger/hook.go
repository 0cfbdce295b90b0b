package logger

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Sink receives log lines destined for the Stream Deck host log.
type Sink interface {
	LogMessage(message string) error
}

// HostHook mirrors log entries to the host so they show up in the Stream Deck plugin log.
type HostHook struct {
	sink      Sink
	levels    []logrus.Level
	formatter logrus.Formatter
}

// NewHostHook creates a hook that forwards every entry at or above minLevel to sink.
func NewHostHook(sink Sink, minLevel logrus.Level) *HostHook {
	levels := make([]logrus.Level, 0, len(logrus.AllLevels))
	for _, l := range logrus.AllLevels {
		if l <= minLevel {
			levels = append(levels, l)
		}
	}
	// the host log stamps its own time
	return &HostHook{
		sink:      sink,
		levels:    levels,
		formatter: &logrus.TextFormatter{DisableTimestamp: true, DisableColors: true},
	}
}

func (h *HostHook) Levels() []logrus.Level {
	return h.levels
}

// Fire formats the entry as a single line. Sink errors are dropped so logging never recurses.
func (h *HostHook) Fire(entry *logrus.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	_ = h.sink.LogMessage(strings.TrimSuffix(string(line), "\n"))
	return nil
}
