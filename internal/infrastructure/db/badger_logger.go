package db

import (
	"fmt"
	"strings"

	"github.com/damon-houk/division-ledger/internal/infrastructure/logger"
)

// badgerLogger routes badger's printf-style output into the structured logger
type badgerLogger struct {
	log logger.Logger
}

func newBadgerLogger(log logger.Logger) *badgerLogger {
	return &badgerLogger{log: log.WithField("component", "badger")}
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error(strings.TrimSpace(fmt.Sprintf(format, args...)), nil)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)), nil)
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)), nil)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)), nil)
}
