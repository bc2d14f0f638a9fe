package scheduler

import "go.uber.org/zap"

// cronLogger adapts a *zap.SugaredLogger to robfig/cron's Logger
// interface, so SkipIfStillRunning's own overlap-skip notices land in the
// same structured log stream as everything else.
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Infow(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
