package errors

import (
	"github.com/sirupsen/logrus"
)

// Logger wraps logrus.Logger with structured error logging
type Logger struct {
	*logrus.Logger
}

// NewLogger creates a new structured logger
func NewLogger() *Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	return &Logger{Logger: logger}
}

// LogError logs an error with structured context
func (l *Logger) LogError(err error, message string, fields ...logrus.Fields) {
	l.logWithLevel(logrus.ErrorLevel, err, message, fields...)
}

// LogWarn logs a warning with structured context
func (l *Logger) LogWarn(err error, message string, fields ...logrus.Fields) {
	l.logWithLevel(logrus.WarnLevel, err, message, fields...)
}

// LogRetryableError logs retryable errors at warn level and final failures
// at error level.
func (l *Logger) LogRetryableError(err error, message string, fields ...logrus.Fields) {
	if IsRetryable(err) {
		l.logWithLevel(logrus.WarnLevel, err, message, fields...)
		return
	}
	l.logWithLevel(logrus.ErrorLevel, err, message, fields...)
}

func (l *Logger) logWithLevel(level logrus.Level, err error, message string, fields ...logrus.Fields) {
	entry := l.Logger.WithError(err)

	if appErr, ok := err.(*AppError); ok {
		entry = entry.WithFields(logrus.Fields{
			"error_code": appErr.Code,
			"retryable":  appErr.Retryable,
		})
		for k, v := range appErr.Context {
			entry = entry.WithField(k, v)
		}
	}

	for _, field := range fields {
		entry = entry.WithFields(field)
	}

	entry.Log(level, message)
}
