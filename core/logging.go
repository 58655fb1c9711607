package core

// Logger is the app-wide logging contract. Implementations live in services/logger.
//
// args may carry anything worth reporting alongside the message: an error,
// a map of extra context, etc.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
