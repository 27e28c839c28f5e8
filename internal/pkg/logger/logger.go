package logger

// Logger is the logging surface the services and the worker write to.
// Both the console and the rotated-file backends satisfy it.
type Logger interface {
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Fatal(args ...interface{})
	Panic(args ...interface{})
}
