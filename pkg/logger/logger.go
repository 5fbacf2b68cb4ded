package logger

// Field is a single structured key/value attached to a log entry.
type Field struct {
	Key   string
	Value any
}

// Client is the logging surface the rest of the service depends on.
type Client interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Err is shorthand for the "err" field used on every failure log.
func Err(err error) Field {
	return Field{Key: "err", Value: err}
}

type nopLogger struct{}

// NewNop returns a Client that discards everything.
func NewNop() Client {
	return nopLogger{}
}

func (nopLogger) Debug(string, ...Field) {}
func (nopLogger) Info(string, ...Field)  {}
func (nopLogger) Warn(string, ...Field)  {}
func (nopLogger) Error(string, ...Field) {}
