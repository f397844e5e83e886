package logger

// nopLogger discards everything. Tests use it through NewNop.
type nopLogger struct {
	// non-zero size so distinct instances have distinct addresses
	_ byte
}

// NewNop returns a Logger that discards all entries.
func NewNop() Logger {
	return &nopLogger{}
}

func (l *nopLogger) Debug(string, ...Field) {}
func (l *nopLogger) Info(string, ...Field)  {}
func (l *nopLogger) Warn(string, ...Field)  {}
func (l *nopLogger) Error(string, ...Field) {}
func (l *nopLogger) Fatal(string, ...Field) {}

func (l *nopLogger) With(...Field) Logger { return l }

func (l *nopLogger) Sync() error { return nil }
