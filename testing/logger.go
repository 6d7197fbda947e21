package testing

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gardener/gardener-sub001/types"
)

// NewTestLogger returns a types.Logger that routes messages through t.Logf,
// so scan-tick output is attached to the test that produced it and only shown
// on failure or with -v.
//
// Example:
//
//	mgr, err := zonesizer.NewManager(&cfg, nc, src, zones,
//	    zonesizer.WithLogger(zstest.NewTestLogger(t)),
//	)
func NewTestLogger(t *testing.T) types.Logger {
	return &testLogger{t: t}
}

type testLogger struct {
	t *testing.T
}

var _ types.Logger = (*testLogger)(nil)

// format renders key/value pairs the way slog's text handler would, keeping
// test output grep-able by key.
func format(level, msg string, keysAndValues []any) string {
	var b strings.Builder
	b.WriteString(level)
	b.WriteString(" ")
	b.WriteString(msg)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keysAndValues[i], keysAndValues[i+1])
	}

	return b.String()
}

func (l *testLogger) Debug(msg string, keysAndValues ...any) {
	l.t.Log(format("DEBUG", msg, keysAndValues))
}

func (l *testLogger) Info(msg string, keysAndValues ...any) {
	l.t.Log(format("INFO", msg, keysAndValues))
}

func (l *testLogger) Warn(msg string, keysAndValues ...any) {
	l.t.Log(format("WARN", msg, keysAndValues))
}

func (l *testLogger) Error(msg string, keysAndValues ...any) {
	l.t.Log(format("ERROR", msg, keysAndValues))
}

func (l *testLogger) Fatal(msg string, keysAndValues ...any) {
	l.t.Fatal(format("FATAL", msg, keysAndValues))
}
