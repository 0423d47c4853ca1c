package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestDebugf(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		want    string
	}{
		{name: "quiet", verbose: false, want: ""},
		{name: "verbose", verbose: true, want: "attempts 42\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewWriter(&buf)
			l.SetFlags(0)
			l.SetVerbose(tt.verbose)
			l.Debugf("attempts %d", 42)
			if buf.String() != tt.want {
				t.Errorf("Debugf() wrote %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf)
	l.SetFlags(0)
	l.SetVerbose(true)

	child := l.With("miner").With("worker")
	child.Debugf("started")
	if got := buf.String(); !strings.HasPrefix(got, "[miner] [worker] started") {
		t.Errorf("With() output = %q", got)
	}
	if !child.Verbose() {
		t.Error("With() dropped verbose flag")
	}
}
