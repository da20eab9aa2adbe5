package shared

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestCollapseWhitespace(t *testing.T) {
	tc := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "already collapsed",
			in:   "baby girl",
			want: "baby girl",
		},
		{
			name: "extra whitespace",
			in:   "  baby   girl  ",
			want: "baby girl",
		},
		{
			name: "tabs and newlines",
			in:   "baby\t\ngirl",
			want: "baby girl",
		},
		{
			name: "empty",
			in:   "   ",
			want: "",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := CollapseWhitespace(tt.in)
			if got != tt.want {
				t.Errorf("CollapseWhitespace() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()

	if a == "" || b == "" {
		t.Fatal("expected non-empty IDs")
	}
	if a == b {
		t.Error("expected unique IDs")
	}
	if len(strings.Split(a, "-")) != 5 {
		t.Errorf("expected UUID shape, got %s", a)
	}
}

func TestLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(buf)
	SetLogLevel(logger, log.DebugLevel)

	child := WithLogger(logger, "source", "beatport")
	child.Debug("query sent")

	out := buf.String()
	if !strings.Contains(out, "query sent") {
		t.Errorf("expected log message, got %s", out)
	}
	if !strings.Contains(out, "beatport") {
		t.Errorf("expected bound field, got %s", out)
	}
}
