package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelNormal, &buf)

	log.Debug("hidden %d", 1)
	log.Info("shown %d", 2)
	if strings.Contains(buf.String(), "hidden") {
		t.Fatal("debug line written at normal level")
	}
	if !strings.Contains(buf.String(), "[INF] shown 2") {
		t.Fatalf("missing info line, got %q", buf.String())
	}

	buf.Reset()
	log.SetLevel(LevelOff)
	log.Error("nope")
	if buf.Len() != 0 {
		t.Fatalf("expected no output when off, got %q", buf.String())
	}
}

func TestNamedSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	root := New(LevelNormal, &buf)
	child := root.Named("store").Named("sqlite")

	child.Warn("slow query")
	if !strings.Contains(buf.String(), "[WRN] store.sqlite: slow query") {
		t.Fatalf("unexpected line %q", buf.String())
	}

	buf.Reset()
	root.SetLevel(LevelVerbose)
	child.Debug("visible now")
	if !strings.Contains(buf.String(), "visible now") {
		t.Fatal("child did not pick up parent level change")
	}
	if child.GetLevel() != LevelVerbose {
		t.Fatalf("expected verbose, got %s", child.GetLevel())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"off", LevelOff, false},
		{"Quiet", LevelOff, false},
		{"", LevelNormal, false},
		{"info", LevelNormal, false},
		{"DEBUG", LevelVerbose, false},
		{"verbose", LevelVerbose, false},
		{"loud", LevelNormal, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("ParseLevel(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}
