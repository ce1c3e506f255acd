package steptext

import (
	"errors"
	"testing"
	"time"
)

func TestInsertPlaceholder(t *testing.T) {
	got := InsertPlaceholder("Stir well")
	if got != "Stir well{TimerName:00:00}" {
		t.Fatalf("got %q", got)
	}
	tags := Tags(got)
	if len(tags) != 1 {
		t.Fatalf("expected 1 tag after insertion, got %d", len(tags))
	}
	if tags[0].Label != PlaceholderLabel || tags[0].Duration() != 0 {
		t.Fatalf("unexpected tag %+v", tags[0])
	}
}

func TestFormatTag(t *testing.T) {
	tests := []struct {
		label string
		d     time.Duration
		want  string
	}{
		{"Oven", 20 * time.Minute, "{Oven:00:20}"},
		{"", time.Hour + 45*time.Minute, "{01:45}"},
		{"Rest", 90*time.Second + 500*time.Millisecond, "{Rest:00:01}"},
		{"Bad{:}Label", 5 * time.Minute, "{BadLabel:00:05}"},
		{"  ", 5 * time.Minute, "{00:05}"},
		{"Long", 150 * time.Hour, "{Long:99:59}"},
		{"Neg", -time.Minute, "{Neg:00:00}"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := FormatTag(tt.label, tt.d)
			if got != tt.want {
				t.Fatalf("FormatTag(%q, %s) = %q, want %q", tt.label, tt.d, got, tt.want)
			}
			if !HasTimer(got) {
				t.Fatalf("formatted tag %q is not recognized", got)
			}
		})
	}
}

func TestInsertTimer(t *testing.T) {
	now := time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		spec    string
		want    string
		wantErr bool
	}{
		{"clock", "00:20", "Bake{Oven:00:20}", false},
		{"short clock", "1:30", "Bake{Oven:01:30}", false},
		{"go duration", "45m", "Bake{Oven:00:45}", false},
		{"natural language", "in 20 minutes", "Bake{Oven:00:20}", false},
		{"empty", "", "Bake", true},
		{"gibberish", "when it smells done", "Bake", true},
		{"negative", "-5m", "Bake", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := InsertTimer("Bake", "Oven", tt.spec, now)
			if tt.wantErr {
				if !errors.Is(err, ErrBadDuration) {
					t.Fatalf("expected ErrBadDuration, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}
