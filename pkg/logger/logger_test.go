package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestInit_WritesJSONWithService(t *testing.T) {
	t.Cleanup(Reset)
	var buf bytes.Buffer

	log := Init(Options{Level: "debug", Output: &buf})
	log.Debug().Str("client_id", "c1").Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected a JSON line, got %q: %v", buf.String(), err)
	}
	if entry["service"] != "ukm-portal" || entry["client_id"] != "c1" || entry["message"] != "hello" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestInit_FirstCallWins(t *testing.T) {
	t.Cleanup(Reset)
	var first, second bytes.Buffer

	Init(Options{Output: &first, Service: "one"})
	log := Init(Options{Output: &second, Service: "two"})
	log.Info().Msg("x")

	if second.Len() != 0 || first.Len() == 0 {
		t.Fatal("second Init must return the first logger")
	}
}

func TestInit_LevelFilters(t *testing.T) {
	t.Cleanup(Reset)
	var buf bytes.Buffer

	log := Init(Options{Level: "warn", Output: &buf})
	log.Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info must be filtered at warn level, got %q", buf.String())
	}
}

func TestGet_PanicsBeforeInit(t *testing.T) {
	Reset()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	Get()
}

func TestGet_ReturnsInitLogger(t *testing.T) {
	t.Cleanup(Reset)
	var buf bytes.Buffer
	Init(Options{Output: &buf})

	log := Get()
	log.Error().Msg("stopped")

	if !strings.Contains(buf.String(), `"message":"stopped"`) {
		t.Fatalf("expected the entry on the Init writer, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"loud":    zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
