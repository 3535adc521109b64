package shared

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestFold(t *testing.T) {
	tc := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lowercases", input: "Raymond", want: "raymond"},
		{name: "strips diacritics", input: "Café K.K.", want: "cafe k.k."},
		{name: "collapses whitespace", input: "  Tom   Nook  ", want: "tom nook"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fold(tt.input); got != tt.want {
				t.Errorf("Fold(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}

	t.Run("ContainsFold", func(t *testing.T) {
		if !ContainsFold("Café K.K.", "cafe") {
			t.Error("expected accented haystack to match plain needle")
		}
		if ContainsFold("Raymond", "nook") {
			t.Error("did not expect a match")
		}
	})
}

func TestLogger(t *testing.T) {
	t.Run("NewLogger Writes", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		logger.Info("hello", "villager", "Raymond")

		if !strings.Contains(buf.String(), "Raymond") {
			t.Errorf("expected log output to contain key value, got %q", buf.String())
		}
	})

	t.Run("ApplyLogLevel", func(t *testing.T) {
		logger := NewLogger(&bytes.Buffer{})

		if err := ApplyLogLevel(logger, "debug"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if logger.GetLevel() != log.DebugLevel {
			t.Errorf("expected debug level, got %v", logger.GetLevel())
		}

		if err := ApplyLogLevel(logger, ""); err != nil {
			t.Errorf("empty level should be ignored, got %v", err)
		}

		if err := ApplyLogLevel(logger, "chatty"); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("NewFileLogger", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "tui.log")
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		logger.Info("written to file")

		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		if !strings.Contains(string(content), "written to file") {
			t.Errorf("expected message in log file, got %q", content)
		}
	})
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Error("expected unique ids")
	}
	if len(a) != 36 {
		t.Errorf("expected uuid string length 36, got %d", len(a))
	}
}

func TestOpenBrowser(t *testing.T) {
	original := getRuntime
	defer func() { getRuntime = original }()

	t.Run("Empty URL", func(t *testing.T) {
		if err := OpenBrowser(""); !errors.Is(err, ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("Unsupported Platform", func(t *testing.T) {
		getRuntime = func() string { return "plan9" }
		if err := OpenBrowser("https://nookipedia.com/wiki/Raymond"); !errors.Is(err, ErrNotImplemented) {
			t.Errorf("expected ErrNotImplemented, got %v", err)
		}
	})

	t.Run("Command Per Platform", func(t *testing.T) {
		for rt, bin := range map[string]string{"darwin": "open", "linux": "xdg-open", "windows": "cmd"} {
			getRuntime = func() string { return rt }
			cmd, err := browserCommand("https://example.com")
			if err != nil {
				t.Fatalf("%s: unexpected error %v", rt, err)
			}
			if filepath.Base(cmd.Args[0]) != bin {
				t.Errorf("%s: expected %s, got %s", rt, bin, cmd.Args[0])
			}
		}
	})
}

func TestMarshalJSON(t *testing.T) {
	v := map[string]int{"have": 2}

	compact, err := MarshalJSON(v, false)
	if err != nil || string(compact) != `{"have":2}` {
		t.Errorf("unexpected compact output %s (%v)", compact, err)
	}

	pretty, err := MarshalJSON(v, true)
	if err != nil || string(pretty) != "{\n  \"have\": 2\n}" {
		t.Errorf("unexpected pretty output %s (%v)", pretty, err)
	}

	if _, err := MarshalJSON(make(chan int), false); err == nil {
		t.Error("expected error for unsupported type")
	}
}
