package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/villagedex/internal/models"
	"github.com/desertthunder/villagedex/internal/shared"
	tu "github.com/desertthunder/villagedex/internal/testing"
	"github.com/urfave/cli/v3"
)

var quiet = log.New(io.Discard)

// testConfig keeps the database in a temp dir and never reaches the network.
func testConfig(t *testing.T) *shared.Config {
	t.Helper()
	config := shared.DefaultConfig()
	config.Database.Path = filepath.Join(t.TempDir(), "villagedex.db")
	config.Data.DisableAPI = true
	config.Log.Level = "error"
	return config
}

// run executes args against a fresh runner, as a separate process invocation would.
func run(t *testing.T, config *shared.Config, args ...string) (string, error) {
	t.Helper()
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{Config: config, Logger: quiet, Output: output})
	err := newApp(runner).Run(context.Background(), append([]string{"villagedex"}, args...))
	return output.String(), err
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{HTTPClient: nil})

			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})

		t.Run("with configPath sets field", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{ConfigPath: "/test/path/config.toml"})

			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, true)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("writePlainln surrounds text with newlines", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlainln("next"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "\nnext\n" {
				t.Errorf("expected %q, got %q", "\nnext\n", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}
		for _, want := range []string{"setup", "villagers", "collection", "theme", "images", "serve", "tui"} {
			if !names[want] {
				t.Errorf("expected %q to be registered", want)
			}
		}
	})

	t.Run("before", func(t *testing.T) {
		t.Run("rejects an unknown log level", func(t *testing.T) {
			_, err := run(t, testConfig(t), "--log-level", "loud", "theme", "show")
			if !errors.Is(err, shared.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})

		t.Run("loads --config", func(t *testing.T) {
			dir := t.TempDir()
			dbPath := filepath.Join(dir, "from-file.db")
			configPath := filepath.Join(dir, "config.toml")
			tu.MustWriteFile(t, configPath, []byte("[database]\npath = \""+filepath.ToSlash(dbPath)+"\"\n[log]\nlevel = \"error\"\n"))

			if _, err := run(t, testConfig(t), "--config", configPath, "theme", "set", "dark"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			tu.AssertFileExists(t, dbPath)
		})
	})

	t.Run("store", func(t *testing.T) {
		t.Run("reuses the handle and closes once", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: testConfig(t), Logger: quiet})

			first, err := runner.store()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			second, _ := runner.store()
			if first != second {
				t.Error("expected the same database handle")
			}
			if err := runner.Close(); err != nil {
				t.Errorf("expected no error closing, got %v", err)
			}
			if err := runner.Close(); err != nil {
				t.Errorf("expected second close to be a no-op, got %v", err)
			}
		})

		t.Run("wraps open failures", func(t *testing.T) {
			config := testConfig(t)
			config.Database.Path = filepath.Join(t.TempDir(), "missing", "dir", "villagedex.db")
			runner := NewRunner(RunnerOpts{Config: config, Logger: quiet})

			if _, err := runner.store(); !errors.Is(err, shared.ErrPersistence) {
				t.Errorf("expected ErrPersistence, got %v", err)
			}
		})
	})

	t.Run("loadCatalog", func(t *testing.T) {
		t.Run("uses the bundled tier and caches", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: testConfig(t), Logger: quiet})

			catalog, err := runner.loadCatalog(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if catalog.Result().Source != models.SourceReal {
				t.Errorf("expected bundled source, got %s", catalog.Result().Source)
			}
			again, _ := runner.loadCatalog(context.Background())
			if again != catalog {
				t.Error("expected cached catalog")
			}
		})

		t.Run("falls back to the sample when the bundled file is missing", func(t *testing.T) {
			config := testConfig(t)
			config.Data.BundledPath = filepath.Join(t.TempDir(), "nope.json")
			runner := NewRunner(RunnerOpts{Config: config, Logger: quiet})

			catalog, err := runner.loadCatalog(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if catalog.Result().Source != models.SourceSample {
				t.Errorf("expected sample source, got %s", catalog.Result().Source)
			}
		})
	})

	t.Run("Setup", func(t *testing.T) {
		t.Run("initializes the database for an existing config", func(t *testing.T) {
			dir := t.TempDir()
			configPath := filepath.Join(dir, "config.toml")
			tu.MustWriteFile(t, configPath, []byte("# present\n"))

			config := testConfig(t)
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Config: config, ConfigPath: configPath, Logger: quiet, Output: output})

			if err := runner.Setup(context.Background(), &cli.Command{}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			tu.AssertFileExists(t, config.Database.Path)
			if !strings.Contains(output.String(), "Next steps") {
				t.Errorf("expected next steps, got %q", output.String())
			}
			if !strings.Contains(output.String(), "Collection: 0 have, 0 want") {
				t.Errorf("expected collection counts, got %q", output.String())
			}
		})

		t.Run("creates a missing config from the template", func(t *testing.T) {
			dir := t.TempDir()
			configPath := filepath.Join(dir, "config.toml")
			dbPath := filepath.Join(dir, "env.db")
			t.Setenv(shared.EnvPrefix+"DATABASE_PATH", dbPath)

			runner := NewRunner(RunnerOpts{Config: testConfig(t), ConfigPath: configPath, Logger: quiet, Output: &bytes.Buffer{}})
			if err := runner.Setup(context.Background(), &cli.Command{}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			tu.AssertFileExists(t, configPath)
			tu.AssertFileExists(t, dbPath)
			if !strings.Contains(tu.MustReadFile(t, configPath), "[database]") {
				t.Error("expected the template to be written")
			}
		})
	})
}
