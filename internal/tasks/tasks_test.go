package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/villagedex/internal/models"
	"github.com/desertthunder/villagedex/internal/services"
	"github.com/desertthunder/villagedex/internal/shared"
	tu "github.com/desertthunder/villagedex/internal/testing"
	"github.com/desertthunder/villagedex/internal/villagers"
)

var quiet = log.New(io.Discard)

type fakeSource struct {
	kind  models.Source
	raw   []json.RawMessage
	err   error
	calls int
}

func (f *fakeSource) Kind() models.Source { return f.kind }

func (f *fakeSource) Fetch(context.Context) ([]json.RawMessage, error) {
	f.calls++
	return f.raw, f.err
}

func rawOf(t *testing.T, elements ...string) []json.RawMessage {
	t.Helper()
	out := make([]json.RawMessage, len(elements))
	for i, e := range elements {
		out[i] = json.RawMessage(e)
	}
	return out
}

func missingBundled(t *testing.T) services.Source {
	return services.NewBundledSource(filepath.Join(t.TempDir(), "missing.json"))
}

func TestLoader(t *testing.T) {
	ctx := context.Background()

	t.Run("Bundled Dataset Wins", func(t *testing.T) {
		api := &fakeSource{kind: models.SourceAPI}
		loader := NewLoader(LoaderOpts{Bundled: services.NewBundledSource(""), API: api, Logger: quiet})

		result, err := loader.Load(ctx, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Source != models.SourceReal || result.Format != models.FormatNew {
			t.Errorf("expected real/new, got %s/%s", result.Source, result.Format)
		}
		if result.Message != "" {
			t.Errorf("expected no message for real data, got %q", result.Message)
		}
		if result.Stats.TotalVillagers != len(result.Records) || result.Stats.WithPosterImages != len(result.Records) {
			t.Errorf("unexpected stats %+v", result.Stats)
		}
		if !result.Integrity.Valid {
			t.Errorf("expected valid integrity, got %v", result.Integrity.Issues)
		}
		if api.calls != 0 {
			t.Error("API must not be called when bundled data loads")
		}
	})

	t.Run("Bundled Unreachable Falls Back To Sample", func(t *testing.T) {
		loader := NewLoader(LoaderOpts{Bundled: missingBundled(t), Logger: quiet})

		result, err := loader.Load(ctx, nil)
		if err != nil {
			t.Fatalf("expected sample fallback without error, got %v", err)
		}
		if result.Source != models.SourceSample {
			t.Errorf("expected sample source, got %s", result.Source)
		}
		if len(result.Records) != 6 {
			t.Errorf("expected 6 sample villagers, got %d", len(result.Records))
		}
		if result.Message != "Using enhanced sample data (APIs temporarily unavailable)" {
			t.Errorf("unexpected message %q", result.Message)
		}
	})

	t.Run("API Tier", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"cat00": {"id": 400, "name": {"name-USen": "Raymond"}, "species": "Cat", "personality": "Smug",
				"gender": "Male", "birthday-string": "October 1st", "catch-phrase": "crisp"}}`))
		}))
		defer server.Close()

		loader := NewLoader(LoaderOpts{
			Bundled: missingBundled(t),
			API:     services.NewAPISource(server.URL, server.Client(), 0),
			Logger:  quiet,
		})

		result, err := loader.Load(ctx, nil)
		if err != nil {
			t.Fatal(err)
		}
		if result.Source != models.SourceAPI || result.Format != models.FormatOld {
			t.Errorf("expected api/old, got %s/%s", result.Source, result.Format)
		}
		if got := villagers.Birthday(result.Records[0]); got != "October 1" {
			t.Errorf("expected converted birthday, got %q", got)
		}
	})

	t.Run("Shape Check Falls Through", func(t *testing.T) {
		bundled := &fakeSource{kind: models.SourceReal, raw: rawOf(t, `{"name": "Bob"}`)}
		loader := NewLoader(LoaderOpts{Bundled: bundled, Logger: quiet})

		result, err := loader.Load(ctx, nil)
		if err != nil {
			t.Fatal(err)
		}
		if result.Source != models.SourceSample {
			t.Errorf("expected sample after failed shape check, got %s", result.Source)
		}
	})

	t.Run("Empty Tier Falls Through", func(t *testing.T) {
		bundled := &fakeSource{kind: models.SourceReal, raw: rawOf(t)}
		api := &fakeSource{kind: models.SourceAPI, raw: rawOf(t, `{"name": "Bob", "species": "Cat", "personality": "Lazy"}`)}
		loader := NewLoader(LoaderOpts{Bundled: bundled, API: api, Logger: quiet})

		result, err := loader.Load(ctx, nil)
		if err != nil {
			t.Fatal(err)
		}
		if result.Source != models.SourceAPI || len(result.Records) != 1 {
			t.Errorf("expected one api record, got %s with %d", result.Source, len(result.Records))
		}
	})

	t.Run("Every Tier Fails", func(t *testing.T) {
		loader := NewLoader(LoaderOpts{
			Bundled: &fakeSource{kind: models.SourceReal, err: shared.ErrSourceUnavailable},
			Sample:  &fakeSource{kind: models.SourceSample, err: errors.New("corrupt")},
			Logger:  quiet,
		})

		result, err := loader.Load(ctx, nil)
		if !errors.Is(err, shared.ErrNoData) || !errors.Is(err, shared.ErrSourceUnavailable) {
			t.Errorf("expected joined ErrNoData, got %v", err)
		}
		if result == nil || result.Source != models.SourceError {
			t.Errorf("expected error source, got %+v", result)
		}
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		loader := NewLoader(LoaderOpts{Bundled: services.NewBundledSource(""), Logger: quiet})
		if _, err := loader.Load(cancelled, nil); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("Progress Updates", func(t *testing.T) {
		progress := make(chan ProgressUpdate, 16)
		loader := NewLoader(LoaderOpts{Bundled: missingBundled(t), Logger: quiet})

		if _, err := loader.Load(ctx, progress); err != nil {
			t.Fatal(err)
		}
		close(progress)

		var phases []Phase
		for u := range progress {
			phases = append(phases, u.Phase)
		}
		want := []Phase{LoadBundled, LoadBundled, LoadSample, Normalize, Validate}
		if len(phases) != len(want) {
			t.Fatalf("expected phases %v, got %v", want, phases)
		}
		for i := range want {
			if phases[i] != want[i] {
				t.Errorf("phase %d: expected %s, got %s", i, want[i], phases[i])
			}
		}
	})

	t.Run("Full Progress Channel Does Not Block", func(t *testing.T) {
		progress := make(chan ProgressUpdate)
		loader := NewLoader(LoaderOpts{Logger: quiet})
		if _, err := loader.Load(ctx, progress); err != nil {
			t.Fatal(err)
		}
	})
}

func TestValidateIntegrity(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		got := ValidateIntegrity(nil, models.SourceReal)
		if got.Valid || len(got.Issues) != 1 || got.Issues[0] != "No villager data found" {
			t.Errorf("unexpected integrity %+v", got)
		}
	})

	t.Run("Clean Roster", func(t *testing.T) {
		got := ValidateIntegrity(tu.Records(), models.SourceReal)
		if !got.Valid || got.HasWarnings || got.ValidPercentage != 100 {
			t.Errorf("unexpected integrity %+v", got)
		}
	})

	t.Run("Missing Names And Fields", func(t *testing.T) {
		records := villagers.CompatibleAll([]models.Villager{
			{Species: "Cat"},
			{Name: "Bob", Species: "Cat", Personality: "Lazy"},
		})
		got := ValidateIntegrity(records, models.SourceSample)

		if got.Valid {
			t.Error("expected invalid roster")
		}
		if got.MissingNames != 1 || !got.HasWarnings || got.ValidPercentage != 50 {
			t.Errorf("unexpected counts %+v", got)
		}
		wantIssues := []string{
			"Missing required field: name",
			"Missing required field: personality",
			"1 villagers have missing or invalid names",
		}
		if len(got.Issues) != len(wantIssues) {
			t.Fatalf("expected issues %v, got %v", wantIssues, got.Issues)
		}
		for i := range wantIssues {
			if got.Issues[i] != wantIssues[i] {
				t.Errorf("issue %d: expected %q, got %q", i, wantIssues[i], got.Issues[i])
			}
		}
	})

	t.Run("Real Source Without Enhanced Data", func(t *testing.T) {
		records := villagers.CompatibleAll([]models.Villager{{Name: "Bob", Species: "Cat", Personality: "Lazy"}})
		got := ValidateIntegrity(records, models.SourceReal)
		if got.Valid || got.Issues[0] != "Real data source lacks enhanced features" {
			t.Errorf("unexpected integrity %+v", got)
		}
		if !ValidateIntegrity(records, models.SourceAPI).Valid {
			t.Error("only the real source requires enhanced data")
		}
	})
}

func TestComputeStats(t *testing.T) {
	got := ComputeStats(tu.Records())
	want := Stats{TotalVillagers: 8, WithPosterImages: 5, WithGiftPreferences: 4, WithHobbies: 7}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestSourceInfo(t *testing.T) {
	tt := []struct {
		source  models.Source
		quality string
	}{
		{models.SourceReal, "premium"},
		{models.SourceAPI, "standard"},
		{models.SourceSample, "demo"},
		{models.SourceError, "error"},
	}
	for _, tc := range tt {
		info := SourceInfo(tc.source, Stats{TotalVillagers: 25, WithPosterImages: 20})
		if info.Quality != tc.quality || info.Icon == "" || info.Title == "" {
			t.Errorf("SourceInfo(%s) = %+v", tc.source, info)
		}
	}

	if got := SourceInfo(models.SourceReal, Stats{WithPosterImages: 20}).Features[0]; got != "20 poster images" {
		t.Errorf("unexpected feature %q", got)
	}
}

func TestPhaseString(t *testing.T) {
	if LoadBundled.String() != "bundled" || Validate.String() != "validate" || Phase(99).String() != "" {
		t.Error("unexpected phase names")
	}
}
