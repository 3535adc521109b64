package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/desertthunder/villagedex/internal/models"
	"github.com/desertthunder/villagedex/internal/shared"
	tu "github.com/desertthunder/villagedex/internal/testing"
	"github.com/desertthunder/villagedex/internal/villagers"
)

const legacyPayload = `{
	"ant00": {"id": 1, "file-name": "ant00", "name": {"name-USen": "Cyrano", "name-EUen": "Cyrano"},
		"personality": "Cranky", "birthday-string": "March 9th", "birthday": "9/3", "species": "Anteater",
		"gender": "Male", "catch-phrase": "ah-CHOO", "image_uri": "https://acnhapi.com/v1/images/villagers/1"},
	"ant01": {"id": 2, "file-name": "ant01", "name": {"name-USen": "Antonio", "name-EUen": "Antonio"},
		"personality": "Jock", "birthday-string": "October 20th", "birthday": "20/10", "species": "Anteater",
		"gender": "Male", "catch-phrase": "honk", "image_uri": "https://acnhapi.com/v1/images/villagers/2"}
}`

func TestAPISource(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Custom BaseURL and Client", func(t *testing.T) {
			customClient := &http.Client{}
			src := NewAPISource("http://example.com", customClient, time.Second)

			if src.baseURL != "http://example.com" {
				t.Errorf("expected baseURL 'http://example.com', got %s", src.baseURL)
			}
			if src.httpClient != customClient {
				t.Error("expected custom client to be used")
			}
			if src.timeout != time.Second {
				t.Errorf("expected 1s timeout, got %s", src.timeout)
			}
		})

		t.Run("With Zero Values", func(t *testing.T) {
			src := NewAPISource("", nil, 0)

			if src.URL() != DefaultAPIURL {
				t.Errorf("expected default baseURL, got %s", src.URL())
			}
			if src.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
			if src.timeout != DefaultAPITimeout {
				t.Errorf("expected default timeout, got %s", src.timeout)
			}
			if src.Kind() != models.SourceAPI {
				t.Errorf("expected api kind, got %s", src.Kind())
			}
		})
	})

	t.Run("Fetch", func(t *testing.T) {
		t.Run("Object Payload In Key Order", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("expected GET method, got %s", r.Method)
				}
				if got := r.Header.Get("Accept"); got != "application/json" {
					t.Errorf("expected Accept application/json, got %q", got)
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(legacyPayload))
			}))
			defer server.Close()

			raw, err := NewAPISource(server.URL, nil, 0).Fetch(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(raw) != 2 {
				t.Fatalf("expected 2 elements, got %d", len(raw))
			}

			normalized := villagers.Normalize(raw)
			if normalized.Format != models.FormatOld {
				t.Errorf("expected old format, got %s", normalized.Format)
			}
			if normalized.Villagers[0].Name != "Cyrano" || normalized.Villagers[1].Name != "Antonio" {
				t.Errorf("expected document order, got %s, %s", normalized.Villagers[0].Name, normalized.Villagers[1].Name)
			}
		})

		t.Run("Non-2xx Status", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "down", http.StatusServiceUnavailable)
			}))
			defer server.Close()

			_, err := NewAPISource(server.URL, nil, 0).Fetch(context.Background())
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})

		t.Run("Invalid JSON", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html>not json</html>"))
			}))
			defer server.Close()

			_, err := NewAPISource(server.URL, nil, 0).Fetch(context.Background())
			if !errors.Is(err, shared.ErrInvalidDataset) {
				t.Errorf("expected ErrInvalidDataset, got %v", err)
			}
		})

		t.Run("Timeout", func(t *testing.T) {
			release := make(chan struct{})
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-release:
				case <-r.Context().Done():
				}
			}))
			defer server.Close()
			defer close(release)

			_, err := NewAPISource(server.URL, nil, 20*time.Millisecond).Fetch(context.Background())
			if !errors.Is(err, shared.ErrTimeout) {
				t.Errorf("expected ErrTimeout, got %v", err)
			}
		})

		t.Run("Transport Error", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}

			_, err := NewAPISource("http://example.com", client, 0).Fetch(context.Background())
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})

		t.Run("Body Read Error", func(t *testing.T) {
			resp := &http.Response{StatusCode: http.StatusOK, Body: &tu.FCloser{}, Header: http.Header{}}
			client := &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)}

			if _, err := NewAPISource("http://example.com", client, 0).Fetch(context.Background()); err == nil {
				t.Error("expected read error")
			}
		})
	})
}

func TestBundledSource(t *testing.T) {
	ctx := context.Background()

	t.Run("Embedded Dataset", func(t *testing.T) {
		src := NewBundledSource("")
		raw, err := src.Fetch(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		normalized := villagers.Normalize(raw)
		if normalized.Format != models.FormatNew {
			t.Errorf("expected new format, got %s", normalized.Format)
		}
		if len(normalized.Villagers) < 20 || normalized.Skipped != 0 {
			t.Errorf("expected the full embedded roster, got %d (%d skipped)", len(normalized.Villagers), normalized.Skipped)
		}
		for _, v := range normalized.Villagers {
			if err := villagers.Validate(v); err != nil {
				t.Errorf("embedded villager invalid: %v", err)
			}
		}
	})

	t.Run("File On Disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "villagers.json")
		tu.MustWriteFile(t, path, []byte(`[{"name":"Bob","species":"Cat"}]`))

		src := NewBundledSource(path)
		raw, err := src.Fetch(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(raw) != 1 || src.Path() != path {
			t.Errorf("expected one element from %s, got %d", path, len(raw))
		}
	})

	t.Run("Missing File", func(t *testing.T) {
		_, err := NewBundledSource(filepath.Join(t.TempDir(), "missing.json")).Fetch(ctx)
		if !errors.Is(err, shared.ErrSourceUnavailable) {
			t.Errorf("expected ErrSourceUnavailable, got %v", err)
		}
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		if _, err := NewBundledSource("").Fetch(cancelled); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestSampleSource(t *testing.T) {
	src := NewSampleSource()
	if src.Kind() != models.SourceSample {
		t.Errorf("expected sample kind, got %s", src.Kind())
	}

	raw, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	normalized := villagers.Normalize(raw)
	want := []string{"Raymond", "Isabelle", "Tom Nook", "Ankha", "Marshal", "Judy"}
	if len(normalized.Villagers) != len(want) {
		t.Fatalf("expected %d villagers, got %d", len(want), len(normalized.Villagers))
	}
	for i, name := range want {
		if normalized.Villagers[i].Name != name {
			t.Errorf("villager %d: expected %s, got %s", i, name, normalized.Villagers[i].Name)
		}
	}
}
