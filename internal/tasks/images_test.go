package tasks

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/villagedex/internal/models"
	"github.com/desertthunder/villagedex/internal/villagers"
)

func TestCheckImages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("expected HEAD, got %s", r.Method)
		}
		if r.URL.Path == "/missing.png" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	records := villagers.CompatibleAll([]models.Villager{
		{Name: "Raymond", Species: "Cat", PosterImageURL: server.URL + "/raymond.png"},
		{Name: "Cyrano", Species: "Anteater"},
		{Name: "Judy", Species: "Bear cub", PosterImageURL: server.URL + "/missing.png"},
		{Name: "Ankha", Species: "Cat", PosterImageURL: server.URL + "/ankha.png"},
	})

	t.Run("Counts And Order", func(t *testing.T) {
		progress := make(chan ProgressUpdate, len(records))
		result, err := CheckImages(context.Background(), progress, records, ImageCheckOpts{
			Workers:   2,
			RateLimit: 1000,
			Client:    server.Client(),
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.Checked != 3 || result.Available != 2 || result.Broken != 1 || result.Missing != 1 {
			t.Errorf("unexpected totals %+v", result)
		}

		names := []string{"Raymond", "Cyrano", "Judy", "Ankha"}
		for i, n := range names {
			if result.Results[i].Name != n {
				t.Errorf("result %d: expected %s, got %s", i, n, result.Results[i].Name)
			}
		}
		if judy := result.Results[2]; judy.OK || judy.Status != http.StatusNotFound || judy.Err == "" {
			t.Errorf("expected Judy's poster to be broken, got %+v", judy)
		}
		if cyrano := result.Results[1]; cyrano.Status != 0 || cyrano.Err != "no image url" {
			t.Errorf("expected Cyrano to be skipped, got %+v", cyrano)
		}

		close(progress)
		n := 0
		for u := range progress {
			if u.Phase != CheckImage || u.Total != len(records) {
				t.Errorf("unexpected update %+v", u)
			}
			n++
		}
		if n != len(records) {
			t.Errorf("expected %d updates, got %d", len(records), n)
		}
	})

	t.Run("Cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := CheckImages(ctx, nil, records, ImageCheckOpts{Client: server.Client()})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("Unreachable Host", func(t *testing.T) {
		bad := villagers.CompatibleAll([]models.Villager{{Name: "Bob", Species: "Cat", PosterImageURL: "http://127.0.0.1:1/bob.png"}})
		result, err := CheckImages(context.Background(), nil, bad, ImageCheckOpts{RateLimit: 1000})
		if err != nil {
			t.Fatal(err)
		}
		if result.Broken != 1 || result.Results[0].Err == "" {
			t.Errorf("expected transport failure to be recorded, got %+v", result.Results[0])
		}
	})
}
