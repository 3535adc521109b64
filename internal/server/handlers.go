package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/villagedex/internal/models"
	"github.com/desertthunder/villagedex/internal/search"
	"github.com/desertthunder/villagedex/internal/shared"
	"github.com/desertthunder/villagedex/internal/state"
	"github.com/desertthunder/villagedex/internal/tasks"
	"github.com/desertthunder/villagedex/internal/villagers"
)

const maxDatasetBytes = 8 << 20

// API holds the handlers for the catalog, collection and theme endpoints.
type API struct {
	catalog        *tasks.Catalog
	collection     *state.Collection
	theme          *state.Theme
	logger         *log.Logger
	maxSuggestions int
}

// Register adds every API route to r.
func (a *API) Register(r Router) {
	r.Handle(http.MethodGet, "/villagers", http.HandlerFunc(a.listVillagers))
	r.Handle(http.MethodGet, "/villagers/{id}", http.HandlerFunc(a.getVillager))
	r.Handle(http.MethodGet, "/suggest", http.HandlerFunc(a.suggest))
	r.Handle(http.MethodGet, "/options", http.HandlerFunc(a.options))
	r.Handle(http.MethodGet, "/source", http.HandlerFunc(a.source))
	r.Handle(http.MethodGet, "/collection", http.HandlerFunc(a.getCollection))
	r.Handle(http.MethodPost, "/collection/{id}/have", a.addTo(models.StatusHave))
	r.Handle(http.MethodPost, "/collection/{id}/want", a.addTo(models.StatusWant))
	r.Handle(http.MethodDelete, "/collection/{id}", http.HandlerFunc(a.removeFromCollection))
	r.Handle(http.MethodGet, "/stats", http.HandlerFunc(a.stats))
	r.Handle(http.MethodGet, "/theme", http.HandlerFunc(a.getTheme))
	r.Handle(http.MethodPut, "/theme", http.HandlerFunc(a.setTheme))
	r.Handle(http.MethodPost, "/theme/toggle", http.HandlerFunc(a.toggleTheme))
	r.Handle(http.MethodPost, "/validate", http.HandlerFunc(a.validate))
}

// VillagerView is a villager summary annotated for one listing.
type VillagerView struct {
	villagers.Summary
	Collection models.CollectionStatus `json:"collection,omitempty"`
	Score      int                     `json:"score,omitempty"`
}

// ListResponse is the body of GET /villagers.
type ListResponse struct {
	Count     int            `json:"count"`
	Total     int            `json:"total"`
	Query     search.Query   `json:"query"`
	Villagers []VillagerView `json:"villagers"`
}

// EntryView is one collection entry as served.
type EntryView struct {
	ID     int64                   `json:"id"`
	Name   string                  `json:"name"`
	Status models.CollectionStatus `json:"status"`
}

// CollectionResponse is the body of GET /collection.
type CollectionResponse struct {
	Have  []EntryView `json:"have"`
	Want  []EntryView `json:"want"`
	Stats state.Stats `json:"stats"`
}

// ThemeResponse is the body of the theme endpoints.
type ThemeResponse struct {
	Theme models.Theme `json:"theme"`
}

// ParseQuery reads a listing query from URL parameters.
func ParseQuery(values url.Values) (search.Query, error) {
	q := search.Query{
		Criteria: search.Criteria{
			Search:        values.Get("q"),
			Species:       values.Get("species"),
			Personality:   values.Get("personality"),
			Gender:        values.Get("gender"),
			Hobby:         values.Get("hobby"),
			Birthday:      values.Get("birthday"),
			FavoriteColor: values.Get("color"),
		},
	}

	var err error
	if q.Collection, err = models.ParseCollectionFilter(values.Get("collection")); err != nil {
		return q, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	if s := values.Get("sort"); s != "" {
		if q.SortBy, err = villagers.ParseField(s); err != nil {
			return q, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
		}
	}

	flags := []struct {
		key string
		dst *bool
	}{
		{"enhanced", &q.EnhancedOnly},
		{"desc", &q.Desc},
		{"rank", &q.Ranked},
		{"fuzzy", &q.Fuzzy},
	}
	for _, f := range flags {
		if *f.dst, err = parseBool(values.Get(f.key)); err != nil {
			return q, fmt.Errorf("%w: %s: %v", shared.ErrInvalidArgument, f.key, err)
		}
	}

	if s := values.Get("limit"); s != "" {
		if q.Limit, err = strconv.Atoi(s); err != nil || q.Limit < 0 {
			return q, fmt.Errorf("%w: limit must be a non-negative integer", shared.ErrInvalidArgument)
		}
	}
	return q, nil
}

func parseBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}

func (a *API) listVillagers(w http.ResponseWriter, r *http.Request) {
	q, err := ParseQuery(r.URL.Query())
	if err != nil {
		writeErr(w, err)
		return
	}

	records := a.catalog.Records()
	hits := q.Run(records, a.collection)

	views := make([]VillagerView, len(hits))
	for i, h := range hits {
		views[i] = a.view(h.Record)
		views[i].Score = h.Score
	}
	writeJSON(w, http.StatusOK, ListResponse{Count: len(views), Total: len(records), Query: q, Villagers: views})
}

func (a *API) view(r models.Record) VillagerView {
	s := villagers.Summarize(r)
	return VillagerView{Summary: s, Collection: a.collection.Status(s.ID)}
}

func (a *API) getVillager(w http.ResponseWriter, r *http.Request) {
	record, ok := a.catalog.Find(r.PathValue("id"))
	if !ok {
		writeErr(w, fmt.Errorf("%w: %s", shared.ErrVillagerNotFound, r.PathValue("id")))
		return
	}
	writeJSON(w, http.StatusOK, a.view(record))
}

func (a *API) suggest(w http.ResponseWriter, r *http.Request) {
	limit := a.maxSuggestions
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeErr(w, fmt.Errorf("%w: limit must be a non-negative integer", shared.ErrInvalidArgument))
			return
		}
		limit = n
	}

	suggestions := a.catalog.Index().Suggest(r.URL.Query().Get("q"), limit)
	if suggestions == nil {
		suggestions = []search.Suggestion{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}

func (a *API) options(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, search.Options(a.catalog.Records()))
}

func (a *API) source(w http.ResponseWriter, r *http.Request) {
	result := a.catalog.Result()
	writeJSON(w, http.StatusOK, map[string]any{
		"source":    result.Source,
		"format":    result.Format,
		"message":   result.Message,
		"stats":     result.Stats,
		"integrity": result.Integrity,
		"skipped":   result.Skipped,
		"info":      tasks.SourceInfo(result.Source, result.Stats),
	})
}

func entryViews(entries []models.CollectionEntry) []EntryView {
	out := make([]EntryView, len(entries))
	for i, e := range entries {
		out[i] = EntryView{ID: e.VillagerID, Name: e.Name, Status: e.Status}
	}
	return out
}

func (a *API) getCollection(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CollectionResponse{
		Have:  entryViews(a.collection.Have()),
		Want:  entryViews(a.collection.Want()),
		Stats: a.collection.Stats(),
	})
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: villager id %q", shared.ErrInvalidArgument, r.PathValue("id"))
	}
	return id, nil
}

func (a *API) addTo(status models.CollectionStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeErr(w, err)
			return
		}
		name := a.catalog.NameOf(id)
		if name == "" {
			writeErr(w, fmt.Errorf("%w: %d", shared.ErrVillagerNotFound, id))
			return
		}

		add := a.collection.AddToHave
		if status == models.StatusWant {
			add = a.collection.AddToWant
		}
		if err := add(r.Context(), id, name); err != nil {
			writeErr(w, err)
			return
		}
		a.logger.Debug("collection updated", "id", id, "status", status, "request_id", RequestID(r.Context()))
		writeJSON(w, http.StatusOK, EntryView{ID: id, Name: name, Status: status})
	}
}

func (a *API) removeFromCollection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	if err := a.collection.Remove(r.Context(), id); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, state.Insights(a.collection, a.catalog.Records()))
}

func (a *API) getTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ThemeResponse{Theme: a.theme.Current()})
}

func (a *API) setTheme(w http.ResponseWriter, r *http.Request) {
	var body ThemeResponse
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10)).Decode(&body); err != nil {
		writeErr(w, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err))
		return
	}
	if err := a.theme.Set(r.Context(), body.Theme); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ThemeResponse{Theme: a.theme.Current()})
}

func (a *API) toggleTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := a.theme.Toggle(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ThemeResponse{Theme: theme})
}

// validate checks a posted dataset. Invalid villagers still answer 200; the
// report lists them.
func (a *API) validate(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDatasetBytes))
	if err != nil {
		writeErr(w, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err))
		return
	}
	report, err := villagers.ValidateDataset(data)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// statusFor maps a sentinel error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrVillagerNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrInvalidArgument),
		errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrInvalidDataset),
		errors.Is(err, shared.ErrInvalidTheme),
		errors.Is(err, shared.ErrInvalidFlag):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeErr(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := shared.MarshalJSON(v, false)
	if err != nil {
		http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(data, '\n'))
}
