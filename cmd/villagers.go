package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/desertthunder/villagedex/internal/formatter"
	"github.com/desertthunder/villagedex/internal/models"
	"github.com/desertthunder/villagedex/internal/search"
	"github.com/desertthunder/villagedex/internal/shared"
	"github.com/desertthunder/villagedex/internal/tasks"
	"github.com/desertthunder/villagedex/internal/villagers"
	"github.com/urfave/cli/v3"
)

// villagerRow is one line of list and search output.
type villagerRow struct {
	villagers.Summary
	Collection models.CollectionStatus `json:"collection,omitempty"`
	Score      int                     `json:"score,omitempty"`
}

// queryFromFlags builds a listing query from the shared filter flags.
func queryFromFlags(cmd *cli.Command) (search.Query, error) {
	q := search.Query{
		Criteria: search.Criteria{
			Species:       cmd.String("species"),
			Personality:   cmd.String("personality"),
			Gender:        cmd.String("gender"),
			Hobby:         cmd.String("hobby"),
			Birthday:      cmd.String("birthday"),
			FavoriteColor: cmd.String("color"),
			EnhancedOnly:  cmd.Bool("enhanced"),
		},
		Desc:  cmd.Bool("desc"),
		Limit: cmd.Int("limit"),
	}

	var err error
	if q.Collection, err = models.ParseCollectionFilter(cmd.String("collection")); err != nil {
		return q, fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}
	if s := cmd.String("sort"); s != "" {
		if q.SortBy, err = villagers.ParseField(s); err != nil {
			return q, fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
		}
	}
	if q.Limit < 0 {
		return q, fmt.Errorf("%w: limit must not be negative", shared.ErrInvalidFlag)
	}
	return q, nil
}

// VillagersList lists the roster through the filter flags.
func (r *Runner) VillagersList(ctx context.Context, cmd *cli.Command) error {
	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}
	return r.runQuery(ctx, cmd, q, "Villagers")
}

// VillagersSearch matches the query argument against names, species and personalities.
func (r *Runner) VillagersSearch(ctx context.Context, cmd *cli.Command) error {
	term := strings.TrimSpace(cmd.StringArg("query"))
	if term == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}

	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}
	q.Search = term
	q.Fuzzy = cmd.Bool("fuzzy")
	q.Ranked = cmd.Bool("rank") && !q.Fuzzy
	if q.Limit == 0 {
		q.Limit = r.config.Search.MaxResults
	}

	return r.runQuery(ctx, cmd, q, fmt.Sprintf("Search: %q", term))
}

func (r *Runner) runQuery(ctx context.Context, cmd *cli.Command, q search.Query, title string) error {
	catalog, err := r.loadCatalog(ctx)
	if err != nil {
		return err
	}
	collection, err := r.loadCollection(ctx)
	if err != nil {
		return err
	}

	hits := q.Run(catalog.Records(), collection)
	rows := make([]villagerRow, len(hits))
	for i, h := range hits {
		s := villagers.Summarize(h.Record)
		rows[i] = villagerRow{Summary: s, Collection: collection.Status(s.ID), Score: h.Score}
	}

	if cmd.Bool("json") {
		return r.writeJSON(rows, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("%s (%d of %d)", title, len(rows), len(catalog.Records())))
	if len(rows) == 0 {
		return r.writePlain("No villagers match.\n")
	}
	for _, row := range rows {
		r.writePlain("%s %-14s %-12s %-11s %-8s %s\n",
			marker(row.Collection), row.Name, row.Species, row.Personality, row.DisplayGender, row.Birthday)
	}
	return nil
}

func marker(status models.CollectionStatus) string {
	switch status {
	case models.StatusHave:
		return "✓"
	case models.StatusWant:
		return "♥"
	}
	return " "
}

// VillagersShow prints one villager's detail card.
func (r *Runner) VillagersShow(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(cmd.StringArg("villager"))
	if query == "" {
		return fmt.Errorf("%w: villager name or id is required", shared.ErrMissingArgument)
	}

	catalog, err := r.loadCatalog(ctx)
	if err != nil {
		return err
	}
	record, ok := catalog.Find(query)
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrVillagerNotFound, query)
	}
	summary := villagers.Summarize(record)

	if cmd.Bool("open") {
		url := summary.PageURL
		if url == "" {
			url = summary.ImageURL
		}
		r.logger.Info("opening browser", "villager", summary.Name, "url", url)
		if err := shared.OpenBrowser(url); err != nil {
			return fmt.Errorf("failed to open browser: %w", err)
		}
	}

	if cmd.Bool("json") {
		collection, err := r.loadCollection(ctx)
		if err != nil {
			return err
		}
		return r.writeJSON(villagerRow{Summary: summary, Collection: collection.Status(summary.ID)}, cmd.Bool("pretty"))
	}

	card := formatter.DetailCard(summary)
	if !cmd.Bool("render") {
		return r.writePlain("%s", card)
	}

	style := "light"
	if theme, err := r.loadTheme(ctx); err == nil && theme.IsDark() {
		style = "dark"
	}
	renderer, err := glamour.NewTermRenderer(glamour.WithStandardStyle(style), glamour.WithWordWrap(80))
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := renderer.Render(card)
	if err != nil {
		return fmt.Errorf("failed to render card: %w", err)
	}
	return r.writePlain("%s", out)
}

// VillagersSuggest prints completions for a partial term.
func (r *Runner) VillagersSuggest(ctx context.Context, cmd *cli.Command) error {
	term := cmd.StringArg("term")
	limit := cmd.Int("limit")
	if limit <= 0 {
		limit = r.config.Search.MaxSuggestions
	}

	catalog, err := r.loadCatalog(ctx)
	if err != nil {
		return err
	}
	suggestions := catalog.Index().Suggest(term, limit)
	if suggestions == nil {
		suggestions = []search.Suggestion{}
	}

	if cmd.Bool("json") {
		return r.writeJSON(suggestions, cmd.Bool("pretty"))
	}
	if len(suggestions) == 0 {
		return r.writePlain("No suggestions (terms need at least %d characters).\n", search.MinSuggestLength)
	}
	for _, s := range suggestions {
		if s.Count > 0 {
			r.writePlain("%s %s (%d)\n", s.Kind.Icon(), s.Value, s.Count)
		} else {
			r.writePlain("%s %s\n", s.Kind.Icon(), s.Value)
		}
	}
	return nil
}

// VillagersOptions lists filter values found in the roster.
func (r *Runner) VillagersOptions(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.loadCatalog(ctx)
	if err != nil {
		return err
	}
	opts := search.Options(catalog.Records())

	if cmd.Bool("json") {
		return r.writeJSON(opts, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Filter Options")
	for _, dim := range []struct {
		label  string
		values []string
	}{
		{"Species", opts.Species},
		{"Personality", opts.Personality},
		{"Gender", opts.Gender},
		{"Hobby", opts.Hobby},
		{"Favourite colours", opts.FavoriteColors},
	} {
		r.writePlain("%s: %s\n", dim.label, strings.Join(dim.values, ", "))
	}
	return nil
}

// VillagersSource reports the data tier, stats and integrity of the loaded roster.
func (r *Runner) VillagersSource(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.loadCatalog(ctx)
	if err != nil {
		return err
	}
	result := catalog.Result()
	info := tasks.SourceInfo(result.Source, result.Stats)

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"source":    result.Source,
			"format":    result.Format,
			"message":   result.Message,
			"stats":     result.Stats,
			"integrity": result.Integrity,
			"skipped":   result.Skipped,
			"info":      info,
		}, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("%s %s", info.Icon, info.Title))
	r.writePlain("%s\n", info.Description)
	for _, f := range info.Features {
		r.writePlain("  • %s\n", f)
	}
	r.writePlainln("Format: %s, quality: %s, skipped: %d", result.Format, info.Quality, result.Skipped)
	if result.Integrity.HasWarnings {
		r.writePlain("Integrity: %.1f%% valid\n", result.Integrity.ValidPercentage)
		for _, issue := range result.Integrity.Issues {
			r.writePlain("  ! %s\n", issue)
		}
	}
	return nil
}

// VillagersValidate normalizes a dataset file and reports every villager
// missing a required field or carrying an unknown gender or personality.
func (r *Runner) VillagersValidate(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path to a dataset file (or - for stdin) is required", shared.ErrMissingArgument)
	}

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(r.input)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read dataset: %w", err)
	}

	report, err := villagers.ValidateDataset(data)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		if err := r.writeJSON(report, cmd.Bool("pretty")); err != nil {
			return err
		}
	} else {
		r.writePlainHeader(fmt.Sprintf("Dataset: %d villagers (%s format), %d skipped", report.Count, report.Format, report.Skipped))
		for _, issue := range report.Issues {
			for _, p := range issue.Problems {
				r.writePlain("Villager %d (%s): %s\n", issue.Index, issue.Name, p)
			}
		}
		if report.Valid() {
			r.writePlain("✓ All villagers are valid\n")
		}
	}

	switch {
	case report.Count == 0:
		return fmt.Errorf("%w: no usable villagers", shared.ErrInvalidDataset)
	case !report.Valid():
		return fmt.Errorf("%w: %d of %d villagers failed validation", shared.ErrInvalidDataset, len(report.Issues), report.Count)
	}
	return nil
}
