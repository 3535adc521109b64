package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/villagedex/internal/formatter"
	"github.com/desertthunder/villagedex/internal/models"
	"github.com/desertthunder/villagedex/internal/repositories"
	"github.com/desertthunder/villagedex/internal/shared"
	"github.com/desertthunder/villagedex/internal/state"
	"github.com/desertthunder/villagedex/internal/tasks"
	"github.com/desertthunder/villagedex/internal/villagers"
	"github.com/urfave/cli/v3"
)

// resolveVillager finds the villager named by the command's argument.
func (r *Runner) resolveVillager(ctx context.Context, cmd *cli.Command) (models.Record, error) {
	query := strings.TrimSpace(cmd.StringArg("villager"))
	if query == "" {
		return models.Record{}, fmt.Errorf("%w: villager name or id is required", shared.ErrMissingArgument)
	}

	catalog, err := r.loadCatalog(ctx)
	if err != nil {
		return models.Record{}, err
	}
	record, ok := catalog.Find(query)
	if !ok {
		return models.Record{}, fmt.Errorf("%w: %s", shared.ErrVillagerNotFound, query)
	}
	return record, nil
}

// CollectionHave marks a villager as owned.
func (r *Runner) CollectionHave(ctx context.Context, cmd *cli.Command) error {
	return r.addTo(ctx, cmd, models.StatusHave)
}

// CollectionWant adds a villager to the wishlist.
func (r *Runner) CollectionWant(ctx context.Context, cmd *cli.Command) error {
	return r.addTo(ctx, cmd, models.StatusWant)
}

func (r *Runner) addTo(ctx context.Context, cmd *cli.Command, status models.CollectionStatus) error {
	record, err := r.resolveVillager(ctx, cmd)
	if err != nil {
		return err
	}
	collection, err := r.loadCollection(ctx)
	if err != nil {
		return err
	}

	id, name := villagers.ID(record), villagers.Name(record)
	if status == models.StatusHave {
		err = collection.AddToHave(ctx, id, name)
	} else {
		err = collection.AddToWant(ctx, id, name)
	}
	if err != nil {
		return fmt.Errorf("failed to update collection: %w", err)
	}

	r.logger.Debug("collection updated", "villager", name, "status", status)
	return r.writePlain("✓ %s added to %s\n", name, status)
}

// CollectionRemove drops a villager from both lists.
func (r *Runner) CollectionRemove(ctx context.Context, cmd *cli.Command) error {
	record, err := r.resolveVillager(ctx, cmd)
	if err != nil {
		return err
	}
	collection, err := r.loadCollection(ctx)
	if err != nil {
		return err
	}

	id, name := villagers.ID(record), villagers.Name(record)
	if collection.Status(id) == "" {
		return r.writePlain("%s is not in your collection\n", name)
	}
	if err := collection.Remove(ctx, id); err != nil {
		return fmt.Errorf("failed to update collection: %w", err)
	}
	return r.writePlain("✓ %s removed\n", name)
}

// CollectionList prints the have and want lists in insertion order.
func (r *Runner) CollectionList(ctx context.Context, cmd *cli.Command) error {
	status := models.CollectionStatus(strings.ToLower(cmd.String("status")))
	if status != "" && !status.Valid() {
		return fmt.Errorf("%w: status must be have or want", shared.ErrInvalidFlag)
	}

	type list struct {
		status  models.CollectionStatus
		title   string
		entries []models.CollectionEntry
	}
	titles := map[models.CollectionStatus]string{models.StatusHave: "Have", models.StatusWant: "Want"}

	var lists []list
	if status != "" {
		db, err := r.store()
		if err != nil {
			return err
		}
		entries, err := repositories.NewCollectionRepository(db).ListByStatus(ctx, status)
		if err != nil {
			return fmt.Errorf("%w: %w", shared.ErrPersistence, err)
		}
		lists = []list{{status, titles[status], entries}}
	} else {
		collection, err := r.loadCollection(ctx)
		if err != nil {
			return err
		}
		lists = []list{
			{models.StatusHave, titles[models.StatusHave], collection.Have()},
			{models.StatusWant, titles[models.StatusWant], collection.Want()},
		}
	}

	if cmd.Bool("json") {
		out := map[models.CollectionStatus][]models.CollectionEntry{}
		for _, l := range lists {
			out[l.status] = l.entries
		}
		return r.writeJSON(out, cmd.Bool("pretty"))
	}

	for _, l := range lists {
		r.writePlainHeader(fmt.Sprintf("%s (%d)", l.title, len(l.entries)))
		if len(l.entries) == 0 {
			r.writePlain("(empty)\n")
		}
		for i, e := range l.entries {
			name := e.Name
			if name == "" {
				name = fmt.Sprintf("#%d", e.VillagerID)
			}
			r.writePlain("%2d. %s\n", i+1, name)
		}
	}
	return nil
}

// CollectionStats prints progress against the loaded roster.
func (r *Runner) CollectionStats(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.loadCatalog(ctx)
	if err != nil {
		return err
	}
	collection, err := r.loadCollection(ctx)
	if err != nil {
		return err
	}

	insights := state.Insights(collection, catalog.Records())
	if cmd.Bool("json") {
		return r.writeJSON(insights, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Collection Progress")
	r.writePlain("Have:    %d / %d (%d%%)\n", insights.HaveCount, insights.TotalVillagers, insights.HavePercentage)
	r.writePlain("Want:    %d (%d%%)\n", insights.WantCount, insights.WantPercentage)
	r.writePlain("Tracked: %d (%d%%)\n", insights.TotalTracked, insights.TrackedPercentage)
	r.writePlainln("Favourite species:     %s", insights.FavoriteSpecies)
	r.writePlain("Favourite personality: %s\n", insights.FavoritePersonality)
	r.writePlainln("%s", insights.Message)
	return nil
}

// CollectionExport writes the collection, or the whole roster with --roster,
// in the requested formats.
func (r *Runner) CollectionExport(ctx context.Context, cmd *cli.Command) error {
	var formats []formatter.Format
	for _, s := range cmd.StringSlice("format") {
		for _, part := range strings.Split(s, ",") {
			f, err := formatter.ParseFormat(part)
			if err != nil {
				return err
			}
			formats = append(formats, f)
		}
	}

	if cmd.Bool("lists") {
		collection, err := r.loadCollection(ctx)
		if err != nil {
			return err
		}
		return r.writeJSON(collection.Export(), true)
	}

	catalog, err := r.loadCatalog(ctx)
	if err != nil {
		return err
	}

	var export *formatter.Export
	if cmd.Bool("roster") {
		export = formatter.NewRosterExport("Villager Roster", villagers.SummarizeAll(catalog.Records()))
	} else {
		collection, err := r.loadCollection(ctx)
		if err != nil {
			return err
		}
		export = formatter.NewCollectionExport(
			summarizeIDs(catalog, collection.HaveIDs()),
			summarizeIDs(catalog, collection.WantIDs()),
		)
	}

	if cmd.Bool("stdout") {
		format := formatter.FormatJSON
		if len(formats) > 0 {
			format = formats[0]
		}
		data, err := formatter.Render(export, format)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	}

	progress := make(chan tasks.ProgressUpdate, len(formatter.Formats)+1)
	go func() {
		for update := range progress {
			r.logger.Info(update.Message, "step", update.Step, "total", update.Total)
		}
	}()

	result, err := tasks.BulkExport(ctx, progress, export, tasks.BulkExportOpts{
		Formats:   formats,
		OutputDir: cmd.String("output"),
	})
	close(progress)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	r.writePlainHeader(fmt.Sprintf("Exported %d villagers to %s", result.Villagers, result.OutputDirectory))
	for _, f := range result.Results {
		if f.Success {
			r.writePlain("✓ %-8s %s\n", f.Format, f.Path)
		} else {
			r.writePlain("✗ %-8s %s\n", f.Format, f.Error)
		}
	}
	r.writePlainln("Manifest: %s", result.ManifestPath)
	return nil
}

// summarizeIDs keeps list order. Ids missing from the roster are skipped.
func summarizeIDs(catalog *tasks.Catalog, ids []int64) []villagers.Summary {
	records := catalog.Records()
	out := make([]villagers.Summary, 0, len(ids))
	for _, id := range ids {
		if record, ok := villagers.FindByID(records, id); ok {
			out = append(out, villagers.Summarize(record))
		}
	}
	return out
}

// CollectionImport merges have/want id lists from a JSON file.
func (r *Runner) CollectionImport(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path to a JSON export is required", shared.ErrMissingArgument)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}
	var lists state.ImportLists
	if err := json.Unmarshal(data, &lists); err != nil {
		return fmt.Errorf("%w: failed to parse import file: %v", shared.ErrInvalidInput, err)
	}

	catalog, err := r.loadCatalog(ctx)
	if err != nil {
		return err
	}
	collection, err := r.loadCollection(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("replace") {
		if err := collection.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear collection: %w", err)
		}
	}

	n, err := collection.Import(ctx, lists, catalog.NameOf)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	stats := collection.Stats()
	r.logger.Info("collection imported", "entries", n, "path", path)
	return r.writePlain("✓ Imported %d entries (have %d, want %d)\n", n, stats.HaveCount, stats.WantCount)
}
