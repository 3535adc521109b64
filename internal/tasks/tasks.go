// package tasks implements the long-running operations behind the catalog: tiered loading, image checks, dataset watching and bulk export.
//
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/villagedex/internal/models"
	"github.com/desertthunder/villagedex/internal/services"
	"github.com/desertthunder/villagedex/internal/shared"
	"github.com/desertthunder/villagedex/internal/villagers"
)

// Stats counts how much enhanced data a loaded roster carries.
type Stats struct {
	TotalVillagers      int `json:"total_villagers"`
	WithPosterImages    int `json:"with_poster_images"`
	WithGiftPreferences int `json:"with_gift_preferences"`
	WithHobbies         int `json:"with_hobbies"`
}

// Integrity is the outcome of [ValidateIntegrity].
type Integrity struct {
	Valid           bool     `json:"valid"`
	Issues          []string `json:"issues"`
	HasWarnings     bool     `json:"has_warnings"`
	Total           int      `json:"total"`
	MissingNames    int      `json:"missing_names"`
	ValidPercentage float64  `json:"valid_percentage"`
}

// LoadResult is the roster produced by [Loader.Load].
type LoadResult struct {
	Records   []models.Record `json:"-"`
	Source    models.Source   `json:"source"`
	Format    models.Format   `json:"format"`
	Message   string          `json:"message,omitempty"`
	Stats     Stats           `json:"stats"`
	Integrity Integrity       `json:"integrity"`
	Skipped   int             `json:"skipped"`
}

// Loader falls through data tiers until one yields a usable roster.
type Loader struct {
	tiers  []services.Source
	logger *log.Logger
}

// LoaderOpts configures a [Loader]. A nil API source skips that tier; a nil
// sample source uses the built-in sample.
type LoaderOpts struct {
	Bundled services.Source
	API     services.Source
	Sample  services.Source
	Logger  *log.Logger
}

// NewLoader creates a new Loader with the tiers in priority order.
func NewLoader(opts LoaderOpts) *Loader {
	if opts.Sample == nil {
		opts.Sample = services.NewSampleSource()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	var tiers []services.Source
	for _, s := range []services.Source{opts.Bundled, opts.API, opts.Sample} {
		if s != nil {
			tiers = append(tiers, s)
		}
	}
	return &Loader{tiers: tiers, logger: opts.Logger}
}

// Load tries each tier in order. A tier that errors, is empty or fails the
// shape check falls through to the next. Load only fails when every tier does
// or ctx is cancelled.
func (l *Loader) Load(ctx context.Context, progress chan<- ProgressUpdate) (*LoadResult, error) {
	var errs []error
	for i, src := range l.tiers {
		kind := src.Kind()
		sendProgress(progress, tryingTierUpdate(i+1, len(l.tiers), kind))

		normalized, err := l.fetch(ctx, src)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			l.logger.Warn("data tier unavailable", "source", kind, "error", err)
			sendProgress(progress, tierFailedUpdate(i+1, len(l.tiers), kind, err))
			errs = append(errs, fmt.Errorf("%s: %w", kind, err))
			continue
		}

		sendProgress(progress, normalizeUpdate(len(normalized.Villagers), normalized.Format))

		records := villagers.CompatibleAll(normalized.Villagers)
		result := &LoadResult{
			Records:   records,
			Source:    kind,
			Format:    normalized.Format,
			Message:   sourceMessage(kind),
			Stats:     ComputeStats(records),
			Integrity: ValidateIntegrity(records, kind),
			Skipped:   normalized.Skipped,
		}
		sendProgress(progress, validateUpdate(result.Integrity))

		l.logger.Info("loaded villagers", "source", kind, "format", result.Format, "count", len(records), "skipped", normalized.Skipped)
		return result, nil
	}

	return &LoadResult{Source: models.SourceError, Format: models.FormatNew, Message: sourceMessage(models.SourceError)},
		fmt.Errorf("%w: %w", shared.ErrNoData, errors.Join(errs...))
}

func (l *Loader) fetch(ctx context.Context, src services.Source) (villagers.Normalized, error) {
	raw, err := src.Fetch(ctx)
	if err != nil {
		return villagers.Normalized{}, err
	}
	if len(raw) == 0 {
		return villagers.Normalized{}, fmt.Errorf("%w: dataset is empty", shared.ErrInvalidDataset)
	}

	normalized := villagers.Normalize(raw)
	if len(normalized.Villagers) == 0 {
		return normalized, fmt.Errorf("%w: no usable villagers", shared.ErrInvalidDataset)
	}
	if first := normalized.Villagers[0]; first.Name == "" || first.Species == "" {
		return normalized, fmt.Errorf("%w: first villager is missing name or species", shared.ErrMissingField)
	}
	return normalized, nil
}

func sourceMessage(kind models.Source) string {
	switch kind {
	case models.SourceAPI:
		return "✨ Using basic API data. Enhanced features may be limited."
	case models.SourceSample:
		return "Using enhanced sample data (APIs temporarily unavailable)"
	case models.SourceError:
		return "Failed to load villager data. Check the data settings and try again."
	default:
		return ""
	}
}

// ComputeStats counts enhanced fields across records.
func ComputeStats(records []models.Record) Stats {
	stats := Stats{TotalVillagers: len(records)}
	for _, r := range records {
		if villagers.ImageURL(r) != "" {
			stats.WithPosterImages++
		}
		if gifts := villagers.FavoriteGifts(r); len(gifts.Styles) > 0 || len(gifts.Colors) > 0 {
			stats.WithGiftPreferences++
		}
		if villagers.Hobby(r) != "" {
			stats.WithHobbies++
		}
	}
	return stats
}

// missingNameThreshold is the share of nameless villagers that raises a warning.
const missingNameThreshold = 0.1

// ValidateIntegrity checks a roster for structural problems.
func ValidateIntegrity(records []models.Record, source models.Source) Integrity {
	result := Integrity{Issues: []string{}, Total: len(records)}
	if len(records) == 0 {
		result.Issues = append(result.Issues, "No villager data found")
		return result
	}

	first := records[0]
	required := []struct {
		field string
		value string
	}{
		{"name", rawName(first)},
		{"species", villagers.Species(first)},
		{"personality", villagers.Personality(first)},
	}
	for _, r := range required {
		if r.value == "" {
			result.Issues = append(result.Issues, fmt.Sprintf("Missing required field: %s", r.field))
		}
	}

	for _, r := range records {
		if rawName(r) == "" {
			result.MissingNames++
		}
	}
	if result.MissingNames > 0 {
		result.Issues = append(result.Issues, fmt.Sprintf("%d villagers have missing or invalid names", result.MissingNames))
	}

	if source == models.SourceReal {
		enhanced := 0
		for _, r := range records {
			if villagers.ImageURL(r) != "" || villagers.Hobby(r) != "" {
				enhanced++
			}
		}
		if enhanced == 0 {
			result.Issues = append(result.Issues, "Real data source lacks enhanced features")
		}
	}

	result.Valid = len(result.Issues) == 0
	result.HasWarnings = float64(result.MissingNames) > float64(len(records))*missingNameThreshold
	valid := float64(len(records)-result.MissingNames) / float64(len(records)) * 100
	result.ValidPercentage = math.Round(valid*10) / 10
	return result
}

// rawName is the stored name without the accessor's placeholder.
func rawName(r models.Record) string {
	if name := villagers.Name(r); name != villagers.UnknownName {
		return name
	}
	return ""
}

// DataSourceInfo describes a source for display.
type DataSourceInfo struct {
	Icon        string   `json:"icon"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	Quality     string   `json:"quality"`
}

// SourceInfo describes where the roster came from.
func SourceInfo(source models.Source, stats Stats) DataSourceInfo {
	switch source {
	case models.SourceReal:
		return DataSourceInfo{
			Icon:        "🎉",
			Title:       "Complete Database",
			Description: fmt.Sprintf("Using comprehensive ACNH database with all %d villagers", stats.TotalVillagers),
			Features: []string{
				fmt.Sprintf("%d poster images", stats.WithPosterImages),
				fmt.Sprintf("%d gift preferences", stats.WithGiftPreferences),
				fmt.Sprintf("%d hobby data", stats.WithHobbies),
				"Enhanced search capabilities",
				"Rich detail views",
			},
			Quality: "premium",
		}
	case models.SourceAPI:
		return DataSourceInfo{
			Icon:        "✨",
			Title:       "Basic API Data",
			Description: fmt.Sprintf("Using official ACNH API with %d villagers", stats.TotalVillagers),
			Features:    []string{"Basic villager information", "Standard search functionality", "Limited enhanced features"},
			Quality:     "standard",
		}
	case models.SourceSample:
		return DataSourceInfo{
			Icon:        "ℹ️",
			Title:       "Sample Data",
			Description: fmt.Sprintf("Using sample data with %d villagers for demonstration", stats.TotalVillagers),
			Features:    []string{"Basic functionality", "Limited villager set", "Offline capability"},
			Quality:     "demo",
		}
	default:
		return DataSourceInfo{
			Icon:        "⚠️",
			Title:       "No Data",
			Description: "Unable to load villager data",
			Features:    []string{},
			Quality:     "error",
		}
	}
}
