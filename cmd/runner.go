package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/villagedex/internal/repositories"
	"github.com/desertthunder/villagedex/internal/services"
	"github.com/desertthunder/villagedex/internal/shared"
	"github.com/desertthunder/villagedex/internal/state"
	"github.com/desertthunder/villagedex/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	httpClient *http.Client
	logger     *log.Logger
	input      io.Reader
	output     io.Writer

	db         *sql.DB
	catalog    *tasks.Catalog
	collection *state.Collection
	theme      *state.Theme
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	HTTPClient *http.Client
	Logger     *log.Logger
	Input      io.Reader
	Output     io.Writer
	// DB replaces the configured database, mainly for tests.
	DB *sql.DB
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		input:      opts.Input,
		output:     opts.Output,
		db:         opts.DB,
	}
}

// SetLogger replaces the logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, villagersCommand, collectionCommand, themeCommand, imagesCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// before re-resolves the configuration when --config is given and applies the log level.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.IsSet("config") {
		config, err := shared.ResolveConfig(cmd.String("config"))
		if err != nil {
			return ctx, err
		}
		r.config = config
		r.configPath = cmd.String("config")
	}

	level := r.config.Log.Level
	if cmd.IsSet("log-level") {
		level = cmd.String("log-level")
	}
	if err := shared.ApplyLogLevel(r.logger, level); err != nil {
		return ctx, err
	}
	return ctx, nil
}

func (r *Runner) after(ctx context.Context, cmd *cli.Command) error {
	return r.Close()
}

// Close releases the database handle if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// store opens the configured database on first use.
func (r *Runner) store() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	r.logger.Debug("opening database", "path", r.config.Database.Path)
	db, err := shared.OpenStore(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrPersistence, err)
	}
	r.db = db
	return db, nil
}

// loader builds the tiered loader from the data config. The API tier is left
// out when disabled or unset.
func (r *Runner) loader() *tasks.Loader {
	opts := tasks.LoaderOpts{
		Bundled: services.NewBundledSource(r.config.Data.BundledPath),
		Logger:  r.logger,
	}
	if !r.config.Data.DisableAPI && r.config.Data.APIURL != "" {
		opts.API = services.NewAPISource(r.config.Data.APIURL, r.httpClient, r.config.Data.APITimeout())
	}
	return tasks.NewLoader(opts)
}

// loadCatalog loads the roster once per invocation.
func (r *Runner) loadCatalog(ctx context.Context) (*tasks.Catalog, error) {
	if r.catalog != nil {
		return r.catalog, nil
	}

	result, err := r.loader().Load(ctx, nil)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("roster loaded", "source", result.Source, "villagers", len(result.Records))
	r.catalog = tasks.NewCatalog(result)
	return r.catalog, nil
}

func (r *Runner) loadCollection(ctx context.Context) (*state.Collection, error) {
	if r.collection != nil {
		return r.collection, nil
	}

	db, err := r.store()
	if err != nil {
		return nil, err
	}
	r.collection = state.NewCollection(ctx, repositories.NewCollectionRepository(db), r.logger)
	return r.collection, nil
}

func (r *Runner) loadTheme(ctx context.Context) (*state.Theme, error) {
	if r.theme != nil {
		return r.theme, nil
	}

	db, err := r.store()
	if err != nil {
		return nil, err
	}
	r.theme = state.NewTheme(ctx, repositories.NewPreferenceRepository(db), r.logger)
	return r.theme, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
