// submodule cmd contains command definitions
package main

import (
	"strings"

	"github.com/desertthunder/villagedex/internal/formatter"
	"github.com/urfave/cli/v3"
)

func outputFlags(prettyDefault bool) []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: prettyDefault,
		},
	}
}

func queryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "species", Usage: "Only this species"},
		&cli.StringFlag{Name: "personality", Usage: "Only this personality"},
		&cli.StringFlag{Name: "gender", Usage: "Only this gender"},
		&cli.StringFlag{Name: "hobby", Usage: "Only this hobby"},
		&cli.StringFlag{Name: "birthday", Usage: "Birthday contains this text, e.g. a month"},
		&cli.StringFlag{Name: "color", Usage: "Favourite colour"},
		&cli.StringFlag{
			Name:  "collection",
			Usage: "Collection filter (all, have, want, neither, either)",
			Value: "all",
		},
		&cli.BoolFlag{Name: "enhanced", Usage: "Only villagers with poster, gift or hobby data"},
		&cli.StringFlag{Name: "sort", Usage: "Sort by field (name, species, personality, birthday, ...)"},
		&cli.BoolFlag{Name: "desc", Usage: "Reverse the sort order"},
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"n"},
			Usage:   "Maximum number of villagers to return (0 for no limit)",
		},
	}
}

// setupCommand initializes the configuration file and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml if missing, initialize the database and run migrations",
		Action: r.Setup,
	}
}

// villagersCommand handles catalog browsing
func villagersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "villagers",
		Aliases: []string{"v"},
		Usage:   "Browse the villager catalog",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List villagers, optionally filtered and sorted",
				Flags:   append(queryFlags(), outputFlags(false)...),
				Action:  r.VillagersList,
			},
			{
				Name:  "search",
				Usage: "Search villagers by name, species or personality",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags: append(queryFlags(),
					append([]cli.Flag{
						&cli.BoolFlag{
							Name:  "rank",
							Usage: "Order by match quality (exact, prefix, contains)",
							Value: true,
						},
						&cli.BoolFlag{
							Name:  "fuzzy",
							Usage: "Typo-tolerant name matching",
						},
					}, outputFlags(false)...)...),
				Action: r.VillagersSearch,
			},
			{
				Name:  "show",
				Usage: "Show one villager by name or id",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "villager"},
				},
				Flags: append([]cli.Flag{
					&cli.BoolFlag{
						Name:  "render",
						Usage: "Render the detail card as styled markdown",
					},
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open the villager's wiki page in a browser",
					},
				}, outputFlags(true)...),
				Action: r.VillagersShow,
			},
			{
				Name:  "suggest",
				Usage: "Show search-box completions for a partial term",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "term"},
				},
				Flags: append([]cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of suggestions (default from config)",
					},
				}, outputFlags(false)...),
				Action: r.VillagersSuggest,
			},
			{
				Name:   "options",
				Usage:  "List the values available for each filter",
				Flags:  outputFlags(false),
				Action: r.VillagersOptions,
			},
			{
				Name:   "source",
				Usage:  "Show which data tier the roster was loaded from",
				Flags:  outputFlags(false),
				Action: r.VillagersSource,
			},
			{
				Name:  "validate",
				Usage: "Check a villager dataset file (or - for stdin) for missing and invalid fields",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags:  outputFlags(false),
				Action: r.VillagersValidate,
			},
		},
	}
}

// collectionCommand handles the have/want lists
func collectionCommand(r *Runner) *cli.Command {
	formats := make([]string, len(formatter.Formats))
	for i, f := range formatter.Formats {
		formats[i] = string(f)
	}

	return &cli.Command{
		Name:    "collection",
		Aliases: []string{"col"},
		Usage:   "Track the villagers you have and want",
		Commands: []*cli.Command{
			{
				Name:  "have",
				Usage: "Mark a villager as owned (removes it from want)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "villager"},
				},
				Action: r.CollectionHave,
			},
			{
				Name:  "want",
				Usage: "Add a villager to the wishlist (removes it from have)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "villager"},
				},
				Action: r.CollectionWant,
			},
			{
				Name:    "remove",
				Aliases: []string{"rm"},
				Usage:   "Remove a villager from both lists",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "villager"},
				},
				Action: r.CollectionRemove,
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List tracked villagers",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "status",
						Usage: "Only this list (have or want)",
					},
				}, outputFlags(false)...),
				Action: r.CollectionList,
			},
			{
				Name:   "stats",
				Usage:  "Show collection progress and favourites",
				Flags:  outputFlags(false),
				Action: r.CollectionStats,
			},
			{
				Name:  "export",
				Usage: "Export the collection to files",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Formats to write (" + strings.Join(formats, ", ") + "); default all",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory (default: villagedex_export_{epoch})",
					},
					&cli.BoolFlag{
						Name:  "roster",
						Usage: "Export the whole roster instead of the collection",
					},
					&cli.BoolFlag{
						Name:  "lists",
						Usage: "Print the have/want id lists in the format import reads",
					},
					&cli.BoolFlag{
						Name:  "stdout",
						Usage: "Write the first format to stdout instead of files",
					},
				},
				Action: r.CollectionExport,
			},
			{
				Name:  "import",
				Usage: "Merge have/want lists from a JSON export",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "replace",
						Usage: "Clear the collection before importing",
					},
				},
				Action: r.CollectionImport,
			},
		},
	}
}

// themeCommand reads and changes the persisted theme
func themeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "theme",
		Usage: "Show or change the colour theme",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Print the current theme",
				Action: r.ThemeShow,
			},
			{
				Name:  "set",
				Usage: "Set the theme (light or dark)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "theme"},
				},
				Action: r.ThemeSet,
			},
			{
				Name:   "toggle",
				Usage:  "Switch between light and dark",
				Action: r.ThemeToggle,
			},
		},
	}
}

// imagesCommand checks poster availability
func imagesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "images",
		Usage: "Poster image operations",
		Commands: []*cli.Command{
			{
				Name:  "check",
				Usage: "Check that every poster URL responds",
				Flags: append([]cli.Flag{
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent requests (default from config)",
					},
					&cli.BoolFlag{
						Name:  "broken",
						Usage: "Only list broken or missing posters",
					},
				}, outputFlags(false)...),
				Action: r.ImagesCheck,
			},
		},
	}
}

// serveCommand starts the local HTTP API.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the catalog and collection as a local JSON API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (default from config)",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Reload the roster when the bundled dataset file changes",
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command for interactive browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive villager browser",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Reload the roster when the bundled dataset file changes",
			},
		},
		Action: r.TUI,
	}
}
