package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/villagedex/internal/models"
	"github.com/desertthunder/villagedex/internal/shared"
	"github.com/urfave/cli/v3"
)

// ThemeShow prints the current theme.
func (r *Runner) ThemeShow(ctx context.Context, cmd *cli.Command) error {
	theme, err := r.loadTheme(ctx)
	if err != nil {
		return err
	}
	return r.writePlain("%s\n", theme.Current())
}

// ThemeSet stores light or dark.
func (r *Runner) ThemeSet(ctx context.Context, cmd *cli.Command) error {
	value := strings.ToLower(strings.TrimSpace(cmd.StringArg("theme")))
	if value == "" {
		return fmt.Errorf("%w: theme (light or dark) is required", shared.ErrMissingArgument)
	}
	next, ok := models.ParseTheme(value)
	if !ok {
		return fmt.Errorf("%w: %q, expected light or dark", shared.ErrInvalidTheme, value)
	}

	theme, err := r.loadTheme(ctx)
	if err != nil {
		return err
	}
	if err := theme.Set(ctx, next); err != nil {
		return err
	}
	return r.writePlain("✓ Theme set to %s\n", next)
}

// ThemeToggle switches between light and dark.
func (r *Runner) ThemeToggle(ctx context.Context, cmd *cli.Command) error {
	theme, err := r.loadTheme(ctx)
	if err != nil {
		return err
	}
	next, err := theme.Toggle(ctx)
	if err != nil {
		return err
	}
	return r.writePlain("✓ Theme set to %s\n", next)
}
