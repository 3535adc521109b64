package state

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/villagedex/internal/models"
	"github.com/desertthunder/villagedex/internal/shared"
)

// ThemeKey is the preference key holding the theme.
const ThemeKey = "acnh-theme"

// PreferenceStore persists string preferences.
type PreferenceStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// detectDark reports whether the terminal background is dark.
var detectDark = lipgloss.HasDarkBackground

// Theme is the persisted light/dark setting.
type Theme struct {
	mu      sync.RWMutex
	store   PreferenceStore
	current models.Theme
}

// NewTheme reads the stored theme. A missing, unreadable or invalid value
// falls back to the terminal background.
func NewTheme(ctx context.Context, store PreferenceStore, logger *log.Logger) *Theme {
	if logger == nil {
		logger = log.Default()
	}
	t := &Theme{store: store, current: DetectTheme()}
	if store == nil {
		return t
	}

	value, ok, err := store.Get(ctx, ThemeKey)
	switch {
	case err != nil:
		logger.Warn("failed to read theme preference", "error", err)
	case ok:
		if theme, valid := models.ParseTheme(value); valid {
			t.current = theme
		} else {
			logger.Debug("ignoring invalid theme preference", "value", value)
		}
	}
	return t
}

// DetectTheme derives a theme from the terminal background.
func DetectTheme() models.Theme {
	if detectDark() {
		return models.ThemeDark
	}
	return models.ThemeLight
}

func (t *Theme) Current() models.Theme {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

func (t *Theme) IsDark() bool { return t.Current() == models.ThemeDark }

// Set persists and applies theme.
func (t *Theme) Set(ctx context.Context, theme models.Theme) error {
	if _, ok := models.ParseTheme(string(theme)); !ok {
		return fmt.Errorf("%w: %q", shared.ErrInvalidTheme, theme)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.set(ctx, theme)
}

func (t *Theme) set(ctx context.Context, theme models.Theme) error {
	if t.store != nil {
		if err := t.store.Set(ctx, ThemeKey, string(theme)); err != nil {
			return fmt.Errorf("%w: %w", shared.ErrPersistence, err)
		}
	}
	t.current = theme
	return nil
}

// Toggle switches light and dark and returns the new theme.
func (t *Theme) Toggle(ctx context.Context) (models.Theme, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.current.Toggle()
	if err := t.set(ctx, next); err != nil {
		return t.current, err
	}
	return next, nil
}
