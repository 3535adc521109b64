// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI moves between five views:
//  1. [LoadingView] : spinner and loader progress while the data tiers are tried
//  2. [ListView] : the roster with a debounced search box and have/want badges
//  3. [DetailView] : the villager card rendered by glamour
//  4. [FilterView] : cycle species, personality, gender, hobby, colour and enhanced-only filters
//  5. [StatsView] : collection insights and the data source summary
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Loader progress flows through a channel, and search edits schedule tea.Tick messages tagged with a
// sequence number so only the last keystroke of a burst filters the list.
//
// Keys: / search, enter details, h/w toggle have/want, c cycle the collection filter, f filters,
// s stats, t theme, esc back, q quit. Colours follow the persisted light/dark theme.
package ui
