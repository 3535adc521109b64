package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/desertthunder/villagedex/internal/state"
	"github.com/desertthunder/villagedex/internal/tasks"
	"github.com/desertthunder/villagedex/internal/villagers"
)

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != LoadingView {
		return m.palette.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case LoadingView:
		return m.renderLoading()
	case ListView:
		return m.renderList()
	case DetailView:
		return m.renderDetailView()
	case FilterView:
		return m.renderFilters()
	case StatsView:
		return m.renderStatsView()
	default:
		return ""
	}
}

func (m *Model) renderLoading() string {
	title := m.palette.title.Render("🏝  villagedex")

	phase := "Starting…"
	if m.progress.Message != "" {
		phase = m.progress.Message
	}
	return fmt.Sprintf("%s\n\n%s Loading villagers: %s\n", title, m.spinner.View(), phase)
}

func (m *Model) renderList() string {
	var b strings.Builder

	result := m.catalog.Result()
	info := tasks.SourceInfo(result.Source, result.Stats)
	header := fmt.Sprintf("%s %s", info.Icon, info.Title)
	if m.reloading {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}
	b.WriteString(m.palette.help.Render(header))
	b.WriteString("\n")

	if m.searching || m.input.Value() != "" {
		b.WriteString(m.input.View())
	} else {
		b.WriteString(m.palette.help.Render(m.activeFilters()))
	}
	b.WriteString("\n\n")

	b.WriteString(m.list.View())
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(m.status)
	}
	b.WriteString("\n")

	bindings := []key.Binding{m.keys.search, m.keys.enter, m.keys.have, m.keys.want, m.keys.collection, m.keys.filter, m.keys.stats, m.keys.theme, m.keys.quit}
	if m.searching {
		enter := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply"))
		discard := key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear"))
		bindings = []key.Binding{enter, discard}
	}
	b.WriteString(m.help.ShortHelpView(bindings))
	return b.String()
}

// activeFilters summarises the query for the list header.
func (m *Model) activeFilters() string {
	parts := []string{fmt.Sprintf("collection: %s", m.query.Collection)}
	for _, d := range m.filterDims() {
		if *d.field != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", strings.ToLower(d.label), *d.field))
		}
	}
	return strings.Join(parts, " • ")
}

func (m *Model) renderDetailView() string {
	header := m.palette.accent.Render("Villager")
	bubble := ""
	if r, ok := villagers.FindByID(m.catalog.Records(), m.detailID); ok {
		header = cardStyle(r).Render(villagers.Name(r))
		if badge := m.palette.badge(m.collection.Status(m.detailID)); badge != "" {
			header = fmt.Sprintf("%s  %s", header, badge)
		}
		bubble = bubbleStyle(r).Render(fmt.Sprintf("“%s”", villagers.Saying(r))) + "\n"
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.up, m.keys.down, m.keys.have, m.keys.want, m.keys.theme, m.keys.back})
	return fmt.Sprintf("%s\n%s%s\n%s\n%s", header, bubble, m.viewport.View(), m.status, helpView)
}

func (m *Model) renderFilters() string {
	var rows []string
	for i, d := range m.filterDims() {
		value := *d.field
		if value == "" {
			value = "any"
		}
		cursor := "  "
		line := fmt.Sprintf("%-16s ‹ %s ›", d.label, value)
		if i == m.filterIdx {
			cursor = "▸ "
			line = m.palette.accent.Render(line)
		}
		rows = append(rows, cursor+line)
	}

	title := m.palette.title.Render("Filters")
	count := fmt.Sprintf("%d matching villagers", len(m.list.Items()))
	panel := m.palette.panel.Render(strings.Join(rows, "\n"))
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.up, m.keys.down, m.keys.left, m.keys.right, m.keys.reset, m.keys.back})
	return fmt.Sprintf("%s\n%s\n%s\n\n%s", title, panel, m.palette.help.Render(count), helpView)
}

func (m *Model) renderStats() string {
	records := m.catalog.Records()
	insights := state.Insights(m.collection, records)
	result := m.catalog.Result()
	info := tasks.SourceInfo(result.Source, result.Stats)

	var b strings.Builder
	b.WriteString(m.palette.title.Render("Collection"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s %d (%d%%)\n", m.palette.have.Render("Have:"), insights.HaveCount, insights.HavePercentage)
	fmt.Fprintf(&b, "  %s %d (%d%%)\n", m.palette.want.Render("Want:"), insights.WantCount, insights.WantPercentage)
	fmt.Fprintf(&b, "  Tracked: %d of %d (%d%%)\n", insights.TotalTracked, insights.TotalVillagers, insights.TrackedPercentage)
	fmt.Fprintf(&b, "  Favourite species: %s\n", insights.FavoriteSpecies)
	fmt.Fprintf(&b, "  Favourite personality: %s\n\n", insights.FavoritePersonality)
	b.WriteString(m.palette.ok.Render(insights.Message))
	b.WriteString("\n\n")

	b.WriteString(m.palette.title.Render(fmt.Sprintf("%s %s", info.Icon, info.Title)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s\n", info.Description)
	for _, f := range info.Features {
		fmt.Fprintf(&b, "  • %s\n", f)
	}
	fmt.Fprintf(&b, "  Quality: %s\n", info.Quality)

	if !result.Integrity.Valid || result.Integrity.HasWarnings {
		b.WriteString("\n")
		for _, issue := range result.Integrity.Issues {
			fmt.Fprintf(&b, "  %s\n", m.palette.warn.Render("! "+issue))
		}
	}
	return b.String()
}

func (m *Model) renderStatsView() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.up, m.keys.down, m.keys.theme, m.keys.back})
	return fmt.Sprintf("%s\n%s", m.viewport.View(), helpView)
}
