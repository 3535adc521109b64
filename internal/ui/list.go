package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/villagedex/internal/models"
	"github.com/desertthunder/villagedex/internal/villagers"
)

var _ list.Item = villagerItem{}

// villagerItem wraps [models.Record] to implement [list.Item].
type villagerItem struct {
	record models.Record
	badge  string
	score  int
}

func (i villagerItem) FilterValue() string { return villagers.Name(i.record) }
func (i villagerItem) Title() string {
	title := villagers.Name(i.record)
	if i.badge != "" {
		title = fmt.Sprintf("%s  %s", title, i.badge)
	}
	return title
}
func (i villagerItem) Description() string {
	desc := fmt.Sprintf("%s %s", villagers.Personality(i.record), villagers.Species(i.record))
	if b := villagers.Birthday(i.record); b != "" {
		desc = fmt.Sprintf("%s • %s", desc, b)
	}
	if h := villagers.Hobby(i.record); h != "" {
		desc = fmt.Sprintf("%s • %s", desc, h)
	}
	return desc
}
