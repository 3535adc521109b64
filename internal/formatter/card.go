package formatter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/desertthunder/villagedex/internal/villagers"
)

// DetailCard renders one villager as markdown for the detail view.
func DetailCard(v villagers.Summary) string {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", v.Name))
	buf.WriteString(fmt.Sprintf("_%s_\n\n", v.Description))
	if v.Saying != "" {
		buf.WriteString(fmt.Sprintf("> %s\n\n", v.Saying))
	}

	buf.WriteString("| | |\n|---|---|\n")
	rows := [][2]string{
		{"Species", v.Species},
		{"Personality", v.Personality},
		{"Gender", v.DisplayGender},
		{"Birthday", v.Birthday},
		{"Catchphrase", quote(v.Catchphrase)},
		{"Hobby", v.Hobby},
		{"House song", v.HouseSong},
	}
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		buf.WriteString(fmt.Sprintf("| **%s** | %s |\n", row[0], escapeCell(row[1])))
	}

	if len(v.FavoriteStyles)+len(v.FavoriteColors)+len(v.IdealClothing) > 0 {
		buf.WriteString("\n## Favorite gifts\n\n")
		list(&buf, "Styles", v.FavoriteStyles)
		list(&buf, "Colors", v.FavoriteColors)
		list(&buf, "Ideal clothing", v.IdealClothing)
	}

	if len(v.Appearances) > 0 {
		buf.WriteString(fmt.Sprintf("\n**Appearances**: %s\n", strings.Join(v.Appearances, ", ")))
	}
	if v.ImageURL != "" {
		buf.WriteString(fmt.Sprintf("\n[Poster](%s)\n", v.ImageURL))
	}
	if v.PageURL != "" {
		buf.WriteString(fmt.Sprintf("\n[Nookipedia](%s)\n", v.PageURL))
	}

	return buf.String()
}

func quote(s string) string {
	if s == "" {
		return ""
	}
	return fmt.Sprintf("%q", s)
}

func list(buf *bytes.Buffer, label string, values []string) {
	if len(values) == 0 {
		return
	}
	buf.WriteString(fmt.Sprintf("- **%s**: %s\n", label, strings.Join(values, ", ")))
}
