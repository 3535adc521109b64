package villagers

import (
	"strconv"
	"strings"

	"github.com/desertthunder/villagedex/internal/models"
)

// PersonalityStyle is the default saying and speech colours for a personality.
type PersonalityStyle struct {
	Saying      string
	TextColor   string
	BubbleColor string
}

var defaultStyle = PersonalityStyle{
	Saying:      "Living life one day at a time.",
	TextColor:   "#333333",
	BubbleColor: "#e0e0e0",
}

var personalityStyles = map[models.Personality]PersonalityStyle{
	models.Normal:    {"Life is what you make of it!", "#2c5530", "#90ee90"},
	models.Peppy:     {"Every day is a new adventure!", "#ff1493", "#ffb6c1"},
	models.Snooty:    {"Quality over quantity, always.", "#4b0082", "#dda0dd"},
	models.BigSister: {"You've got this, kiddo!", "#8b4513", "#f4a460"},
	models.Lazy:      {"Food makes everything better.", "#ff8c00", "#ffd700"},
	models.Jock:      {"No pain, no gain!", "#228b22", "#98fb98"},
	models.Cranky:    {"Back in my day...", "#8b0000", "#f08080"},
	models.Smug:      {"Naturally, I'm fabulous.", "#4169e1", "#87ceeb"},
}

// StyleFor returns the style of the named personality, or the neutral default.
func StyleFor(personality string) PersonalityStyle {
	if p, ok := models.ParsePersonality(personality); ok {
		return personalityStyles[p]
	}
	return defaultStyle
}

const (
	DefaultCardColor = "#E0E0E0"
	DefaultTextColor = "#333333"
	lightTextColor   = "#FFFFFF"
)

// favoriteColors maps in-game colour names to hex values.
var favoriteColors = map[string]string{
	"Red":          "#FF0000",
	"Blue":         "#0066CC",
	"Green":        "#00AA00",
	"Yellow":       "#FFD700",
	"Orange":       "#FF8C00",
	"Purple":       "#8A2BE2",
	"Pink":         "#FF69B4",
	"Aqua":         "#00FFFF",
	"Beige":        "#F5F5DC",
	"Black":        "#2C2C2C",
	"Brown":        "#8B4513",
	"Colorful":     "#FF6347",
	"Gray":         "#808080",
	"Grey":         "#808080",
	"White":        "#F8F8F8",
	"Light Blue":   "#87CEEB",
	"Dark Blue":    "#003366",
	"Light Green":  "#90EE90",
	"Dark Green":   "#006600",
	"Light Purple": "#DDA0DD",
	"Dark Purple":  "#4B0082",
	"Light Pink":   "#FFB6C1",
	"Dark Pink":    "#C71585",
	"Light Yellow": "#FFFFE0",
	"Dark Yellow":  "#B8860B",
	"Light Orange": "#FFA07A",
	"Dark Orange":  "#FF4500",
	"Light Brown":  "#D2B48C",
	"Dark Brown":   "#654321",
	"Light Gray":   "#D3D3D3",
	"Dark Gray":    "#696969",
	"Light Grey":   "#D3D3D3",
	"Dark Grey":    "#696969",
}

// ColorValue returns the hex value of a favourite colour name, or [DefaultCardColor].
func ColorValue(name string) string {
	if hex, ok := favoriteColors[strings.TrimSpace(name)]; ok {
		return hex
	}
	return DefaultCardColor
}

// IsLightColor reports whether hex has a perceived luminance above one half.
// Malformed values count as dark.
func IsLightColor(hex string) bool {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return false
	}
	var rgb [3]float64
	for i := range rgb {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return false
		}
		rgb[i] = float64(v)
	}
	luminance := (0.299*rgb[0] + 0.587*rgb[1] + 0.114*rgb[2]) / 255
	return luminance > 0.5
}

// ContrastingTextColor keeps preferred unless it has the same lightness as bg.
func ContrastingTextColor(bg, preferred string) string {
	bgLight := IsLightColor(bg)
	if bgLight == IsLightColor(preferred) {
		if bgLight {
			return DefaultTextColor
		}
		return lightTextColor
	}
	return preferred
}

// CardColors picks a background and text colour from the first two favourite
// colours, falling back to the speech bubble colours.
func CardColors(r models.Record) (bg, text string) {
	colors := FavoriteGifts(r).Colors
	if len(colors) == 0 {
		bg, text = DefaultCardColor, DefaultTextColor
		if r.Legacy != nil {
			bg = firstOf(r.Legacy.BubbleColor, bg)
			text = firstOf(r.Legacy.TextColor, text)
		}
		return bg, text
	}

	bg = ColorValue(colors[0])
	text = DefaultTextColor
	if len(colors) > 1 {
		text = ColorValue(colors[1])
	}
	return bg, ContrastingTextColor(bg, text)
}
