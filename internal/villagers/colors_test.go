package villagers

import (
	"testing"

	"github.com/desertthunder/villagedex/internal/models"
)

func TestStyleFor(t *testing.T) {
	tt := []struct {
		personality string
		saying      string
		text        string
	}{
		{"Normal", "Life is what you make of it!", "#2c5530"},
		{"Peppy", "Every day is a new adventure!", "#ff1493"},
		{"Big sister", "You've got this, kiddo!", "#8b4513"},
		{"Uchi", "You've got this, kiddo!", "#8b4513"},
		{"Cranky", "Back in my day...", "#8b0000"},
		{"Mysterious", "Living life one day at a time.", "#333333"},
	}
	for _, tc := range tt {
		t.Run(tc.personality, func(t *testing.T) {
			style := StyleFor(tc.personality)
			if style.Saying != tc.saying || style.TextColor != tc.text {
				t.Errorf("StyleFor(%q) = %+v", tc.personality, style)
			}
		})
	}
}

func TestColorValue(t *testing.T) {
	if ColorValue("Blue") != "#0066CC" {
		t.Errorf("unexpected blue %s", ColorValue("Blue"))
	}
	if ColorValue(" Light Grey ") != "#D3D3D3" {
		t.Errorf("expected trimmed lookup, got %s", ColorValue(" Light Grey "))
	}
	if ColorValue("Chartreuse") != DefaultCardColor {
		t.Errorf("expected default for unknown colour")
	}
}

func TestIsLightColor(t *testing.T) {
	tt := []struct {
		hex   string
		light bool
	}{
		{"#FFFFFF", true},
		{"#F8F8F8", true},
		{"#FFD700", true},
		{"#000000", false},
		{"#2C2C2C", false},
		{"0066CC", false},
		{"#fff", false},
		{"#GGGGGG", false},
	}
	for _, tc := range tt {
		if got := IsLightColor(tc.hex); got != tc.light {
			t.Errorf("IsLightColor(%q) = %v, want %v", tc.hex, got, tc.light)
		}
	}
}

func TestContrastingTextColor(t *testing.T) {
	if got := ContrastingTextColor("#FFFFFF", "#F8F8F8"); got != DefaultTextColor {
		t.Errorf("light on light should become dark text, got %s", got)
	}
	if got := ContrastingTextColor("#000000", "#2C2C2C"); got != "#FFFFFF" {
		t.Errorf("dark on dark should become white text, got %s", got)
	}
	if got := ContrastingTextColor("#FFFFFF", "#2C2C2C"); got != "#2C2C2C" {
		t.Errorf("contrasting pair should be kept, got %s", got)
	}
}

func TestCardColors(t *testing.T) {
	t.Run("From Favourite Colours", func(t *testing.T) {
		v := raymond()
		v.FavoriteGifts = &models.FavoriteGifts{Colors: []string{"Yellow", "White"}}
		bg, text := CardColors(models.Record{Villager: &v})
		if bg != "#FFD700" {
			t.Errorf("expected yellow background, got %s", bg)
		}
		if text != DefaultTextColor {
			t.Errorf("expected contrast fix to dark text, got %s", text)
		}

		v.FavoriteGifts.Colors = []string{"Dark Blue", "White"}
		bg, text = CardColors(models.Record{Villager: &v})
		if bg != "#003366" || text != "#F8F8F8" {
			t.Errorf("expected contrasting pair to be kept, got %s %s", bg, text)
		}
	})

	t.Run("Falls Back To Bubble Colours", func(t *testing.T) {
		r := Compatible(raymond())
		bg, text := CardColors(r)
		if bg != "#87ceeb" || text != "#4169e1" {
			t.Errorf("expected smug bubble colours, got %s %s", bg, text)
		}
	})

	t.Run("Defaults", func(t *testing.T) {
		bg, text := CardColors(models.Record{})
		if bg != DefaultCardColor || text != DefaultTextColor {
			t.Errorf("expected defaults, got %s %s", bg, text)
		}
	})
}
