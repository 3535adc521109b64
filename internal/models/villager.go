package models

import (
	"fmt"
	"strings"
)

// Personality is one of the eight villager personality types.
type Personality string

const (
	Normal    Personality = "Normal"
	Peppy     Personality = "Peppy"
	Snooty    Personality = "Snooty"
	BigSister Personality = "Big sister"
	Lazy      Personality = "Lazy"
	Jock      Personality = "Jock"
	Cranky    Personality = "Cranky"
	Smug      Personality = "Smug"
)

// Personalities lists every valid [Personality].
var Personalities = []Personality{Jock, Cranky, Peppy, Snooty, Normal, Lazy, Smug, BigSister}

// personalityAliases maps labels used by other data sources onto the canonical names.
var personalityAliases = map[string]Personality{
	"uchi":     BigSister,
	"sisterly": BigSister,
}

// ParsePersonality resolves s case-insensitively, accepting known aliases.
func ParsePersonality(s string) (Personality, bool) {
	s = strings.TrimSpace(s)
	for _, p := range Personalities {
		if strings.EqualFold(string(p), s) {
			return p, true
		}
	}
	if p, ok := personalityAliases[strings.ToLower(s)]; ok {
		return p, true
	}
	return "", false
}

// Gender is Male or Female.
type Gender string

const (
	Male   Gender = "Male"
	Female Gender = "Female"
)

// ParseGender resolves s case-insensitively.
func ParseGender(s string) (Gender, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male":
		return Male, true
	case "female":
		return Female, true
	}
	return "", false
}

// FavoriteGifts holds gift preferences from the new schema.
type FavoriteGifts struct {
	Styles        []string `json:"favorite_styles,omitempty" yaml:"favorite_styles,omitempty"`
	Colors        []string `json:"favorite_colors,omitempty" yaml:"favorite_colors,omitempty"`
	IdealClothing []string `json:"ideal_clothing_examples,omitempty" yaml:"ideal_clothing_examples,omitempty"`
}

// IsZero reports whether no preference is set.
func (g FavoriteGifts) IsZero() bool {
	return len(g.Styles) == 0 && len(g.Colors) == 0 && len(g.IdealClothing) == 0
}

// Villager is the flat snake_case schema.
type Villager struct {
	Name           string         `json:"name" yaml:"name"`
	Species        string         `json:"species" yaml:"species"`
	Gender         string         `json:"gender" yaml:"gender"`
	Personality    string         `json:"personality" yaml:"personality"`
	Birthday       string         `json:"birthday" yaml:"birthday"`
	Catchphrase    string         `json:"catchphrase" yaml:"catchphrase"`
	PosterImageURL string         `json:"poster_image_url,omitempty" yaml:"poster_image_url,omitempty"`
	Hobby          string         `json:"hobby,omitempty" yaml:"hobby,omitempty"`
	HouseSong      string         `json:"house_song,omitempty" yaml:"house_song,omitempty"`
	Appearances    []string       `json:"appearances,omitempty" yaml:"appearances,omitempty"`
	PageURL        string         `json:"page_url,omitempty" yaml:"page_url,omitempty"`
	FavoriteGifts  *FavoriteGifts `json:"favorite_gifts,omitempty" yaml:"favorite_gifts,omitempty"`
}

// LegacyName is the localized name object of the legacy layout.
type LegacyName struct {
	USen string `json:"name-USen"`
	EUen string `json:"name-EUen,omitempty"`
}

// LegacyVillager is the nested layout served by the ACNH API v1a.
type LegacyVillager struct {
	ID             int64      `json:"id,omitempty"`
	FileName       string     `json:"file-name,omitempty"`
	Name           LegacyName `json:"name"`
	Personality    string     `json:"personality"`
	BirthdayString string     `json:"birthday-string,omitempty"`
	Birthday       string     `json:"birthday,omitempty"`
	Species        string     `json:"species"`
	Gender         string     `json:"gender"`
	Subtype        string     `json:"subtype,omitempty"`
	Hobby          string     `json:"hobby,omitempty"`
	CatchPhrase    string     `json:"catch-phrase,omitempty"`
	IconURI        string     `json:"icon_uri,omitempty"`
	ImageURI       string     `json:"image_uri,omitempty"`
	BubbleColor    string     `json:"bubble-color,omitempty"`
	TextColor      string     `json:"text-color,omitempty"`
	Saying         string     `json:"saying,omitempty"`
}

// Record is a loaded villager. Either shape may be nil; the accessor in
// package villagers resolves each field from whichever is present.
type Record struct {
	Villager *Villager       `json:"villager,omitempty"`
	Legacy   *LegacyVillager `json:"legacy,omitempty"`
}

// Format names the JSON layout a dataset arrived in.
type Format string

const (
	FormatNew Format = "new"
	FormatOld Format = "old"
)

// Source names the loader tier that produced a dataset.
type Source string

const (
	SourceReal   Source = "real"
	SourceAPI    Source = "api"
	SourceSample Source = "sample"
	SourceError  Source = "error"
)

// ParseSource resolves a source name.
func ParseSource(s string) (Source, error) {
	switch src := Source(strings.ToLower(strings.TrimSpace(s))); src {
	case SourceReal, SourceAPI, SourceSample, SourceError:
		return src, nil
	}
	return "", fmt.Errorf("unknown data source %q", s)
}
