package villagers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/villagedex/internal/models"
)

// UnknownName is returned when neither layout carries a name.
const UnknownName = "Unknown Villager"

// DefaultAppearances is used when a record lists no game appearances.
var DefaultAppearances = []string{"New Horizons"}

// Field names a logical villager field.
type Field string

const (
	FieldID              Field = "id"
	FieldName            Field = "name"
	FieldSpecies         Field = "species"
	FieldGender          Field = "gender"
	FieldPersonality     Field = "personality"
	FieldBirthday        Field = "birthday"
	FieldCatchphrase     Field = "catchphrase"
	FieldSaying          Field = "saying"
	FieldHobby           Field = "hobby"
	FieldImageURL        Field = "imageUrl"
	FieldHouseSong       Field = "houseSong"
	FieldPageURL         Field = "pageUrl"
	FieldTextColor       Field = "textColor"
	FieldBubbleColor     Field = "bubbleColor"
	FieldFavoriteGifts   Field = "favoriteGifts"
	FieldFavoriteColors  Field = "favoriteColors"
	FieldFavoriteStyles  Field = "favoriteStyles"
	FieldIdealClothing   Field = "idealClothing"
	FieldAppearances     Field = "appearances"
	FieldDisplayGender   Field = "displayGender"
	FieldFullDescription Field = "fullDescription"
)

var getters = map[Field]func(models.Record) any{
	FieldID:              func(r models.Record) any { return ID(r) },
	FieldName:            func(r models.Record) any { return Name(r) },
	FieldSpecies:         func(r models.Record) any { return Species(r) },
	FieldGender:          func(r models.Record) any { return Gender(r) },
	FieldPersonality:     func(r models.Record) any { return Personality(r) },
	FieldBirthday:        func(r models.Record) any { return Birthday(r) },
	FieldCatchphrase:     func(r models.Record) any { return Catchphrase(r) },
	FieldSaying:          func(r models.Record) any { return Saying(r) },
	FieldHobby:           func(r models.Record) any { return Hobby(r) },
	FieldImageURL:        func(r models.Record) any { return ImageURL(r) },
	FieldHouseSong:       func(r models.Record) any { return HouseSong(r) },
	FieldPageURL:         func(r models.Record) any { return PageURL(r) },
	FieldTextColor:       func(r models.Record) any { return TextColor(r) },
	FieldBubbleColor:     func(r models.Record) any { return BubbleColor(r) },
	FieldFavoriteGifts:   func(r models.Record) any { return FavoriteGifts(r) },
	FieldFavoriteColors:  func(r models.Record) any { return FavoriteGifts(r).Colors },
	FieldFavoriteStyles:  func(r models.Record) any { return FavoriteGifts(r).Styles },
	FieldIdealClothing:   func(r models.Record) any { return FavoriteGifts(r).IdealClothing },
	FieldAppearances:     func(r models.Record) any { return Appearances(r) },
	FieldDisplayGender:   func(r models.Record) any { return DisplayGender(r) },
	FieldFullDescription: func(r models.Record) any { return FullDescription(r) },
}

// Fields lists every field [Get] understands.
func Fields() []Field {
	return []Field{
		FieldID, FieldName, FieldSpecies, FieldGender, FieldPersonality, FieldBirthday,
		FieldCatchphrase, FieldSaying, FieldHobby, FieldImageURL, FieldHouseSong, FieldPageURL,
		FieldTextColor, FieldBubbleColor, FieldFavoriteGifts, FieldFavoriteColors,
		FieldFavoriteStyles, FieldIdealClothing, FieldAppearances, FieldDisplayGender,
		FieldFullDescription,
	}
}

func fieldKey(s string) string {
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(s))
}

// ParseField resolves a field name in camelCase, snake_case or kebab-case.
func ParseField(s string) (Field, error) {
	key := fieldKey(s)
	for _, f := range Fields() {
		if fieldKey(string(f)) == key {
			return f, nil
		}
	}
	switch key {
	case "posterimageurl", "image":
		return FieldImageURL, nil
	case "color", "colors":
		return FieldFavoriteColors, nil
	}
	return "", fmt.Errorf("unknown villager field %q", s)
}

// Get returns the value of field for r, or nil for an unknown field.
func Get(r models.Record, field Field) any {
	if fn, ok := getters[field]; ok {
		return fn(r)
	}
	return nil
}

// GetString returns field rendered as text. Lists are joined with ", ".
func GetString(r models.Record, field Field) string {
	switch v := Get(r, field).(type) {
	case nil:
		return ""
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case []string:
		return strings.Join(v, ", ")
	case models.FavoriteGifts:
		return strings.Join(append(append(append([]string{}, v.Styles...), v.Colors...), v.IdealClothing...), ", ")
	default:
		return fmt.Sprint(v)
	}
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Name returns the villager's display name, or [UnknownName].
func Name(r models.Record) string {
	var fresh, legacy string
	if r.Villager != nil {
		fresh = r.Villager.Name
	}
	if r.Legacy != nil {
		legacy = r.Legacy.Name.USen
	}
	if name := firstOf(fresh, legacy); name != "" {
		return name
	}
	return UnknownName
}

// ID returns the explicit legacy id, or the hash of the name.
func ID(r models.Record) int64 {
	if r.Legacy != nil && r.Legacy.ID > 0 {
		return r.Legacy.ID
	}
	return HashName(Name(r))
}

func Species(r models.Record) string {
	return pick(r, func(v *models.Villager) string { return v.Species }, func(l *models.LegacyVillager) string { return l.Species })
}

// Gender returns "Male" or "Female" whatever the source casing.
func Gender(r models.Record) string {
	return canonicalGender(pick(r, func(v *models.Villager) string { return v.Gender }, func(l *models.LegacyVillager) string { return l.Gender }))
}

// Personality resolves aliases such as "Uchi" to the canonical name.
func Personality(r models.Record) string {
	return canonicalPersonality(pick(r, func(v *models.Villager) string { return v.Personality }, func(l *models.LegacyVillager) string { return l.Personality }))
}

// Birthday prefers the new schema, then the legacy "birthday-string", then the legacy day/month form.
// Ordinal suffixes are stripped from either layout.
func Birthday(r models.Record) string {
	return ConvertBirthday(pick(r,
		func(v *models.Villager) string { return v.Birthday },
		func(l *models.LegacyVillager) string { return firstOf(l.BirthdayString, l.Birthday) },
	))
}

func Catchphrase(r models.Record) string {
	return pick(r, func(v *models.Villager) string { return v.Catchphrase }, func(l *models.LegacyVillager) string { return l.CatchPhrase })
}

func Hobby(r models.Record) string {
	return pick(r, func(v *models.Villager) string { return v.Hobby }, func(l *models.LegacyVillager) string { return l.Hobby })
}

func ImageURL(r models.Record) string {
	return pick(r, func(v *models.Villager) string { return v.PosterImageURL }, func(l *models.LegacyVillager) string { return l.ImageURI })
}

func HouseSong(r models.Record) string {
	return pick(r, func(v *models.Villager) string { return v.HouseSong }, nil)
}

func PageURL(r models.Record) string {
	return pick(r, func(v *models.Villager) string { return v.PageURL }, nil)
}

// Saying returns the legacy saying or the personality's default.
func Saying(r models.Record) string {
	if s := pick(r, nil, func(l *models.LegacyVillager) string { return l.Saying }); s != "" {
		return s
	}
	return StyleFor(Personality(r)).Saying
}

func TextColor(r models.Record) string {
	if c := pick(r, nil, func(l *models.LegacyVillager) string { return l.TextColor }); c != "" {
		return c
	}
	return StyleFor(Personality(r)).TextColor
}

func BubbleColor(r models.Record) string {
	if c := pick(r, nil, func(l *models.LegacyVillager) string { return l.BubbleColor }); c != "" {
		return c
	}
	return StyleFor(Personality(r)).BubbleColor
}

// FavoriteGifts returns the gift preferences, zero when absent.
func FavoriteGifts(r models.Record) models.FavoriteGifts {
	if r.Villager != nil && r.Villager.FavoriteGifts != nil {
		return *r.Villager.FavoriteGifts
	}
	return models.FavoriteGifts{}
}

// Appearances returns the games the villager appears in, defaulting to [DefaultAppearances].
func Appearances(r models.Record) []string {
	if r.Villager != nil && len(r.Villager.Appearances) > 0 {
		return r.Villager.Appearances
	}
	return append([]string(nil), DefaultAppearances...)
}

// DisplayGender maps gender to pronouns.
func DisplayGender(r models.Record) string {
	switch g := Gender(r); g {
	case string(models.Female):
		return "She/Her"
	case string(models.Male):
		return "He/Him"
	default:
		return g
	}
}

func FullDescription(r models.Record) string {
	return fmt.Sprintf("%s, a %s villager with %s personality", Name(r), Species(r), Personality(r))
}

// HasEnhancedData reports whether the record carries poster, gift or hobby data.
func HasEnhancedData(r models.Record) bool {
	return ImageURL(r) != "" || !FavoriteGifts(r).IsZero() || Hobby(r) != ""
}

func pick(r models.Record, fresh func(*models.Villager) string, legacy func(*models.LegacyVillager) string) string {
	if fresh != nil && r.Villager != nil {
		if v := fresh(r.Villager); v != "" {
			return v
		}
	}
	if legacy != nil && r.Legacy != nil {
		return legacy(r.Legacy)
	}
	return ""
}

// Summary is the flat logical view of a record used by exports and the HTTP API.
type Summary struct {
	ID             int64    `json:"id" yaml:"id"`
	Name           string   `json:"name" yaml:"name"`
	Species        string   `json:"species" yaml:"species"`
	Gender         string   `json:"gender" yaml:"gender"`
	DisplayGender  string   `json:"display_gender" yaml:"display_gender"`
	Personality    string   `json:"personality" yaml:"personality"`
	Birthday       string   `json:"birthday" yaml:"birthday"`
	Catchphrase    string   `json:"catchphrase" yaml:"catchphrase"`
	Saying         string   `json:"saying" yaml:"saying"`
	Hobby          string   `json:"hobby,omitempty" yaml:"hobby,omitempty"`
	ImageURL       string   `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	HouseSong      string   `json:"house_song,omitempty" yaml:"house_song,omitempty"`
	PageURL        string   `json:"page_url,omitempty" yaml:"page_url,omitempty"`
	Appearances    []string `json:"appearances" yaml:"appearances"`
	FavoriteStyles []string `json:"favorite_styles,omitempty" yaml:"favorite_styles,omitempty"`
	FavoriteColors []string `json:"favorite_colors,omitempty" yaml:"favorite_colors,omitempty"`
	IdealClothing  []string `json:"ideal_clothing,omitempty" yaml:"ideal_clothing,omitempty"`
	TextColor      string   `json:"text_color" yaml:"text_color"`
	BubbleColor    string   `json:"bubble_color" yaml:"bubble_color"`
	Description    string   `json:"description" yaml:"description"`
}

// Summarize flattens r.
func Summarize(r models.Record) Summary {
	gifts := FavoriteGifts(r)
	return Summary{
		ID:             ID(r),
		Name:           Name(r),
		Species:        Species(r),
		Gender:         Gender(r),
		DisplayGender:  DisplayGender(r),
		Personality:    Personality(r),
		Birthday:       Birthday(r),
		Catchphrase:    Catchphrase(r),
		Saying:         Saying(r),
		Hobby:          Hobby(r),
		ImageURL:       ImageURL(r),
		HouseSong:      HouseSong(r),
		PageURL:        PageURL(r),
		Appearances:    Appearances(r),
		FavoriteStyles: gifts.Styles,
		FavoriteColors: gifts.Colors,
		IdealClothing:  gifts.IdealClothing,
		TextColor:      TextColor(r),
		BubbleColor:    BubbleColor(r),
		Description:    FullDescription(r),
	}
}

// SummarizeAll flattens every record.
func SummarizeAll(records []models.Record) []Summary {
	out := make([]Summary, 0, len(records))
	for _, r := range records {
		out = append(out, Summarize(r))
	}
	return out
}

// Find returns the record whose id matches, or whose name matches case-insensitively.
func Find(records []models.Record, query string) (models.Record, bool) {
	query = strings.TrimSpace(query)
	if id, err := strconv.ParseInt(query, 10, 64); err == nil {
		for _, r := range records {
			if ID(r) == id {
				return r, true
			}
		}
	}
	for _, r := range records {
		if strings.EqualFold(Name(r), query) {
			return r, true
		}
	}
	return models.Record{}, false
}

// FindByID returns the record with the given id.
func FindByID(records []models.Record, id int64) (models.Record, bool) {
	for _, r := range records {
		if ID(r) == id {
			return r, true
		}
	}
	return models.Record{}, false
}
