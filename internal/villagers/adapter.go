package villagers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf16"

	"github.com/desertthunder/villagedex/internal/models"
	"github.com/desertthunder/villagedex/internal/shared"
)

// HashName derives a numeric id from a name: the 32-bit rolling hash
// h = h*31 + c over UTF-16 code units, made non-negative.
func HashName(name string) int64 {
	var h int32
	for _, c := range utf16.Encode([]rune(name)) {
		h = (h << 5) - h + int32(c)
	}
	id := int64(h)
	if id < 0 {
		id = -id
	}
	return id
}

var ordinalSuffix = regexp.MustCompile(`(\d)(st|nd|rd|th)$`)

// ConvertBirthday strips an ordinal suffix: "October 1st" becomes "October 1".
func ConvertBirthday(s string) string {
	return ordinalSuffix.ReplaceAllString(strings.TrimSpace(s), "$1")
}

func canonicalPersonality(s string) string {
	if p, ok := models.ParsePersonality(s); ok {
		return string(p)
	}
	return s
}

func canonicalGender(s string) string {
	if g, ok := models.ParseGender(s); ok {
		return string(g)
	}
	return s
}

// LegacyToNew converts the legacy layout to the flat schema.
func LegacyToNew(l models.LegacyVillager) models.Villager {
	return models.Villager{
		Name:           l.Name.USen,
		Species:        l.Species,
		Gender:         canonicalGender(l.Gender),
		Personality:    canonicalPersonality(l.Personality),
		Birthday:       ConvertBirthday(l.BirthdayString),
		Catchphrase:    l.CatchPhrase,
		PosterImageURL: l.ImageURI,
		Hobby:          l.Hobby,
		Appearances:    append([]string(nil), DefaultAppearances...),
	}
}

// NewToLegacy projects the flat schema onto the legacy layout. Id, saying and
// colours are derived.
func NewToLegacy(v models.Villager) *models.LegacyVillager {
	style := StyleFor(v.Personality)
	return &models.LegacyVillager{
		ID:             HashName(v.Name),
		Name:           models.LegacyName{USen: v.Name, EUen: v.Name},
		Personality:    v.Personality,
		BirthdayString: v.Birthday,
		Species:        v.Species,
		Gender:         v.Gender,
		Hobby:          v.Hobby,
		CatchPhrase:    v.Catchphrase,
		IconURI:        v.PosterImageURL,
		ImageURI:       v.PosterImageURL,
		BubbleColor:    style.BubbleColor,
		TextColor:      style.TextColor,
		Saying:         style.Saying,
	}
}

// Problems lists every missing required field and bad enumeration in v.
func Problems(v models.Villager) []error {
	var problems []error

	required := []struct {
		name  string
		value string
	}{
		{"name", v.Name},
		{"species", v.Species},
		{"gender", v.Gender},
		{"personality", v.Personality},
		{"birthday", v.Birthday},
		{"catchphrase", v.Catchphrase},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			problems = append(problems, fmt.Errorf("%w: %s", shared.ErrMissingField, f.name))
		}
	}

	if _, ok := models.ParseGender(v.Gender); v.Gender != "" && !ok {
		problems = append(problems, fmt.Errorf("gender must be Male or Female, got %q", v.Gender))
	}
	if v.Personality != "" {
		if _, ok := models.ParsePersonality(v.Personality); !ok {
			problems = append(problems, fmt.Errorf("unknown personality %q", v.Personality))
		}
	}
	return problems
}

// Validate checks required fields and enumerations. Every problem is
// reported; the returned error wraps [shared.ErrInvalidVillager].
func Validate(v models.Villager) error {
	problems := Problems(v)
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w %q: %w", shared.ErrInvalidVillager, v.Name, errors.Join(problems...))
}

// Issue is one villager that failed validation. Index is 1-based over the
// normalized villagers.
type Issue struct {
	Index    int      `json:"index"`
	Name     string   `json:"name"`
	Problems []string `json:"problems"`
}

// Report is the outcome of [ValidateDataset].
type Report struct {
	Format  models.Format `json:"format"`
	Count   int           `json:"count"`
	Skipped int           `json:"skipped"`
	Issues  []Issue       `json:"issues"`
}

// Valid reports whether every villager passed.
func (r Report) Valid() bool { return len(r.Issues) == 0 && r.Count > 0 }

// ValidateDataset parses a dataset of either layout, normalizes it and
// validates each villager. A dataset that is not a JSON array or object
// returns an error wrapping [shared.ErrInvalidDataset].
func ValidateDataset(data []byte) (Report, error) {
	raw, err := SplitDataset(data)
	if err != nil {
		return Report{}, err
	}

	normalized := Normalize(raw)
	report := Report{
		Format:  normalized.Format,
		Count:   len(normalized.Villagers),
		Skipped: normalized.Skipped,
		Issues:  []Issue{},
	}
	for i, v := range normalized.Villagers {
		problems := Problems(v)
		if len(problems) == 0 {
			continue
		}
		issue := Issue{Index: i + 1, Name: v.Name, Problems: make([]string, len(problems))}
		for j, p := range problems {
			issue.Problems[j] = p.Error()
		}
		report.Issues = append(report.Issues, issue)
	}
	return report, nil
}

// SplitDataset splits a JSON array, or the values of a JSON object in
// document order, into raw elements.
func SplitDataset(data []byte) ([]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidDataset, err)
	}

	delim, ok := tok.(json.Delim)
	if !ok || (delim != '[' && delim != '{') {
		return nil, fmt.Errorf("%w: expected a JSON array or object", shared.ErrInvalidDataset)
	}

	var elements []json.RawMessage
	for dec.More() {
		if delim == '{' {
			if _, err := dec.Token(); err != nil {
				return nil, fmt.Errorf("%w: %v", shared.ErrInvalidDataset, err)
			}
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrInvalidDataset, err)
		}
		elements = append(elements, raw)
	}
	return elements, nil
}

// Normalized is the result of [Normalize].
type Normalized struct {
	Villagers []models.Villager
	Format    models.Format
	Skipped   int
}

// IsLegacy reports whether raw uses the legacy layout (an object-valued name).
func IsLegacy(raw json.RawMessage) bool {
	var probe struct {
		Name json.RawMessage `json:"name"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return false
	}
	return bytes.HasPrefix(bytes.TrimSpace(probe.Name), []byte("{"))
}

// Normalize decodes raw elements of either layout into the flat schema.
// Elements that fail to decode, or have an empty or "Unknown" name, are skipped.
// The format is taken from the first element.
func Normalize(raw []json.RawMessage) Normalized {
	out := Normalized{Format: models.FormatNew, Villagers: make([]models.Villager, 0, len(raw))}
	if len(raw) > 0 && IsLegacy(raw[0]) {
		out.Format = models.FormatOld
	}

	for _, element := range raw {
		var v models.Villager
		if IsLegacy(element) {
			var l models.LegacyVillager
			if err := json.Unmarshal(element, &l); err != nil {
				out.Skipped++
				continue
			}
			v = LegacyToNew(l)
		} else {
			if err := json.Unmarshal(element, &v); err != nil {
				out.Skipped++
				continue
			}
			v.Gender = canonicalGender(v.Gender)
			v.Personality = canonicalPersonality(v.Personality)
			v.Birthday = ConvertBirthday(v.Birthday)
		}

		name := strings.TrimSpace(v.Name)
		if name == "" || name == "Unknown" {
			out.Skipped++
			continue
		}
		out.Villagers = append(out.Villagers, v)
	}
	return out
}

// Compatible wraps v in a record carrying both layouts.
func Compatible(v models.Villager) models.Record {
	fresh := v
	return models.Record{Villager: &fresh, Legacy: NewToLegacy(v)}
}

// CompatibleAll wraps every villager.
func CompatibleAll(vs []models.Villager) []models.Record {
	records := make([]models.Record, 0, len(vs))
	for _, v := range vs {
		records = append(records, Compatible(v))
	}
	return records
}
