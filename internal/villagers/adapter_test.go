package villagers

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/villagedex/internal/models"
	"github.com/desertthunder/villagedex/internal/shared"
	"github.com/google/go-cmp/cmp"
)

func TestHashName(t *testing.T) {
	tt := []struct {
		name string
		want int64
	}{
		{"", 0},
		{"a", 97},
		{"ab", 97*31 + 98},
	}
	for _, tc := range tt {
		if got := HashName(tc.name); got != tc.want {
			t.Errorf("HashName(%q) = %d, want %d", tc.name, got, tc.want)
		}
	}

	t.Run("Never Negative", func(t *testing.T) {
		for _, name := range []string{"Raymond", "Tom Nook", "Big Top", "Étoile", "Renée", strings.Repeat("z", 64)} {
			if HashName(name) < 0 {
				t.Errorf("HashName(%q) is negative", name)
			}
		}
	})

	t.Run("Stable", func(t *testing.T) {
		if HashName("Raymond") != HashName("Raymond") {
			t.Error("hash should be deterministic")
		}
	})
}

func TestConvertBirthday(t *testing.T) {
	tt := []struct {
		input string
		want  string
	}{
		{"October 1st", "October 1"},
		{"March 2nd", "March 2"},
		{"June 3rd", "June 3"},
		{"March 9th", "March 9"},
		{"December 20", "December 20"},
		{"  August 21st ", "August 21"},
		{"", ""},
		{"North", "North"},
	}
	for _, tc := range tt {
		t.Run(tc.input, func(t *testing.T) {
			if got := ConvertBirthday(tc.input); got != tc.want {
				t.Errorf("ConvertBirthday(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestLegacyToNew(t *testing.T) {
	legacy := raymondLegacy()
	legacy.Personality = "Uchi"
	legacy.Gender = "male"

	got := LegacyToNew(legacy)
	want := models.Villager{
		Name:           "Raymond",
		Species:        "Cat",
		Gender:         "Male",
		Personality:    "Big sister",
		Birthday:       "October 1",
		Catchphrase:    "crisp",
		PosterImageURL: "https://acnhapi.com/v1/images/villagers/400",
		Hobby:          "Education",
		Appearances:    []string{"New Horizons"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LegacyToNew mismatch (-want +got):\n%s", diff)
	}
}

func TestNewToLegacy(t *testing.T) {
	legacy := NewToLegacy(raymond())

	if legacy.ID != HashName("Raymond") {
		t.Errorf("expected derived id, got %d", legacy.ID)
	}
	if legacy.Name.USen != "Raymond" {
		t.Errorf("expected name-USen Raymond, got %q", legacy.Name.USen)
	}
	if legacy.Saying != "Naturally, I'm fabulous." {
		t.Errorf("unexpected saying %q", legacy.Saying)
	}
	if legacy.TextColor != "#4169e1" || legacy.BubbleColor != "#87ceeb" {
		t.Errorf("unexpected colours %s %s", legacy.TextColor, legacy.BubbleColor)
	}
	if legacy.BirthdayString != "October 1" {
		t.Errorf("unexpected birthday-string %q", legacy.BirthdayString)
	}
}

func TestValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		if err := Validate(raymond()); err != nil {
			t.Errorf("expected valid villager, got %v", err)
		}
	})

	t.Run("Reports Every Problem", func(t *testing.T) {
		v := models.Villager{Name: "Ghost", Gender: "Other", Personality: "Moody"}
		err := Validate(v)
		if !errors.Is(err, shared.ErrInvalidVillager) {
			t.Fatalf("expected ErrInvalidVillager, got %v", err)
		}
		if !errors.Is(err, shared.ErrMissingField) {
			t.Errorf("expected ErrMissingField in %v", err)
		}
		for _, fragment := range []string{"species", "birthday", "catchphrase", "gender must be", "unknown personality"} {
			if !strings.Contains(err.Error(), fragment) {
				t.Errorf("expected %q in %v", fragment, err)
			}
		}
	})

	t.Run("Alias Personality Is Accepted", func(t *testing.T) {
		v := raymond()
		v.Personality = "Uchi"
		if err := Validate(v); err != nil {
			t.Errorf("expected alias to validate, got %v", err)
		}
	})
}

func TestValidateDataset(t *testing.T) {
	t.Run("Reports Each Bad Villager By Position", func(t *testing.T) {
		data := []byte(`[
			{"name":"Raymond","species":"Cat","gender":"Male","personality":"Smug","birthday":"October 1st","catchphrase":"crisp"},
			{"name":"Ghost","species":"Cat","gender":"Robot","personality":"Lazy","birthday":"May 5"},
			{"species":"Dog"}
		]`)
		report, err := ValidateDataset(data)
		if err != nil {
			t.Fatalf("unexpected error %v", err)
		}
		if report.Count != 2 || report.Skipped != 1 || report.Valid() {
			t.Fatalf("unexpected report %+v", report)
		}
		if len(report.Issues) != 1 {
			t.Fatalf("expected one issue, got %+v", report.Issues)
		}
		issue := report.Issues[0]
		if issue.Index != 2 || issue.Name != "Ghost" || len(issue.Problems) != 2 {
			t.Fatalf("unexpected issue %+v", issue)
		}
		if !strings.Contains(issue.Problems[0], "catchphrase") || !strings.Contains(issue.Problems[1], "gender must be") {
			t.Errorf("unexpected problems %q", issue.Problems)
		}
	})

	t.Run("Legacy Dataset Is Valid", func(t *testing.T) {
		data := []byte(`{"raymond":{"name":{"name-USen":"Raymond"},"species":"Cat","gender":"Male",` +
			`"personality":"Smug","birthday-string":"October 1st","catch-phrase":"crisp"}}`)
		report, err := ValidateDataset(data)
		if err != nil {
			t.Fatalf("unexpected error %v", err)
		}
		if !report.Valid() || report.Format != models.FormatOld {
			t.Errorf("expected a valid legacy report, got %+v", report)
		}
	})

	t.Run("Not A Dataset", func(t *testing.T) {
		if _, err := ValidateDataset([]byte(`"villagers"`)); !errors.Is(err, shared.ErrInvalidDataset) {
			t.Errorf("expected ErrInvalidDataset, got %v", err)
		}
	})
}

func TestSplitDataset(t *testing.T) {
	t.Run("Array", func(t *testing.T) {
		elements, err := SplitDataset([]byte(`[{"name":"A"},{"name":"B"}]`))
		if err != nil {
			t.Fatalf("unexpected error %v", err)
		}
		if len(elements) != 2 {
			t.Errorf("expected 2 elements, got %d", len(elements))
		}
	})

	t.Run("Object Keeps Document Order", func(t *testing.T) {
		elements, err := SplitDataset([]byte(`{"zz01":{"name":"Zed"},"aa01":{"name":"Ace"}}`))
		if err != nil {
			t.Fatalf("unexpected error %v", err)
		}
		var first struct{ Name string }
		if err := json.Unmarshal(elements[0], &first); err != nil {
			t.Fatalf("failed to decode element: %v", err)
		}
		if first.Name != "Zed" {
			t.Errorf("expected document order, got %s first", first.Name)
		}
	})

	t.Run("Rejects Scalars And Garbage", func(t *testing.T) {
		for _, input := range []string{`"villagers"`, `42`, ``, `[{"name":`} {
			if _, err := SplitDataset([]byte(input)); !errors.Is(err, shared.ErrInvalidDataset) {
				t.Errorf("SplitDataset(%q): expected ErrInvalidDataset, got %v", input, err)
			}
		}
	})
}

func TestNormalize(t *testing.T) {
	t.Run("Legacy Dataset", func(t *testing.T) {
		raw, err := SplitDataset([]byte(`{
			"cat16": {"id": 400, "name": {"name-USen": "Raymond"}, "species": "Cat", "gender": "Male",
				"personality": "Smug", "birthday-string": "October 1st", "catch-phrase": "crisp"},
			"ant00": {"id": 1, "name": {"name-USen": "Unknown"}, "species": "Anteater"}
		}`))
		if err != nil {
			t.Fatalf("unexpected error %v", err)
		}

		got := Normalize(raw)
		if got.Format != models.FormatOld {
			t.Errorf("expected old format, got %s", got.Format)
		}
		if len(got.Villagers) != 1 || got.Villagers[0].Name != "Raymond" {
			t.Fatalf("expected only Raymond, got %+v", got.Villagers)
		}
		if got.Villagers[0].Birthday != "October 1" {
			t.Errorf("expected converted birthday, got %q", got.Villagers[0].Birthday)
		}
		if got.Skipped != 1 {
			t.Errorf("expected 1 skipped, got %d", got.Skipped)
		}
	})

	t.Run("New Dataset", func(t *testing.T) {
		raw, err := SplitDataset([]byte(`[
			{"name": "Judy", "species": "Bear cub", "gender": "Female", "personality": "Snooty",
				"birthday": "March 10", "catchphrase": "myohmy"},
			{"name": "", "species": "Cat"},
			{"name": 12}
		]`))
		if err != nil {
			t.Fatalf("unexpected error %v", err)
		}

		got := Normalize(raw)
		if got.Format != models.FormatNew {
			t.Errorf("expected new format, got %s", got.Format)
		}
		if len(got.Villagers) != 1 {
			t.Fatalf("expected 1 villager, got %d", len(got.Villagers))
		}
		if got.Skipped != 2 {
			t.Errorf("expected 2 skipped, got %d", got.Skipped)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		got := Normalize(nil)
		if len(got.Villagers) != 0 || got.Format != models.FormatNew {
			t.Errorf("unexpected result %+v", got)
		}
	})
}

func TestCompatible(t *testing.T) {
	v := raymond()
	r := Compatible(v)
	if r.Villager == nil || r.Legacy == nil {
		t.Fatal("expected both shapes")
	}

	v.Name = "Changed"
	if Name(r) != "Raymond" {
		t.Error("record should not alias the caller's villager")
	}
}
