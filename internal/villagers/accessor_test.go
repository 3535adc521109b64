package villagers

import (
	"testing"

	"github.com/desertthunder/villagedex/internal/models"
	"github.com/google/go-cmp/cmp"
)

func raymond() models.Villager {
	return models.Villager{
		Name:           "Raymond",
		Species:        "Cat",
		Gender:         "Male",
		Personality:    "Smug",
		Birthday:       "October 1",
		Catchphrase:    "crisp",
		PosterImageURL: "https://acnhapi.com/v1/images/villagers/400",
		Hobby:          "Education",
		Appearances:    []string{"New Horizons"},
	}
}

func raymondLegacy() models.LegacyVillager {
	return models.LegacyVillager{
		Name:           models.LegacyName{USen: "Raymond", EUen: "Raymond"},
		Species:        "Cat",
		Gender:         "Male",
		Personality:    "Smug",
		BirthdayString: "October 1st",
		Birthday:       "1/10",
		CatchPhrase:    "crisp",
		ImageURI:       "https://acnhapi.com/v1/images/villagers/400",
		Hobby:          "Education",
	}
}

func TestAccessorParity(t *testing.T) {
	fresh := raymond()
	legacy := raymondLegacy()

	t.Run("Legacy And New Shapes Summarize Identically", func(t *testing.T) {
		a := Summarize(models.Record{Villager: &fresh})
		b := Summarize(models.Record{Legacy: &legacy})
		if diff := cmp.Diff(a, b); diff != "" {
			t.Errorf("summary mismatch (-new +legacy):\n%s", diff)
		}
	})

	t.Run("Compatible Record Matches Plain Record For Every Field", func(t *testing.T) {
		plain := models.Record{Villager: &fresh}
		compat := Compatible(fresh)
		for _, f := range Fields() {
			if diff := cmp.Diff(Get(plain, f), Get(compat, f)); diff != "" {
				t.Errorf("field %s differs (-plain +compat):\n%s", f, diff)
			}
		}
	})

	t.Run("Legacy Converted Through Adapter Matches", func(t *testing.T) {
		converted := LegacyToNew(legacy)
		a := Summarize(Compatible(fresh))
		b := Summarize(Compatible(converted))
		if diff := cmp.Diff(a, b); diff != "" {
			t.Errorf("summary mismatch (-new +converted):\n%s", diff)
		}
	})

	t.Run("Raw Values Are Canonicalised For Both Shapes", func(t *testing.T) {
		rawFresh := models.Villager{
			Name:        "Diana",
			Species:     "Deer",
			Gender:      "female",
			Personality: "Uchi",
			Birthday:    "January 4th",
			Catchphrase: "no doy",
		}
		rawLegacy := models.LegacyVillager{
			Name:           models.LegacyName{USen: "Diana"},
			Species:        "Deer",
			Gender:         "female",
			Personality:    "Uchi",
			BirthdayString: "January 4th",
			CatchPhrase:    "no doy",
		}

		records := map[string]models.Record{
			"new":           {Villager: &rawFresh},
			"legacy":        {Legacy: &rawLegacy},
			"legacy to new": Compatible(LegacyToNew(rawLegacy)),
		}
		for name, r := range records {
			t.Run(name, func(t *testing.T) {
				got := []string{Gender(r), DisplayGender(r), Personality(r), Birthday(r)}
				want := []string{"Female", "She/Her", "Big sister", "January 4"}
				if diff := cmp.Diff(want, got); diff != "" {
					t.Errorf("values mismatch (-want +got):\n%s", diff)
				}
			})
		}
	})
}

func TestAccessorDefaults(t *testing.T) {
	empty := models.Record{}

	if Name(empty) != UnknownName {
		t.Errorf("expected %q, got %q", UnknownName, Name(empty))
	}
	if ID(empty) != HashName(UnknownName) {
		t.Errorf("expected id to be hash of default name")
	}
	if got := Appearances(empty); len(got) != 1 || got[0] != "New Horizons" {
		t.Errorf("expected default appearances, got %v", got)
	}
	if Saying(empty) != "Living life one day at a time." {
		t.Errorf("unexpected default saying %q", Saying(empty))
	}
	if TextColor(empty) != "#333333" || BubbleColor(empty) != "#e0e0e0" {
		t.Errorf("unexpected default colours %s %s", TextColor(empty), BubbleColor(empty))
	}
	if HasEnhancedData(empty) {
		t.Error("empty record should not have enhanced data")
	}
	if Get(empty, Field("nickname")) != nil {
		t.Error("unknown field should return nil")
	}
}

func TestAccessorPrecedence(t *testing.T) {
	t.Run("Explicit Legacy ID Wins", func(t *testing.T) {
		legacy := raymondLegacy()
		legacy.ID = 400
		if got := ID(models.Record{Legacy: &legacy}); got != 400 {
			t.Errorf("expected explicit id 400, got %d", got)
		}
	})

	t.Run("New Schema Wins Over Legacy", func(t *testing.T) {
		fresh := raymond()
		fresh.Hobby = "Nature"
		legacy := raymondLegacy()
		r := models.Record{Villager: &fresh, Legacy: &legacy}
		if Hobby(r) != "Nature" {
			t.Errorf("expected new schema hobby, got %q", Hobby(r))
		}
	})

	t.Run("Empty New Field Falls Back To Legacy", func(t *testing.T) {
		fresh := raymond()
		fresh.Catchphrase = ""
		legacy := raymondLegacy()
		legacy.CatchPhrase = "crisp!"
		r := models.Record{Villager: &fresh, Legacy: &legacy}
		if Catchphrase(r) != "crisp!" {
			t.Errorf("expected legacy catchphrase, got %q", Catchphrase(r))
		}
	})

	t.Run("Legacy Saying Wins Over Personality Default", func(t *testing.T) {
		legacy := raymondLegacy()
		legacy.Saying = "Crisp suits, crisp mind."
		if got := Saying(models.Record{Legacy: &legacy}); got != legacy.Saying {
			t.Errorf("expected legacy saying, got %q", got)
		}
	})
}

func TestDerivedFields(t *testing.T) {
	fresh := raymond()
	r := models.Record{Villager: &fresh}

	if DisplayGender(r) != "He/Him" {
		t.Errorf("expected He/Him, got %s", DisplayGender(r))
	}
	if got, want := FullDescription(r), "Raymond, a Cat villager with Smug personality"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if Saying(r) != "Naturally, I'm fabulous." {
		t.Errorf("unexpected saying %q", Saying(r))
	}
	if !HasEnhancedData(r) {
		t.Error("record with poster should be enhanced")
	}

	fresh.Gender = "Female"
	if DisplayGender(r) != "She/Her" {
		t.Errorf("expected She/Her, got %s", DisplayGender(r))
	}
}

func TestParseField(t *testing.T) {
	tt := []struct {
		input string
		want  Field
	}{
		{"name", FieldName},
		{"imageUrl", FieldImageURL},
		{"image_url", FieldImageURL},
		{"poster_image_url", FieldImageURL},
		{"house-song", FieldHouseSong},
		{"FAVORITE_COLORS", FieldFavoriteColors},
		{"color", FieldFavoriteColors},
	}
	for _, tc := range tt {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseField(tc.input)
			if err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if got != tc.want {
				t.Errorf("ParseField(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}

	if _, err := ParseField("nickname"); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestGetString(t *testing.T) {
	fresh := raymond()
	fresh.FavoriteGifts = &models.FavoriteGifts{Colors: []string{"Gray", "Black"}}
	r := models.Record{Villager: &fresh}

	if got := GetString(r, FieldFavoriteColors); got != "Gray, Black" {
		t.Errorf("expected joined colours, got %q", got)
	}
	if got := GetString(r, FieldID); got == "" || got == "0" {
		t.Errorf("expected numeric id text, got %q", got)
	}
	if got := GetString(r, Field("nope")); got != "" {
		t.Errorf("expected empty string for unknown field, got %q", got)
	}
}

func TestFind(t *testing.T) {
	records := CompatibleAll([]models.Villager{raymond(), {Name: "Isabelle", Species: "Dog"}})

	if r, ok := Find(records, "isabelle"); !ok || Name(r) != "Isabelle" {
		t.Errorf("expected case-insensitive name lookup, got %v", ok)
	}

	id := HashName("Raymond")
	if r, ok := FindByID(records, id); !ok || Name(r) != "Raymond" {
		t.Errorf("expected id lookup to find Raymond")
	}
	if _, ok := Find(records, "Tom Nook"); ok {
		t.Error("did not expect to find Tom Nook")
	}
}
