// package testing contains shared testing utilities
package testing

import (
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/villagedex/internal/models"
	"github.com/desertthunder/villagedex/internal/villagers"
)

// Villagers returns a small roster in the flat schema. Cyrano has no poster,
// hobby or gifts; Renée exercises diacritic folding.
func Villagers() []models.Villager {
	return []models.Villager{
		{
			Name: "Raymond", Species: "Cat", Gender: "Male", Personality: "Smug",
			Birthday: "October 1", Catchphrase: "crisp", Hobby: "Education",
			PosterImageURL: "https://acnhapi.com/v1/images/villagers/400",
			HouseSong:      "Café K.K.",
			Appearances:    []string{"New Horizons"},
			PageURL:        "https://nookipedia.com/wiki/Raymond",
			FavoriteGifts: &models.FavoriteGifts{
				Styles:        []string{"Elegant", "Cool"},
				Colors:        []string{"Gray", "Black"},
				IdealClothing: []string{"Business suit"},
			},
		},
		{
			Name: "Isabelle", Species: "Dog", Gender: "Female", Personality: "Normal",
			Birthday: "December 20", Catchphrase: "yes yes!", Hobby: "Nature",
			PosterImageURL: "https://acnhapi.com/v1/images/villagers/406",
			FavoriteGifts:  &models.FavoriteGifts{Colors: []string{"Yellow", "Green"}},
		},
		{
			Name: "Tom Nook", Species: "Raccoon Dog", Gender: "Male", Personality: "Cranky",
			Birthday: "May 30", Catchphrase: "yes yes", Hobby: "Education",
			PosterImageURL: "https://acnhapi.com/v1/images/villagers/401",
		},
		{
			Name: "Ankha", Species: "Cat", Gender: "Female", Personality: "Snooty",
			Birthday: "September 22", Catchphrase: "me meow", Hobby: "Nature",
			PosterImageURL: "https://acnhapi.com/v1/images/villagers/25",
			FavoriteGifts:  &models.FavoriteGifts{Colors: []string{"Yellow", "Blue"}},
		},
		{
			Name: "Marshal", Species: "Squirrel", Gender: "Male", Personality: "Smug",
			Birthday: "September 29", Catchphrase: "sulky", Hobby: "Music",
			PosterImageURL: "https://acnhapi.com/v1/images/villagers/264",
		},
		{
			Name: "Judy", Species: "Bear cub", Gender: "Female", Personality: "Snooty",
			Birthday: "March 10", Catchphrase: "myohmy", Hobby: "Fashion",
			FavoriteGifts: &models.FavoriteGifts{Colors: []string{"Pink", "Purple"}},
		},
		{
			Name: "Renée", Species: "Rhino", Gender: "Female", Personality: "Big sister",
			Birthday: "May 28", Catchphrase: "yo yo yo", Hobby: "Music",
		},
		{
			Name: "Cyrano", Species: "Anteater", Gender: "Male", Personality: "Cranky",
			Birthday: "March 9", Catchphrase: "ah-CHOO",
		},
	}
}

// Records returns [Villagers] as loaded records.
func Records() []models.Record {
	return villagers.CompatibleAll(Villagers())
}

// MustFind returns the fixture record named name.
func MustFind(t *testing.T, records []models.Record, name string) models.Record {
	t.Helper()
	r, ok := villagers.Find(records, name)
	if !ok {
		t.Fatalf("fixture %q not found", name)
	}
	return r
}

// Membership is an in-memory have/want set.
type Membership struct {
	Have map[int64]bool
	Want map[int64]bool
}

// NewMembership builds a Membership from villager names.
func NewMembership(have, want []string) *Membership {
	m := &Membership{Have: map[int64]bool{}, Want: map[int64]bool{}}
	for _, n := range have {
		m.Have[villagers.HashName(n)] = true
	}
	for _, n := range want {
		m.Want[villagers.HashName(n)] = true
	}
	return m
}

func (m *Membership) IsInHave(id int64) bool { return m.Have[id] }
func (m *Membership) IsInWant(id int64) bool { return m.Want[id] }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func MustWriteFile(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}
