// package services defines the villager data sources the loader falls through
package services

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/desertthunder/villagedex/internal/models"
	"github.com/desertthunder/villagedex/internal/shared"
	"github.com/desertthunder/villagedex/internal/villagers"
)

//go:embed data/villagers.json
var bundledDataset []byte

//go:embed data/sample.json
var sampleDataset []byte

// Source provides raw villager elements from one tier.
type Source interface {
	// Kind names the tier for reporting.
	Kind() models.Source

	// Fetch returns the dataset's elements in document order.
	Fetch(ctx context.Context) ([]json.RawMessage, error)
}

// BundledSource reads the dataset shipped with the binary, or a file on disk
// when a path is configured.
type BundledSource struct {
	path string
}

// NewBundledSource creates a [BundledSource]. An empty path uses the embedded dataset.
func NewBundledSource(path string) *BundledSource {
	return &BundledSource{path: path}
}

func (b *BundledSource) Kind() models.Source { return models.SourceReal }

// Path is the configured file, empty for the embedded dataset.
func (b *BundledSource) Path() string { return b.path }

func (b *BundledSource) Fetch(ctx context.Context) ([]json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := bundledDataset
	if b.path != "" {
		var err error
		if data, err = os.ReadFile(b.path); err != nil {
			return nil, fmt.Errorf("%w: %w", shared.ErrSourceUnavailable, err)
		}
	}
	return villagers.SplitDataset(data)
}

// SampleSource serves the small built-in sample. It is the last tier and
// does not fail unless the binary is corrupt.
type SampleSource struct{}

func NewSampleSource() *SampleSource { return &SampleSource{} }

func (SampleSource) Kind() models.Source { return models.SourceSample }

func (SampleSource) Fetch(ctx context.Context) ([]json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return villagers.SplitDataset(sampleDataset)
}
