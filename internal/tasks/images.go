package tasks

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/desertthunder/villagedex/internal/models"
	"github.com/desertthunder/villagedex/internal/villagers"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ImageCheckOpts configures [CheckImages].
type ImageCheckOpts struct {
	Workers   int           // Concurrent requests (default: 4, max: 16)
	RateLimit float64       // Requests per second (default: 5)
	Timeout   time.Duration // Per-request timeout (default: 5s)
	Client    *http.Client
}

// ImageStatus is the outcome for one villager's poster.
type ImageStatus struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	URL    string `json:"url,omitempty"`
	Status int    `json:"status,omitempty"`
	OK     bool   `json:"ok"`
	Err    string `json:"error,omitempty"`
}

// ImageCheckResult aggregates [ImageStatus] values in roster order.
type ImageCheckResult struct {
	Results   []ImageStatus `json:"results"`
	Checked   int           `json:"checked"`
	Available int           `json:"available"`
	Broken    int           `json:"broken"`
	Missing   int           `json:"missing"`
}

// CheckImages issues a HEAD request for every poster URL with bounded
// concurrency and a shared rate limit. Records without a URL are reported as
// missing without a request. Individual failures are recorded, not returned;
// the error is non-nil only when ctx ends early.
func CheckImages(ctx context.Context, progress chan<- ProgressUpdate, records []models.Record, opts ImageCheckOpts) (*ImageCheckResult, error) {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.Workers > 16 {
		opts.Workers = 16
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	statuses := make([]ImageStatus, len(records))
	total := len(records)
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for i, r := range records {
		status := ImageStatus{ID: villagers.ID(r), Name: villagers.Name(r), URL: villagers.ImageURL(r)}
		if status.URL == "" {
			status.Err = "no image url"
			statuses[i] = status
			sendProgress(progress, imageCheckedUpdate(int(done.Add(1)), total, status))
			continue
		}

		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return err
			}
			statuses[i] = headImage(gctx, opts, status)
			sendProgress(progress, imageCheckedUpdate(int(done.Add(1)), total, statuses[i]))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("image check interrupted: %w", err)
	}

	result := &ImageCheckResult{Results: statuses}
	for _, s := range statuses {
		switch {
		case s.URL == "":
			result.Missing++
		case s.OK:
			result.Checked++
			result.Available++
		default:
			result.Checked++
			result.Broken++
		}
	}
	return result, nil
}

func headImage(ctx context.Context, opts ImageCheckOpts, status ImageStatus) ImageStatus {
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, status.URL, nil)
	if err != nil {
		status.Err = fmt.Sprintf("invalid url: %v", err)
		return status
	}

	resp, err := opts.Client.Do(req)
	if err != nil {
		status.Err = err.Error()
		return status
	}
	resp.Body.Close()

	status.Status = resp.StatusCode
	status.OK = resp.StatusCode >= 200 && resp.StatusCode < 400
	if !status.OK {
		status.Err = http.StatusText(resp.StatusCode)
	}
	return status
}
