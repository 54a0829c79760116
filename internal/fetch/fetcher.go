package fetch

import (
	"bytes"
	"io"
	"time"

	"go.uber.org/ratelimit"

	"iganalyzer/pkg/logger"
	"iganalyzer/pkg/models"
)

// BlobFetcher fetches binary content by URL.
type BlobFetcher interface {
	Fetch(url string) ([]byte, error)
}

// AssetStore persists fetched blobs and knows which are already present.
type AssetStore interface {
	HasAsset(shortcode string) bool
	SaveAsset(r io.Reader, shortcode string) error
}

// Tally counts the outcome of one fetch pass. Skipped covers assets that
// already existed at their deterministic path; those are never refetched
// and never counted as failures.
type Tally struct {
	Fetched int
	Skipped int
	Failed  int
}

// Fetcher downloads the image for each post, one at a time, pausing a fixed
// delay between network fetches. The delay is a politeness contract towards
// the source. A single failed fetch is logged and tallied, never fatal.
type Fetcher struct {
	blobs   BlobFetcher
	store   AssetStore
	limiter ratelimit.Limiter
	logger  logger.Logger
}

// New creates a Fetcher with the given inter-request delay.
func New(blobs BlobFetcher, store AssetStore, delay time.Duration, log logger.Logger) *Fetcher {
	if log == nil {
		log = logger.GetLogger()
	}

	var limiter ratelimit.Limiter
	if delay > 0 {
		limiter = ratelimit.New(1, ratelimit.Per(delay))
	} else {
		limiter = ratelimit.NewUnlimited()
	}

	return &Fetcher{
		blobs:   blobs,
		store:   store,
		limiter: limiter,
		logger:  log,
	}
}

// FetchAll fetches the image for every post in collection order. Each
// shortcode is fetched at most once per run; an asset already on disk is
// skipped.
func (f *Fetcher) FetchAll(posts []models.Post) Tally {
	var tally Tally

	for i, p := range posts {
		fields := map[string]interface{}{
			"shortcode": p.Shortcode,
			"index":     i + 1,
			"total":     len(posts),
		}

		if p.DisplayURL == "" {
			tally.Skipped++
			f.logger.WarnWithFields("post has no display URL, skipping", fields)
			continue
		}

		if f.store.HasAsset(p.Shortcode) {
			tally.Skipped++
			f.logger.InfoWithFields("asset already exists, skipping fetch", fields)
			continue
		}

		f.limiter.Take()

		data, err := f.blobs.Fetch(p.DisplayURL)
		if err != nil {
			tally.Failed++
			f.logger.WithError(err).WarnWithFields("fetch failed, continuing", fields)
			continue
		}

		if err := f.store.SaveAsset(bytes.NewReader(data), p.Shortcode); err != nil {
			tally.Failed++
			f.logger.WithError(err).WarnWithFields("failed to save asset, continuing", fields)
			continue
		}

		fields["size"] = len(data)
		f.logger.InfoWithFields("asset fetched", fields)
		tally.Fetched++
	}

	return tally
}
