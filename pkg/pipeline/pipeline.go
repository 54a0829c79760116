package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"

	"iganalyzer/internal/fetch"
	"iganalyzer/pkg/analytics"
	"iganalyzer/pkg/config"
	"iganalyzer/pkg/errors"
	"iganalyzer/pkg/extract"
	"iganalyzer/pkg/logger"
	"iganalyzer/pkg/models"
	"iganalyzer/pkg/poster"
	"iganalyzer/pkg/storage"
)

// PostIterator is a finite, forward-only sequence of raw post nodes.
type PostIterator interface {
	Next() (map[string]any, bool, error)
}

// ProfileSource provides profile summaries and raw timeline nodes in the
// live dialect.
type ProfileSource interface {
	Profile(username string) (*models.ProfileSummary, error)
	ListPosts(userID string, limit int) PostIterator
}

// Pipeline wires the stages together: collect raw nodes, normalize them into
// the canonical Post shape, persist posts.json, fetch image assets, and run
// analytics and poster assembly over the persisted collection.
type Pipeline struct {
	cfg    *config.Config
	source ProfileSource
	blobs  fetch.BlobFetcher
	logger logger.Logger
}

// New creates a pipeline. The source may be nil for runs that only operate
// on captured responses or persisted collections.
func New(cfg *config.Config, source ProfileSource, blobs fetch.BlobFetcher, log logger.Logger) *Pipeline {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Pipeline{
		cfg:    cfg,
		source: source,
		blobs:  blobs,
		logger: log,
	}
}

// ScrapeResult summarizes one collection run against the live source.
type ScrapeResult struct {
	Profile   *models.ProfileSummary
	Posts     []models.Post
	Rejected  int
	Tally     fetch.Tally
	OutputDir string
}

// Scrape collects a profile's timeline from the live source, normalizes it,
// writes posts.json and fetches the image assets. The collection is written
// only after iteration completes; a listing failure mid-stream leaves no
// partial artifact behind.
func (p *Pipeline) Scrape(username string, limit int) (*ScrapeResult, error) {
	profile, err := p.source.Profile(username)
	if err != nil {
		return nil, err
	}

	p.logger.InfoWithFields("profile found", map[string]interface{}{
		"username":  profile.Username,
		"full_name": profile.FullName,
		"posts":     profile.MediaCount,
		"followers": profile.Followers,
	})

	var (
		posts    []models.Post
		rejected int
	)

	it := p.source.ListPosts(profile.UserID, limit)
	for {
		raw, ok, err := it.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}

		post, err := extract.Normalize(raw, extract.DialectLive)
		if err != nil {
			rejected++
			p.logger.WithError(err).Debug("record rejected")
			continue
		}
		posts = append(posts, *post)
	}

	p.logger.InfoWithFields("collection complete", map[string]interface{}{
		"username": username,
		"posts":    len(posts),
		"rejected": rejected,
	})

	mgr, err := p.managerFor(username)
	if err != nil {
		return nil, err
	}
	if err := mgr.SavePosts(posts); err != nil {
		return nil, err
	}

	tally := p.fetchAssets(mgr, posts)

	return &ScrapeResult{
		Profile:   profile,
		Posts:     posts,
		Rejected:  rejected,
		Tally:     tally,
		OutputDir: mgr.OutputDir(),
	}, nil
}

// ExtractResult summarizes one run over a captured API response.
type ExtractResult struct {
	Posts     []models.Post
	Rejected  int
	Tally     fetch.Tally
	OutputDir string
}

// Extract reads a captured API response document, locates the post edge
// collection anywhere in its structure, normalizes it, writes posts.json and
// fetches the image assets. An empty collection still produces a posts.json,
// so downstream stages see an explicit empty artifact rather than a missing
// file.
func (p *Pipeline) Extract(responsePath, account string) (*ExtractResult, error) {
	data, err := os.ReadFile(responsePath)
	if err != nil {
		return nil, errors.New(errors.KindSourceNotFound, "failed to read response file: %v", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.New(errors.KindMalformedRecord, "response file is not valid JSON: %v", err)
	}

	edges, err := extract.FindEdges(doc)
	if err != nil {
		return nil, err
	}

	posts, rejected := extract.NormalizeEdges(edges, extract.DialectCaptured)

	p.logger.InfoWithFields("extraction complete", map[string]interface{}{
		"file":     responsePath,
		"posts":    len(posts),
		"rejected": rejected,
	})

	mgr, err := p.managerFor(account)
	if err != nil {
		return nil, err
	}
	if err := mgr.SavePosts(posts); err != nil {
		return nil, err
	}

	tally := p.fetchAssets(mgr, posts)

	return &ExtractResult{
		Posts:     posts,
		Rejected:  rejected,
		Tally:     tally,
		OutputDir: mgr.OutputDir(),
	}, nil
}

// Analyze loads a persisted collection, computes the report and writes
// report.json next to it. An empty collection returns analytics.ErrNoData
// and writes nothing.
func (p *Pipeline) Analyze(postsPath string) (*models.Report, string, error) {
	posts, err := storage.LoadPostsFile(postsPath)
	if err != nil {
		return nil, "", err
	}

	rep, err := analytics.Aggregate(posts)
	if err != nil {
		return nil, "", err
	}

	mgr, err := storage.NewManager(filepath.Dir(postsPath))
	if err != nil {
		return nil, "", err
	}
	if err := mgr.SaveReport(rep); err != nil {
		return nil, "", err
	}

	p.logger.InfoWithFields("report written", map[string]interface{}{
		"path":  mgr.ReportPath(),
		"posts": rep.TotalPosts,
	})

	return rep, mgr.ReportPath(), nil
}

// Poster loads a persisted collection, recomputes the report and assembles
// the poster layout over the image assets sitting next to the collection.
func (p *Pipeline) Poster(postsPath, account string) (string, error) {
	posts, err := storage.LoadPostsFile(postsPath)
	if err != nil {
		return "", err
	}

	rep, err := analytics.Aggregate(posts)
	if err != nil {
		return "", err
	}

	mgr, err := storage.NewManager(filepath.Dir(postsPath))
	if err != nil {
		return "", err
	}

	layout := poster.Assemble(account, rep, posts, mgr.Assets())

	writer := poster.NewLayoutWriter(mgr.OutputDir())
	path, err := writer.Render(layout)
	if err != nil {
		return "", err
	}

	p.logger.InfoWithFields("poster layout written", map[string]interface{}{
		"path":    path,
		"account": account,
	})

	return path, nil
}

// managerFor opens the storage manager for an account's output directory.
func (p *Pipeline) managerFor(account string) (*storage.Manager, error) {
	dir := p.cfg.Output.BaseDirectory
	if p.cfg.Output.CreateUserFolders && account != "" {
		dir = filepath.Join(dir, account)
	}
	return storage.NewManager(dir)
}

func (p *Pipeline) fetchAssets(mgr *storage.Manager, posts []models.Post) fetch.Tally {
	if p.blobs == nil || len(posts) == 0 {
		return fetch.Tally{}
	}

	f := fetch.New(p.blobs, mgr, p.cfg.Fetch.Delay, p.logger)
	tally := f.FetchAll(posts)

	p.logger.InfoWithFields("asset fetch complete", map[string]interface{}{
		"fetched": tally.Fetched,
		"skipped": tally.Skipped,
		"failed":  tally.Failed,
	})

	return tally
}
