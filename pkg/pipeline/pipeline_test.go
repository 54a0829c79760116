package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iganalyzer/pkg/config"
	"iganalyzer/pkg/errors"
	"iganalyzer/pkg/models"
)

type fakeIterator struct {
	nodes []map[string]any
	pos   int
	err   error
}

func (it *fakeIterator) Next() (map[string]any, bool, error) {
	if it.pos >= len(it.nodes) {
		if it.err != nil {
			return nil, false, it.err
		}
		return nil, false, nil
	}
	node := it.nodes[it.pos]
	it.pos++
	return node, true, nil
}

type fakeSource struct {
	profile *models.ProfileSummary
	nodes   []map[string]any
	listErr error
}

func (s *fakeSource) Profile(username string) (*models.ProfileSummary, error) {
	if s.profile == nil {
		return nil, errors.New(errors.KindSourceNotFound, "profile %q does not exist", username)
	}
	return s.profile, nil
}

func (s *fakeSource) ListPosts(userID string, limit int) PostIterator {
	return &fakeIterator{nodes: s.nodes, err: s.listErr}
}

type fakeBlobs map[string][]byte

func (f fakeBlobs) Fetch(url string) ([]byte, error) {
	data, ok := f[url]
	if !ok {
		return nil, errors.New(errors.KindFetch, "fetch failed")
	}
	return data, nil
}

func testConfig(t *testing.T) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Output.BaseDirectory = t.TempDir()
	cfg.Fetch.Delay = 0
	return cfg
}

func liveNode(shortcode string, likes int, tsOffset int) map[string]any {
	return map[string]any{
		"id":          shortcode + "-id",
		"shortcode":   shortcode,
		"display_url": "https://cdn.example.com/" + shortcode + ".jpg",
		"timestamp":   time.Date(2024, time.April, 1+tsOffset, 12, 0, 0, 0, time.UTC).Unix(),
		"likes":       likes,
		"comments":    likes / 10,
		"caption":     "post #daily",
		"is_video":    false,
	}
}

func TestScrape(t *testing.T) {
	source := &fakeSource{
		profile: &models.ProfileSummary{Username: "someone", UserID: "42", MediaCount: 3},
		nodes: []map[string]any{
			liveNode("aaa", 100, 0),
			liveNode("bbb", 200, 1),
			func() map[string]any {
				n := liveNode("vid", 300, 2)
				n["is_video"] = true
				return n
			}(),
		},
	}
	blobs := fakeBlobs{
		"https://cdn.example.com/aaa.jpg": []byte("A"),
		"https://cdn.example.com/bbb.jpg": []byte("B"),
	}

	cfg := testConfig(t)
	p := New(cfg, source, blobs, nil)

	result, err := p.Scrape("someone", 0)
	require.NoError(t, err)

	assert.Len(t, result.Posts, 2)
	assert.Equal(t, 1, result.Rejected)
	assert.Equal(t, 2, result.Tally.Fetched)

	wantDir := filepath.Join(cfg.Output.BaseDirectory, "someone")
	assert.Equal(t, wantDir, result.OutputDir)

	_, err = os.Stat(filepath.Join(wantDir, "posts.json"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(wantDir, "aaa.jpg"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(wantDir, "bbb.jpg"))
	assert.NoError(t, err)
}

func TestScrapeAllRecordsRejectedWritesEmptyCollection(t *testing.T) {
	video := liveNode("vid", 100, 0)
	video["is_video"] = true

	source := &fakeSource{
		profile: &models.ProfileSummary{Username: "someone", UserID: "42", MediaCount: 1},
		nodes:   []map[string]any{video},
	}

	cfg := testConfig(t)
	p := New(cfg, source, fakeBlobs{}, nil)

	result, err := p.Scrape("someone", 0)
	require.NoError(t, err)
	assert.Empty(t, result.Posts)
	assert.Equal(t, 1, result.Rejected)

	// The persisted collection is an explicit empty array, not null.
	data, err := os.ReadFile(filepath.Join(result.OutputDir, "posts.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestScrapeUnknownProfile(t *testing.T) {
	p := New(testConfig(t), &fakeSource{}, fakeBlobs{}, nil)

	_, err := p.Scrape("ghost", 0)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindSourceNotFound))
}

func TestScrapeListingFailureWritesNothing(t *testing.T) {
	source := &fakeSource{
		profile: &models.ProfileSummary{Username: "someone", UserID: "42"},
		nodes:   []map[string]any{liveNode("aaa", 100, 0)},
		listErr: errors.New(errors.KindAccessDenied, "session expired"),
	}

	cfg := testConfig(t)
	p := New(cfg, source, fakeBlobs{}, nil)

	_, err := p.Scrape("someone", 0)
	require.Error(t, err)

	_, err = os.Stat(filepath.Join(cfg.Output.BaseDirectory, "someone", "posts.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestExtract(t *testing.T) {
	captured := `{
		"data": {
			"user": {
				"edge_owner_to_timeline_media": {
					"edges": [
						{
							"node": {
								"id": "1",
								"shortcode": "abc",
								"display_url": "https://cdn.example.com/abc.jpg",
								"is_video": false,
								"taken_at_timestamp": 1700000000,
								"edge_liked_by": {"count": 10},
								"edge_media_to_comment": {"count": 1},
								"edge_media_to_caption": {"edges": [{"node": {"text": "hi #go"}}]}
							}
						},
						{"node": {"id": "2", "shortcode": "vid", "display_url": "u", "is_video": true}}
					]
				}
			}
		}
	}`

	cfg := testConfig(t)
	responsePath := filepath.Join(t.TempDir(), "response.json")
	require.NoError(t, os.WriteFile(responsePath, []byte(captured), 0644))

	blobs := fakeBlobs{"https://cdn.example.com/abc.jpg": []byte("A")}
	p := New(cfg, nil, blobs, nil)

	result, err := p.Extract(responsePath, "someone")
	require.NoError(t, err)

	require.Len(t, result.Posts, 1)
	assert.Equal(t, "abc", result.Posts[0].Shortcode)
	assert.Equal(t, []string{"go"}, result.Posts[0].Hashtags)
	assert.Equal(t, 1, result.Rejected)
	assert.Equal(t, 1, result.Tally.Fetched)
}

func TestExtractMissingFile(t *testing.T) {
	p := New(testConfig(t), nil, fakeBlobs{}, nil)

	_, err := p.Extract(filepath.Join(t.TempDir(), "nope.json"), "someone")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindSourceNotFound))
}

func TestExtractMalformedDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "response.json")
	require.NoError(t, os.WriteFile(path, []byte("<html>"), 0644))

	p := New(testConfig(t), nil, fakeBlobs{}, nil)

	_, err := p.Extract(path, "someone")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindMalformedRecord))
}

func TestExtractNoEdgesWritesEmptyCollection(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(t.TempDir(), "response.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"data": {"user": {}}}`), 0644))

	p := New(cfg, nil, fakeBlobs{}, nil)

	result, err := p.Extract(path, "someone")
	require.NoError(t, err)
	assert.Empty(t, result.Posts)

	_, err = os.Stat(filepath.Join(result.OutputDir, "posts.json"))
	assert.NoError(t, err)
}

func TestAnalyzeAndPoster(t *testing.T) {
	cfg := testConfig(t)
	source := &fakeSource{
		profile: &models.ProfileSummary{Username: "someone", UserID: "42"},
		nodes: []map[string]any{
			liveNode("aaa", 100, 0),
			liveNode("bbb", 200, 1),
		},
	}
	blobs := fakeBlobs{
		"https://cdn.example.com/aaa.jpg": []byte("A"),
		"https://cdn.example.com/bbb.jpg": []byte("B"),
	}
	p := New(cfg, source, blobs, nil)

	scraped, err := p.Scrape("someone", 0)
	require.NoError(t, err)
	postsPath := filepath.Join(scraped.OutputDir, "posts.json")

	rep, reportPath, err := p.Analyze(postsPath)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.TotalPosts)
	assert.Equal(t, 300, rep.TotalLikes)

	_, err = os.Stat(reportPath)
	assert.NoError(t, err)

	layoutPath, err := p.Poster(postsPath, "someone")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(scraped.OutputDir, "poster_layout.json"), layoutPath)
}

func TestAnalyzeEmptyCollection(t *testing.T) {
	cfg := testConfig(t)
	postsPath := filepath.Join(cfg.Output.BaseDirectory, "posts.json")
	require.NoError(t, os.WriteFile(postsPath, []byte("[]\n"), 0644))

	p := New(cfg, nil, nil, nil)

	_, _, err := p.Analyze(postsPath)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindEmptyCollection))

	// No report is written for an empty collection.
	_, err = os.Stat(filepath.Join(cfg.Output.BaseDirectory, "report.json"))
	assert.True(t, os.IsNotExist(err))
}
