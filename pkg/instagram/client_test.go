package instagram

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iganalyzer/pkg/config"
	"iganalyzer/pkg/errors"
)

func newTestClient(serverURL string) *Client {
	return NewClient(&config.SourceConfig{
		BaseURL:   serverURL,
		UserAgent: "test-agent",
		Timeout:   5 * time.Second,
	}, 0, nil)
}

const profileBody = `{
	"data": {
		"user": {
			"id": "42",
			"full_name": "Some One",
			"edge_followed_by": {"count": 1000},
			"edge_follow": {"count": 150},
			"edge_owner_to_timeline_media": {"count": 3}
		}
	},
	"status": "ok"
}`

func TestFetchProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, ProfileEndpoint, r.URL.Path)
		assert.Equal(t, "someone", r.URL.Query().Get("username"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		fmt.Fprint(w, profileBody)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.FetchProfile("someone")
	require.NoError(t, err)

	assert.Equal(t, "42", resp.Data.User.ID)
	assert.Equal(t, "Some One", resp.Data.User.FullName)
	assert.Equal(t, 1000, resp.Data.User.EdgeFollowedBy.Count)
}

func TestFetchProfileNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.FetchProfile("ghost")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindSourceNotFound))
	assert.Contains(t, err.Error(), "ghost")
}

func TestFetchProfileAccessDenied(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.FetchProfile("private")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindAccessDenied))
}

func TestFetchProfileRequiresLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"requires_to_login": true, "status": "ok"}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.FetchProfile("walled")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindAccessDenied))
}

func TestFetchProfileMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>not json</html>")
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.FetchProfile("someone")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindMalformedRecord))
}

func TestFetchBlob(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("image bytes"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	data, err := client.Fetch(server.URL + "/some.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("image bytes"), data)
}

func TestFetchBlobFailureIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Fetch(server.URL + "/gone.jpg")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindFetch))
}

func mediaPage(shortcodes []string, hasNext bool, endCursor string) string {
	var edges []string
	for i, sc := range shortcodes {
		edges = append(edges, fmt.Sprintf(`{
			"node": {
				"id": "%d",
				"shortcode": "%s",
				"display_url": "https://cdn.example.com/%s.jpg",
				"is_video": false,
				"taken_at_timestamp": 1700000000,
				"edge_liked_by": {"count": 10},
				"edge_media_to_comment": {"count": 2},
				"edge_media_to_caption": {"edges": [{"node": {"text": "hello #world"}}]}
			}
		}`, i, sc, sc))
	}

	return fmt.Sprintf(`{
		"data": {
			"user": {
				"edge_owner_to_timeline_media": {
					"count": %d,
					"page_info": {"has_next_page": %t, "end_cursor": "%s"},
					"edges": [%s]
				}
			}
		},
		"status": "ok"
	}`, len(shortcodes), hasNext, endCursor, strings.Join(edges, ","))
}

func TestSourceIteratorPagesThroughTimeline(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if strings.Contains(r.URL.Query().Get("variables"), `"after":"c1"`) {
			fmt.Fprint(w, mediaPage([]string{"ccc"}, false, ""))
			return
		}
		fmt.Fprint(w, mediaPage([]string{"aaa", "bbb"}, true, "c1"))
	}))
	defer server.Close()

	source := NewSource(newTestClient(server.URL), 2, nil)
	it := source.ListPosts("42", 0)

	var shortcodes []string
	for {
		raw, ok, err := it.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		shortcodes = append(shortcodes, raw["shortcode"].(string))
	}

	assert.Equal(t, []string{"aaa", "bbb", "ccc"}, shortcodes)
	assert.Equal(t, 2, requests)
}

func TestSourceIteratorHonorsLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, mediaPage([]string{"aaa", "bbb", "ccc"}, false, ""))
	}))
	defer server.Close()

	source := NewSource(newTestClient(server.URL), 3, nil)
	it := source.ListPosts("42", 2)

	var count int
	for {
		_, ok, err := it.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		count++
	}

	assert.Equal(t, 2, count)
}

func TestNodeFlatten(t *testing.T) {
	node := Node{
		ID:               "7",
		Shortcode:        "abc",
		DisplayURL:       "https://cdn.example.com/abc.jpg",
		IsVideo:          false,
		TakenAtTimestamp: 1700000000,
		Dimensions:       Dimensions{Width: 1080, Height: 1350},
		EdgeLikedBy:      Count{Count: 55},
		EdgeMediaToComment: Count{
			Count: 5,
		},
		EdgeMediaToCaption: CaptionEdges{
			Edges: []CaptionEdge{{Node: CaptionNode{Text: "caption text"}}},
		},
	}

	raw := node.Flatten()

	assert.Equal(t, "abc", raw["shortcode"])
	assert.Equal(t, int64(1700000000), raw["timestamp"])
	assert.Equal(t, 55, raw["likes"])
	assert.Equal(t, 5, raw["comments"])
	assert.Equal(t, "caption text", raw["caption"])
	assert.Equal(t, false, raw["is_video"])

	dims, ok := raw["dimensions"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 1080, dims["width"])
}

func TestNodeFlattenOmitsZeroDimensions(t *testing.T) {
	node := Node{ID: "1", Shortcode: "abc"}
	raw := node.Flatten()
	_, ok := raw["dimensions"]
	assert.False(t, ok)
}
