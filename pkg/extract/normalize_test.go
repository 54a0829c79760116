package extract

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func liveNode() map[string]any {
	return map[string]any{
		"id":          "123",
		"shortcode":   "ABC123",
		"display_url": "https://cdn.example.com/abc.jpg",
		"timestamp":   float64(1700000000),
		"likes":       float64(42),
		"comments":    float64(7),
		"caption":     "Loving #life and #growth, thanks @jane",
		"is_video":    false,
	}
}

func capturedNode() map[string]any {
	return map[string]any{
		"id":                 "456",
		"shortcode":          "XYZ789",
		"display_url":        "https://cdn.example.com/xyz.jpg",
		"taken_at_timestamp": float64(1700000000),
		"is_video":           false,
		"edge_liked_by":      map[string]any{"count": float64(100)},
		"edge_media_to_comment": map[string]any{
			"count": float64(12),
		},
		"edge_media_to_caption": map[string]any{
			"edges": []any{
				map[string]any{"node": map[string]any{"text": "New #art drop"}},
			},
		},
		"dimensions": map[string]any{"width": float64(1080), "height": float64(1350)},
	}
}

func TestNormalizeLiveDialect(t *testing.T) {
	post, err := Normalize(liveNode(), DialectLive)
	require.NoError(t, err)

	assert.Equal(t, "123", post.ID)
	assert.Equal(t, "ABC123", post.Shortcode)
	assert.Equal(t, int64(1700000000), post.Timestamp)
	assert.Equal(t, 42, post.Likes)
	assert.Equal(t, 7, post.Comments)
	assert.False(t, post.IsVideo)
	assert.Equal(t, []string{"growth", "life"}, post.Hashtags)
	assert.Equal(t, []string{"jane"}, post.Mentions)
}

func TestNormalizeCapturedDialect(t *testing.T) {
	post, err := Normalize(capturedNode(), DialectCaptured)
	require.NoError(t, err)

	assert.Equal(t, "XYZ789", post.Shortcode)
	assert.Equal(t, int64(1700000000), post.Timestamp)
	assert.Equal(t, 100, post.Likes)
	assert.Equal(t, 12, post.Comments)
	assert.Equal(t, "New #art drop", post.Caption)
	assert.Equal(t, []string{"art"}, post.Hashtags)
	require.NotNil(t, post.Dimensions)
	assert.Equal(t, 1080, post.Dimensions.Width)
	assert.Equal(t, 1350, post.Dimensions.Height)
}

func TestNormalizeRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"video post", func(n map[string]any) { n["is_video"] = true }},
		{"missing display url", func(n map[string]any) { delete(n, "display_url") }},
		{"missing shortcode", func(n map[string]any) { delete(n, "shortcode") }},
		{"missing timestamp", func(n map[string]any) { delete(n, "timestamp") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := liveNode()
			tt.mutate(node)

			_, err := Normalize(node, DialectLive)
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, ErrRejected))
		})
	}
}

func TestNormalizeNilNode(t *testing.T) {
	_, err := Normalize(nil, DialectLive)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, ErrRejected))
}

func TestNormalizeSuppliedTokenSets(t *testing.T) {
	node := liveNode()
	node["hashtags"] = []any{"zeta", "alpha", "zeta"}
	node["mentions"] = []string{"bob", "alice"}

	post, err := Normalize(node, DialectLive)
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha", "zeta"}, post.Hashtags)
	assert.Equal(t, []string{"alice", "bob"}, post.Mentions)
}

func TestNormalizeCapturedMissingCounts(t *testing.T) {
	node := capturedNode()
	delete(node, "edge_liked_by")
	delete(node, "edge_media_to_caption")

	post, err := Normalize(node, DialectCaptured)
	require.NoError(t, err)

	assert.Equal(t, 0, post.Likes)
	assert.Equal(t, "", post.Caption)
	assert.Equal(t, []string{}, post.Hashtags)
}

func TestNormalizeEdges(t *testing.T) {
	edges := []any{
		map[string]any{"node": liveNode()},
		map[string]any{"node": func() map[string]any {
			n := liveNode()
			n["is_video"] = true
			return n
		}()},
		"not a map",
		liveNode(),
	}

	posts, rejected := NormalizeEdges(edges, DialectLive)

	assert.Len(t, posts, 2)
	assert.Equal(t, 2, rejected)
}

func TestDialectString(t *testing.T) {
	assert.Equal(t, "live", DialectLive.String())
	assert.Equal(t, "captured", DialectCaptured.String())
}
