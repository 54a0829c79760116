package extract

import (
	"fmt"

	"iganalyzer/pkg/errors"
	"iganalyzer/pkg/models"
)

// Dialect identifies the shape of a raw post node.
type Dialect int

const (
	// DialectLive is the flat field shape produced by the live profile source.
	DialectLive Dialect = iota
	// DialectCaptured is the nested edge_* shape found in captured API responses.
	DialectCaptured
)

func (d Dialect) String() string {
	switch d {
	case DialectLive:
		return "live"
	case DialectCaptured:
		return "captured"
	default:
		return "unknown"
	}
}

// ErrRejected marks a raw node that is excluded from the collection rather
// than failing the run: video posts, nodes without a display URL, and nodes
// missing required fields.
var ErrRejected = errors.New(errors.KindMalformedRecord, "record rejected")

// Rejection wraps ErrRejected with the reason a node was excluded.
type Rejection struct {
	Reason string
}

func (r *Rejection) Error() string { return fmt.Sprintf("record rejected: %s", r.Reason) }

// Unwrap lets errors.Is(err, ErrRejected) match any rejection.
func (r *Rejection) Unwrap() error { return ErrRejected }

func reject(reason string) error { return &Rejection{Reason: reason} }

// Normalize maps one raw node into a canonical Post. The node must already
// be unwrapped (the {"node": {...}} edge envelope removed). Rejected nodes
// return an error wrapping ErrRejected; callers skip those and continue.
func Normalize(node map[string]any, d Dialect) (*models.Post, error) {
	if node == nil {
		return nil, reject("empty node")
	}

	if boolField(node, "is_video") {
		return nil, reject("video post")
	}

	displayURL := stringField(node, "display_url")
	if displayURL == "" {
		return nil, reject("missing display URL")
	}

	shortcode := stringField(node, "shortcode")
	if shortcode == "" {
		return nil, reject("missing shortcode")
	}

	post := &models.Post{
		ID:         stringField(node, "id"),
		Shortcode:  shortcode,
		DisplayURL: displayURL,
		IsVideo:    false,
		Dimensions: dimensionsField(node),
	}

	var (
		ts      int64
		haveTS  bool
		caption string
	)

	switch d {
	case DialectCaptured:
		ts, haveTS = intField(node, "taken_at_timestamp")
		post.Likes = countField(node, "edge_liked_by")
		post.Comments = countField(node, "edge_media_to_comment")
		caption = capturedCaption(node)
	default:
		ts, haveTS = intField(node, "timestamp")
		likes, _ := intField(node, "likes")
		comments, _ := intField(node, "comments")
		post.Likes = int(likes)
		post.Comments = int(comments)
		caption = stringField(node, "caption")
	}

	if !haveTS {
		return nil, reject("missing timestamp")
	}
	post.Timestamp = ts
	post.Caption = caption

	if tags, ok := stringSliceField(node, "hashtags"); ok {
		post.Hashtags = models.NormalizeTokenSet(tags)
	} else {
		post.Hashtags = models.ExtractHashtags(caption)
	}
	if mentions, ok := stringSliceField(node, "mentions"); ok {
		post.Mentions = models.NormalizeTokenSet(mentions)
	} else {
		post.Mentions = models.ExtractMentions(caption)
	}

	return post, nil
}

// NormalizeEdges normalizes a located edge collection, unwrapping the
// {"node": ...} envelope each edge carries. It returns the accepted posts
// and the number of rejected records.
func NormalizeEdges(edges []any, d Dialect) ([]models.Post, int) {
	posts := make([]models.Post, 0, len(edges))
	rejected := 0

	for _, edge := range edges {
		m, ok := edge.(map[string]any)
		if !ok {
			rejected++
			continue
		}
		if inner, ok := m["node"].(map[string]any); ok {
			m = inner
		}

		post, err := Normalize(m, d)
		if err != nil {
			rejected++
			continue
		}
		posts = append(posts, *post)
	}

	return posts, rejected
}

// capturedCaption extracts the first caption-edge text, if any.
func capturedCaption(node map[string]any) string {
	wrapper, ok := node["edge_media_to_caption"].(map[string]any)
	if !ok {
		return ""
	}
	edges, ok := wrapper["edges"].([]any)
	if !ok || len(edges) == 0 {
		return ""
	}
	first, ok := edges[0].(map[string]any)
	if !ok {
		return ""
	}
	inner, ok := first["node"].(map[string]any)
	if !ok {
		return ""
	}
	return stringField(inner, "text")
}

// countField reads the .count of a nested wrapper like edge_liked_by.
// Missing wrappers or counts default to 0.
func countField(node map[string]any, key string) int {
	wrapper, ok := node[key].(map[string]any)
	if !ok {
		return 0
	}
	n, _ := intField(wrapper, "count")
	return int(n)
}

func stringField(node map[string]any, key string) string {
	if v, ok := node[key].(string); ok {
		return v
	}
	return ""
}

func boolField(node map[string]any, key string) bool {
	v, ok := node[key].(bool)
	return ok && v
}

// intField coerces the numeric representations a decoded JSON document or a
// hand-built node map may carry.
func intField(node map[string]any, key string) (int64, bool) {
	switch v := node[key].(type) {
	case float64:
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	default:
		return 0, false
	}
}

func stringSliceField(node map[string]any, key string) ([]string, bool) {
	switch v := node[key].(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

func dimensionsField(node map[string]any) *models.Dimensions {
	m, ok := node["dimensions"].(map[string]any)
	if !ok {
		return nil
	}
	w, okW := intField(m, "width")
	h, okH := intField(m, "height")
	if !okW || !okH {
		return nil
	}
	return &models.Dimensions{Width: int(w), Height: int(h)}
}
