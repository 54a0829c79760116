package instagram

// Response is the top-level envelope returned by the profile and media
// endpoints.
type Response struct {
	RequiresToLogin bool   `json:"requires_to_login"`
	Data            Data   `json:"data"`
	Status          string `json:"status"`
}

// Data wraps the user information in the response.
type Data struct {
	User User `json:"user"`
}

// User represents a profile.
type User struct {
	ID                       string                   `json:"id"`
	FullName                 string                   `json:"full_name"`
	EdgeFollowedBy           Count                    `json:"edge_followed_by"`
	EdgeFollow               Count                    `json:"edge_follow"`
	EdgeOwnerToTimelineMedia EdgeOwnerToTimelineMedia `json:"edge_owner_to_timeline_media"`
}

// Count is the {"count": n} wrapper the API uses for scalar counters.
type Count struct {
	Count int `json:"count"`
}

// EdgeOwnerToTimelineMedia contains the user's media timeline.
type EdgeOwnerToTimelineMedia struct {
	Count    int      `json:"count"`
	PageInfo PageInfo `json:"page_info"`
	Edges    []Edge   `json:"edges"`
}

// PageInfo contains pagination information.
type PageInfo struct {
	HasNextPage bool   `json:"has_next_page"`
	EndCursor   string `json:"end_cursor"`
}

// Edge wraps a single media node.
type Edge struct {
	Node Node `json:"node"`
}

// Node represents a single media item.
type Node struct {
	ID                 string       `json:"id"`
	Shortcode          string       `json:"shortcode"`
	DisplayURL         string       `json:"display_url"`
	IsVideo            bool         `json:"is_video"`
	TakenAtTimestamp   int64        `json:"taken_at_timestamp"`
	Dimensions         Dimensions   `json:"dimensions"`
	EdgeLikedBy        Count        `json:"edge_liked_by"`
	EdgeMediaToComment Count        `json:"edge_media_to_comment"`
	EdgeMediaToCaption CaptionEdges `json:"edge_media_to_caption"`
}

// Dimensions holds the media pixel size.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// CaptionEdges wraps the caption edge list.
type CaptionEdges struct {
	Edges []CaptionEdge `json:"edges"`
}

// CaptionEdge wraps one caption node.
type CaptionEdge struct {
	Node CaptionNode `json:"node"`
}

// CaptionNode holds the caption text.
type CaptionNode struct {
	Text string `json:"text"`
}

// Caption returns the first caption-edge text, or empty.
func (n *Node) Caption() string {
	if len(n.EdgeMediaToCaption.Edges) > 0 {
		return n.EdgeMediaToCaption.Edges[0].Node.Text
	}
	return ""
}

// Flatten renders the node as a live-dialect raw record: flat field names,
// counts unwrapped, caption extracted. This is the shape the record
// normalizer consumes from the live profile source.
func (n *Node) Flatten() map[string]any {
	raw := map[string]any{
		"id":          n.ID,
		"shortcode":   n.Shortcode,
		"display_url": n.DisplayURL,
		"timestamp":   n.TakenAtTimestamp,
		"likes":       n.EdgeLikedBy.Count,
		"comments":    n.EdgeMediaToComment.Count,
		"caption":     n.Caption(),
		"is_video":    n.IsVideo,
	}
	if n.Dimensions.Width > 0 || n.Dimensions.Height > 0 {
		raw["dimensions"] = map[string]any{
			"width":  n.Dimensions.Width,
			"height": n.Dimensions.Height,
		}
	}
	return raw
}
