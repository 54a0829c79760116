package poster

import (
	"fmt"
	"sort"
	"time"

	"iganalyzer/pkg/models"
)

// PanelKind labels what a layout panel holds.
type PanelKind string

const (
	PanelHeader   PanelKind = "header"
	PanelMetric   PanelKind = "metric"
	PanelPost     PanelKind = "post"
	PanelActivity PanelKind = "activity"
	PanelInsights PanelKind = "insights"
)

// ImageRef points a panel at a locally available image asset. Missing is
// the documented placeholder marker for posts whose image was never
// fetched; renderers substitute their own placeholder visual.
type ImageRef struct {
	Shortcode string `json:"shortcode"`
	Path      string `json:"path,omitempty"`
	Missing   bool   `json:"missing"`
}

// Panel is one labeled cell of the poster layout.
type Panel struct {
	Kind   PanelKind      `json:"kind"`
	Label  string         `json:"label"`
	Lines  []string       `json:"lines,omitempty"`
	Image  *ImageRef      `json:"image,omitempty"`
	Series map[string]int `json:"series,omitempty"`
}

// Layout is the data-binding handed to the renderer: an ordered list of
// panels. Pixel placement is the renderer's concern, not the layout's.
type Layout struct {
	Account string  `json:"account"`
	Panels  []Panel `json:"panels"`
}

const topPostCount = 3

// weekdayOrder is the display order for the activity panel, matching the
// calendar rather than the alphabet.
var weekdayOrder = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Assemble combines a computed report with the available image assets into
// the poster layout. Assets are keyed by shortcode; a post without an asset
// gets the missing-image placeholder marker.
func Assemble(account string, rep *models.Report, posts []models.Post, assets map[string]string) *Layout {
	layout := &Layout{Account: account}

	layout.Panels = append(layout.Panels, Panel{
		Kind:  PanelHeader,
		Label: "@" + account,
		Lines: []string{"ANALYTICS REPORT"},
	})

	layout.Panels = append(layout.Panels,
		Panel{Kind: PanelMetric, Label: "POSTS", Lines: []string{fmt.Sprintf("%d", rep.TotalPosts)}},
		Panel{Kind: PanelMetric, Label: "TOTAL LIKES", Lines: []string{groupDigits(rep.TotalLikes)}},
		Panel{Kind: PanelMetric, Label: "AVG LIKES", Lines: []string{groupDigits(int(rep.AvgLikes + 0.5))}},
		Panel{Kind: PanelMetric, Label: "COMMENTS", Lines: []string{groupDigits(rep.TotalComments)}},
	)

	for _, p := range TopByLikes(posts, topPostCount) {
		layout.Panels = append(layout.Panels, Panel{
			Kind:  PanelPost,
			Label: "TOP POSTS",
			Lines: []string{fmt.Sprintf("%s  ·  %s", groupDigits(p.Likes), formatDay(p.Timestamp))},
			Image: imageRef(p, assets),
		})
	}

	for _, p := range MostRecent(posts, topPostCount) {
		layout.Panels = append(layout.Panels, Panel{
			Kind:  PanelPost,
			Label: "RECENT",
			Lines: []string{formatDate(p.Timestamp)},
			Image: imageRef(p, assets),
		})
	}

	layout.Panels = append(layout.Panels, Panel{
		Kind:   PanelActivity,
		Label:  "POSTING ACTIVITY",
		Series: weekdaySeries(rep.PostsByWeekday),
	})

	layout.Panels = append(layout.Panels, Panel{
		Kind:  PanelInsights,
		Label: "KEY INSIGHTS",
		Lines: []string{
			fmt.Sprintf("Most Active: %s", rep.MostActiveDay),
			fmt.Sprintf("Period: %s - %s", formatMonth(rep.FirstPostTimestamp), formatMonth(rep.LastPostTimestamp)),
			fmt.Sprintf("Engagement: %s/post", groupDigits(int(rep.AvgLikes+rep.AvgComments+0.5))),
			fmt.Sprintf("Hashtags: %d", rep.TotalHashtags),
			rep.Insight,
		},
	})

	return layout
}

// TopByLikes returns the n posts with the most likes, descending. Ties keep
// the original collection order.
func TopByLikes(posts []models.Post, n int) []models.Post {
	ranked := make([]models.Post, len(posts))
	copy(ranked, posts)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Likes > ranked[j].Likes
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// MostRecent returns the n newest posts by timestamp, descending. Ties keep
// the original collection order.
func MostRecent(posts []models.Post, n int) []models.Post {
	ranked := make([]models.Post, len(posts))
	copy(ranked, posts)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Timestamp > ranked[j].Timestamp
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func imageRef(p models.Post, assets map[string]string) *ImageRef {
	if path, ok := assets[p.Shortcode]; ok {
		return &ImageRef{Shortcode: p.Shortcode, Path: path}
	}
	return &ImageRef{Shortcode: p.Shortcode, Missing: true}
}

// weekdaySeries zero-fills the full week so the activity chart always shows
// seven bars.
func weekdaySeries(counts map[string]int) map[string]int {
	series := make(map[string]int, len(weekdayOrder))
	for _, day := range weekdayOrder {
		series[day] = counts[day]
	}
	return series
}

func formatDay(ts int64) string {
	return time.Unix(ts, 0).UTC().Format("Jan 02")
}

func formatDate(ts int64) string {
	return time.Unix(ts, 0).UTC().Format("Jan 02, 2006")
}

func formatMonth(ts int64) string {
	return time.Unix(ts, 0).UTC().Format("Jan 2006")
}

// groupDigits renders an integer with thousands separators.
func groupDigits(n int) string {
	s := fmt.Sprintf("%d", n)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}

	var out []byte
	lead := len(s) % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
	}
	for i := lead; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
