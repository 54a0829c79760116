package models

// Report is the analytics result computed once per run from a Post
// collection. It is always regenerated wholesale, never updated
// incrementally. All time bucketing derives from the UTC calendar date of
// each post timestamp.
//
// Map keys are chosen so encoding/json produces a stable key order:
// weekday names, zero-padded hours ("00".."23") and "YYYY-MM" months all
// sort correctly as strings, which makes report serialization idempotent.
type Report struct {
	TotalPosts int `json:"total_posts"`

	FirstPostTimestamp int64 `json:"first_post_timestamp"`
	LastPostTimestamp  int64 `json:"last_post_timestamp"`

	TotalLikes    int     `json:"total_likes"`
	TotalComments int     `json:"total_comments"`
	AvgLikes      float64 `json:"avg_likes"`
	AvgComments   float64 `json:"avg_comments"`
	TopPostLikes  int     `json:"top_post_likes"`

	PostsByWeekday  map[string]int     `json:"posts_by_weekday"`
	PostsByHour     map[string]int     `json:"posts_by_hour"`
	AvgLikesByMonth map[string]float64 `json:"avg_likes_by_month"`
	MostActiveDay   string             `json:"most_active_day"`

	AvgCaptionLength float64 `json:"avg_caption_length"`
	TotalHashtags    int     `json:"total_hashtags"`

	Insight string `json:"insight"`
}

// ProfileSummary carries profile-level counters from the live source. It is
// consumed only for informational logging and never enters the Report.
type ProfileSummary struct {
	Username   string
	FullName   string
	UserID     string
	MediaCount int
	Followers  int
	Following  int
}
