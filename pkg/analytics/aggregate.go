package analytics

import (
	"fmt"
	"sort"
	"time"
	"unicode/utf8"

	"iganalyzer/pkg/errors"
	"iganalyzer/pkg/models"
)

// ErrNoData is the documented "nothing to analyze" result for an empty Post
// collection. It is a non-fatal terminal state: callers report it and write
// no report file.
var ErrNoData = errors.New(errors.KindEmptyCollection, "no posts to analyze")

// Aggregate computes the analytics report from a Post collection. The
// collection must be fully materialized; Aggregate never mutates it, and
// running it twice on the same input yields byte-identical report JSON.
//
// All calendar bucketing treats timestamps as epoch seconds in UTC.
func Aggregate(posts []models.Post) (*models.Report, error) {
	if len(posts) == 0 {
		return nil, ErrNoData
	}

	rep := &models.Report{
		TotalPosts:      len(posts),
		PostsByWeekday:  make(map[string]int),
		PostsByHour:     make(map[string]int),
		AvgLikesByMonth: make(map[string]float64),
	}

	var (
		totalCaptionLen int
		likesByMonth    = make(map[string]int)
		postsByMonth    = make(map[string]int)
	)

	rep.FirstPostTimestamp = posts[0].Timestamp
	rep.LastPostTimestamp = posts[0].Timestamp

	for _, p := range posts {
		if p.Timestamp < rep.FirstPostTimestamp {
			rep.FirstPostTimestamp = p.Timestamp
		}
		if p.Timestamp > rep.LastPostTimestamp {
			rep.LastPostTimestamp = p.Timestamp
		}

		rep.TotalLikes += p.Likes
		rep.TotalComments += p.Comments
		if p.Likes > rep.TopPostLikes {
			rep.TopPostLikes = p.Likes
		}

		t := time.Unix(p.Timestamp, 0).UTC()
		rep.PostsByWeekday[t.Weekday().String()]++
		rep.PostsByHour[fmt.Sprintf("%02d", t.Hour())]++

		month := t.Format("2006-01")
		likesByMonth[month] += p.Likes
		postsByMonth[month]++

		totalCaptionLen += utf8.RuneCountInString(p.Caption)
		rep.TotalHashtags += models.CountHashtags(p.Caption)
	}

	n := float64(len(posts))
	rep.AvgLikes = float64(rep.TotalLikes) / n
	rep.AvgComments = float64(rep.TotalComments) / n
	rep.AvgCaptionLength = float64(totalCaptionLen) / n

	for month, likes := range likesByMonth {
		rep.AvgLikesByMonth[month] = float64(likes) / float64(postsByMonth[month])
	}

	rep.MostActiveDay = mostActiveDay(rep.PostsByWeekday)
	rep.Insight = buildInsight(posts, rep)

	return rep, nil
}

// mostActiveDay returns the weekday with the strictly highest post count.
// Ties resolve to the weekday that sorts first alphabetically: labels are
// visited in sorted order and only a strictly greater count replaces the
// current winner.
func mostActiveDay(counts map[string]int) string {
	days := make([]string, 0, len(counts))
	for day := range counts {
		days = append(days, day)
	}
	sort.Strings(days)

	best := ""
	bestCount := -1
	for _, day := range days {
		if counts[day] > bestCount {
			best = day
			bestCount = counts[day]
		}
	}
	return best
}
