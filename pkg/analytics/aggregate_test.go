package analytics

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iganalyzer/pkg/errors"
	"iganalyzer/pkg/models"
)

func ts(year int, month time.Month, day, hour int) int64 {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC).Unix()
}

func TestAggregateEmptyCollection(t *testing.T) {
	rep, err := Aggregate(nil)
	assert.Nil(t, rep)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindEmptyCollection))

	rep, err = Aggregate([]models.Post{})
	assert.Nil(t, rep)
	assert.Equal(t, ErrNoData, err)
}

func TestAggregateTotals(t *testing.T) {
	posts := []models.Post{
		{Shortcode: "a", Timestamp: ts(2024, time.January, 1, 9), Likes: 100, Comments: 10, Caption: "day #one"},
		{Shortcode: "b", Timestamp: ts(2024, time.January, 8, 15), Likes: 300, Comments: 30, Caption: "day #two #tags"},
		{Shortcode: "c", Timestamp: ts(2024, time.February, 5, 9), Likes: 200, Comments: 20, Caption: ""},
	}

	rep, err := Aggregate(posts)
	require.NoError(t, err)

	assert.Equal(t, 3, rep.TotalPosts)
	assert.Equal(t, 600, rep.TotalLikes)
	assert.Equal(t, 60, rep.TotalComments)
	assert.InDelta(t, 200.0, rep.AvgLikes, 0.001)
	assert.InDelta(t, 20.0, rep.AvgComments, 0.001)
	assert.Equal(t, 300, rep.TopPostLikes)
	assert.Equal(t, posts[0].Timestamp, rep.FirstPostTimestamp)
	assert.Equal(t, posts[2].Timestamp, rep.LastPostTimestamp)
	assert.Equal(t, 3, rep.TotalHashtags)
}

func TestAggregateCalendarBuckets(t *testing.T) {
	// 2024-01-01 is a Monday, 2024-01-02 a Tuesday.
	posts := []models.Post{
		{Shortcode: "a", Timestamp: ts(2024, time.January, 1, 9), Likes: 10},
		{Shortcode: "b", Timestamp: ts(2024, time.January, 8, 23), Likes: 20},
		{Shortcode: "c", Timestamp: ts(2024, time.January, 2, 9), Likes: 30},
	}

	rep, err := Aggregate(posts)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"Monday": 2, "Tuesday": 1}, rep.PostsByWeekday)
	assert.Equal(t, map[string]int{"09": 2, "23": 1}, rep.PostsByHour)
	assert.Equal(t, map[string]float64{"2024-01": 20}, rep.AvgLikesByMonth)
	assert.Equal(t, "Monday", rep.MostActiveDay)
}

func TestMostActiveDayTieResolvesAlphabetically(t *testing.T) {
	// 2024-01-01 Monday, 2024-01-05 Friday: a tie picks the label that
	// sorts first.
	posts := []models.Post{
		{Shortcode: "a", Timestamp: ts(2024, time.January, 1, 9)},
		{Shortcode: "b", Timestamp: ts(2024, time.January, 5, 9)},
	}

	rep, err := Aggregate(posts)
	require.NoError(t, err)
	assert.Equal(t, "Friday", rep.MostActiveDay)
}

func TestAggregateCaptionLengthInRunes(t *testing.T) {
	posts := []models.Post{
		{Shortcode: "a", Timestamp: ts(2024, time.March, 1, 12), Caption: "héllo"},
		{Shortcode: "b", Timestamp: ts(2024, time.March, 2, 12), Caption: "abc"},
	}

	rep, err := Aggregate(posts)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, rep.AvgCaptionLength, 0.001)
}

func TestAggregateIdempotent(t *testing.T) {
	posts := []models.Post{
		{Shortcode: "a", Timestamp: ts(2024, time.January, 1, 9), Likes: 10, Caption: "go #build things"},
		{Shortcode: "b", Timestamp: ts(2024, time.June, 8, 15), Likes: 20, Caption: "more #art"},
		{Shortcode: "c", Timestamp: ts(2024, time.June, 9, 15), Likes: 30},
	}

	first, err := Aggregate(posts)
	require.NoError(t, err)
	second, err := Aggregate(posts)
	require.NoError(t, err)

	a, err := json.MarshalIndent(first, "", "  ")
	require.NoError(t, err)
	b, err := json.MarshalIndent(second, "", "  ")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}
