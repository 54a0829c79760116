package analytics

import (
	"fmt"
	"strings"

	"iganalyzer/pkg/models"
)

// The content insight is a deterministic rule table, not free text: the
// thresholds and keyword lists below are part of the output contract and
// must not drift, or reports stop being reproducible.

// Theme pairs a content theme with the keywords that detect it. A theme is
// detected when any keyword appears as a substring anywhere in the
// case-folded concatenation of all captions.
type Theme struct {
	Name     string
	Keywords []string
}

// ThemeTable is the fixed, ordered theme classification table.
var ThemeTable = []Theme{
	{"entrepreneurship", []string{"entrepreneur", "business", "startup", "wealth", "money"}},
	{"personal growth", []string{"mindset", "growth", "discipline", "habits", "success"}},
	{"productivity", []string{"productivity", "focus", "routine", "deep work"}},
	{"motivation", []string{"motivation", "inspire", "dream", "goal", "grind"}},
	{"education", []string{"learn", "knowledge", "skill", "read", "book"}},
	{"lifestyle", []string{"travel", "lifestyle", "food", "fashion", "adventure"}},
	{"health & fitness", []string{"fitness", "workout", "health", "gym", "nutrition"}},
	{"creativity", []string{"create", "creative", "art", "design", "build"}},
}

// Influence tier thresholds on mean likes per post.
const (
	tierHighMinLikes = 10000
	tierMidMinLikes  = 1000
)

// Engagement qualifier thresholds on mean likes+comments per post.
const (
	engagementExceptionalMin = 5000
	engagementSolidMin       = 500
)

// Posting cadence thresholds on mean days between posts.
const (
	cadenceFrequentMaxDays = 2
	cadenceRegularMaxDays  = 7
)

const maxInsightThemes = 3

// DetectThemes classifies the combined caption text against ThemeTable and
// returns the detected theme names in table order.
func DetectThemes(posts []models.Post) []string {
	var sb strings.Builder
	for _, p := range posts {
		sb.WriteString(strings.ToLower(p.Caption))
		sb.WriteByte(' ')
	}
	text := sb.String()

	var detected []string
	for _, theme := range ThemeTable {
		for _, kw := range theme.Keywords {
			if strings.Contains(text, kw) {
				detected = append(detected, theme.Name)
				break
			}
		}
	}
	return detected
}

// buildInsight composes the one-sentence content insight from the rule
// tables and the already-computed report statistics.
func buildInsight(posts []models.Post, rep *models.Report) string {
	themes := DetectThemes(posts)
	if len(themes) > maxInsightThemes {
		themes = themes[:maxInsightThemes]
	}

	focus := "visual content"
	if len(themes) > 0 {
		focus = joinThemes(themes)
	}

	return fmt.Sprintf("%s creator focused on %s, with %s engagement and a %s posting cadence.",
		influenceTier(rep.AvgLikes),
		focus,
		engagementQualifier(rep.AvgLikes+rep.AvgComments),
		cadenceQualifier(meanGapDays(rep, len(posts))),
	)
}

func influenceTier(avgLikes float64) string {
	switch {
	case avgLikes >= tierHighMinLikes:
		return "High-engagement"
	case avgLikes >= tierMidMinLikes:
		return "Growing"
	default:
		return "Emerging"
	}
}

func engagementQualifier(avgEngagement float64) string {
	switch {
	case avgEngagement >= engagementExceptionalMin:
		return "exceptional"
	case avgEngagement >= engagementSolidMin:
		return "solid"
	default:
		return "building"
	}
}

func cadenceQualifier(gapDays float64) string {
	switch {
	case gapDays < cadenceFrequentMaxDays:
		return "frequent"
	case gapDays < cadenceRegularMaxDays:
		return "regular"
	default:
		return "measured"
	}
}

// meanGapDays is the mean number of days between successive posts. A single
// post has no cadence signal and maps to the "measured" bucket.
func meanGapDays(rep *models.Report, count int) float64 {
	if count < 2 {
		return cadenceRegularMaxDays
	}
	span := float64(rep.LastPostTimestamp - rep.FirstPostTimestamp)
	return span / 86400 / float64(count-1)
}

// joinThemes renders up to three themes as "a", "a and b" or "a, b and c".
func joinThemes(themes []string) string {
	switch len(themes) {
	case 1:
		return themes[0]
	case 2:
		return themes[0] + " and " + themes[1]
	default:
		return strings.Join(themes[:len(themes)-1], ", ") + " and " + themes[len(themes)-1]
	}
}
