package models

import (
	"regexp"
	"sort"
)

// Dimensions holds the pixel size of an image post. It is optional on a
// Post: absent means the source did not report it.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Post is the canonical unit of analysis. It is built once by the record
// normalizer and immutable afterwards. Shortcode uniquely identifies a Post
// within one collection; video posts never enter a collection.
//
// Hashtags and mentions are sets, serialized as sorted arrays so a
// serialize/deserialize/serialize cycle is byte-identical.
type Post struct {
	ID         string      `json:"id"`
	Shortcode  string      `json:"shortcode"`
	DisplayURL string      `json:"display_url,omitempty"`
	Timestamp  int64       `json:"timestamp"`
	Likes      int         `json:"likes"`
	Comments   int         `json:"comments"`
	Caption    string      `json:"caption"`
	IsVideo    bool        `json:"is_video"`
	Dimensions *Dimensions `json:"dimensions,omitempty"`
	Hashtags   []string    `json:"hashtags"`
	Mentions   []string    `json:"mentions"`
}

var (
	hashtagPattern = regexp.MustCompile(`#([A-Za-z0-9_]+)`)
	mentionPattern = regexp.MustCompile(`@([A-Za-z0-9_.]+)`)
)

// ExtractHashtags returns the set of #tokens in a caption, case preserved,
// deduplicated and sorted.
func ExtractHashtags(caption string) []string {
	return extractTokens(caption, hashtagPattern)
}

// ExtractMentions returns the set of @tokens in a caption, case preserved,
// deduplicated and sorted.
func ExtractMentions(caption string) []string {
	return extractTokens(caption, mentionPattern)
}

// CountHashtags returns the number of hashtag occurrences in a caption,
// duplicates included.
func CountHashtags(caption string) int {
	return len(hashtagPattern.FindAllString(caption, -1))
}

func extractTokens(caption string, pattern *regexp.Regexp) []string {
	matches := pattern.FindAllStringSubmatch(caption, -1)
	if len(matches) == 0 {
		return []string{}
	}

	seen := make(map[string]struct{}, len(matches))
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		tokens = append(tokens, m[1])
	}
	sort.Strings(tokens)
	return tokens
}

// NormalizeTokenSet deduplicates and sorts a token set supplied directly by
// the source so it serializes the same way as a derived one.
func NormalizeTokenSet(tokens []string) []string {
	if len(tokens) == 0 {
		return []string{}
	}
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
