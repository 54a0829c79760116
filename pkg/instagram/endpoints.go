package instagram

import (
	"fmt"
	"net/url"
)

const (
	// ProfileEndpoint is the endpoint pattern for user profiles.
	ProfileEndpoint = "/api/v1/users/web_profile_info/"

	// MediaEndpoint is the endpoint pattern for user media.
	MediaEndpoint = "/graphql/query/"

	// MediaQueryHash is the query hash for fetching user media.
	MediaQueryHash = "e769aa130647d2354c40ea6a439bfc08"

	// DefaultMediaLimit is the default number of media items per page.
	DefaultMediaLimit = 12

	// MaxMediaLimit is the maximum number of media items per page.
	MaxMediaLimit = 50
)

// ProfileURL constructs the URL for fetching a user's profile.
func ProfileURL(baseURL, username string) string {
	params := url.Values{}
	params.Set("username", username)

	return fmt.Sprintf("%s%s?%s", baseURL, ProfileEndpoint, params.Encode())
}

// MediaURL constructs the URL for fetching a page of a user's media.
func MediaURL(baseURL, userID, after string, limit int) string {
	if limit <= 0 {
		limit = DefaultMediaLimit
	} else if limit > MaxMediaLimit {
		limit = MaxMediaLimit
	}

	params := url.Values{}
	params.Set("query_hash", MediaQueryHash)
	params.Set("variables", fmt.Sprintf(`{"id":"%s","first":%d,"after":"%s"}`, userID, limit, after))

	return fmt.Sprintf("%s%s?%s", baseURL, MediaEndpoint, params.Encode())
}

// SanitizeUsername strips the leading @ and trailing slashes or spaces a
// pasted profile reference may carry.
func SanitizeUsername(username string) string {
	if username == "" {
		return ""
	}

	if username[0] == '@' {
		username = username[1:]
	}

	for len(username) > 0 && (username[len(username)-1] == '/' || username[len(username)-1] == ' ') {
		username = username[:len(username)-1]
	}

	return username
}

// IsValidUsername checks if a username is valid: letters, numbers, periods
// and underscores, at most 30 characters.
func IsValidUsername(username string) bool {
	if username == "" || len(username) > 30 {
		return false
	}

	for _, char := range username {
		if !((char >= 'a' && char <= 'z') ||
			(char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9') ||
			char == '.' || char == '_') {
			return false
		}
	}

	return true
}
