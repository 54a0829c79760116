package instagram

import (
	"iganalyzer/pkg/logger"
	"iganalyzer/pkg/models"
)

// Source adapts the client into the pipeline's profile source: it exposes a
// profile summary and a finite, forward-only sequence of raw post nodes in
// the live dialect.
type Source struct {
	client   *Client
	pageSize int
	logger   logger.Logger
}

// NewSource creates a profile source over the given client.
func NewSource(client *Client, pageSize int, log logger.Logger) *Source {
	if log == nil {
		log = logger.GetLogger()
	}
	if pageSize <= 0 {
		pageSize = DefaultMediaLimit
	}
	return &Source{client: client, pageSize: pageSize, logger: log}
}

// Profile fetches the profile summary for a username.
func (s *Source) Profile(username string) (*models.ProfileSummary, error) {
	resp, err := s.client.FetchProfile(username)
	if err != nil {
		return nil, err
	}

	user := resp.Data.User
	return &models.ProfileSummary{
		Username:   username,
		FullName:   user.FullName,
		UserID:     user.ID,
		MediaCount: user.EdgeOwnerToTimelineMedia.Count,
		Followers:  user.EdgeFollowedBy.Count,
		Following:  user.EdgeFollow.Count,
	}, nil
}

// ListPosts returns an iterator over the user's timeline, newest first.
// The sequence is finite and not restartable mid-stream; limit <= 0 means
// no limit.
func (s *Source) ListPosts(userID string, limit int) *PostIterator {
	return &PostIterator{
		source:  s,
		userID:  userID,
		limit:   limit,
		hasMore: true,
	}
}

// PostIterator pages lazily through a user's media timeline and yields raw
// nodes in the live dialect.
type PostIterator struct {
	source  *Source
	userID  string
	limit   int
	cursor  string
	buf     []Edge
	hasMore bool
	yielded int
}

// Next yields the next raw post node. The second return value is false when
// the sequence is exhausted.
func (it *PostIterator) Next() (map[string]any, bool, error) {
	if it.limit > 0 && it.yielded >= it.limit {
		return nil, false, nil
	}

	for len(it.buf) == 0 {
		if !it.hasMore {
			return nil, false, nil
		}

		resp, err := it.source.client.FetchMedia(it.userID, it.cursor, it.source.pageSize)
		if err != nil {
			return nil, false, err
		}

		media := resp.Data.User.EdgeOwnerToTimelineMedia
		it.buf = media.Edges
		it.hasMore = media.PageInfo.HasNextPage
		it.cursor = media.PageInfo.EndCursor

		it.source.logger.DebugWithFields("media page fetched", map[string]interface{}{
			"user_id":  it.userID,
			"count":    len(media.Edges),
			"has_next": media.PageInfo.HasNextPage,
		})

		if len(media.Edges) == 0 && !it.hasMore {
			return nil, false, nil
		}
	}

	node := it.buf[0].Node
	it.buf = it.buf[1:]
	it.yielded++

	return node.Flatten(), true, nil
}
