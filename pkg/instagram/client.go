package instagram

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"iganalyzer/pkg/config"
	"iganalyzer/pkg/errors"
	"iganalyzer/pkg/logger"
)

// Client talks to the public profile endpoints and fetches image blobs.
// It is the concrete implementation behind both the profile source and the
// blob fetcher interfaces.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	maxRetries int
	logger     logger.Logger
}

// NewClient creates a client from the source configuration.
func NewClient(cfg *config.SourceConfig, maxRetries int, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		headers: map[string]string{
			"User-Agent":      cfg.UserAgent,
			"Accept":          "*/*",
			"Accept-Language": "en-US,en;q=0.9",
		},
		baseURL:    cfg.BaseURL,
		maxRetries: maxRetries,
		logger:     log,
	}
}

// SetHeader sets a custom header for the client.
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// BaseURL returns the configured endpoint base.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doRequest performs an HTTP request with the configured headers.
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errors.New(errors.KindNetwork, "network error: %v", err)
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// doRequestWithRetry retries transient transport failures before giving up.
func (c *Client) doRequestWithRetry(req *http.Request) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.WarnWithFields("retrying HTTP request", map[string]interface{}{
				"url":     req.URL.String(),
				"attempt": attempt,
				"error":   lastErr.Error(),
			})
			time.Sleep(time.Second * time.Duration(attempt))
		}

		resp, err := c.doRequest(req)
		if err != nil {
			lastErr = err
			if e, ok := err.(*errors.Error); ok && errors.IsRetryable(e.Kind) {
				continue
			}
			return nil, err
		}

		if errors.IsRetryableStatusCode(resp.StatusCode) && resp.StatusCode != 0 {
			lastErr = errors.NewWithCode(errors.KindServerError, resp.StatusCode,
				"server returned status %d", resp.StatusCode)
			resp.Body.Close()
			continue
		}

		return resp, nil
	}

	return nil, lastErr
}

// get performs a GET request to the specified URL.
func (c *Client) get(url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.New(errors.KindUnknown, "failed to create request: %v", err)
	}

	return c.doRequestWithRetry(req)
}

// getJSON performs a GET request and decodes the JSON response.
func (c *Client) getJSON(url string, target interface{}) error {
	resp, err := c.get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewWithCode(errors.KindNetwork, resp.StatusCode,
			"failed to read response body: %v", err)
	}

	if err := json.Unmarshal(body, target); err != nil {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": preview,
		})
		return errors.NewWithCode(errors.KindMalformedRecord, resp.StatusCode,
			"failed to parse JSON: %v", err)
	}

	return nil
}

// checkResponseStatus maps HTTP status codes onto the error taxonomy.
func (c *Client) checkResponseStatus(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.NewWithCode(errors.KindAccessDenied, resp.StatusCode,
			"access denied: the profile is private or requires login")
	case http.StatusNotFound:
		return errors.NewWithCode(errors.KindSourceNotFound, resp.StatusCode,
			"resource not found")
	case http.StatusTooManyRequests:
		return errors.NewWithCode(errors.KindRateLimit, resp.StatusCode,
			"rate limit exceeded")
	default:
		if resp.StatusCode >= 500 {
			return errors.NewWithCode(errors.KindServerError, resp.StatusCode, "server error")
		}
		if resp.StatusCode >= 400 {
			return errors.NewWithCode(errors.KindUnknown, resp.StatusCode,
				"unexpected status code: %d", resp.StatusCode)
		}
		return nil
	}
}

// FetchProfile fetches a user profile. A profile behind a login wall is an
// access-denied condition with remediation guidance, distinct from a
// missing profile.
func (c *Client) FetchProfile(username string) (*Response, error) {
	url := ProfileURL(c.baseURL, username)

	c.logger.DebugWithFields("fetching user profile", map[string]interface{}{
		"username": username,
		"url":      url,
	})

	var response Response
	if err := c.getJSON(url, &response); err != nil {
		if errors.IsKind(err, errors.KindSourceNotFound) {
			return nil, errors.New(errors.KindSourceNotFound,
				"profile %q does not exist", username)
		}
		return nil, err
	}

	if response.RequiresToLogin {
		return nil, errors.New(errors.KindAccessDenied,
			"profile %q requires authentication; try again later or from a logged-in session", username)
	}

	return &response, nil
}

// FetchMedia fetches one page of a user's media timeline.
func (c *Client) FetchMedia(userID, after string, limit int) (*Response, error) {
	url := MediaURL(c.baseURL, userID, after, limit)

	c.logger.DebugWithFields("fetching user media", map[string]interface{}{
		"user_id": userID,
		"after":   after,
	})

	var response Response
	if err := c.getJSON(url, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

// Fetch downloads a single binary blob. Failures surface as transient
// fetch errors; the caller skips the item and continues the run.
func (c *Client) Fetch(blobURL string) ([]byte, error) {
	resp, err := c.get(blobURL)
	if err != nil {
		return nil, errors.New(errors.KindFetch, "fetch failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewWithCode(errors.KindFetch, resp.StatusCode,
			"fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.New(errors.KindFetch, "failed to read blob: %v", err)
	}

	c.logger.DebugWithFields("blob fetched", map[string]interface{}{
		"url":  blobURL,
		"size": len(data),
	})

	return data, nil
}
