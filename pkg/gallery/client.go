package gallery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"galleryscraper/pkg/config"
	"galleryscraper/pkg/errors"
	"galleryscraper/pkg/logger"
)

// Client talks to the gallery listing endpoint and the image host. One
// Client, and therefore one http.Client, is shared by every request of a run.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	groupID    string
	logger     logger.Logger
}

// NewClient creates a client for the gallery described by cfg
func NewClient(cfg *config.GalleryConfig, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	headers := map[string]string{
		"Accept": "application/json, image/*;q=0.9, */*;q=0.8",
	}
	if cfg.UserAgent != "" {
		headers["User-Agent"] = cfg.UserAgent
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		headers: headers,
		baseURL: cfg.BaseURL,
		groupID: cfg.GroupID,
		logger:  log,
	}
}

// SetHeader sets a custom header sent with every request
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// get performs a GET with the configured headers. A transport failure is
// returned as a network error; the status code is not inspected.
func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrorTypeUnknown, err, "failed to create request")
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"url": url,
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		return nil, errors.Wrap(errors.ErrorTypeNetwork, err, "request to %s failed", url)
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"url":      url,
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// checkResponseStatus accepts any 2xx status
func checkResponseStatus(resp *http.Response) error {
	if errors.IsSuccessStatusCode(resp.StatusCode) {
		return nil
	}
	return errors.New(errors.ErrorTypeHTTPStatus, resp.StatusCode,
		fmt.Sprintf("unexpected status code: %d", resp.StatusCode))
}

// getJSON performs a GET, requires a 2xx status and decodes the body into target
func (c *Client) getJSON(ctx context.Context, url string, target interface{}) error {
	resp, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkResponseStatus(resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(errors.ErrorTypeNetwork, err, "failed to read response body")
	}

	if err := json.Unmarshal(body, target); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}
		c.logger.DebugWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"body_preview": bodyPreview,
		})
		return errors.Wrap(errors.ErrorTypeParsing, err, "failed to parse JSON")
	}

	return nil
}

// FetchPage requests one listing page and returns its elements in order,
// undecoded. Use DecodeRecord on each.
func (c *Client) FetchPage(ctx context.Context, page int) ([]json.RawMessage, error) {
	url, err := PageURL(c.baseURL, c.groupID, page)
	if err != nil {
		return nil, errors.Wrap(errors.ErrorTypeUnknown, err, "failed to build page URL")
	}

	var listing ListingResponse
	if err := c.getJSON(ctx, url, &listing); err != nil {
		return nil, err
	}

	return listing.records()
}

// OpenImage requests url and, on a 2xx status, returns the response body for
// the caller to stream and close. On any error the body is already closed.
func (c *Client) OpenImage(ctx context.Context, url string) (io.ReadCloser, error) {
	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	if err := checkResponseStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}

	return resp.Body, nil
}
