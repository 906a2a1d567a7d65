package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultTimeout      = 60 * time.Second
	defaultMaxRedirects = 5
)

// Client downloads the vendor's bulk master-data export. The endpoint is
// untrusted and known to redirect to the actual CSV resource, so both the
// request timeout and the redirect chain are bounded.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a feed client for the given feed URL.
func NewClient(url string) *Client {
	return NewClientWithTimeout(url, defaultTimeout)
}

// NewClientWithTimeout creates a feed client with a custom request timeout.
func NewClientWithTimeout(url string, timeout time.Duration) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= defaultMaxRedirects {
					return fmt.Errorf("stopped after %d redirects", defaultMaxRedirects)
				}
				return nil
			},
		},
	}
}

// Download fetches the feed and returns its body. The caller owns the
// returned reader and must close it. Each call re-downloads from scratch.
func (c *Client) Download(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, &DownloadError{Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &DownloadError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, &DownloadError{StatusCode: resp.StatusCode}
	}

	return resp.Body, nil
}
