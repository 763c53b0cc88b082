package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Fetcher defines the remote list surface the session layer needs.
// This interface is implemented by *Client and can be used for testing.
type Fetcher interface {
	FetchLatest(ctx context.Context) (*ListSnapshot, error)
	UpdateClaim(ctx context.Context, id int64, claimedBy string) error
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Client talks to the intake list HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	token     string
	userAgent string
}

const (
	latestListPath   = "/api/iwilldo/combined/latest"
	itemPathFormat   = "/api/iwilldo/items/%d/"
	defaultUserAgent = "willdo/0.1"
	requestTimeout   = 15 * time.Second
)

// RemoteError is the one displayable failure shape at the fetch boundary.
// Transport failures and error envelopes returned by the remote both end up
// here; callers render Message and do not distinguish the two.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string { return e.Message }

// NewClient builds a Client for the given API base URL. The token is sent as
// an Authorization header on every request.
func NewClient(apiURL, token string) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		token:     token,
		userAgent: defaultUserAgent,
	}, nil
}

// FetchLatest retrieves the current combined intake list.
func (c *Client) FetchLatest(ctx context.Context) (*ListSnapshot, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var snapshot ListSnapshot
	if err := c.do(ctx, http.MethodGet, latestListPath, nil, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// UpdateClaim sends the new space-joined claim list for an item. The caller
// is expected to re-fetch the list afterwards; the response body is not used
// beyond error detection.
func (c *Client) UpdateClaim(ctx context.Context, id int64, claimedBy string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	body := struct {
		ClaimedBy string `json:"claimed_by"`
	}{ClaimedBy: claimedBy}
	return c.do(ctx, http.MethodPatch, fmt.Sprintf(itemPathFormat, id), body, nil)
}

// do performs one request and decodes the response into dest. Any failure,
// whether transport-level or an {"error": ...} envelope in otherwise valid
// JSON, comes back as a *RemoteError.
func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Authorization", "Token "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &RemoteError{Message: fmt.Sprintf("Failed retrieving data. %v", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RemoteError{Message: fmt.Sprintf("Failed retrieving data. %v", err)}
	}

	// The remote wraps both transport-adjacent failures and application
	// errors in an {"error": ...} envelope; surface it verbatim.
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(payload, &envelope); err == nil && envelope.Error != "" {
		return &RemoteError{Message: envelope.Error}
	}
	if resp.StatusCode >= 400 {
		return &RemoteError{Message: fmt.Sprintf("Failed retrieving data. status %d", resp.StatusCode)}
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return &RemoteError{Message: fmt.Sprintf("Failed retrieving data. %v", err)}
	}
	return nil
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		return nil, fmt.Errorf("api url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", apiURL, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
