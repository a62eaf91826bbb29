package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/five82/fauna/internal/paging"
)

// Client talks to the dashboard HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultAPIURL    = "http://127.0.0.1:3000"
	defaultUserAgent = "fauna/0.1"
	requestTimeout   = 10 * time.Second
	maxErrorBody     = 64 << 10
)

// APIError is a non-2xx response. Message is meant for people.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// NewClient builds a Client for the dashboard at apiURL.
func NewClient(apiURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// FetchPage retrieves one page of resource into dest.
func (c *Client) FetchPage(ctx context.Context, resource Resource, req paging.Request, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	values := url.Values{}
	if q := strings.TrimSpace(req.Query); q != "" {
		values.Set("q", q)
	}
	values.Set("page", strconv.Itoa(req.Page))
	if req.PageSize > 0 {
		values.Set("pageSize", strconv.Itoa(req.PageSize))
	}
	if req.SortField != "" {
		values.Set("sortBy", req.SortField)
		order := strings.ToLower(req.SortOrder)
		if order != "desc" {
			order = "asc"
		}
		values.Set("sortOrder", order)
	}
	rel := &url.URL{Path: resource.Path(), RawQuery: values.Encode()}
	return c.doURL(ctx, http.MethodGet, rel, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(body) == 0 {
		return apiErr
	}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		apiErr.Message = strings.TrimSpace(payload.Error)
		if apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(payload.Message)
		}
	}
	return apiErr
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// Lister fetches pages of one resource. It implements paging.Fetcher.
type Lister[T any] struct {
	client   *Client
	resource Resource
}

var _ paging.Fetcher[Species] = Lister[Species]{}

// NewLister binds a resource to a client.
func NewLister[T any](client *Client, resource Resource) Lister[T] {
	return Lister[T]{client: client, resource: resource}
}

// Fetch implements paging.Fetcher.
func (l Lister[T]) Fetch(ctx context.Context, req paging.Request) (paging.Result[T], error) {
	var payload paging.Result[T]
	if err := l.client.FetchPage(ctx, l.resource, req, &payload); err != nil {
		return paging.Result[T]{}, fmt.Errorf("list %s: %w", l.resource, err)
	}
	if payload.Items == nil {
		payload.Items = []T{}
	}
	return payload, nil
}
