// Package randomuser fetches synthetic user records from a randomuser.me compatible API.
package randomuser

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

	"userdir/internal/directory/models"
	"userdir/internal/directory/source"
	"userdir/internal/directory/tracer"
)

const (
	sourceID = "randomuser"

	// maxBodyBytes bounds the response body; a batch of 5000 users is well under this.
	maxBodyBytes = 16 << 20

	// requestedFields limits the payload to the fields a record needs.
	requestedFields = "name,email,location,dob,picture"
)

// Client implements source.Source against the randomuser.me HTTP API.
type Client struct {
	baseURL       string
	timeout       time.Duration
	httpClient    *http.Client
	tracer        tracer.Tracer
	seed          string
	nationalities []string
}

var _ source.Source = (*Client)(nil)

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTracer sets the tracer used around each fetch.
func WithTracer(t tracer.Tracer) Option {
	return func(c *Client) {
		c.tracer = t
	}
}

// WithSeed makes the upstream return the same batch for the same seed.
func WithSeed(seed string) Option {
	return func(c *Client) {
		c.seed = seed
	}
}

// WithNationalities restricts the batch to the given nationality codes (e.g. "us", "gb").
func WithNationalities(codes ...string) Option {
	return func(c *Client) {
		c.nationalities = codes
	}
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		tracer: tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type apiResponse struct {
	Results []apiUser `json:"results"`
	Error   string    `json:"error"`
}

type apiUser struct {
	Name struct {
		First string `json:"first"`
		Last  string `json:"last"`
	} `json:"name"`
	Email    string `json:"email"`
	Location struct {
		Country string `json:"country"`
	} `json:"location"`
	DOB struct {
		Date string `json:"date"`
	} `json:"dob"`
	Picture struct {
		Large     string `json:"large"`
		Thumbnail string `json:"thumbnail"`
	} `json:"picture"`
}

// Fetch requests count users in a single call. Any failure is returned as a *source.LoadFailure.
func (c *Client) Fetch(ctx context.Context, count int) (records []models.UserRecord, err error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanDirectoryFetch,
		tracer.Int64(tracer.AttrBatchSize, int64(count)),
		tracer.Bool(tracer.AttrSeeded, c.seed != ""),
	)
	defer func() {
		if err != nil {
			span.SetAttributes(tracer.String(tracer.AttrFailureCategory, string(source.CategoryOf(err))))
		}
		span.End(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(count), nil)
	if err != nil {
		return nil, source.NewLoadFailure(source.FailureInternal, sourceID, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, source.NewLoadFailure(source.FailureTimeout, sourceID, "request timeout", err)
		}
		return nil, source.NewLoadFailure(source.FailureUnavailable, sourceID, "failed to execute request", err)
	}
	defer resp.Body.Close()
	span.SetAttributes(tracer.Int64(tracer.AttrHTTPStatus, int64(resp.StatusCode)))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, source.NewLoadFailure(source.FailureTimeout, sourceID, "timeout reading response body", err)
		}
		return nil, source.NewLoadFailure(source.FailureUnavailable, sourceID, "failed to read response body", err)
	}

	if failure := classifyStatus(resp.StatusCode); failure != nil {
		return nil, failure.WithStatus(resp.StatusCode)
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, source.NewLoadFailure(source.FailureMalformed, sourceID, "failed to parse response", err)
	}
	if parsed.Error != "" {
		return nil, source.NewLoadFailure(source.FailureMalformed, sourceID, parsed.Error, nil)
	}

	records, err = toRecords(parsed.Results)
	if err != nil {
		return nil, source.NewLoadFailure(source.FailureMalformed, sourceID, "invalid user in response", err)
	}

	span.AddEvent(tracer.EventResponseDecoded, tracer.Int64(tracer.AttrRecordCount, int64(len(records))))
	return records, nil
}

func (c *Client) requestURL(count int) string {
	q := url.Values{}
	q.Set("results", strconv.Itoa(count))
	q.Set("inc", requestedFields)
	if c.seed != "" {
		q.Set("seed", c.seed)
	}
	if len(c.nationalities) > 0 {
		q.Set("nat", strings.Join(c.nationalities, ","))
	}
	return fmt.Sprintf("%s/api/?%s", c.baseURL, q.Encode())
}

func classifyStatus(code int) *source.LoadFailure {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusTooManyRequests:
		return source.NewLoadFailure(source.FailureRateLimited, sourceID, "rate limited", nil)
	case code == http.StatusGatewayTimeout:
		return source.NewLoadFailure(source.FailureTimeout, sourceID, "upstream gateway timeout", nil)
	case code == http.StatusServiceUnavailable || code == http.StatusBadGateway:
		return source.NewLoadFailure(source.FailureUnavailable, sourceID, "service unavailable", nil)
	default:
		return source.NewLoadFailure(source.FailureBadStatus, sourceID, fmt.Sprintf("unexpected status code: %d", code), nil)
	}
}

func toRecords(users []apiUser) ([]models.UserRecord, error) {
	records := make([]models.UserRecord, 0, len(users))
	for i, u := range users {
		dob, err := time.Parse(time.RFC3339, u.DOB.Date)
		if err != nil {
			return nil, fmt.Errorf("result %d: date of birth %q: %w", i, u.DOB.Date, err)
		}
		records = append(records, models.NewUserRecord(
			u.Name.First,
			u.Name.Last,
			u.Email,
			u.Location.Country,
			dob.UTC(),
			u.Picture.Large,
			u.Picture.Thumbnail,
		))
	}
	return records, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
