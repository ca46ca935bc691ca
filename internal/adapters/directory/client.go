// Package directory provides an HTTP client for the external identity directory
package directory

import (
	"context"
	json "encoding/json/v2"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	perr "chirp/internal/platform/errors"
	"chirp/internal/platform/logger"
	"chirp/internal/services/directory/domain"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUA        = "chirp-api"
	defaultMaxRetry  = 3
	defaultRetryBase = 250 * time.Millisecond
	defaultBatchMax  = 100
)

// Options configures the Client
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration

	// Bearer token for the directory API, empty means unauthenticated
	Token string

	// Retry config for transient responses
	MaxRetries int
	RetryBase  time.Duration

	// BatchMax caps how many ids a single lookup request carries
	BatchMax int
}

// Client resolves user ids to public profiles over the directory REST API
type Client struct {
	http  *http.Client
	opts  Options
	log   logger.Logger
	now   func() time.Time
	sleep func(time.Duration)
}

// NewClient creates a Client with sane defaults
func NewClient(o Options) *Client {
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	if o.BatchMax <= 0 {
		o.BatchMax = defaultBatchMax
	}
	return &Client{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		log:   *logger.Named("directory"),
		now:   time.Now,
		sleep: time.Sleep,
	}
}

var _ domain.ResolverPort = (*Client)(nil)

type wireProfile struct {
	ID        string `json:"id"`
	Handle    string `json:"handle"`
	AvatarURL string `json:"avatar_url"`
}

// ResolveMany implements domain.ResolverPort.
// Unknown ids are simply absent from the returned map; any transport or
// server failure surfaces as an Unavailable error for the whole batch
func (c *Client) ResolveMany(ctx context.Context, ids []string) (map[string]domain.AuthorProfile, error) {
	out := make(map[string]domain.AuthorProfile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	for start := 0; start < len(ids); start += c.opts.BatchMax {
		end := min(start+c.opts.BatchMax, len(ids))
		if err := c.resolveBatch(ctx, ids[start:end], out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (c *Client) resolveBatch(ctx context.Context, ids []string, out map[string]domain.AuthorProfile) error {
	q := url.Values{}
	for _, id := range ids {
		q.Add("user_id", id)
	}
	q.Set("limit", strconv.Itoa(len(ids)))
	path := "/v1/users?" + q.Encode()

	resp, err := c.do(ctx, http.MethodGet, path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Str("path", path).Msg("directory close body failed")
		}
	}()

	var profiles []wireProfile
	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "directory read body failed")
	}
	if err := json.Unmarshal(b, &profiles); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "directory decode failed")
	}
	for _, p := range profiles {
		if p.ID == "" {
			continue
		}
		out[p.ID] = domain.AuthorProfile(p)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string) (*http.Response, error) {
	u := c.opts.BaseURL + path
	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		req, err := http.NewRequestWithContext(ctx, method, u, nil)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "directory new request failed")
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)
		req.Header.Set("Accept", "application/json")
		if c.opts.Token != "" {
			req.Header.Set("Authorization", "Bearer "+c.opts.Token)
		}

		start := c.now()
		resp, err := c.http.Do(req)
		lat := c.now().Sub(start)

		if err != nil {
			if !c.shouldRetry(attempts) {
				return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "directory do failed")
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Msg("directory transport error retrying")
			c.sleep(back)
			attempts++
			continue
		}

		c.log.Debug().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Int("attempt", attempts).
			Dur("latency", lat).
			Msg("directory http response")

		switch resp.StatusCode {
		case http.StatusOK:
			return resp, nil
		case http.StatusTooManyRequests,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			_ = drainAndClose(resp.Body)
			if !c.shouldRetry(attempts) {
				return nil, perr.Newf(perr.ErrorCodeUnavailable, "directory transient status %d", resp.StatusCode)
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("status", resp.StatusCode).Msg("directory transient error retrying")
			c.sleep(back)
			attempts++
			continue
		default:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			_ = resp.Body.Close()
			return nil, perr.Newf(
				perr.ErrorCodeUnavailable,
				"directory unexpected status %d body %s", resp.StatusCode, string(body),
			)
		}
	}
}

func (c *Client) backoff(attempt int) time.Duration {
	ms := int64(c.opts.RetryBase / time.Millisecond)
	ms = ms << uint(attempt)
	if cap := int64(10 * time.Second / time.Millisecond); ms > cap {
		ms = cap
	}
	return time.Duration(ms) * time.Millisecond
}

func (c *Client) shouldRetry(attempt int) bool {
	return attempt < c.opts.MaxRetries
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 1<<20))
	return rc.Close()
}
