package roundclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"gameshot-quiz-service/internal/domain"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

// Client fetches round content from another instance's /api/round endpoint.
// Timeouts, network errors and 5xx responses are retried with exponential backoff;
// every failure surfaces as *domain.FetchError.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries uint64
	newBackOff func() backoff.BackOff
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithRetries sets how many times a retryable failure is retried.
func WithRetries(n uint64) Option {
	return func(cl *Client) { cl.maxRetries = n }
}

// WithBackOff sets the retry schedule.
func WithBackOff(f func() backoff.BackOff) Option {
	return func(cl *Client) { cl.newBackOff = f }
}

func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: 2,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxElapsedTime = 10 * time.Second
			return b
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) FetchRound(ctx context.Context, optionCount int) (domain.RoundContent, error) {
	endpoint, err := c.endpoint(optionCount)
	if err != nil {
		return domain.RoundContent{}, &domain.FetchError{Kind: domain.FetchUnknown, Err: err}
	}

	var round domain.RoundContent
	attempt := 0
	op := func() error {
		attempt++
		r, err := c.fetchOnce(ctx, endpoint)
		if err != nil {
			var fetchErr *domain.FetchError
			if errors.As(err, &fetchErr) && retryable(fetchErr) && ctx.Err() == nil {
				log.Debug().Err(err).Int("attempt", attempt).Msg("round fetch failed, retrying")
				return err
			}
			return backoff.Permanent(err)
		}
		round = r
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(op, b); err != nil {
		var fetchErr *domain.FetchError
		if errors.As(err, &fetchErr) {
			return domain.RoundContent{}, err
		}
		return domain.RoundContent{}, classify(err)
	}
	return round, nil
}

func (c *Client) endpoint(optionCount int) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	u = u.JoinPath("api", "round")
	if optionCount > 0 {
		q := u.Query()
		q.Set("options", strconv.Itoa(optionCount))
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func (c *Client) fetchOnce(ctx context.Context, endpoint string) (domain.RoundContent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.RoundContent{}, &domain.FetchError{Kind: domain.FetchUnknown, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.RoundContent{}, classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.RoundContent{}, &domain.FetchError{
			Kind:       domain.FetchHTTPStatus,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status: %s", body),
		}
	}

	var round domain.RoundContent
	if err := json.NewDecoder(resp.Body).Decode(&round); err != nil {
		return domain.RoundContent{}, &domain.FetchError{Kind: domain.FetchUnknown, Err: fmt.Errorf("decode round: %w", err)}
	}
	if round.CorrectAnswer == "" || !round.HasOption(round.CorrectAnswer) {
		return domain.RoundContent{}, &domain.FetchError{Kind: domain.FetchUnknown, Err: errors.New("round without correct option")}
	}
	return round, nil
}

func classify(err error) *domain.FetchError {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &domain.FetchError{Kind: domain.FetchTimeout, Err: err}
	case errors.As(err, &netErr) && netErr.Timeout():
		return &domain.FetchError{Kind: domain.FetchTimeout, Err: err}
	case errors.Is(err, context.Canceled):
		return &domain.FetchError{Kind: domain.FetchUnknown, Err: err}
	case errors.As(err, &netErr):
		return &domain.FetchError{Kind: domain.FetchNetwork, Err: err}
	default:
		return &domain.FetchError{Kind: domain.FetchUnknown, Err: err}
	}
}

func retryable(err *domain.FetchError) bool {
	switch err.Kind {
	case domain.FetchTimeout, domain.FetchNetwork:
		return true
	case domain.FetchHTTPStatus:
		return err.StatusCode >= 500 || err.StatusCode == http.StatusTooManyRequests
	default:
		return false
	}
}
