package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"hlsub/internal/logger"
	"hlsub/internal/models"
)

const (
	defaultConcurrency = 8
	maxAttempts        = 3
	baseRetryDelay     = 250 * time.Millisecond
	maxRetryDelay      = 2 * time.Second
	maxBodySize        = 32 << 20
)

// FetchError reports a failed download of a single URI.
type FetchError struct {
	URI   string
	Cause error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URI, e.Cause)
}

func (e *FetchError) Unwrap() error { return e.Cause }

// statusError marks an HTTP error response; 4xx responses are not retried.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("received status code %d", e.code)
}

func (e *statusError) retryable() bool { return e.code >= 500 }

// Fetcher downloads segments over HTTP with bounded concurrency, retry
// logic, and at-most-once-in-flight deduplication per URI.
type Fetcher struct {
	httpClient  *http.Client
	logger      logger.Logger
	userAgent   string
	timeout     time.Duration
	flights     *FlightTable
	concurrency int
}

// NewFetcher creates a new segment fetcher. The flight table may be shared
// across fetchers so concurrent pipelines deduplicate common segments.
func NewFetcher(client *http.Client, log logger.Logger, cfg ClientConfig, flights *FlightTable) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if flights == nil {
		flights = NewFlightTable()
	}

	return &Fetcher{
		httpClient:  client,
		logger:      log,
		userAgent:   cfg.UserAgent,
		timeout:     timeout,
		flights:     flights,
		concurrency: defaultConcurrency,
	}
}

// SetConcurrency bounds the worker pool used by FetchAll.
func (f *Fetcher) SetConcurrency(n int) {
	if n > 0 {
		f.concurrency = n
	}
}

// FetchAll downloads every segment and returns the bodies in input order,
// regardless of completion order. The first non-retryable failure cancels
// the remaining downloads of this call and fails the whole batch; a fetch
// shared with another pipeline through the flight table is allowed to
// finish for the benefit of its other consumers.
func (f *Fetcher) FetchAll(ctx context.Context, segments []models.Segment) ([][]byte, error) {
	bodies := make([][]byte, len(segments))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(f.concurrency)

	for i, segment := range segments {
		i, segment := i, segment
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			data, err := f.flights.Do(segment.URI, func() ([]byte, error) {
				// Deliberately detached from ctx: a shared fetch may
				// outlive the requester that claimed it.
				return f.fetchResource(context.Background(), segment.URI)
			})
			if err != nil {
				return &FetchError{URI: segment.URI, Cause: err}
			}

			bodies[i] = data
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return bodies, nil
}

// FetchOne downloads a single resource (e.g. a playlist) with the same
// retry policy as segment downloads, bypassing the flight table.
func (f *Fetcher) FetchOne(ctx context.Context, uri string) ([]byte, error) {
	data, err := f.fetchResource(ctx, uri)
	if err != nil {
		return nil, &FetchError{URI: uri, Cause: err}
	}
	return data, nil
}

// fetchResource downloads one URI with per-attempt timeouts and capped
// exponential backoff. Network errors and 5xx responses are retried;
// 4xx responses fail immediately.
func (f *Fetcher) fetchResource(ctx context.Context, uri string) ([]byte, error) {
	var lastErr error
	delay := baseRetryDelay

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			delay *= 2
			if delay > maxRetryDelay {
				delay = maxRetryDelay
			}
		}

		f.logger.Debugf("Downloading %s (attempt %d/%d)", uri, attempt, maxAttempts)

		data, err := f.fetchOnce(ctx, uri)
		if err == nil {
			return data, nil
		}
		lastErr = err

		var statusErr *statusError
		if errors.As(err, &statusErr) && !statusErr.retryable() {
			return nil, err
		}
		if errors.Is(err, context.Canceled) {
			return nil, err
		}

		f.logger.Warnf("Download attempt %d/%d failed for %s: %v", attempt, maxAttempts, uri, err)
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", maxAttempts, lastErr)
}

func (f *Fetcher) fetchOnce(ctx context.Context, uri string) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed while reading body: %w", err)
	}

	return data, nil
}
