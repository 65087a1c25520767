// Package initializer loads place categories from the KudaGo public API
// into a category repository.
//
// The HTTP call runs on a worker pool while a timeout watcher waits on a
// scheduler. Whichever finishes first claims the run; a response that
// arrives after the watcher fired is dropped and never persisted.
package initializer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/locations/internal/executor"
	"github.com/mesh-intelligence/locations/internal/metrics"
	"github.com/mesh-intelligence/locations/pkg/types"
)

// CategoriesPath is the endpoint queried below the base URL.
const CategoriesPath = "/public-api/v1.4/place-categories"

// Saver persists entities. *repository.Repository satisfies it.
type Saver[T any] interface {
	Save(entity T) (T, error)
}

// Option configures a CategoryInitializer.
type Option func(*CategoryInitializer)

// WithHTTPClient sets the client used for the fetch.
func WithHTTPClient(c *http.Client) Option {
	return func(i *CategoryInitializer) { i.client = c }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(i *CategoryInitializer) { i.logger = l }
}

// WithMetrics records run outcomes and durations.
func WithMetrics(m *metrics.InitializerMetrics) Option {
	return func(i *CategoryInitializer) { i.metrics = m }
}

// CategoryInitializer populates a category repository from the remote API.
type CategoryInitializer struct {
	url       string
	saver     Saver[types.Category]
	pool      *executor.Pool
	scheduler *executor.Scheduler
	timeout   time.Duration
	client    *http.Client
	logger    zerolog.Logger
	metrics   *metrics.InitializerMetrics

	state atomic.Int32
}

// New returns an initializer fetching from baseURL. The fetch runs on pool,
// the timeout watcher on scheduler, and a run fails once timeout elapses
// without a response.
func New(baseURL string, saver Saver[types.Category], pool *executor.Pool, scheduler *executor.Scheduler, timeout time.Duration, opts ...Option) *CategoryInitializer {
	i := &CategoryInitializer{
		url:       strings.TrimRight(baseURL, "/") + CategoriesPath,
		saver:     saver,
		pool:      pool,
		scheduler: scheduler,
		timeout:   timeout,
		client:    &http.Client{},
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	i.logger = i.logger.With().Str("component", "initializer").Logger()
	return i
}

// URL returns the endpoint the initializer fetches.
func (i *CategoryInitializer) URL() string {
	return i.url
}

// State returns the phase of the current or last run.
func (i *CategoryInitializer) State() State {
	return State(i.state.Load())
}

// Claims on a run's fetch; exactly one of the response and the timeout
// watcher gets to move fetchClaim away from claimOpen.
const (
	claimOpen int32 = iota
	claimResponse
	claimTimeout
)

type fetchResult struct {
	body []byte
	err  error
}

// InitializeData fetches the categories, then saves them one by one in
// response order. It blocks until the run is over.
//
// Every failure to obtain or decode the list is reported as a *FetchError.
// A failed save stops the run and is returned wrapped as is; categories
// saved before it stay stored. Calling InitializeData again appends another
// copy of the list.
func (i *CategoryInitializer) InitializeData(ctx context.Context) error {
	if err := i.begin(); err != nil {
		return err
	}

	runID := newRunID()
	log := i.logger.With().Str("run_id", runID).Logger()
	log.Info().Str("url", i.url).Dur("timeout", i.timeout).Msg("loading categories")

	start := time.Now()
	body, err := i.fetch(ctx, log)
	i.metrics.ObserveFetch(time.Since(start))
	if err != nil {
		return i.fail(log, runID, err)
	}

	i.state.Store(int32(StateParsing))
	dtos, err := parseCategories(body)
	if err != nil {
		return i.fail(log, runID, err)
	}

	i.state.Store(int32(StatePersisting))
	for _, dto := range dtos {
		saved, err := i.saver.Save(types.Category{Name: *dto.Name, Slug: *dto.Slug})
		if err != nil {
			i.state.Store(int32(StateFailed))
			i.metrics.RecordRun(metrics.OutcomeSaveFailed)
			log.Error().Err(err).Str("slug", *dto.Slug).Msg("saving category failed")
			return fmt.Errorf("saving category %q: %w", *dto.Slug, err)
		}
		i.metrics.RecordSaved()
		log.Debug().Int64("id", saved.ID).Str("slug", saved.Slug).Str("remote_id", string(*dto.ID)).Msg("category saved")
	}

	i.state.Store(int32(StateDone))
	i.metrics.RecordRun(metrics.OutcomeDone)
	log.Info().Int("count", len(dtos)).Dur("elapsed", time.Since(start)).Msg("categories loaded")
	return nil
}

// begin moves the initializer into Fetching unless a run is in flight.
func (i *CategoryInitializer) begin() error {
	for {
		cur := i.state.Load()
		if State(cur).running() {
			return ErrAlreadyRunning
		}
		if i.state.CompareAndSwap(cur, int32(StateFetching)) {
			return nil
		}
	}
}

func (i *CategoryInitializer) fail(log zerolog.Logger, runID string, cause error) error {
	i.state.Store(int32(StateFailed))
	i.metrics.RecordRun(metrics.OutcomeFetchFailed)
	log.Error().Err(cause).Msg("category fetch failed")
	return &FetchError{RunID: runID, Cause: cause}
}

// fetch runs the GET on the pool and waits for the response, the timeout
// watcher or ctx, whichever comes first.
func (i *CategoryInitializer) fetch(ctx context.Context, log zerolog.Logger) ([]byte, error) {
	runCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	var claim atomic.Int32
	results := make(chan fetchResult, 1)

	stopWatch, err := i.scheduler.Schedule(i.timeout, func() {
		if claim.CompareAndSwap(claimOpen, claimTimeout) {
			cancel(fmt.Errorf("%w: %s elapsed", ErrTimeout, i.timeout))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("scheduling timeout watcher: %w", err)
	}
	defer stopWatch()

	err = i.pool.Submit(runCtx, func() {
		body, err := i.get(runCtx)
		if !claim.CompareAndSwap(claimOpen, claimResponse) {
			log.Warn().Err(err).Msg("discarding response that arrived after the deadline")
			return
		}
		results <- fetchResult{body: body, err: err}
	})
	if err != nil {
		if cause := context.Cause(runCtx); cause != nil {
			return nil, cause
		}
		return nil, fmt.Errorf("submitting fetch: %w", err)
	}

	select {
	case res := <-results:
		return res.body, res.err
	case <-runCtx.Done():
		return nil, context.Cause(runCtx)
	}
}

// get performs the request and returns the body of a 2xx response.
func (i *CategoryInitializer) get(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := i.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting categories: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading categories: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, i.url)
	}
	return body, nil
}

func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
