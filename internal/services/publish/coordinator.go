package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"nap/internal/domain"
)

const (
	// DefaultTimeout bounds one attempt against one relay.
	DefaultTimeout = 10 * time.Second
	// DefaultMaxAttempts is the number of tries per relay, including the first.
	DefaultMaxAttempts = 3
	// DefaultBackoff is the pause between attempts.
	DefaultBackoff = 500 * time.Millisecond
)

// ErrInvalidEndpoint is reported for relay URLs that cannot be dialled.
var ErrInvalidEndpoint = errors.New("invalid relay url")

// Coordinator runs publish rounds over a RelaySession.
type Coordinator struct {
	session     domain.RelaySession
	timeout     time.Duration
	maxAttempts int
	backoff     time.Duration
	logger      *slog.Logger
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithTimeout sets the per-attempt timeout used when an endpoint has none.
func WithTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxAttempts sets the number of tries per relay. Values below one mean one.
func WithMaxAttempts(n int) Option {
	return func(c *Coordinator) {
		if n < 1 {
			n = 1
		}
		c.maxAttempts = n
	}
}

// WithBackoff sets the pause between attempts.
func WithBackoff(d time.Duration) Option {
	return func(c *Coordinator) {
		if d >= 0 {
			c.backoff = d
		}
	}
}

// WithLogger sets the coordinator's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a Coordinator that delivers through session.
func New(session domain.RelaySession, opts ...Option) *Coordinator {
	c := &Coordinator{
		session:     session,
		timeout:     DefaultTimeout,
		maxAttempts: DefaultMaxAttempts,
		backoff:     DefaultBackoff,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ domain.PublishService = (*Coordinator)(nil)

type target struct {
	endpoint domain.RelayEndpoint
	err      error
}

// PublishAll sends ev to every endpoint concurrently and waits for all of them.
//
// Endpoints naming the same relay after URL normalization are published once;
// the first occurrence keeps its position, URL and timeout. Invalid URLs are
// reported as ConnectionFailed without being attempted.
func (c *Coordinator) PublishAll(
	ctx context.Context,
	ev domain.SignedEvent,
	endpoints []domain.RelayEndpoint,
) domain.PublishReport {
	start := time.Now()
	report := domain.PublishReport{RoundID: uuid.NewString(), Event: ev}
	log := c.logger.With("round", report.RoundID, "event", ev.ID.Hex())

	targets := plan(endpoints)
	report.Results = make([]domain.RelayResult, len(targets))
	log.Debug("publish round started", "relays", len(targets), "max_attempts", c.maxAttempts)

	var g errgroup.Group
	for i, t := range targets {
		if t.err != nil {
			log.Warn("skipping relay", "relay", t.endpoint.URL, "err", t.err)
			report.Results[i] = domain.RelayResult{
				Endpoint: t.endpoint,
				Outcome:  domain.ConnectionFailed(t.err.Error()),
			}
			continue
		}
		i, t := i, t
		g.Go(func() error {
			report.Results[i] = c.publishOne(ctx, log.With("relay", t.endpoint.URL), ev, t.endpoint)
			return nil
		})
	}
	g.Wait()

	report.Elapsed = time.Since(start)
	log.Info("publish round finished",
		"verdict", report.Verdict().String(),
		"accepted", report.Count(domain.StatusAccepted),
		"rejected", report.Count(domain.StatusRejected),
		"timed_out", report.Count(domain.StatusTimedOut),
		"failed", report.Count(domain.StatusConnectionFailed),
		"elapsed", report.Elapsed,
	)
	return report
}

func (c *Coordinator) publishOne(
	ctx context.Context,
	log *slog.Logger,
	ev domain.SignedEvent,
	ep domain.RelayEndpoint,
) domain.RelayResult {
	timeout := ep.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}

	res := domain.RelayResult{Endpoint: ep}
	start := time.Now()
	for {
		res.Attempts++
		res.Outcome = c.session.Publish(ctx, ep, ev, timeout)
		if !res.Outcome.Retryable() || res.Attempts >= c.maxAttempts {
			break
		}
		log.Warn("retrying relay",
			"attempt", res.Attempts,
			"outcome", res.Outcome.String(),
			"backoff", c.backoff,
		)
		if !sleep(ctx, c.backoff) {
			break
		}
	}
	res.Elapsed = time.Since(start)
	log.Debug("relay finished", "outcome", res.Outcome.String(), "attempts", res.Attempts)
	return res
}

// sleep waits for d or until ctx is done, reporting whether the wait completed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// plan validates and de-duplicates endpoints, keeping first occurrences in order.
// The normalized URL is only the identity key; the caller's URL is dialled as given.
func plan(endpoints []domain.RelayEndpoint) []target {
	out := make([]target, 0, len(endpoints))
	seen := make(map[string]bool, len(endpoints))
	for _, ep := range endpoints {
		ep.URL = strings.TrimSpace(ep.URL)
		key, err := identityKey(ep.URL)
		if err != nil {
			out = append(out, target{endpoint: ep, err: err})
			continue
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, target{endpoint: ep})
	}
	return out
}

// identityKey checks that raw is a dialable relay URL and returns the form
// used to recognise the same relay written differently.
func identityKey(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidEndpoint)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w %q", ErrInvalidEndpoint, raw)
	}
	if s := strings.ToLower(u.Scheme); s != "ws" && s != "wss" {
		return "", fmt.Errorf("%w %q: scheme must be ws or wss", ErrInvalidEndpoint, raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w %q: missing host", ErrInvalidEndpoint, raw)
	}
	// Path and query may be case-sensitive on the relay; only scheme and host fold.
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	return u.String(), nil
}
