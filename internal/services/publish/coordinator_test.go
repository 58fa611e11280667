package publish_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"nap/internal/domain"
	"nap/internal/services/publish"
)

// behaviour decides the outcome of one attempt against one relay.
type behaviour func(ctx context.Context, timeout time.Duration, attempt int) domain.RelayOutcome

type fakeSession struct {
	mu       sync.Mutex
	behave   map[string]behaviour
	calls    map[string]int
	timeouts map[string]time.Duration
}

func newFake(behave map[string]behaviour) *fakeSession {
	return &fakeSession{
		behave:   behave,
		calls:    make(map[string]int),
		timeouts: make(map[string]time.Duration),
	}
}

func (f *fakeSession) Publish(
	ctx context.Context,
	ep domain.RelayEndpoint,
	_ domain.SignedEvent,
	timeout time.Duration,
) domain.RelayOutcome {
	f.mu.Lock()
	f.calls[ep.URL]++
	attempt := f.calls[ep.URL]
	f.timeouts[ep.URL] = timeout
	b := f.behave[ep.URL]
	f.mu.Unlock()
	if b == nil {
		return domain.ConnectionFailed("unknown relay")
	}
	return b(ctx, timeout, attempt)
}

func (f *fakeSession) count(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

func accept(context.Context, time.Duration, int) domain.RelayOutcome {
	return domain.Accepted("")
}

func reject(context.Context, time.Duration, int) domain.RelayOutcome {
	return domain.Rejected("blocked: test")
}

func refuse(context.Context, time.Duration, int) domain.RelayOutcome {
	return domain.ConnectionFailed("connecting: refused")
}

// hang waits out the attempt timeout like a relay that never acknowledges.
func hang(ctx context.Context, timeout time.Duration, _ int) domain.RelayOutcome {
	select {
	case <-time.After(timeout):
	case <-ctx.Done():
	}
	return domain.TimedOut()
}

func slowAccept(d time.Duration) behaviour {
	return func(context.Context, time.Duration, int) domain.RelayOutcome {
		time.Sleep(d)
		return domain.Accepted("")
	}
}

func endpoints(urls ...string) []domain.RelayEndpoint {
	out := make([]domain.RelayEndpoint, len(urls))
	for i, u := range urls {
		out[i] = domain.RelayEndpoint{URL: u}
	}
	return out
}

const (
	relayA = "wss://a.example.com"
	relayB = "wss://b.example.com"
	relayC = "wss://c.example.com"
)

func TestPublishAll_PartialFailure(t *testing.T) {
	duplicate := func(context.Context, time.Duration, int) domain.RelayOutcome {
		return domain.Rejected("duplicate")
	}
	fake := newFake(map[string]behaviour{relayA: accept, relayB: hang, relayC: duplicate})
	c := publish.New(fake, publish.WithTimeout(200*time.Millisecond), publish.WithMaxAttempts(1))

	start := time.Now()
	report := c.PublishAll(context.Background(), domain.SignedEvent{}, endpoints(relayA, relayB, relayC))
	elapsed := time.Since(start)

	require.True(t, report.Succeeded())
	require.Equal(t, domain.VerdictPublished, report.Verdict())
	require.Len(t, report.Results, 3)
	require.Equal(t, relayA, report.Results[0].Endpoint.URL)
	require.Equal(t, relayB, report.Results[1].Endpoint.URL)
	require.Equal(t, relayC, report.Results[2].Endpoint.URL)
	require.Equal(t, domain.StatusAccepted, report.Results[0].Outcome.Status)
	require.Equal(t, domain.StatusTimedOut, report.Results[1].Outcome.Status)
	require.Equal(t, domain.StatusRejected, report.Results[2].Outcome.Status)
	require.Equal(t, "duplicate", report.Results[2].Outcome.Reason)
	require.Equal(t, 1, report.Count(domain.StatusAccepted))
	require.Less(t, elapsed, time.Second)
	require.NotEmpty(t, report.RoundID)
}

func TestPublishAll_AllFailWithRetries(t *testing.T) {
	fake := newFake(map[string]behaviour{relayA: refuse, relayB: refuse})
	c := publish.New(fake, publish.WithMaxAttempts(3), publish.WithBackoff(10*time.Millisecond))

	report := c.PublishAll(context.Background(), domain.SignedEvent{}, endpoints(relayA, relayB))

	require.False(t, report.Succeeded())
	require.Equal(t, domain.VerdictUnreachable, report.Verdict())
	for _, res := range report.Results {
		require.Equal(t, domain.StatusConnectionFailed, res.Outcome.Status)
		require.Equal(t, 3, res.Attempts)
	}
	require.Equal(t, 3, fake.count(relayA))
	require.Equal(t, 3, fake.count(relayB))
}

func TestPublishAll_NoEndpoints(t *testing.T) {
	c := publish.New(newFake(nil))

	report := c.PublishAll(context.Background(), domain.SignedEvent{}, nil)

	require.Empty(t, report.Results)
	require.False(t, report.Succeeded())
	require.Equal(t, domain.VerdictNoRelays, report.Verdict())
}

func TestPublishAll_RejectionIsFinal(t *testing.T) {
	fake := newFake(map[string]behaviour{relayA: reject})
	c := publish.New(fake, publish.WithMaxAttempts(5), publish.WithBackoff(0))

	report := c.PublishAll(context.Background(), domain.SignedEvent{}, endpoints(relayA))

	require.Equal(t, domain.VerdictAllRejected, report.Verdict())
	require.Equal(t, 1, report.Results[0].Attempts)
	require.Equal(t, 1, fake.count(relayA))
}

func TestPublishAll_RetryRecovers(t *testing.T) {
	flaky := func(_ context.Context, _ time.Duration, attempt int) domain.RelayOutcome {
		if attempt == 1 {
			return domain.ConnectionFailed("connecting: reset")
		}
		return domain.Accepted("")
	}
	fake := newFake(map[string]behaviour{relayA: flaky})
	c := publish.New(fake, publish.WithBackoff(time.Millisecond))

	report := c.PublishAll(context.Background(), domain.SignedEvent{}, endpoints(relayA))

	require.Equal(t, domain.StatusAccepted, report.Results[0].Outcome.Status)
	require.Equal(t, 2, report.Results[0].Attempts)
}

func TestPublishAll_MixedFailure(t *testing.T) {
	fake := newFake(map[string]behaviour{relayA: reject, relayB: refuse})
	c := publish.New(fake, publish.WithMaxAttempts(1))

	report := c.PublishAll(context.Background(), domain.SignedEvent{}, endpoints(relayA, relayB))

	require.Equal(t, domain.VerdictFailed, report.Verdict())
}

func TestPublishAll_RelaysRunConcurrently(t *testing.T) {
	behave := map[string]behaviour{}
	var urls []string
	for _, u := range []string{relayA, relayB, relayC, "wss://d.example.com", "wss://e.example.com"} {
		behave[u] = slowAccept(150 * time.Millisecond)
		urls = append(urls, u)
	}
	c := publish.New(newFake(behave))

	start := time.Now()
	report := c.PublishAll(context.Background(), domain.SignedEvent{}, endpoints(urls...))

	require.Equal(t, 5, report.Count(domain.StatusAccepted))
	require.Less(t, time.Since(start), 600*time.Millisecond)
}

func TestPublishAll_EndpointTimeoutOverride(t *testing.T) {
	fake := newFake(map[string]behaviour{relayA: accept, relayB: accept})
	c := publish.New(fake, publish.WithTimeout(3*time.Second))

	eps := []domain.RelayEndpoint{
		{URL: relayA, Timeout: 250 * time.Millisecond},
		{URL: relayB},
	}
	c.PublishAll(context.Background(), domain.SignedEvent{}, eps)

	require.Equal(t, 250*time.Millisecond, fake.timeouts[relayA])
	require.Equal(t, 3*time.Second, fake.timeouts[relayB])
}

func TestPublishAll_DuplicateEndpointsPublishedOnce(t *testing.T) {
	fake := newFake(map[string]behaviour{relayA: accept})
	c := publish.New(fake)

	report := c.PublishAll(context.Background(), domain.SignedEvent{},
		endpoints(relayA, relayA+"/", " "+relayA))

	require.Len(t, report.Results, 1)
	require.Equal(t, 1, fake.count(relayA))
	_, ok := report.Outcome(relayA + "/")
	require.True(t, ok)
}

func TestPublishAll_InvalidEndpoint(t *testing.T) {
	fake := newFake(map[string]behaviour{relayA: accept})
	c := publish.New(fake)

	report := c.PublishAll(context.Background(), domain.SignedEvent{}, endpoints("", relayA, "wss://"))

	require.Len(t, report.Results, 3)
	require.Equal(t, domain.StatusConnectionFailed, report.Results[0].Outcome.Status)
	require.Zero(t, report.Results[0].Attempts)
	require.Equal(t, domain.StatusAccepted, report.Results[1].Outcome.Status)
	require.Equal(t, domain.StatusConnectionFailed, report.Results[2].Outcome.Status)
	require.Zero(t, report.Results[2].Attempts)
}

func TestPublishAll_CancelStopsRetries(t *testing.T) {
	fake := newFake(map[string]behaviour{relayA: refuse})
	c := publish.New(fake, publish.WithMaxAttempts(10), publish.WithBackoff(time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	report := c.PublishAll(ctx, domain.SignedEvent{}, endpoints(relayA))

	require.Equal(t, 1, report.Results[0].Attempts)
	require.Equal(t, domain.StatusConnectionFailed, report.Results[0].Outcome.Status)
}

func TestPublishAll_DialsConfiguredURLVerbatim(t *testing.T) {
	const configured = "wss://relay.example.com/Inbox?token=AbCdEf"
	fake := newFake(map[string]behaviour{configured: accept})
	c := publish.New(fake, publish.WithBackoff(0))

	report := c.PublishAll(context.Background(), domain.SignedEvent{},
		endpoints(configured, "WSS://RELAY.example.com/Inbox/?token=AbCdEf", "wss://relay.example.com/inbox?token=abcdef"))

	require.Equal(t, 1, fake.count(configured))
	require.Len(t, report.Results, 2, "case differences in path or query name a different relay")
	require.Equal(t, configured, report.Results[0].Endpoint.URL)
	require.Equal(t, domain.StatusAccepted, report.Results[0].Outcome.Status)
	out, ok := report.Outcome(configured)
	require.True(t, ok)
	require.Equal(t, domain.StatusAccepted, out.Status)
}
