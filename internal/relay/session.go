package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/coder/websocket"

	"nap/internal/domain"
)

// state tracks where a session is in its lifecycle; it decides how a
// transport error is classified and is attached to log lines.
type state int

const (
	stateIdle state = iota
	stateConnecting
	stateConnected
	stateAwaitingAck
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateConnecting:
		return "connecting"
	case stateConnected:
		return "connected"
	case stateAwaitingAck:
		return "awaiting-ack"
	default:
		return "unknown"
	}
}

// defaultReadLimit bounds a single relay frame. Acknowledgments are tiny;
// this only needs room for chatty relays that push other frames.
const defaultReadLimit = 1 << 20

// Session publishes events to relays over WebSocket.
// A Session holds no per-connection state and is safe for concurrent use.
type Session struct {
	logger    *slog.Logger
	http      *http.Client
	header    http.Header
	readLimit int64
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for connection and acknowledgment events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithHTTPClient sets the HTTP client used for the WebSocket handshake.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Session) { s.http = c }
}

// WithUserAgent sets the User-Agent header sent during the handshake.
func WithUserAgent(ua string) Option {
	return func(s *Session) { s.header.Set("User-Agent", ua) }
}

// WithReadLimit overrides the maximum accepted frame size.
func WithReadLimit(n int64) Option {
	return func(s *Session) { s.readLimit = n }
}

// NewSession returns a Session with the given options applied.
func NewSession(opts ...Option) *Session {
	s := &Session{
		logger:    slog.Default(),
		header:    http.Header{},
		readLimit: defaultReadLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ domain.RelaySession = (*Session)(nil)

// Publish delivers ev to the relay at endpoint and waits for its acknowledgment.
// A non-positive timeout means the caller's context is the only deadline.
func (s *Session) Publish(
	ctx context.Context,
	endpoint domain.RelayEndpoint,
	ev domain.SignedEvent,
	timeout time.Duration,
) domain.RelayOutcome {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	log := s.logger.With("relay", endpoint.URL, "event", ev.ID.Hex())

	if err := checkURL(endpoint.URL); err != nil {
		return domain.ConnectionFailed(err.Error())
	}
	payload, err := encodeEvent(ev)
	if err != nil {
		return domain.ConnectionFailed(fmt.Sprintf("encode event: %v", err))
	}

	st := stateConnecting
	log.Debug("connecting")
	conn, _, err := websocket.Dial(ctx, endpoint.URL, &websocket.DialOptions{
		HTTPClient: s.http,
		HTTPHeader: s.header.Clone(),
	})
	if err != nil {
		return s.classify(ctx, log, st, err)
	}
	// Released on every path; the relay does not need a close handshake.
	defer conn.CloseNow()
	conn.SetReadLimit(s.readLimit)

	st = stateConnected
	if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
		return s.classify(ctx, log, st, err)
	}

	st = stateAwaitingAck
	want := ev.ID.Hex()
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return s.classify(ctx, log, st, err)
		}
		msg, err := parseMessage(data)
		if err != nil {
			log.Debug("skipping frame", "err", err)
			continue
		}
		switch m := msg.(type) {
		case okMessage:
			if m.EventID != want {
				log.Debug("skipping acknowledgment for another event", "id", m.EventID)
				continue
			}
			if m.Accepted {
				log.Debug("accepted", "message", m.Message)
				return domain.Accepted(m.Message)
			}
			log.Debug("rejected", "reason", m.Message)
			return domain.Rejected(m.Message)
		case noticeMessage:
			log.Info("relay notice", "message", m.Message)
		default:
			log.Debug("skipping frame", "label", m.label())
		}
	}
}

// classify maps a transport error in state st to a terminal outcome.
func (s *Session) classify(ctx context.Context, log *slog.Logger, st state, err error) domain.RelayOutcome {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		log.Debug("deadline reached", "state", st)
		return domain.TimedOut()
	}
	log.Debug("connection failed", "state", st, "err", err)
	if ctx.Err() != nil {
		return domain.ConnectionFailed(fmt.Sprintf("%s: %v", st, ctx.Err()))
	}
	return domain.ConnectionFailed(fmt.Sprintf("%s: %v", st, err))
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid relay url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("invalid relay url %q: scheme must be ws or wss", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid relay url %q: missing host", raw)
	}
	return nil
}
