package devrelay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"nap/internal/domain"
	"nap/internal/event"
)

// Info is the relay information document.
type Info struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Software      string `json:"software"`
	Version       string `json:"version"`
	SupportedNIPs []int  `json:"supported_nips"`
}

type address struct {
	pubkey domain.PublicKey
	kind   int
	d      string
}

// Relay is an in-memory relay. The zero value is not usable; call New.
type Relay struct {
	mu          sync.RWMutex
	events      map[domain.EventID]domain.SignedEvent
	latest      map[address]domain.EventID
	rejectKinds map[int]string

	info   Info
	logger *slog.Logger
}

// Option configures a Relay.
type Option func(*Relay)

// WithLogger sets the relay's logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Relay) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithRejectKind makes the relay refuse events of kind with reason.
func WithRejectKind(kind int, reason string) Option {
	return func(r *Relay) { r.rejectKinds[kind] = reason }
}

// WithName sets the name advertised in the information document.
func WithName(name string) Option {
	return func(r *Relay) { r.info.Name = name }
}

// New returns an empty relay.
func New(opts ...Option) *Relay {
	r := &Relay{
		events:      make(map[domain.EventID]domain.SignedEvent),
		latest:      make(map[address]domain.EventID),
		rejectKinds: make(map[int]string),
		info: Info{
			Name:          "nap-devrelay",
			Description:   "in-memory development relay",
			Software:      "nap",
			Version:       "dev",
			SupportedNIPs: []int{1, 11, 33},
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Handler returns the relay's HTTP handler.
func (r *Relay) Handler() http.Handler {
	mux := chi.NewRouter()
	mux.Use(middleware.Recoverer)
	mux.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Get("/", r.serveRoot)
	return mux
}

func (r *Relay) serveRoot(w http.ResponseWriter, req *http.Request) {
	switch {
	case strings.EqualFold(req.Header.Get("Upgrade"), "websocket"):
		r.serveWS(w, req)
	case strings.Contains(req.Header.Get("Accept"), "application/nostr+json"):
		w.Header().Set("Content-Type", "application/nostr+json")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		_ = json.NewEncoder(w).Encode(r.info)
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintf(w, "%s: connect with a relay client over WebSocket\n", r.info.Name)
	}
}

func (r *Relay) serveWS(w http.ResponseWriter, req *http.Request) {
	conn, err := websocket.Accept(w, req, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		r.logger.Warn("websocket accept failed", "remote", req.RemoteAddr, "err", err)
		return
	}
	defer conn.CloseNow()

	ctx := req.Context()
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			r.logger.Debug("connection closed", "remote", req.RemoteAddr, "status", websocket.CloseStatus(err))
			return
		}
		reply := r.handleFrame(data)
		b, err := json.Marshal(reply)
		if err != nil {
			return
		}
		if err := conn.Write(ctx, websocket.MessageText, b); err != nil {
			return
		}
	}
}

// handleFrame processes one client frame and returns the reply frame.
func (r *Relay) handleFrame(data []byte) []any {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil || len(parts) == 0 {
		return []any{"NOTICE", "invalid: frame is not a JSON array"}
	}
	var label string
	if err := json.Unmarshal(parts[0], &label); err != nil {
		return []any{"NOTICE", "invalid: frame label is not a string"}
	}
	if label != "EVENT" {
		return []any{"NOTICE", "unsupported: " + label}
	}
	if len(parts) < 2 {
		return []any{"NOTICE", "invalid: EVENT frame without event"}
	}

	var ev domain.SignedEvent
	if err := json.Unmarshal(parts[1], &ev); err != nil {
		// Without a parseable id there is nothing to correlate an OK to.
		var loose struct {
			ID string `json:"id"`
		}
		if json.Unmarshal(parts[1], &loose) == nil && loose.ID != "" {
			return []any{"OK", loose.ID, false, "invalid: " + err.Error()}
		}
		return []any{"NOTICE", "invalid: " + err.Error()}
	}
	ok, msg := r.Submit(ev)
	return []any{"OK", ev.ID.Hex(), ok, msg}
}

// Submit verifies and stores ev, returning the acknowledgment a client would see.
func (r *Relay) Submit(ev domain.SignedEvent) (bool, string) {
	if err := event.Verify(ev); err != nil {
		return false, "invalid: " + err.Error()
	}
	if reason, blocked := r.rejectKinds[ev.Kind]; blocked {
		return false, "blocked: " + reason
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.events[ev.ID]; dup {
		return true, "duplicate: already have this event"
	}
	if ev.Kind >= 30000 && ev.Kind < 40000 {
		addr := address{pubkey: ev.PubKey, kind: ev.Kind, d: dTag(ev.Tags)}
		if prev, ok := r.latest[addr]; ok {
			if !supersedes(ev, r.events[prev]) {
				return false, "invalid: a newer version of this event is stored"
			}
			delete(r.events, prev)
		}
		r.latest[addr] = ev.ID
	}
	r.events[ev.ID] = ev
	r.logger.Info("stored event", "id", ev.ID.Hex(), "kind", ev.Kind)
	return true, ""
}

// Lookup returns the newest addressable event for pubkey, kind and d tag.
func (r *Relay) Lookup(pubkey domain.PublicKey, kind int, d string) (domain.SignedEvent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.latest[address{pubkey: pubkey, kind: kind, d: d}]
	if !ok {
		return domain.SignedEvent{}, false
	}
	return r.events[id], true
}

// Len returns the number of stored events.
func (r *Relay) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.events)
}

// supersedes reports whether ev replaces stored at the same address: the newer
// event wins, and on equal timestamps the lower id is kept.
func supersedes(ev, stored domain.SignedEvent) bool {
	if ev.CreatedAt != stored.CreatedAt {
		return ev.CreatedAt > stored.CreatedAt
	}
	return bytes.Compare(ev.ID[:], stored.ID[:]) < 0
}

func dTag(tags domain.Tags) string {
	for _, t := range tags {
		if len(t) >= 2 && t[0] == event.TagIdentifier {
			return t[1]
		}
	}
	return ""
}
