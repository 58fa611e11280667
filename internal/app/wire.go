package app

import (
	"log/slog"
	"net/http"

	"nap/internal/domain"
	"nap/internal/relay"
	identitysvc "nap/internal/services/identity"
	publishsvc "nap/internal/services/publish"
	"nap/internal/store"
)

// Wire bundles all stores, services, and clients for the CLI.
type Wire struct {
	IdentityStore domain.IdentityStore
	Identity      domain.IdentityService
	Session       domain.RelaySession
	Publish       domain.PublishService
	HTTP          *http.Client
	Logger        *slog.Logger
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// File-based store
	identityStore := store.NewIdentityFileStore(cfg.Home)

	// Ensure an HTTP client is available for the WebSocket handshake
	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	sessionOpts := []relay.Option{
		relay.WithLogger(logger),
		relay.WithHTTPClient(httpClient),
	}
	if cfg.UserAgent != "" {
		sessionOpts = append(sessionOpts, relay.WithUserAgent(cfg.UserAgent))
	}
	session := relay.NewSession(sessionOpts...)

	// High-level services
	identitySvc := identitysvc.New(identityStore)
	publishOpts := []publishsvc.Option{
		publishsvc.WithLogger(logger),
		publishsvc.WithTimeout(cfg.Timeout),
		publishsvc.WithBackoff(cfg.Backoff),
	}
	if cfg.MaxAttempts > 0 {
		publishOpts = append(publishOpts, publishsvc.WithMaxAttempts(cfg.MaxAttempts))
	}
	publishSvc := publishsvc.New(session, publishOpts...)

	return &Wire{
		IdentityStore: identityStore,
		Identity:      identitySvc,
		Session:       session,
		Publish:       publishSvc,
		HTTP:          httpClient,
		Logger:        logger,
	}, nil
}
