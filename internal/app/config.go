package app

import (
	"log/slog"
	"net/http"
	"time"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home        string        // config directory, e.g. $HOME/.nap
	Timeout     time.Duration // per-attempt relay timeout
	MaxAttempts int           // tries per relay, including the first
	Backoff     time.Duration // pause between attempts; zero disables it
	UserAgent   string        // sent during the WebSocket handshake
	HTTP        *http.Client  // optional; defaults to http.DefaultClient
	Logger      *slog.Logger  // optional; defaults to slog.Default()
}
