package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"nap/internal/devrelay"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		addr        string
		name        string
		rejectKinds []int
		verbose     bool
	)
	cmd := &cobra.Command{
		Use:           "relay",
		Short:         "Run an in-memory Nostr relay for local testing",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			opts := []devrelay.Option{devrelay.WithLogger(logger)}
			if name != "" {
				opts = append(opts, devrelay.WithName(name))
			}
			for _, k := range rejectKinds {
				opts = append(opts, devrelay.WithRejectKind(k, fmt.Sprintf("kind %d is not accepted here", k)))
			}
			relay := devrelay.New(opts...)

			srv := &http.Server{
				Addr:              addr,
				Handler:           accessLog(logger, relay.Handler()),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("relay listening", "addr", addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			logger.Info("relay stopped", "events", relay.Len())
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":7777", "listen address")
	cmd.Flags().StringVar(&name, "name", "", "relay name in the information document")
	cmd.Flags().IntSliceVar(&rejectKinds, "reject-kind", nil, "event kind to refuse (repeatable)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

// accessLog records one line per request.
func accessLog(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}
