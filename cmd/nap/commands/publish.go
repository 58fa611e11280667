package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"nap/internal/app"
	"nap/internal/domain"
	"nap/internal/event"
	"nap/internal/manifest"
	"nap/internal/services/publish"
)

type publishFlags struct {
	config  string
	relays  []string
	timeout time.Duration
	retries int
	backoff time.Duration
	dryRun  bool
	json    bool
}

// settings is the resolved configuration of one publish run.
type settings struct {
	app         domain.ApplicationMetadata
	relays      []domain.RelayEndpoint
	timeout     time.Duration
	maxAttempts int
	backoff     time.Duration
}

func publishCmd() *cobra.Command {
	var f publishFlags

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Sign the application metadata and publish it to relays",
		Long: `Read the application description from nap.yaml, sign it with the local key
and send it to every configured relay concurrently.

Relays come from the manifest's "relays" list, replaced by $NAP_RELAYS when
set, replaced again by --relay flags when given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolve(cmd, f, os.LookupEnv)
			if err != nil {
				return err
			}
			if err := requirePassphrase(); err != nil {
				return err
			}

			cfg := baseConfig
			cfg.Timeout, cfg.MaxAttempts, cfg.Backoff = s.timeout, s.maxAttempts, s.backoff
			w, err := app.NewWire(cfg)
			if err != nil {
				return err
			}

			signer, err := w.Identity.LoadSigner(passphrase)
			if err != nil {
				return fmt.Errorf("unlock key: %w", err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			ev, err := signEvent(ctx, s.app, signer, event.SystemClock)
			if err != nil {
				return fmt.Errorf("build event: %w", err)
			}
			out := cmd.OutOrStdout()
			if f.dryRun {
				return writeJSON(out, ev)
			}

			report := w.Publish.PublishAll(ctx, ev, s.relays)
			if f.json {
				if err := writeJSON(out, report); err != nil {
					return err
				}
			} else {
				printReport(out, report)
			}
			return roundError(report.Verdict())
		},
	}

	cmd.Flags().StringVarP(&f.config, "config", "c", manifest.DefaultFilename, "path to the manifest")
	cmd.Flags().StringArrayVar(&f.relays, "relay", nil, "relay URL (repeatable; replaces configured relays)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", publish.DefaultTimeout, "per-attempt relay timeout")
	cmd.Flags().IntVar(&f.retries, "retries", publish.DefaultMaxAttempts-1, "retries per relay after the first attempt")
	cmd.Flags().DurationVar(&f.backoff, "backoff", publish.DefaultBackoff, "pause between attempts")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "print the signed event without publishing")
	cmd.Flags().BoolVar(&f.json, "json", false, "print the publish report as JSON")
	return cmd
}

// resolve merges defaults, the manifest, the environment and flags, in that order.
func resolve(cmd *cobra.Command, f publishFlags, lookup func(string) (string, bool)) (settings, error) {
	m, err := manifest.Load(f.config)
	if err != nil {
		return settings{}, err
	}
	m.ApplyEnv(lookup)

	s := settings{
		app:         m.App,
		relays:      m.Relays,
		timeout:     publish.DefaultTimeout,
		maxAttempts: publish.DefaultMaxAttempts,
		backoff:     publish.DefaultBackoff,
	}
	if m.Publish.Timeout > 0 {
		s.timeout = m.Publish.Timeout
	}
	if m.Publish.Retries != nil {
		s.maxAttempts = *m.Publish.Retries + 1
	}
	if m.Publish.Backoff != nil {
		s.backoff = *m.Publish.Backoff
	}

	flags := cmd.Flags()
	if flags.Changed("relay") {
		s.relays = nil
		for _, r := range f.relays {
			s.relays = append(s.relays, manifest.SplitRelays(r)...)
		}
	}
	if flags.Changed("timeout") {
		s.timeout = f.timeout
	}
	if flags.Changed("retries") {
		if f.retries < 0 {
			return settings{}, fmt.Errorf("--retries must not be negative")
		}
		s.maxAttempts = f.retries + 1
	}
	if flags.Changed("backoff") {
		s.backoff = f.backoff
	}
	if s.timeout <= 0 {
		return settings{}, fmt.Errorf("timeout must be positive, got %s", s.timeout)
	}
	return s, nil
}

// wiper is implemented by signers that hold key material in memory.
type wiper interface {
	Wipe()
}

// signEvent builds the event and wipes the signer's key once it is done with it.
func signEvent(
	ctx context.Context,
	meta domain.ApplicationMetadata,
	signer domain.SigningIdentity,
	clock event.Clock,
) (domain.SignedEvent, error) {
	if w, ok := signer.(wiper); ok {
		defer w.Wipe()
	}
	return event.Build(ctx, meta, signer, clock)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printReport(w io.Writer, r domain.PublishReport) {
	fmt.Fprintf(w, "Event %s (round %s)\n", r.Event.ID.Hex(), r.RoundID)
	if len(r.Results) > 0 {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "RELAY\tSTATUS\tATTEMPTS\tELAPSED\tMESSAGE")
		for _, res := range r.Results {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
				res.Endpoint.URL,
				res.Outcome.Status,
				res.Attempts,
				res.Elapsed.Round(time.Millisecond),
				res.Outcome.Reason,
			)
		}
		_ = tw.Flush()
	}
	fmt.Fprintf(w, "%d/%d relays accepted: %s\n",
		r.Count(domain.StatusAccepted), len(r.Results), r.Verdict())
}
