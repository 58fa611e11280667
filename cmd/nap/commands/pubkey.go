package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"nap/internal/app"
	"nap/internal/crypto"
)

func pubkeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pubkey",
		Short: "Print the publishing public key and its fingerprint",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			w, err := app.NewWire(baseConfig)
			if err != nil {
				return err
			}
			pk, err := w.Identity.PublicKey(passphrase)
			if err != nil {
				return err
			}
			npub, err := crypto.NPub(pk)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "npub:        %s\n", npub)
			fmt.Fprintf(out, "hex:         %s\n", pk.Hex())
			fmt.Fprintf(out, "Fingerprint: %s\n", crypto.Fingerprint(pk))
			return nil
		},
	}
	return cmd
}
