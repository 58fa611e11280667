package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"nap/internal/app"
	"nap/internal/crypto"
	"nap/internal/domain"
)

func initCmd() *cobra.Command {
	var importKey string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a publishing key and store it securely",
		Long: `Generate a new secp256k1 publishing key, or import an existing one with
--import (nsec or hex; "-" reads it from stdin), and store it encrypted
under the passphrase.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			w, err := app.NewWire(baseConfig)
			if err != nil {
				return err
			}

			var (
				id domain.Identity
				fp domain.Fingerprint
			)
			if importKey == "" {
				id, fp, err = w.Identity.GenerateIdentity(passphrase)
			} else {
				secret := importKey
				if secret == "-" {
					line, rerr := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
					if rerr != nil && line == "" {
						return fmt.Errorf("read secret key from stdin: %w", rerr)
					}
					secret = strings.TrimSpace(line)
				}
				id, fp, err = w.Identity.ImportIdentity(passphrase, secret)
			}
			if err != nil {
				return err
			}

			npub, err := crypto.NPub(id.PublicKey)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Identity created.")
			fmt.Fprintf(out, "Public key:  %s\n", npub)
			fmt.Fprintf(out, "Fingerprint: %s\n", fp)
			return nil
		},
	}
	cmd.Flags().StringVar(&importKey, "import", "", `import an existing secret key (nsec or hex, "-" for stdin)`)
	return cmd
}
