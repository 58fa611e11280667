// Package commands defines the nap CLI and wires dependencies for subcommands.
//
// Commands
//
//   - init      Create (or import) the local publishing key
//   - pubkey    Print the public key as npub, hex and fingerprint
//   - publish   Sign the application described by nap.yaml and send it to relays
//
// # Exit status
//
//	0  at least one relay accepted the event
//	1  nothing was sent (bad config, wrong passphrase, signing failure)
//	2  no relays were configured
//	3  every relay rejected the event
//	4  no relay could be reached
//	5  no relay accepted; some rejected and some were unreachable
//
// # Implementation
//
// The root command sets up logging and the home directory before any
// subcommand runs; each subcommand builds the dependency graph (stores,
// relay session, services) from the settings it resolved.
package commands
