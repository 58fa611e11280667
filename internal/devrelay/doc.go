// Package devrelay is an in-memory relay used for local development and tests.
//
// It speaks the publish half of the relay protocol over WebSocket:
//
//	["EVENT", <event>]            → ["OK", <id>, true|false, <message>]
//
// and serves a relay information document (NIP-11) to plain HTTP requests
// carrying "Accept: application/nostr+json".
//
// Behaviour
//
//   - Events are checked for a matching id and a valid signature; failures
//     are answered with OK=false and an "invalid:" message.
//   - Re-submitting a stored event is answered with OK=true and "duplicate:".
//   - Kinds registered with WithRejectKind are answered with OK=false and
//     "blocked:".
//   - Addressable events (kinds 30000-39999) are also indexed by
//     pubkey, kind and "d" tag; a newer event replaces an older one.
//   - Any other client frame gets a NOTICE. Subscriptions are not supported.
//   - All state is held in memory and lost on process exit.
package devrelay
