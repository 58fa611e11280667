// Package relay provides the WebSocket implementation of the
// domain.RelaySession interface used by nap.
//
// A relay is an independently operated server that stores and serves signed
// events. This package delivers a single event to a single relay:
//
//   - Dial the relay URL (ws:// or wss://).
//   - Send ["EVENT", <event>].
//   - Read frames until ["OK", <event id>, <accepted>, <message>] arrives for
//     that event id. NOTICE frames are logged; anything else is skipped.
//
// Every call yields exactly one domain.RelayOutcome and closes the
// connection before returning. A deadline hit before the acknowledgment is
// reported as TimedOut; any other transport error as ConnectionFailed.
// Retries are the caller's concern.
package relay
