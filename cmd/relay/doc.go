// Package main runs the in-memory Nostr relay used by nap during development
// and tests. It accepts published events over WebSocket and acknowledges
// them the way public relays do.
//
// Protocol
//
//	["EVENT", <event>]
//	    Verify and store the event; answer ["OK", <id>, <accepted>, <message>].
//
//	GET / with "Accept: application/nostr+json"
//	    Return the relay information document.
//
//	GET /healthz
//	    Liveness probe.
//
// Behaviour
//
//   - All state is held in memory and lost on process exit.
//   - --reject-kind makes the relay refuse a kind with "blocked:", which is
//     handy for exercising nap's exit statuses by hand.
//   - A lightweight access log records method, path, remote, status, bytes and
//     duration for each request.
//   - The default listen address is :7777.
package main
