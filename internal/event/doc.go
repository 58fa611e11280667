// Package event builds, identifies and verifies signed application records.
//
// An event's identifier is the SHA-256 of its canonical encoding, the
// NIP-01 array
//
//	[0,"<pubkey hex>",<created_at>,<kind>,<tags>,"<content>"]
//
// written without whitespace and with the minimal NIP-01 string escaping.
// The identifier is what gets signed, so the encoding must be byte-stable
// across processes and machines.
//
// Errors are returned as *Error values carrying a Kind. Encoding and signing
// failures abort a publish before any network activity.
package event
