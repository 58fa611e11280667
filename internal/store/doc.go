// Package store provides file-based persistence for nap's signing key.
//
// The secret key is serialised as JSON, sealed with ChaCha20-Poly1305 under
// a scrypt-derived key and written atomically under the user's configured
// home directory. All methods are concurrency-safe via internal locking.
package store
