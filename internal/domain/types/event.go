package types

import "github.com/nbd-wtf/go-nostr"

// KindAppMetadata is the addressable event kind used for application records.
const KindAppMetadata = 32267

type (
	Tag       = nostr.Tag
	Tags      = nostr.Tags
	Timestamp = nostr.Timestamp
)

// UnsignedEvent carries the fields covered by the event identifier.
type UnsignedEvent struct {
	PubKey    PublicKey `json:"pubkey"`
	CreatedAt Timestamp `json:"created_at"`
	Kind      int       `json:"kind"`
	Tags      Tags      `json:"tags"`
	Content   string    `json:"content"`
}

// SignedEvent is an UnsignedEvent with its identifier and signature.
// Its JSON form is the relay wire object.
type SignedEvent struct {
	UnsignedEvent
	ID  EventID   `json:"id"`
	Sig Signature `json:"sig"`
}
