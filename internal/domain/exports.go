package domain

import (
	interfaces "nap/internal/domain/interfaces"
	types "nap/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	EventID             = types.EventID
	PublicKey           = types.PublicKey
	SecretKey           = types.SecretKey
	Signature           = types.Signature
	Fingerprint         = types.Fingerprint
	Identity            = types.Identity
	ApplicationMetadata = types.ApplicationMetadata
	Tag                 = types.Tag
	Tags                = types.Tags
	Timestamp           = types.Timestamp
	UnsignedEvent       = types.UnsignedEvent
	SignedEvent         = types.SignedEvent
	RelayEndpoint       = types.RelayEndpoint
	OutcomeStatus       = types.OutcomeStatus
	RelayOutcome        = types.RelayOutcome
	RelayResult         = types.RelayResult
	PublishReport       = types.PublishReport
	Verdict             = types.Verdict
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	SigningIdentity = interfaces.SigningIdentity
	RelaySession    = interfaces.RelaySession
	IdentityService = interfaces.IdentityService
	PublishService  = interfaces.PublishService
	IdentityStore   = interfaces.IdentityStore
)

const KindAppMetadata = types.KindAppMetadata

const (
	StatusAccepted         = types.StatusAccepted
	StatusRejected         = types.StatusRejected
	StatusTimedOut         = types.StatusTimedOut
	StatusConnectionFailed = types.StatusConnectionFailed
)

const (
	VerdictPublished   = types.VerdictPublished
	VerdictNoRelays    = types.VerdictNoRelays
	VerdictAllRejected = types.VerdictAllRejected
	VerdictUnreachable = types.VerdictUnreachable
	VerdictFailed      = types.VerdictFailed
)

// Outcome constructors.
var (
	Accepted         = types.Accepted
	Rejected         = types.Rejected
	TimedOut         = types.TimedOut
	ConnectionFailed = types.ConnectionFailed
	ParseEventID     = types.ParseEventID
	ParsePublicKey   = types.ParsePublicKey
	ParseSignature   = types.ParseSignature
)
