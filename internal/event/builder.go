package event

import (
	"context"
	"time"
	"unicode/utf8"

	"nap/internal/crypto"
	"nap/internal/domain"
)

// Well-known first elements of application record tags.
const (
	TagIdentifier = "d"
	TagName       = "name"
	TagIcon       = "icon"
	TagRepository = "repository"
	TagLicense    = "license"
	TagImage      = "image"
	TagTopic      = "t"
)

// Clock supplies the creation timestamp. Tests freeze it for reproducible events.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// FixedClock always returns t.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

// Unsigned maps metadata into the unsigned event shape for pub at createdAt.
func Unsigned(meta domain.ApplicationMetadata, pub domain.PublicKey, createdAt time.Time) domain.UnsignedEvent {
	return domain.UnsignedEvent{
		PubKey:    pub,
		CreatedAt: domain.Timestamp(createdAt.Unix()),
		Kind:      domain.KindAppMetadata,
		Tags:      buildTags(meta),
		Content:   meta.Description,
	}
}

// buildTags emits one tag per field in a fixed order. Optional single-valued
// fields are omitted when empty; images and topics keep their input order.
func buildTags(meta domain.ApplicationMetadata) domain.Tags {
	tags := make(domain.Tags, 0, 5+len(meta.Images)+len(meta.Tags))
	tags = append(tags,
		domain.Tag{TagIdentifier, meta.ID},
		domain.Tag{TagName, meta.Name},
	)
	if meta.Icon != "" {
		tags = append(tags, domain.Tag{TagIcon, meta.Icon})
	}
	if meta.Repository != "" {
		tags = append(tags, domain.Tag{TagRepository, meta.Repository})
	}
	if meta.License != "" {
		tags = append(tags, domain.Tag{TagLicense, meta.License})
	}
	for _, img := range meta.Images {
		tags = append(tags, domain.Tag{TagImage, img})
	}
	for _, t := range meta.Tags {
		tags = append(tags, domain.Tag{TagTopic, t})
	}
	return tags
}

// Validate checks the metadata preconditions the builder relies on.
func Validate(meta domain.ApplicationMetadata) error {
	if meta.ID == "" {
		return newError(KindValidation, "application id is required")
	}
	if meta.Name == "" {
		return newError(KindValidation, "application name is required")
	}
	fields := []struct{ name, value string }{
		{"id", meta.ID},
		{"name", meta.Name},
		{"description", meta.Description},
		{"icon", meta.Icon},
		{"repository", meta.Repository},
		{"license", meta.License},
	}
	for _, f := range fields {
		if !utf8.ValidString(f.value) {
			return newError(KindValidation, f.name+" is not valid UTF-8")
		}
	}
	for _, list := range [][]string{meta.Images, meta.Tags} {
		for _, v := range list {
			if v == "" {
				return newError(KindValidation, "image and tag entries must be non-empty")
			}
			if !utf8.ValidString(v) {
				return newError(KindValidation, "image and tag entries must be valid UTF-8")
			}
		}
	}
	return nil
}

// Build turns metadata into a finished event signed by identity.
//
// The identity is asked for exactly one signature. With a frozen clock and a
// deterministic signer the result is byte-identical across runs.
func Build(ctx context.Context, meta domain.ApplicationMetadata, identity domain.SigningIdentity, clock Clock) (domain.SignedEvent, error) {
	if err := Validate(meta); err != nil {
		return domain.SignedEvent{}, err
	}
	if clock == nil {
		clock = SystemClock
	}
	unsigned := Unsigned(meta, identity.PublicKey(), clock.Now())
	id, err := ComputeID(unsigned)
	if err != nil {
		return domain.SignedEvent{}, err
	}
	sig, err := identity.Sign(ctx, id)
	if err != nil {
		return domain.SignedEvent{}, wrapError(KindSigning, "sign event", err)
	}
	ev := domain.SignedEvent{UnsignedEvent: unsigned, ID: id, Sig: sig}
	if !crypto.VerifySchnorr(ev.PubKey, ev.ID, ev.Sig) {
		return domain.SignedEvent{}, newError(KindSigning, "signing identity returned a signature that does not verify")
	}
	return ev, nil
}

// Verify recomputes the identifier of ev and checks its signature.
func Verify(ev domain.SignedEvent) error {
	id, err := ComputeID(ev.UnsignedEvent)
	if err != nil {
		return err
	}
	if id != ev.ID {
		return newError(KindValidation, "event id does not match content")
	}
	if !crypto.VerifySchnorr(ev.PubKey, ev.ID, ev.Sig) {
		return newError(KindSigning, "signature does not verify")
	}
	return nil
}
