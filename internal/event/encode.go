package event

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"nap/internal/domain"
)

const hexDigits = "0123456789abcdef"

// Canonical returns the byte sequence the event identifier is computed over.
func Canonical(ev domain.UnsignedEvent) ([]byte, error) {
	buf := make([]byte, 0, 256+len(ev.Content))
	buf = append(buf, `[0,"`...)
	buf = append(buf, ev.PubKey.Hex()...)
	buf = append(buf, `",`...)
	buf = strconv.AppendInt(buf, int64(ev.CreatedAt), 10)
	buf = append(buf, ',')
	buf = strconv.AppendInt(buf, int64(ev.Kind), 10)
	buf = append(buf, ",["...)
	for i, tag := range ev.Tags {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, '[')
		for j, s := range tag {
			if j > 0 {
				buf = append(buf, ',')
			}
			var err error
			if buf, err = appendString(buf, s); err != nil {
				return nil, wrapError(KindEncoding, fmt.Sprintf("tag %d element %d", i, j), err)
			}
		}
		buf = append(buf, ']')
	}
	buf = append(buf, "],"...)
	var err error
	if buf, err = appendString(buf, ev.Content); err != nil {
		return nil, wrapError(KindEncoding, "content", err)
	}
	buf = append(buf, ']')
	return buf, nil
}

// Hash returns the content address of canonical bytes.
func Hash(canonical []byte) domain.EventID {
	return domain.EventID(sha256.Sum256(canonical))
}

// ComputeID encodes ev and hashes the result.
func ComputeID(ev domain.UnsignedEvent) (domain.EventID, error) {
	b, err := Canonical(ev)
	if err != nil {
		return domain.EventID{}, err
	}
	return Hash(b), nil
}

var errInvalidUTF8 = errors.New("string is not valid UTF-8")

// appendString writes s as a JSON string using NIP-01 escaping: only the
// quote, backslash and C0 control characters are escaped. Everything else,
// including '<', '>', '&' and U+2028/U+2029, is written verbatim.
func appendString(buf []byte, s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return buf, errInvalidUTF8
	}
	buf = append(buf, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			buf = append(buf, '\\', '"')
		case '\\':
			buf = append(buf, '\\', '\\')
		case '\n':
			buf = append(buf, '\\', 'n')
		case '\r':
			buf = append(buf, '\\', 'r')
		case '\t':
			buf = append(buf, '\\', 't')
		case '\b':
			buf = append(buf, '\\', 'b')
		case '\f':
			buf = append(buf, '\\', 'f')
		default:
			if c < 0x20 {
				buf = append(buf, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
				continue
			}
			buf = append(buf, c)
		}
	}
	return append(buf, '"'), nil
}
