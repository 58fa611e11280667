package relay

import (
	"encoding/json"
	"errors"
	"fmt"

	"nap/internal/domain"
)

// Frame labels used on the relay wire.
const (
	labelEvent  = "EVENT"
	labelOK     = "OK"
	labelNotice = "NOTICE"
)

// message is the closed set of relay-to-client frames the session understands.
type message interface {
	label() string
}

// okMessage acknowledges (or refuses) one submitted event.
type okMessage struct {
	EventID  string
	Accepted bool
	Message  string
}

// noticeMessage is a human-readable relay notice.
type noticeMessage struct {
	Message string
}

// otherMessage is any well-formed frame we do not act on (EOSE, AUTH, ...).
type otherMessage struct {
	Label string
}

func (okMessage) label() string { return labelOK }

func (noticeMessage) label() string { return labelNotice }

func (m otherMessage) label() string { return m.Label }

var errMalformedFrame = errors.New("malformed relay frame")

// encodeEvent renders the client publish frame.
func encodeEvent(ev domain.SignedEvent) ([]byte, error) {
	return json.Marshal([]any{labelEvent, ev})
}

// parseMessage decodes one relay frame into a typed message.
func parseMessage(data []byte) (message, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformedFrame, err)
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: empty array", errMalformedFrame)
	}
	var label string
	if err := json.Unmarshal(parts[0], &label); err != nil {
		return nil, fmt.Errorf("%w: label: %v", errMalformedFrame, err)
	}

	switch label {
	case labelOK:
		// A missing message is tolerated; some relays send only three elements.
		if len(parts) < 3 {
			return nil, fmt.Errorf("%w: OK needs at least 3 elements, got %d", errMalformedFrame, len(parts))
		}
		var m okMessage
		if err := json.Unmarshal(parts[1], &m.EventID); err != nil {
			return nil, fmt.Errorf("%w: OK event id: %v", errMalformedFrame, err)
		}
		if err := json.Unmarshal(parts[2], &m.Accepted); err != nil {
			return nil, fmt.Errorf("%w: OK status: %v", errMalformedFrame, err)
		}
		if len(parts) > 3 {
			if err := json.Unmarshal(parts[3], &m.Message); err != nil {
				return nil, fmt.Errorf("%w: OK message: %v", errMalformedFrame, err)
			}
		}
		return m, nil
	case labelNotice:
		var m noticeMessage
		if len(parts) > 1 {
			if err := json.Unmarshal(parts[1], &m.Message); err != nil {
				return nil, fmt.Errorf("%w: NOTICE message: %v", errMalformedFrame, err)
			}
		}
		return m, nil
	default:
		return otherMessage{Label: label}, nil
	}
}
