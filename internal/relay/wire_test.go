package relay

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"nap/internal/domain"
)

func TestParseMessage(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want message
	}{
		{"ok accepted", `["OK","abc",true,""]`, okMessage{EventID: "abc", Accepted: true}},
		{"ok rejected", `["OK","abc",false,"blocked: nope"]`, okMessage{EventID: "abc", Message: "blocked: nope"}},
		{"ok without message", `["OK","abc",true]`, okMessage{EventID: "abc", Accepted: true}},
		{"notice", `["NOTICE","slow down"]`, noticeMessage{Message: "slow down"}},
		{"eose", `["EOSE","sub"]`, otherMessage{Label: "EOSE"}},
		{"auth", `["AUTH","challenge"]`, otherMessage{Label: "AUTH"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseMessage([]byte(tc.in))
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestParseMessage_Malformed(t *testing.T) {
	for _, in := range []string{
		`not json`,
		`{"OK":true}`,
		`[]`,
		`[42]`,
		`["OK","abc"]`,
		`["OK",1,true,""]`,
		`["OK","abc","yes",""]`,
		`["NOTICE",7]`,
	} {
		_, err := parseMessage([]byte(in))
		require.Error(t, err, in)
		require.True(t, errors.Is(err, errMalformedFrame), in)
	}
}

func TestEncodeEvent(t *testing.T) {
	var ev domain.SignedEvent
	ev.Kind = domain.KindAppMetadata
	ev.Tags = domain.Tags{{"d", "app"}}
	ev.ID[0] = 0xab

	b, err := encodeEvent(ev)
	require.NoError(t, err)

	var parts []json.RawMessage
	require.NoError(t, json.Unmarshal(b, &parts))
	require.Len(t, parts, 2)
	require.JSONEq(t, `"EVENT"`, string(parts[0]))

	var back domain.SignedEvent
	require.NoError(t, json.Unmarshal(parts[1], &back))
	require.Equal(t, ev, back)
}
