package hub_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Vadimur/RockPaperScissorsGame/internal/transport/hub"
)

func TestEncodeRecord_AppendsSeparator(t *testing.T) {
	rec, err := hub.EncodeRecord(hub.HandshakeRequest{Protocol: "json", Version: 1})
	require.NoError(t, err)
	assert.Equal(t, `{"protocol":"json","version":1}`+"\x1e", string(rec))
}

func TestInvocation_EncodesArguments(t *testing.T) {
	msg, err := hub.Invocation("GameEnd", "you won")
	require.NoError(t, err)
	assert.Equal(t, hub.TypeInvocation, msg.Type)
	assert.Equal(t, "GameEnd", msg.Target)
	require.Len(t, msg.Arguments, 1)
	assert.JSONEq(t, `"you won"`, string(msg.Arguments[0]))
}

func TestInvocation_NoArgumentsEncodesEmptyList(t *testing.T) {
	msg, err := hub.Invocation("MoveRequested")
	require.NoError(t, err)
	rec, err := hub.EncodeRecord(msg)
	require.NoError(t, err)
	assert.Equal(t, `{"type":1,"target":"MoveRequested"}`+"\x1e", string(rec))
}

func TestInvocation_UnencodableArgument(t *testing.T) {
	_, err := hub.Invocation("Bad", make(chan int))
	assert.Error(t, err)
}

func TestSplitRecords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single", "{}\x1e", []string{"{}"}},
		{"two", `{"type":6}` + "\x1e" + `{"type":7}` + "\x1e", []string{`{"type":6}`, `{"type":7}`}},
		{"no trailing separator", `{"type":6}`, []string{`{"type":6}`}},
		{"blank records skipped", "\x1e\x1e{}\x1e \x1e", []string{"{}"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := hub.SplitRecords([]byte(tc.in))
			var gotStr []string
			for _, r := range got {
				gotStr = append(gotStr, string(r))
			}
			assert.Equal(t, tc.want, gotStr)
		})
	}
}

func TestProperty_EncodeSplitRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		targets := rapid.SliceOfN(rapid.StringMatching(`[A-Za-z]{1,12}`), 1, 8).Draw(rt, "targets")
		args := rapid.SliceOfN(rapid.String(), len(targets), len(targets)).Draw(rt, "args")

		var buf bytes.Buffer
		for i, target := range targets {
			msg, err := hub.Invocation(target, args[i])
			require.NoError(rt, err)
			rec, err := hub.EncodeRecord(msg)
			require.NoError(rt, err)
			buf.Write(rec)
		}

		records := hub.SplitRecords(buf.Bytes())
		require.Len(rt, records, len(targets))
		for i, rec := range records {
			var msg hub.Message
			require.NoError(rt, json.Unmarshal(rec, &msg))
			assert.Equal(rt, targets[i], msg.Target)
			var arg string
			require.NoError(rt, json.Unmarshal(msg.Arguments[0], &arg))
			assert.Equal(rt, args[i], arg)
		}
	})
}
