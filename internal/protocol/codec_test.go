package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCodec(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", CodecJSON, false},
		{"json", CodecJSON, false},
		{"msgpack", CodecMsgpack, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		c, err := NewCodec(tt.name)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnknownCodec)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, c.Name())
	}
}

func TestJSONEnvelopeFieldNames(t *testing.T) {
	frame, err := JSONCodec{}.Encode(NewLevelOver([]RoundRankedPlayer{{
		ID: "p1", Color: "#f00", Name: "Ann", Strokes: 3, ScoreTime: 4200,
		Scored: true, PrevPoints: 10, AddedPoints: 5,
	}}, 1234, "p1"))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(frame, &got))
	assert.Equal(t, "levelOver", got["type"])

	data := got["data"].(map[string]any)
	assert.EqualValues(t, 1234, data["expTime"])
	assert.Equal(t, "p1", data["leaderId"])

	player := data["roundRankedPlayers"].([]any)[0].(map[string]any)
	for _, key := range []string{"id", "color", "name", "strokes", "scoreTime", "scored", "prevPoints", "addedPoints"} {
		assert.Contains(t, player, key)
	}
}

func TestMatchOverCarriesDisplayFieldsOnly(t *testing.T) {
	frame, err := JSONCodec{}.Encode(NewMatchOver(15000, []MatchRankedPlayer{{ID: "p1", Color: "#0f0", Name: "Bo", Points: 7}}))
	require.NoError(t, err)

	var got struct {
		Data struct {
			NextMatchIn        int64            `json:"nextMatchIn"`
			MatchRankedPlayers []map[string]any `json:"matchRankedPlayers"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(frame, &got))
	assert.EqualValues(t, 15000, got.Data.NextMatchIn)
	require.Len(t, got.Data.MatchRankedPlayers, 1)

	keys := make([]string, 0)
	for k := range got.Data.MatchRankedPlayers[0] {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{"id", "color", "name", "points"}, keys)
}

func TestDecodeSwing(t *testing.T) {
	for _, c := range []Codec{JSONCodec{}, MsgpackCodec{}} {
		t.Run(c.Name(), func(t *testing.T) {
			frame, err := c.Encode(Message{Type: TypeSwing, Data: SwingRequest{Vec: [2]float64{3.5, -2}}})
			require.NoError(t, err)

			in, err := c.Decode(frame)
			require.NoError(t, err)
			assert.Equal(t, TypeSwing, in.Type)

			var req SwingRequest
			require.NoError(t, in.Into(&req))
			assert.Equal(t, [2]float64{3.5, -2}, req.Vec)
		})
	}
}

func TestDecodeRejectsUntyped(t *testing.T) {
	_, err := JSONCodec{}.Decode([]byte(`{"data":{}}`))
	assert.ErrorIs(t, err, ErrMissingType)

	_, err = JSONCodec{}.Decode([]byte(`not json`))
	assert.Error(t, err)
}

func TestMsgpackUsesJSONNames(t *testing.T) {
	c := MsgpackCodec{}
	b, err := c.Marshal(PlayerDisconnected{ID: "abc"})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, c.Unmarshal(b, &got))
	assert.Equal(t, "abc", got["id"])
}
