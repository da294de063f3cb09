package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveEncodeExactFrame(t *testing.T) {
	frame := Move{Row: 1, Col: 2}.Encode()
	assert.Equal(t, "{\"command\": \"MOVE\", \"row\": 1, \"col\": 2}\n", string(frame))
}

func TestSetModeEncode(t *testing.T) {
	frame := SetMode{Mode: 2}.Encode()
	assert.Equal(t, "{\"command\": \"MODE\", \"mode\": 2}\n", string(frame))
}

func TestResetEncode(t *testing.T) {
	frame := Reset{}.Encode()
	assert.Equal(t, "{\"command\": \"RESET\"}\n", string(frame))
}

func TestCommandRoundTrip(t *testing.T) {
	commands := []Command{
		Move{Row: 0, Col: 0},
		Move{Row: 2, Col: 1},
		SetMode{Mode: 0},
		SetMode{Mode: 2},
		Reset{},
	}

	for _, cmd := range commands {
		parsed, err := ParseCommand(cmd.Encode())
		require.NoError(t, err)
		assert.Equal(t, cmd, parsed)
	}
}

func TestParseCommandRejectsUnknownTag(t *testing.T) {
	_, err := ParseCommand([]byte(`{"command": "JUMP"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestParseCommandRejectsMissingTag(t *testing.T) {
	_, err := ParseCommand([]byte(`{"row": 1, "col": 1}`))
	require.Error(t, err)
}

func TestParseCommandRejectsOutOfRangeMove(t *testing.T) {
	_, err := ParseCommand([]byte(`{"command": "MOVE", "row": 3, "col": 0}`))
	require.Error(t, err)

	_, err = ParseCommand([]byte(`{"command": "MOVE", "row": 0, "col": -1}`))
	require.Error(t, err)
}

func TestParseCommandRejectsMissingFields(t *testing.T) {
	_, err := ParseCommand([]byte(`{"command": "MOVE", "row": 1}`))
	require.Error(t, err)

	_, err = ParseCommand([]byte(`{"command": "MODE"}`))
	require.Error(t, err)
}

func TestParseCommandRejectsUnknownMode(t *testing.T) {
	_, err := ParseCommand([]byte(`{"command": "MODE", "mode": 5}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown game mode")
}

func TestParseCommandRejectsGarbage(t *testing.T) {
	_, err := ParseCommand([]byte("not json"))
	require.Error(t, err)
}
