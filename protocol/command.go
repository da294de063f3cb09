package protocol

import (
	"encoding/json"
	"fmt"
)

// Game modes understood by the firmware.
const (
	ModeUserVsUser = 0
	ModeUserVsAI   = 1
	ModeAIVsAI     = 2
)

// Command is an outbound instruction for the game device. Each command
// encodes to exactly one newline-terminated JSON line.
type Command interface {
	// Encode returns the wire frame including the trailing newline.
	Encode() []byte
}

// Move places a mark at the given cell.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// SetMode switches the firmware game mode (0: user vs user,
// 1: user vs AI, 2: AI vs AI).
type SetMode struct {
	Mode int `json:"mode"`
}

// Reset restarts the game on the device.
type Reset struct{}

// The firmware's test suite compares frames byte for byte, so the
// encoders emit the exact separators of the original client
// (a space after each ':' and ',') rather than encoding/json's
// compact form.

func (m Move) Encode() []byte {
	return []byte(fmt.Sprintf("{\"command\": \"MOVE\", \"row\": %d, \"col\": %d}\n", m.Row, m.Col))
}

func (m SetMode) Encode() []byte {
	return []byte(fmt.Sprintf("{\"command\": \"MODE\", \"mode\": %d}\n", m.Mode))
}

func (Reset) Encode() []byte {
	return []byte("{\"command\": \"RESET\"}\n")
}

// rawCommand mirrors the superset of fields a command line may carry.
type rawCommand struct {
	Command string `json:"command"`
	Row     *int   `json:"row"`
	Col     *int   `json:"col"`
	Mode    *int   `json:"mode"`
}

// ParseCommand decodes one command line. It is the inverse of Encode
// and is used by the device emulator; the bridge itself never parses
// its own outbound traffic.
func ParseCommand(line []byte) (Command, error) {
	var raw rawCommand
	if err := json.Unmarshal(line, &raw); err != nil {
		return nil, fmt.Errorf("invalid command JSON: %w", err)
	}

	switch raw.Command {
	case "MOVE":
		if raw.Row == nil || raw.Col == nil {
			return nil, fmt.Errorf("MOVE command missing row/col")
		}
		if *raw.Row < 0 || *raw.Row > 2 || *raw.Col < 0 || *raw.Col > 2 {
			return nil, fmt.Errorf("MOVE cell (%d,%d) out of range", *raw.Row, *raw.Col)
		}
		return Move{Row: *raw.Row, Col: *raw.Col}, nil
	case "MODE":
		if raw.Mode == nil {
			return nil, fmt.Errorf("MODE command missing mode")
		}
		if *raw.Mode < ModeUserVsUser || *raw.Mode > ModeAIVsAI {
			return nil, fmt.Errorf("unknown game mode %d", *raw.Mode)
		}
		return SetMode{Mode: *raw.Mode}, nil
	case "RESET":
		return Reset{}, nil
	case "":
		return nil, fmt.Errorf("missing command tag")
	default:
		return nil, fmt.Errorf("unknown command %q", raw.Command)
	}
}
