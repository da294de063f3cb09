package protocol

import (
	"encoding/json"
	"fmt"
)

// Message type tags pushed by the firmware.
const (
	TypeBoard      = "board"
	TypeGameStatus = "game_status"
	TypeGameMode   = "game_mode"
	TypeError      = "error"
	TypeWinStatus  = "win_status"
)

// Board is the 3x3 grid as reported by the device. Cells are " ", "X"
// or "O".
type Board [3][3]string

// Message is an inbound update from the game device: a board snapshot,
// a status/mode/error text, or a win announcement.
type Message interface {
	message()
}

// BoardUpdate carries the full board after a move or reset.
type BoardUpdate struct {
	Type  string `json:"type"`
	Board Board  `json:"board"`
}

// Status carries a human-readable line: game status, mode change
// confirmation, or a device-side error such as "Invalid move.".
type Status struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Win announces the end of a game ("Player X wins!", "Player O wins!"
// or "It's a draw!"). It is dispatched separately from plain status so
// the UI can raise a modal notification.
type Win struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (BoardUpdate) message() {}
func (Status) message()      {}
func (Win) message()         {}

// rawMessage is the superset shape used to sniff the variant before
// committing to one.
type rawMessage struct {
	Type    string           `json:"type"`
	Message string           `json:"message"`
	Board   *json.RawMessage `json:"board"`
}

// ParseMessage decodes one inbound line into its tagged variant.
// A "board" key wins over the type tag, matching the firmware which
// did not always stamp board frames with a type. Unknown type tags are
// an error, never silently dropped.
func ParseMessage(line []byte) (Message, error) {
	var raw rawMessage
	if err := json.Unmarshal(line, &raw); err != nil {
		return nil, fmt.Errorf("invalid message JSON: %w", err)
	}

	if raw.Board != nil {
		var board Board
		if err := json.Unmarshal(*raw.Board, &board); err != nil {
			return nil, fmt.Errorf("invalid board grid: %w", err)
		}
		return BoardUpdate{Type: TypeBoard, Board: board}, nil
	}

	switch raw.Type {
	case TypeGameStatus, TypeGameMode, TypeError:
		return Status{Type: raw.Type, Message: raw.Message}, nil
	case TypeWinStatus:
		return Win{Type: TypeWinStatus, Message: raw.Message}, nil
	case "":
		return nil, fmt.Errorf("missing message type tag")
	default:
		return nil, fmt.Errorf("unknown message type %q", raw.Type)
	}
}

// EncodeMessage renders a message as one newline-terminated JSON line.
// The bridge only decodes device traffic; this side of the codec
// exists for the device emulator and the symmetry tests.
func EncodeMessage(m Message) ([]byte, error) {
	switch msg := m.(type) {
	case BoardUpdate:
		if msg.Type == "" {
			msg.Type = TypeBoard
		}
		return marshalLine(msg)
	case Status:
		return marshalLine(msg)
	case Win:
		if msg.Type == "" {
			msg.Type = TypeWinStatus
		}
		return marshalLine(msg)
	default:
		return nil, fmt.Errorf("unsupported message %T", m)
	}
}

func marshalLine(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
