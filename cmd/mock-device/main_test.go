package main

import (
	"bufio"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tictactoe-bridge/protocol"
)

func TestCheckWin(t *testing.T) {
	var b protocol.Board
	for i := range b {
		for j := range b[i] {
			b[i][j] = " "
		}
	}
	assert.Equal(t, "", checkWin(b))

	b[0][0], b[0][1], b[0][2] = "X", "X", "X"
	assert.Equal(t, "X", checkWin(b))

	b = protocol.Board{{"O", "X", " "}, {"X", "O", " "}, {" ", " ", "O"}}
	assert.Equal(t, "O", checkWin(b))
}

func TestIsFull(t *testing.T) {
	b := protocol.Board{{"X", "O", "X"}, {"O", "X", "O"}, {"O", "X", "O"}}
	assert.True(t, isFull(b))

	b[1][1] = " "
	assert.False(t, isFull(b))
}

// session drives handleConnection over an in-memory pipe and collects
// everything the device emits.
type session struct {
	conn net.Conn

	mu       sync.Mutex
	received []protocol.Message
}

func newSession(t *testing.T) *session {
	t.Helper()

	client, server := net.Pipe()
	s := &session{conn: client}

	go handleConnection(server)
	go func() {
		scanner := bufio.NewScanner(client)
		for scanner.Scan() {
			msg, err := protocol.ParseMessage(scanner.Bytes())
			if err != nil {
				continue
			}
			s.mu.Lock()
			s.received = append(s.received, msg)
			s.mu.Unlock()
		}
	}()

	t.Cleanup(func() { client.Close() })
	return s
}

func (s *session) send(t *testing.T, cmd protocol.Command) {
	t.Helper()
	_, err := s.conn.Write(cmd.Encode())
	require.NoError(t, err)
}

func (s *session) messages() []protocol.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]protocol.Message(nil), s.received...)
}

func (s *session) waitFor(t *testing.T, match func(protocol.Message) bool) protocol.Message {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		for _, msg := range s.messages() {
			if match(msg) {
				return msg
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("expected message never arrived")
	return nil
}

func TestResetEmitsStatusAndEmptyBoard(t *testing.T) {
	s := newSession(t)
	s.send(t, protocol.Reset{})

	s.waitFor(t, func(m protocol.Message) bool {
		status, ok := m.(protocol.Status)
		return ok && status.Message == "Game reset."
	})

	msg := s.waitFor(t, func(m protocol.Message) bool {
		_, ok := m.(protocol.BoardUpdate)
		return ok
	})
	board := msg.(protocol.BoardUpdate).Board
	for _, row := range board {
		for _, cell := range row {
			assert.Equal(t, " ", cell)
		}
	}
}

func TestRepeatedMoveIsInvalid(t *testing.T) {
	s := newSession(t)
	s.send(t, protocol.Reset{})
	s.send(t, protocol.Move{Row: 0, Col: 0})
	s.send(t, protocol.Move{Row: 0, Col: 0})

	msg := s.waitFor(t, func(m protocol.Message) bool {
		status, ok := m.(protocol.Status)
		return ok && status.Type == protocol.TypeError
	})
	assert.Equal(t, "Invalid move.", msg.(protocol.Status).Message)
}

func TestModeSwitchAnnounced(t *testing.T) {
	s := newSession(t)
	s.send(t, protocol.SetMode{Mode: 1})

	msg := s.waitFor(t, func(m protocol.Message) bool {
		status, ok := m.(protocol.Status)
		return ok && status.Type == protocol.TypeGameMode
	})
	assert.Equal(t, "Game mode set to 1", msg.(protocol.Status).Message)
}

func TestAIVsAIPlaysToCompletion(t *testing.T) {
	s := newSession(t)
	s.send(t, protocol.SetMode{Mode: 2})

	msg := s.waitFor(t, func(m protocol.Message) bool {
		_, ok := m.(protocol.Win)
		return ok
	})
	assert.Contains(t, []string{"Player X wins!", "Player O wins!", "It's a draw!"},
		msg.(protocol.Win).Message)
}
