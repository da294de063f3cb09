// Command mock-device emulates the Arduino tic-tac-toe firmware over
// TCP, for development and testing without hardware. Connect the
// bridge to it with port tcp://localhost:9999.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"net"
	"time"

	"tictactoe-bridge/protocol"
)

func main() {
	addr := flag.String("addr", ":9999", "TCP listen address")
	flag.Parse()

	listener, err := net.Listen("tcp", *addr)
	if err != nil {
		fmt.Println("Failed to start mock device:", err)
		return
	}
	defer listener.Close()

	fmt.Println("=== Mock Tic-Tac-Toe Device ===")
	fmt.Println("Listening on TCP", *addr)
	fmt.Println("Waiting for connections...")

	for {
		conn, err := listener.Accept()
		if err != nil {
			fmt.Println("Accept error:", err)
			continue
		}
		fmt.Println("[MockDevice] Client connected:", conn.RemoteAddr())
		go handleConnection(conn)
	}
}

type game struct {
	board protocol.Board
	mode  int
	turn  string // "X" or "O"
	over  bool
}

func newGame(mode int) *game {
	g := &game{mode: mode, turn: "X"}
	g.clear()
	return g
}

func (g *game) clear() {
	for i := range g.board {
		for j := range g.board[i] {
			g.board[i][j] = " "
		}
	}
	g.turn = "X"
	g.over = false
}

func handleConnection(conn net.Conn) {
	defer conn.Close()
	defer fmt.Println("[MockDevice] Connection closed")

	g := newGame(protocol.ModeUserVsUser)
	scanner := bufio.NewScanner(conn)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		cmd, err := protocol.ParseCommand(line)
		if err != nil {
			fmt.Println("[MockDevice] Bad command:", err)
			reply(conn, protocol.Status{Type: protocol.TypeError, Message: "Invalid command."})
			continue
		}

		switch c := cmd.(type) {
		case protocol.Reset:
			g.clear()
			reply(conn, protocol.Status{Type: protocol.TypeGameStatus, Message: "Game reset."})
			reply(conn, protocol.BoardUpdate{Board: g.board})

		case protocol.SetMode:
			g.mode = c.Mode
			g.clear()
			reply(conn, protocol.Status{Type: protocol.TypeGameMode, Message: fmt.Sprintf("Game mode set to %d", c.Mode)})
			reply(conn, protocol.Status{Type: protocol.TypeGameStatus, Message: "Game reset."})
			reply(conn, protocol.BoardUpdate{Board: g.board})
			if g.mode == protocol.ModeAIVsAI {
				autoplay(conn, g)
			}

		case protocol.Move:
			if g.over || g.board[c.Row][c.Col] != " " {
				reply(conn, protocol.Status{Type: protocol.TypeError, Message: "Invalid move."})
				continue
			}
			place(conn, g, c.Row, c.Col)
			if !g.over && g.mode == protocol.ModeUserVsAI {
				aiMove(conn, g)
			}
		}
	}
}

// place applies a move for the side whose turn it is, pushes the
// board, and announces the result if the game ended.
func place(conn net.Conn, g *game, row, col int) {
	g.board[row][col] = g.turn
	if g.turn == "X" {
		g.turn = "O"
	} else {
		g.turn = "X"
	}

	reply(conn, protocol.BoardUpdate{Board: g.board})

	if winner := checkWin(g.board); winner != "" {
		g.over = true
		reply(conn, protocol.Win{Message: fmt.Sprintf("Player %s wins!", winner)})
	} else if isFull(g.board) {
		g.over = true
		reply(conn, protocol.Win{Message: "It's a draw!"})
	}
}

// aiMove takes the first free cell, like the firmware's trivial AI.
func aiMove(conn net.Conn, g *game) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if g.board[i][j] == " " {
				place(conn, g, i, j)
				return
			}
		}
	}
}

// autoplay runs an AI vs AI game to completion with a small delay
// between moves so the poll loop sees them arrive one by one.
func autoplay(conn net.Conn, g *game) {
	for !g.over {
		time.Sleep(200 * time.Millisecond)
		aiMove(conn, g)
	}
}

func reply(conn net.Conn, msg protocol.Message) {
	frame, err := protocol.EncodeMessage(msg)
	if err != nil {
		fmt.Println("[MockDevice] Encode error:", err)
		return
	}
	if _, err := conn.Write(frame); err != nil {
		fmt.Println("[MockDevice] Write error:", err)
	}
}

func checkWin(b protocol.Board) string {
	lines := [8][3][2]int{
		{{0, 0}, {0, 1}, {0, 2}},
		{{1, 0}, {1, 1}, {1, 2}},
		{{2, 0}, {2, 1}, {2, 2}},
		{{0, 0}, {1, 0}, {2, 0}},
		{{0, 1}, {1, 1}, {2, 1}},
		{{0, 2}, {1, 2}, {2, 2}},
		{{0, 0}, {1, 1}, {2, 2}},
		{{2, 0}, {1, 1}, {0, 2}},
	}
	for _, line := range lines {
		a := b[line[0][0]][line[0][1]]
		if a != " " &&
			a == b[line[1][0]][line[1][1]] &&
			a == b[line[2][0]][line[2][1]] {
			return a
		}
	}
	return ""
}

func isFull(b protocol.Board) bool {
	for _, row := range b {
		for _, cell := range row {
			if cell == " " {
				return false
			}
		}
	}
	return true
}
