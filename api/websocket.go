package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"tictactoe-bridge/logger"
	"tictactoe-bridge/protocol"
	"tictactoe-bridge/uart"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WebRequest is a command from the UI client.
type WebRequest struct {
	Command string `json:"command"` // PORTS, OPEN, CLOSE, STATUS, MOVE, MODE, RESET
	Port    string `json:"port,omitempty"`
	Baud    int    `json:"baud,omitempty"`
	Row     int    `json:"row"`
	Col     int    `json:"col"`
	Mode    int    `json:"mode"`
}

// WebEvent is a push to the UI client.
type WebEvent struct {
	Event   string      `json:"event"` // ports, board, status, win, log, connection, error
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// client is one connected UI with serialized writes.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(ev WebEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.WriteJSON(ev); err != nil {
		logger.Debug("WS write failed: %v", err)
	}
}

// Handler bridges WebSocket clients to the serial adapter. Inbound
// device traffic arrives through the poller callbacks (Broadcast);
// user commands flow the other way into the adapter.
type Handler struct {
	adapter *uart.Adapter

	// Extra entries for the port list, such as the emulator endpoint.
	extraPorts []string

	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewHandler creates a handler around the adapter. extraPorts are
// appended to every port enumeration.
func NewHandler(adapter *uart.Adapter, extraPorts ...string) *Handler {
	h := &Handler{
		adapter:    adapter,
		extraPorts: extraPorts,
		clients:    make(map[*client]struct{}),
	}
	adapter.SetStatusCallback(func(info uart.StatusInfo) {
		h.Broadcast(WebEvent{Event: "connection", Data: info})
	})
	return h
}

// Broadcast pushes an event to every connected client.
func (h *Handler) Broadcast(ev WebEvent) {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.send(ev)
	}
}

// BoardEvent is the poller's board-render callback.
func (h *Handler) BoardEvent(board protocol.Board) {
	h.Broadcast(WebEvent{Event: "board", Data: board})
}

// StatusEvent is the poller's status/notification callback.
func (h *Handler) StatusEvent(kind, message string) {
	h.Broadcast(WebEvent{Event: "status", Message: message, Data: map[string]string{"kind": kind}})
}

// WinEvent raises the modal win notification on every client.
func (h *Handler) WinEvent(message string) {
	h.Broadcast(WebEvent{Event: "win", Message: message})
}

// LogEvent appends a line to every client's output log.
func (h *Handler) LogEvent(line string) {
	h.Broadcast(WebEvent{Event: "log", Message: line})
}

// ServeWS upgrades the connection and services UI commands until the
// client goes away.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Upgrade error: %v", err)
		return
	}

	c := &client{conn: conn}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	logger.Info("UI client connected: %s", conn.RemoteAddr())

	// Fresh clients get the current connection state right away.
	c.send(WebEvent{Event: "connection", Data: h.adapter.Status()})

	defer func() {
		h.mu.Lock()
		delete(h.clients, c)
		h.mu.Unlock()
		conn.Close()
		logger.Info("UI client disconnected: %s", conn.RemoteAddr())
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var req WebRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			c.send(WebEvent{Event: "error", Message: "Invalid JSON"})
			continue
		}

		h.handleRequest(c, req)
	}
}

func (h *Handler) handleRequest(c *client, req WebRequest) {
	switch req.Command {
	case "PORTS":
		c.send(WebEvent{Event: "ports", Data: uart.ListPorts(h.extraPorts...)})

	case "OPEN":
		if req.Port == "" {
			c.send(WebEvent{Event: "error", Message: "No port selected"})
			return
		}
		if err := h.adapter.Open(req.Port, req.Baud); err != nil {
			c.send(WebEvent{Event: "error", Message: "Failed to connect: " + err.Error()})
			return
		}
		c.send(WebEvent{Event: "status", Message: "Connected to " + req.Port})

	case "CLOSE":
		if err := h.adapter.Close(); err != nil {
			c.send(WebEvent{Event: "error", Message: err.Error()})
			return
		}
		c.send(WebEvent{Event: "status", Message: "Port closed"})

	case "STATUS":
		c.send(WebEvent{Event: "connection", Data: h.adapter.Status()})

	case "MOVE":
		if req.Row < 0 || req.Row > 2 || req.Col < 0 || req.Col > 2 {
			c.send(WebEvent{Event: "error", Message: "Move out of range"})
			return
		}
		h.sendCommand(c, protocol.Move{Row: req.Row, Col: req.Col})

	case "MODE":
		if req.Mode < protocol.ModeUserVsUser || req.Mode > protocol.ModeAIVsAI {
			c.send(WebEvent{Event: "error", Message: "Unknown game mode"})
			return
		}
		h.sendCommand(c, protocol.SetMode{Mode: req.Mode})

	case "RESET":
		h.sendCommand(c, protocol.Reset{})

	default:
		c.send(WebEvent{Event: "error", Message: "Unknown Command"})
	}
}

func (h *Handler) sendCommand(c *client, cmd protocol.Command) {
	if err := h.adapter.Send(cmd); err != nil {
		// Not connected and write failures alike surface as log
		// lines; the operator reopens the port manually.
		c.send(WebEvent{Event: "log", Message: "Error: " + err.Error()})
	}
}
