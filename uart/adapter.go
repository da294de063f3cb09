package uart

import (
	"bytes"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"tictactoe-bridge/logger"
	"tictactoe-bridge/protocol"
)

// Device firmware sends short single-line frames, so anything longer
// than this is garbage, not a message.
const maxLineLen = 1024

// StatusInfo is a connection snapshot for broadcasting to the UI.
type StatusInfo struct {
	Connected bool      `json:"connected"`
	Port      string    `json:"port,omitempty"`
	BaudRate  int       `json:"baud_rate,omitempty"`
	OpenedAt  time.Time `json:"opened_at,omitempty"`
	LastError string    `json:"last_error,omitempty"`
}

// StatusCallback is called whenever the connection state changes.
type StatusCallback func(info StatusInfo)

// Options tunes the adapter. The zero value gets sensible defaults.
type Options struct {
	// ReadTimeout bounds a single OS-level read while consuming a
	// line. Default 1s, matching the device protocol.
	ReadTimeout time.Duration
	// Reassemble keeps a partial line across poll ticks instead of
	// dropping it. The firmware's short frames make drops rare, so
	// this is off by default to match the observed protocol.
	Reassemble bool
}

// Adapter owns at most one serial connection to the game device and
// enforces the line-JSON framing contract in both directions. Send and
// TryReceive fail fast with ErrNotConnected while closed.
type Adapter struct {
	mu   sync.Mutex
	port Port
	opts Options

	portName string
	baudRate int
	openedAt time.Time
	lastErr  string

	partial []byte // pending tail, only when Reassemble is on

	statusCallback StatusCallback
}

// NewAdapter creates a closed adapter.
func NewAdapter(opts Options) *Adapter {
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = time.Second
	}
	return &Adapter{opts: opts}
}

// SetStatusCallback registers the connection-state listener. Pass nil
// to remove it.
func (a *Adapter) SetStatusCallback(cb StatusCallback) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.statusCallback = cb
}

// Open acquires the named port at the given baud rate. Opening while
// already open replaces the prior connection; the old port is closed,
// not drained. On failure the adapter stays closed.
func (a *Adapter) Open(portName string, baudRate int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if baudRate <= 0 {
		baudRate = 9600
	}

	if a.port != nil {
		a.port.Close()
		a.port = nil
		logger.Debug("Replaced existing connection on %s", a.portName)
	}

	port, err := OpenPort(portName, baudRate, a.opts.ReadTimeout)
	if err != nil {
		a.lastErr = err.Error()
		a.notifyLocked()
		return fmt.Errorf("open %s: %w", portName, err)
	}

	a.port = port
	a.portName = portName
	a.baudRate = baudRate
	a.openedAt = time.Now()
	a.lastErr = ""
	a.partial = nil
	a.notifyLocked()
	return nil
}

// Close releases the connection. Safe to call when already closed.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.port == nil {
		return nil
	}

	err := a.port.Close()
	a.port = nil
	a.partial = nil
	logger.Info("Port %s closed", a.portName)
	a.notifyLocked()
	return err
}

// IsOpen reports whether a connection is currently held.
func (a *Adapter) IsOpen() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.port != nil
}

// Status returns the current connection snapshot.
func (a *Adapter) Status() StatusInfo {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.statusLocked()
}

func (a *Adapter) statusLocked() StatusInfo {
	info := StatusInfo{
		Connected: a.port != nil,
		LastError: a.lastErr,
	}
	if a.port != nil {
		info.Port = a.portName
		info.BaudRate = a.baudRate
		info.OpenedAt = a.openedAt
	}
	return info
}

func (a *Adapter) notifyLocked() {
	if a.statusCallback != nil {
		a.statusCallback(a.statusLocked())
	}
}

// Send serializes the command to one JSON line and hands it to the OS
// in a single write. Fire-and-forget: no device acknowledgement is
// awaited.
func (a *Adapter) Send(cmd protocol.Command) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.port == nil {
		return ErrNotConnected
	}

	frame := cmd.Encode()
	if _, err := a.port.Write(frame); err != nil {
		a.lastErr = err.Error()
		return fmt.Errorf("write command: %w", err)
	}

	logger.Debug("Sent: %s", bytes.TrimRight(frame, "\n"))
	return nil
}

// TryReceive attempts to consume one inbound message without blocking.
// No buffered bytes yields (nil, nil) immediately. Decode failures
// come back as *ReceiveError and are recoverable; the connection stays
// usable.
func (a *Adapter) TryReceive() (protocol.Message, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.port == nil {
		return nil, ErrNotConnected
	}

	// Zero-timeout probe: one buffered byte or nothing this tick.
	if err := a.port.SetReadTimeout(0); err != nil {
		return nil, &ReceiveError{Kind: ReceiveIO, Err: err}
	}
	var b [1]byte
	n, err := a.port.Read(b[:])
	if err != nil {
		return nil, &ReceiveError{Kind: ReceiveIO, Err: err}
	}
	if n == 0 {
		return nil, nil
	}

	line := a.partial
	a.partial = nil

	if b[0] != '\n' {
		line = append(line, b[0])

		// Bytes are pending; read the rest of the line under the
		// bounded timeout.
		if err := a.port.SetReadTimeout(a.opts.ReadTimeout); err != nil {
			return nil, &ReceiveError{Kind: ReceiveIO, Err: err}
		}
		for {
			n, err := a.port.Read(b[:])
			if err != nil {
				return nil, &ReceiveError{Kind: ReceiveIO, Err: err}
			}
			if n == 0 {
				// Timed out mid-line. Either park the tail for the
				// next tick or let the fragment fall through to the
				// decoder, which reports it as invalid JSON.
				if a.opts.Reassemble {
					a.partial = line
					return nil, nil
				}
				break
			}
			if b[0] == '\n' {
				break
			}
			line = append(line, b[0])
			if len(line) > maxLineLen {
				return nil, &ReceiveError{Kind: ReceiveIO, Err: fmt.Errorf("line exceeds %d bytes", maxLineLen)}
			}
		}
	}

	return decodeLine(line)
}

func decodeLine(line []byte) (protocol.Message, error) {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if !utf8.Valid(trimmed) {
		return nil, &ReceiveError{Kind: ReceiveInvalidEncoding, Raw: string(trimmed)}
	}
	msg, err := protocol.ParseMessage(trimmed)
	if err != nil {
		return nil, &ReceiveError{Kind: ReceiveInvalidJSON, Raw: string(trimmed), Err: err}
	}
	return msg, nil
}

// WithPort installs an already-open port, bypassing OpenPort. Used by
// tests to drive the adapter against a MockPort.
func (a *Adapter) WithPort(port Port, portName string, baudRate int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.port != nil {
		a.port.Close()
	}
	a.port = port
	a.portName = portName
	a.baudRate = baudRate
	a.openedAt = time.Now()
	a.lastErr = ""
	a.partial = nil
	a.notifyLocked()
}
