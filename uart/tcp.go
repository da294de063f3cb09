package uart

import (
	"fmt"
	"net"
	"sync"
	"time"

	"tictactoe-bridge/logger"
)

// TCPPort wraps a TCP connection as a Port interface.
// Used for serial-over-TCP bridges and the device emulator.
type TCPPort struct {
	conn    net.Conn
	address string

	mu          sync.Mutex
	readTimeout time.Duration
}

var _ Port = (*TCPPort)(nil)

// openTCPPort opens a TCP connection to a device endpoint.
func openTCPPort(address string, readTimeout time.Duration) (Port, error) {
	conn, err := net.DialTimeout("tcp", address, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %v", address, err)
	}

	logger.Info("Connected to device at %s (TCP)", address)
	return &TCPPort{conn: conn, address: address, readTimeout: readTimeout}, nil
}

func (t *TCPPort) Read(p []byte) (n int, err error) {
	t.mu.Lock()
	timeout := t.readTimeout
	t.mu.Unlock()

	// A zero timeout means non-blocking; a very short deadline is the
	// closest TCP equivalent.
	if timeout <= 0 {
		timeout = time.Millisecond
	}
	t.conn.SetReadDeadline(time.Now().Add(timeout))
	n, err = t.conn.Read(p)

	// Convert timeout to a zero-byte read, matching serial semantics.
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		return n, nil
	}
	return n, err
}

func (t *TCPPort) Write(p []byte) (n int, err error) {
	return t.conn.Write(p)
}

func (t *TCPPort) Close() error {
	return t.conn.Close()
}

func (t *TCPPort) SetReadTimeout(d time.Duration) error {
	t.mu.Lock()
	t.readTimeout = d
	t.mu.Unlock()
	return nil
}

func (t *TCPPort) ResetInputBuffer() error {
	// Drain any pending data.
	buf := make([]byte, 1024)
	t.conn.SetReadDeadline(time.Now().Add(10 * time.Millisecond))
	for {
		n, _ := t.conn.Read(buf)
		if n == 0 {
			break
		}
	}
	return nil
}

// GetAddress returns the TCP address for logging.
func (t *TCPPort) GetAddress() string {
	return t.address
}
