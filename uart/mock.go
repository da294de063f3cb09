package uart

import (
	"bytes"
	"io"
	"sync"
	"time"
)

// MockPort simulates a serial port in memory. Tests feed it device
// output with FeedLine and inspect what the adapter wrote with
// Written.
type MockPort struct {
	mu       sync.Mutex
	readBuf  *bytes.Buffer
	writeBuf *bytes.Buffer
	closed   bool
	readErr  error
	writeErr error
}

var _ Port = (*MockPort)(nil)

func NewMockPort() *MockPort {
	return &MockPort{
		readBuf:  new(bytes.Buffer),
		writeBuf: new(bytes.Buffer),
	}
}

// FeedLine queues one newline-terminated line as pending device
// output.
func (m *MockPort) FeedLine(line string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readBuf.WriteString(line)
	m.readBuf.WriteByte('\n')
}

// FeedRaw queues raw bytes without a terminator, for partial-line and
// encoding tests.
func (m *MockPort) FeedRaw(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readBuf.Write(data)
}

// Written returns everything the adapter has written so far.
func (m *MockPort) Written() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.writeBuf.Bytes()...)
}

// FailReads makes subsequent reads return err.
func (m *MockPort) FailReads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
}

// FailWrites makes subsequent writes return err.
func (m *MockPort) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

func (m *MockPort) Read(p []byte) (n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, io.EOF
	}
	if m.readErr != nil {
		return 0, m.readErr
	}
	if m.readBuf.Len() == 0 {
		// Nothing buffered; behave like a timed-out serial read.
		return 0, nil
	}
	return m.readBuf.Read(p)
}

func (m *MockPort) Write(p []byte) (n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, io.ErrClosedPipe
	}
	if m.writeErr != nil {
		return 0, m.writeErr
	}
	return m.writeBuf.Write(p)
}

func (m *MockPort) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *MockPort) SetReadTimeout(time.Duration) error {
	return nil
}

func (m *MockPort) ResetInputBuffer() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readBuf.Reset()
	return nil
}
