package uart

import (
	"fmt"
	"io"
	"strings"
	"time"

	"go.bug.st/serial"

	"tictactoe-bridge/logger"
)

// Port is the byte-stream interface the adapter drives. A read timeout
// of zero puts the port in non-blocking mode: Read returns (0, nil)
// immediately when nothing is buffered.
type Port interface {
	io.ReadWriteCloser
	ResetInputBuffer() error
	SetReadTimeout(time.Duration) error
}

// SerialPort wraps go.bug.st/serial for a physical UART link.
type SerialPort struct {
	serial.Port
	portName string
}

var _ Port = (*SerialPort)(nil)

// openSerialPort opens a physical serial port at 8N1.
func openSerialPort(portName string, baudRate int, readTimeout time.Duration) (Port, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, err
	}

	if err := port.SetReadTimeout(readTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set read timeout: %v", err)
	}

	logger.Info("Serial port %s opened at %d bps (8N1)", portName, baudRate)
	return &SerialPort{Port: port, portName: portName}, nil
}

func (p *SerialPort) GetPortName() string {
	return p.portName
}

// OpenPort opens a port - either physical serial or TCP based on the
// address format. TCP addresses are "tcp://host:port" (the device
// emulator); serial ports are "COM3", "/dev/ttyUSB0", etc.
func OpenPort(portName string, baudRate int, readTimeout time.Duration) (Port, error) {
	if strings.HasPrefix(portName, "tcp://") {
		addr := strings.TrimPrefix(portName, "tcp://")
		return openTCPPort(addr, readTimeout)
	}
	return openSerialPort(portName, baudRate, readTimeout)
}
