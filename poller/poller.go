// Package poller drives device-to-UI updates. A ticker fires at a
// fixed interval; each tick makes exactly one non-blocking receive
// attempt and dispatches whatever arrived to the presentation
// callbacks. Errors are reported and the loop keeps ticking.
package poller

import (
	"sync"
	"time"

	"tictactoe-bridge/logger"
	"tictactoe-bridge/protocol"
	"tictactoe-bridge/uart"
)

// Callbacks are the presentation-layer hooks. Nil members are skipped.
// They are invoked from the poll goroutine, so implementations must
// marshal any UI mutation onto their own thread.
type Callbacks struct {
	// OnBoard renders a fresh 3x3 board snapshot.
	OnBoard func(board protocol.Board)
	// OnStatus shows a status/mode/error text from the device.
	OnStatus func(kind, message string)
	// OnWin raises the modal win notification, separate from the log.
	OnWin func(message string)
	// OnLog appends a line to the output log area.
	OnLog func(line string)
}

// Poller periodically polls the adapter for one inbound message.
type Poller struct {
	adapter  *uart.Adapter
	interval time.Duration
	cb       Callbacks

	mu      sync.Mutex
	stop    chan struct{}
	stopped chan struct{}
}

// New creates a poller. interval <= 0 defaults to 100ms.
func New(adapter *uart.Adapter, interval time.Duration, cb Callbacks) *Poller {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &Poller{adapter: adapter, interval: interval, cb: cb}
}

// Start launches the poll loop. Calling Start on a running poller is a
// no-op.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stop != nil {
		return
	}
	p.stop = make(chan struct{})
	p.stopped = make(chan struct{})

	go p.run(p.stop, p.stopped)
	logger.Info("Poll loop started (interval %v)", p.interval)
}

// Stop cancels the loop and waits for the current tick to finish.
// Safe to call when not running.
func (p *Poller) Stop() {
	p.mu.Lock()
	stop, stopped := p.stop, p.stopped
	p.stop, p.stopped = nil, nil
	p.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-stopped
	logger.Info("Poll loop stopped")
}

func (p *Poller) run(stop <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			p.Tick()
		}
	}
}

// Tick performs one poll attempt. Exported so tests and alternative
// schedulers can drive the loop directly.
func (p *Poller) Tick() {
	// A closed port between ticks is expected; skip quietly.
	if !p.adapter.IsOpen() {
		return
	}

	msg, err := p.adapter.TryReceive()
	if err != nil {
		if err == uart.ErrNotConnected {
			return
		}
		p.log("Error: " + err.Error())
		return
	}
	if msg == nil {
		return
	}

	switch m := msg.(type) {
	case protocol.BoardUpdate:
		if p.cb.OnBoard != nil {
			p.cb.OnBoard(m.Board)
		}
	case protocol.Status:
		p.log("Game status: " + m.Message)
		if p.cb.OnStatus != nil {
			p.cb.OnStatus(m.Type, m.Message)
		}
	case protocol.Win:
		p.log("Game status: " + m.Message)
		if p.cb.OnStatus != nil {
			p.cb.OnStatus(m.Type, m.Message)
		}
		if p.cb.OnWin != nil {
			p.cb.OnWin(m.Message)
		}
	default:
		// The protocol package rejects unknown tags before we get
		// here; this guards against future variants.
		p.log("Received unhandled message")
	}
}

func (p *Poller) log(line string) {
	if p.cb.OnLog != nil {
		p.cb.OnLog(line)
	} else {
		logger.Debug("%s", line)
	}
}
