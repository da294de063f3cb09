package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"tictactoe-bridge/api"
	"tictactoe-bridge/config"
	"tictactoe-bridge/logger"
	"tictactoe-bridge/poller"
	"tictactoe-bridge/uart"
)

func main() {
	configPath := flag.String("config", "", "Config file path (default ./config.yaml if present)")
	portFlag := flag.String("port", "", "Serial port to open at startup (e.g. COM3, /dev/ttyUSB0, tcp://localhost:9999)")
	wsFlag := flag.String("ws", "", "WebSocket listen address")
	flag.Parse()

	// 1. Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}
	if *wsFlag != "" {
		cfg.WS.Addr = *wsFlag
	}

	// 2. Initialize logging
	if err := logger.Init(cfg.Log); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	// 3. Transport adapter
	adapter := uart.NewAdapter(uart.Options{
		ReadTimeout: cfg.Serial.ReadTimeout,
		Reassemble:  cfg.Serial.Reassemble,
	})
	defer adapter.Close()

	// 4. Presentation boundary
	var extra []string
	if cfg.Serial.MockAddr != "" {
		extra = append(extra, cfg.Serial.MockAddr)
	}
	handler := api.NewHandler(adapter, extra...)

	// 5. Poll loop feeding the UI
	p := poller.New(adapter, cfg.Poll.Interval, poller.Callbacks{
		OnBoard:  handler.BoardEvent,
		OnStatus: handler.StatusEvent,
		OnWin:    handler.WinEvent,
		OnLog:    handler.LogEvent,
	})
	p.Start()
	defer p.Stop()

	// Opening at startup is optional; the operator can pick a port
	// from the UI instead.
	if cfg.Serial.Port != "" {
		if err := adapter.Open(cfg.Serial.Port, cfg.Serial.BaudRate); err != nil {
			logger.Warn("Startup connect failed, waiting for UI: %v", err)
		}
	}

	http.HandleFunc("/ws", handler.ServeWS)

	logger.Info("Server listening on %s", cfg.WS.Addr)
	server := &http.Server{Addr: cfg.WS.Addr}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("ListenAndServe: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down")
	server.Close()
}
