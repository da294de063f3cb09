package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"tictactoe-bridge/logger"
)

// Config is the full bridge configuration.
type Config struct {
	Serial SerialConfig  `mapstructure:"serial"`
	Poll   PollConfig    `mapstructure:"poll"`
	WS     WSConfig      `mapstructure:"ws"`
	Log    logger.Config `mapstructure:"log"`
}

// SerialConfig describes the UART link to the game device.
type SerialConfig struct {
	// Port is the serial device (e.g. COM3, /dev/ttyUSB0) or a
	// tcp://host:port emulator endpoint. Empty means the operator
	// picks one from the UI.
	Port        string        `mapstructure:"port"`
	BaudRate    int           `mapstructure:"baud_rate"`
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// Reassemble buffers a line split across poll ticks instead of
	// dropping it.
	Reassemble bool `mapstructure:"reassemble"`
	// MockAddr, when set, is offered in the port list alongside the
	// real hardware ports.
	MockAddr string `mapstructure:"mock_addr"`
}

// PollConfig drives the receive loop.
type PollConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// WSConfig is the presentation-layer boundary.
type WSConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load reads configuration from defaults, an optional config file and
// TTT_* environment variables, in increasing priority.
func Load(path string) (*Config, error) {
	v := viper.New()

	defaultPort := ""
	if runtime.GOOS == "windows" {
		defaultPort = "COM3"
	}

	v.SetDefault("serial.port", defaultPort)
	v.SetDefault("serial.baud_rate", 9600)
	v.SetDefault("serial.read_timeout", time.Second)
	v.SetDefault("serial.reassemble", false)
	v.SetDefault("serial.mock_addr", "tcp://localhost:9999")
	v.SetDefault("poll.interval", 100*time.Millisecond)
	v.SetDefault("ws.addr", ":8989")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			// A missing default config file is fine; defaults apply.
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("TTT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Serial.BaudRate <= 0 {
		return nil, fmt.Errorf("serial.baud_rate must be positive, got %d", cfg.Serial.BaudRate)
	}
	if cfg.Poll.Interval <= 0 {
		cfg.Poll.Interval = 100 * time.Millisecond
	}

	return &cfg, nil
}
