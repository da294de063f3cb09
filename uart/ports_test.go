package uart

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterPortsKeepsTCPEndpoints(t *testing.T) {
	filtered := filterPorts([]string{"tcp://localhost:9999"})
	assert.Equal(t, []string{"tcp://localhost:9999"}, filtered)
}

func TestFilterPortsDeduplicates(t *testing.T) {
	filtered := filterPorts([]string{"tcp://a:1", "tcp://a:1"})
	assert.Equal(t, []string{"tcp://a:1"}, filtered)
}

func TestFilterPortsUnixConventions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix port naming")
	}

	filtered := filterPorts([]string{
		"/dev/ttyUSB0",
		"/dev/ttyACM1",
		"/dev/cu.Bluetooth-Incoming-Port",
		"/dev/random",
	})

	assert.Contains(t, filtered, "/dev/ttyUSB0")
	assert.Contains(t, filtered, "/dev/ttyACM1")
	assert.NotContains(t, filtered, "/dev/cu.Bluetooth-Incoming-Port")
	assert.NotContains(t, filtered, "/dev/random")
}
