package discovery

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstanceName(t *testing.T) {
	name, err := instanceName(Info{InstanceName: "lab-board-3"})
	require.NoError(t, err)
	assert.Equal(t, "lab-board-3", name)

	// Hostname default.
	name, err = instanceName(Info{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "fpgad-"), "default name %q should have fpgad- prefix", name)

	// DNS label limit.
	long := strings.Repeat("x", 100)
	name, err = instanceName(Info{InstanceName: long})
	require.NoError(t, err)
	assert.Len(t, name, MaxInstanceNameLen)
}

func TestTxtRecords(t *testing.T) {
	txt := txtRecords(Info{DeviceHandles: []string{"fpga0", "fpga1"}})
	assert.Equal(t, []string{"devices=2", "device=fpga0", "device=fpga1"}, txt)

	txt = txtRecords(Info{})
	assert.Equal(t, []string{"devices=0"}, txt)
}
