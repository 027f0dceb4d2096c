package sensor

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
)

func device(connected bool) map[string]map[string]dbus.Variant {
	return map[string]map[string]dbus.Variant{
		"org.bluez.Device1": {
			"Connected": dbus.MakeVariant(connected),
			"Name":      dbus.MakeVariant("Phone"),
		},
	}
}

func TestAnyDeviceConnected(t *testing.T) {
	adapter := map[string]map[string]dbus.Variant{
		"org.bluez.Adapter1": {"Powered": dbus.MakeVariant(true)},
	}

	tests := []struct {
		name string
		objs managedObjects
		want bool
	}{
		{"empty", managedObjects{}, false},
		{"adapter only", managedObjects{"/org/bluez/hci0": adapter}, false},
		{"paired but idle", managedObjects{
			"/org/bluez/hci0":                    adapter,
			"/org/bluez/hci0/dev_00_11_22_33_44": device(false),
		}, false},
		{"one connected", managedObjects{
			"/org/bluez/hci0/dev_00_11_22_33_44": device(false),
			"/org/bluez/hci0/dev_AA_BB_CC_DD_EE": device(true),
		}, true},
		{"wrong type", managedObjects{
			"/org/bluez/hci0/dev_00": {"org.bluez.Device1": {"Connected": dbus.MakeVariant("yes")}},
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, anyDeviceConnected(tt.objs))
		})
	}
}

func TestLinkReader_CloseWithoutConnection(t *testing.T) {
	assert.NoError(t, NewLinkReader().Close())
}
