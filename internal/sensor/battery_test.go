package sensor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-wv58a/internal/config"
	"github.com/tartampluch/go-wv58a/internal/engine"
)

// writeSupply creates a fake power_supply entry with the given attributes.
func writeSupply(t *testing.T, root, name string, attrs map[string]string) {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, config.DirPermUserRWX))
	for k, v := range attrs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, k), []byte(v+"\n"), config.FilePermUserRW))
	}
}

func TestBatteryReader_ReadsBattery(t *testing.T) {
	root := t.TempDir()
	writeSupply(t, root, "AC", map[string]string{"type": "Mains", "online": "1"})
	writeSupply(t, root, "BAT0", map[string]string{"type": "Battery", "capacity": "57", "status": "Charging"})

	got, err := NewBatteryReader(root).Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, engine.BatteryState{Percent: 57, Charging: true}, got)
}

func TestBatteryReader_Discharging(t *testing.T) {
	root := t.TempDir()
	writeSupply(t, root, "BAT1", map[string]string{"type": "Battery", "capacity": "8", "status": "Discharging"})

	got, err := NewBatteryReader(root).Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, engine.BatteryState{Percent: 8}, got)
}

func TestBatteryReader_NoBattery(t *testing.T) {
	root := t.TempDir()
	writeSupply(t, root, "AC", map[string]string{"type": "Mains"})

	got, err := NewBatteryReader(root).Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, engine.BatteryState{Percent: 100}, got)

	got, err = NewBatteryReader(filepath.Join(root, "missing")).Read(context.Background())
	require.NoError(t, err, "a missing tree is a desktop without battery")
	assert.Equal(t, engine.BatteryState{Percent: 100}, got)
}

func TestBatteryReader_BadCapacity(t *testing.T) {
	root := t.TempDir()
	writeSupply(t, root, "BAT0", map[string]string{"type": "Battery", "capacity": "lots"})

	got, err := NewBatteryReader(root).Read(context.Background())
	assert.ErrorContains(t, err, config.ErrBatteryRead)
	assert.Equal(t, 100, got.Percent)
}

func TestBatteryReader_ClampsCapacity(t *testing.T) {
	root := t.TempDir()
	writeSupply(t, root, "BAT0", map[string]string{"type": "Battery", "capacity": "104"})

	got, err := NewBatteryReader(root).Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 100, got.Percent)
}

func TestNewBatteryReader_DefaultRoot(t *testing.T) {
	assert.Equal(t, config.DefaultPowerRoot, NewBatteryReader("").Root)
}
