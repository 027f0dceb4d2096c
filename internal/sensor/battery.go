// Package sensor reads the host battery and Bluetooth link and drives the
// vibration motor.
package sensor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tartampluch/go-wv58a/internal/config"
	"github.com/tartampluch/go-wv58a/internal/engine"
)

// BatteryReader reads the first battery found under a sysfs power_supply tree.
type BatteryReader struct {
	Root string
}

// NewBatteryReader returns a reader rooted at root, or at the system
// power_supply directory when root is empty.
func NewBatteryReader(root string) *BatteryReader {
	if root == "" {
		root = config.DefaultPowerRoot
	}
	return &BatteryReader{Root: root}
}

// Read returns the battery state. A host without a battery reports a full,
// discharging battery.
func (r *BatteryReader) Read(ctx context.Context) (engine.BatteryState, error) {
	full := engine.BatteryState{Percent: config.BatteryFullPercent}

	if err := ctx.Err(); err != nil {
		return full, err
	}

	entries, err := os.ReadDir(r.Root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return full, nil
		}
		return full, fmt.Errorf("%s: %w", config.ErrBatteryRead, err)
	}

	for _, e := range entries {
		dir := filepath.Join(r.Root, e.Name())
		if readAttr(dir, config.SysfsType) != config.SysfsTypeBattery {
			continue
		}

		raw := readAttr(dir, config.SysfsCapacity)
		pct, err := strconv.Atoi(raw)
		if err != nil {
			return full, fmt.Errorf("%s: %s: %w", config.ErrBatteryRead, dir, err)
		}

		return engine.BatteryState{
			Percent:  min(max(pct, 0), 100),
			Charging: readAttr(dir, config.SysfsStatus) == config.SysfsStatusCharge,
		}, nil
	}

	return full, nil
}

// readAttr returns the trimmed content of a sysfs attribute, or "" when it
// cannot be read.
func readAttr(dir, name string) string {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
