package sensor

import (
	"context"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/tartampluch/go-wv58a/internal/config"
)

// managedObjects is the reply shape of ObjectManager.GetManagedObjects.
type managedObjects map[dbus.ObjectPath]map[string]map[string]dbus.Variant

// LinkReader reports whether BlueZ has any connected device.
type LinkReader struct {
	mu   sync.Mutex
	conn *dbus.Conn
}

// NewLinkReader returns a reader that connects to the system bus lazily.
func NewLinkReader() *LinkReader {
	return &LinkReader{}
}

// Connected queries BlueZ. Any error means the link is reported as down.
func (r *LinkReader) Connected(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn == nil {
		conn, err := dbus.ConnectSystemBus(dbus.WithContext(ctx))
		if err != nil {
			return false, fmt.Errorf("%s: %w", config.ErrLinkRead, err)
		}
		r.conn = conn
	}

	var objs managedObjects
	obj := r.conn.Object(config.BluezBusName, dbus.ObjectPath(config.BluezRootPath))
	if err := obj.CallWithContext(ctx, config.DBusManagedObjects, 0).Store(&objs); err != nil {
		// Drop the connection so the next poll reconnects.
		_ = r.conn.Close()
		r.conn = nil
		return false, fmt.Errorf("%s: %w", config.ErrLinkRead, err)
	}

	return anyDeviceConnected(objs), nil
}

// Close releases the bus connection.
func (r *LinkReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn == nil {
		return nil
	}
	err := r.conn.Close()
	r.conn = nil
	return err
}

func anyDeviceConnected(objs managedObjects) bool {
	for _, ifaces := range objs {
		props, ok := ifaces[config.BluezDeviceIface]
		if !ok {
			continue
		}
		v, ok := props[config.BluezPropConnected]
		if !ok {
			continue
		}
		if connected, ok := v.Value().(bool); ok && connected {
			return true
		}
	}
	return false
}
