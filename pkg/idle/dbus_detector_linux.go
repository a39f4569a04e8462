//go:build linux
// +build linux

package idle

import (
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
)

// dbusIdleMethod describes a session-bus method returning idle milliseconds.
type dbusIdleMethod struct {
	dest   string
	path   dbus.ObjectPath
	method string
}

// Idle monitors tried in order. Mutter covers GNOME on both X11 and Wayland;
// the freedesktop screensaver interface covers KDE and most other desktops.
var dbusIdleMethods = []dbusIdleMethod{
	{
		dest:   "org.gnome.Mutter.IdleMonitor",
		path:   "/org/gnome/Mutter/IdleMonitor/Core",
		method: "org.gnome.Mutter.IdleMonitor.GetIdletime",
	},
	{
		dest:   "org.freedesktop.ScreenSaver",
		path:   "/org/freedesktop/ScreenSaver",
		method: "org.freedesktop.ScreenSaver.GetSessionIdleTime",
	},
}

// DBusIdleDetector queries desktop idle monitors over the D-Bus session bus.
type DBusIdleDetector struct {
	// caller invokes a method and returns its single numeric reply in milliseconds.
	caller func(m dbusIdleMethod) (uint64, error)
}

// NewDBusIdleDetector creates a detector bound to the session bus.
func NewDBusIdleDetector() *DBusIdleDetector {
	return &DBusIdleDetector{caller: sessionBusCaller}
}

// sessionBusCaller calls m on the shared session bus connection.
func sessionBusCaller(m dbusIdleMethod) (uint64, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return 0, fmt.Errorf("connect session bus: %w", err)
	}

	call := conn.Object(m.dest, m.path).Call(m.method, 0)
	if call.Err != nil {
		return 0, call.Err
	}
	if len(call.Body) != 1 {
		return 0, fmt.Errorf("%s: unexpected reply %v", m.method, call.Body)
	}

	switch v := call.Body[0].(type) {
	case uint64:
		return v, nil
	case uint32:
		return uint64(v), nil
	default:
		return 0, fmt.Errorf("%s: unexpected reply type %T", m.method, v)
	}
}

// IdleTime returns the idle time reported by the first responding idle monitor.
func (d *DBusIdleDetector) IdleTime() (time.Duration, error) {
	var lastErr error
	for _, m := range dbusIdleMethods {
		ms, err := d.caller(m)
		if err != nil {
			lastErr = err
			continue
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	return 0, fmt.Errorf("no D-Bus idle monitor available: %w", lastErr)
}

// IsAvailable reports whether any idle monitor answers.
func (d *DBusIdleDetector) IsAvailable() bool {
	_, err := d.IdleTime()
	return err == nil
}
