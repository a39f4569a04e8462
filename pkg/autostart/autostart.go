// Package autostart registers the application to start at user login.
package autostart

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrUnsupported is returned on platforms without a login-item mechanism.
var ErrUnsupported = errors.New("autostart is not supported on this platform")

// Manager installs and removes the login entry for one executable.
type Manager struct {
	name string
	exec string
	args []string

	// dir overrides the per-user entry directory in tests.
	dir string
}

// New creates a manager registering exec (with args) under name.
func New(name, exec string, args ...string) *Manager {
	return &Manager{name: name, exec: exec, args: args}
}

// NewForCurrentExecutable registers the running binary.
func NewForCurrentExecutable(name string, args ...string) (*Manager, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return New(name, exe, args...), nil
}

// Name returns the entry name.
func (m *Manager) Name() string {
	return m.name
}

// Apply enables or disables the entry to match want. It is a no-op when
// the entry is already in the requested state.
func (m *Manager) Apply(want bool) error {
	enabled, err := m.IsEnabled()
	if err != nil {
		return err
	}
	switch {
	case want && !enabled:
		return m.Enable()
	case !want && enabled:
		return m.Disable()
	}
	return nil
}
