//go:build !linux && !darwin && !windows

package autostart

// Enable is unsupported on this platform.
func (m *Manager) Enable() error { return ErrUnsupported }

// Disable is unsupported on this platform.
func (m *Manager) Disable() error { return ErrUnsupported }

// IsEnabled is unsupported on this platform.
func (m *Manager) IsEnabled() (bool, error) { return false, ErrUnsupported }
