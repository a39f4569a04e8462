//go:build darwin

package autostart

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// label is the launchd job label.
func (m *Manager) label() string {
	return "com." + m.name
}

// entryPath returns the LaunchAgent plist path.
func (m *Manager) entryPath() (string, error) {
	dir := m.dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		dir = filepath.Join(home, "Library", "LaunchAgents")
	}
	return filepath.Join(dir, m.label()+".plist"), nil
}

func xmlEscape(s string) string {
	var sb strings.Builder
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}

// plist renders the LaunchAgent definition.
func (m *Manager) plist() string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	sb.WriteString(`<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">` + "\n")
	sb.WriteString(`<plist version="1.0">` + "\n<dict>\n")
	fmt.Fprintf(&sb, "  <key>Label</key>\n  <string>%s</string>\n", xmlEscape(m.label()))
	sb.WriteString("  <key>ProgramArguments</key>\n  <array>\n")
	for _, arg := range append([]string{m.exec}, m.args...) {
		fmt.Fprintf(&sb, "    <string>%s</string>\n", xmlEscape(arg))
	}
	sb.WriteString("  </array>\n")
	sb.WriteString("  <key>RunAtLoad</key>\n  <true/>\n")
	sb.WriteString("</dict>\n</plist>\n")
	return sb.String()
}

// Enable writes the LaunchAgent plist. It takes effect at next login.
func (m *Manager) Enable() error {
	path, err := m.entryPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create LaunchAgents directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(m.plist()), 0o644); err != nil {
		return fmt.Errorf("write launch agent: %w", err)
	}
	return nil
}

// Disable removes the LaunchAgent plist.
func (m *Manager) Disable() error {
	path, err := m.entryPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove launch agent: %w", err)
	}
	return nil
}

// IsEnabled reports whether the plist exists.
func (m *Manager) IsEnabled() (bool, error) {
	path, err := m.entryPath()
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat launch agent: %w", err)
	}
}
