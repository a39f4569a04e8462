//go:build linux

package autostart

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// entryPath returns the XDG autostart desktop entry path.
func (m *Manager) entryPath() (string, error) {
	dir := m.dir
	if dir == "" {
		base := os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("resolve home directory: %w", err)
			}
			base = filepath.Join(home, ".config")
		}
		dir = filepath.Join(base, "autostart")
	}
	return filepath.Join(dir, m.name+".desktop"), nil
}

// desktopEntry renders the .desktop file contents.
func (m *Manager) desktopEntry() string {
	cmd := append([]string{m.exec}, m.args...)
	for i, part := range cmd {
		cmd[i] = quoteExecArg(part)
	}

	var sb strings.Builder
	sb.WriteString("[Desktop Entry]\n")
	sb.WriteString("Type=Application\n")
	fmt.Fprintf(&sb, "Name=%s\n", m.name)
	fmt.Fprintf(&sb, "Exec=%s\n", strings.Join(cmd, " "))
	sb.WriteString("Terminal=false\n")
	sb.WriteString("X-GNOME-Autostart-enabled=true\n")
	return sb.String()
}

// quoteExecArg quotes an argument for the Exec key of a desktop entry.
func quoteExecArg(s string) string {
	if !strings.ContainsAny(s, " \t\n\"'\\><~|&;$*?#()`") {
		return s
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "`", "\\`", `$`, `\$`)
	return `"` + r.Replace(s) + `"`
}

// Enable writes the desktop entry.
func (m *Manager) Enable() error {
	path, err := m.entryPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create autostart directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(m.desktopEntry()), 0o644); err != nil {
		return fmt.Errorf("write autostart entry: %w", err)
	}
	return nil
}

// Disable removes the desktop entry.
func (m *Manager) Disable() error {
	path, err := m.entryPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove autostart entry: %w", err)
	}
	return nil
}

// IsEnabled reports whether the desktop entry exists.
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
		return false, fmt.Errorf("stat autostart entry: %w", err)
	}
}
