//go:build linux

package autostart

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLinuxEnableDisable(t *testing.T) {
	m := New("online-check", "/usr/local/bin/online-check", "run")
	m.dir = t.TempDir()

	enabled, err := m.IsEnabled()
	if err != nil || enabled {
		t.Fatalf("IsEnabled() = %v, %v; want false, nil", enabled, err)
	}

	if err := m.Enable(); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}
	if enabled, _ := m.IsEnabled(); !enabled {
		t.Error("IsEnabled() = false after Enable")
	}

	data, err := os.ReadFile(filepath.Join(m.dir, "online-check.desktop"))
	if err != nil {
		t.Fatalf("desktop entry not written: %v", err)
	}
	for _, want := range []string{
		"[Desktop Entry]",
		"Type=Application",
		"Name=online-check",
		"Exec=/usr/local/bin/online-check run",
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("entry missing %q:\n%s", want, data)
		}
	}

	if err := m.Disable(); err != nil {
		t.Fatalf("Disable() error = %v", err)
	}
	if enabled, _ := m.IsEnabled(); enabled {
		t.Error("IsEnabled() = true after Disable")
	}
	if err := m.Disable(); err != nil {
		t.Errorf("second Disable() error = %v", err)
	}
}

func TestLinuxEntryPathUsesXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	path, err := New("online-check", "/bin/true").entryPath()
	if err != nil {
		t.Fatal(err)
	}
	if path != "/xdg/autostart/online-check.desktop" {
		t.Errorf("entryPath() = %q", path)
	}
}

func TestQuoteExecArg(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"/usr/bin/online-check", "/usr/bin/online-check"},
		{"/opt/My Apps/online-check", `"/opt/My Apps/online-check"`},
		{`a"b c`, `"a\"b c"`},
		{"$HOME", `"\$HOME"`},
	}
	for _, tt := range tests {
		if got := quoteExecArg(tt.in); got != tt.want {
			t.Errorf("quoteExecArg(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestApply(t *testing.T) {
	m := New("online-check", "/bin/online-check")
	m.dir = t.TempDir()

	if err := m.Apply(true); err != nil {
		t.Fatalf("Apply(true) error = %v", err)
	}
	if enabled, _ := m.IsEnabled(); !enabled {
		t.Error("Apply(true) did not enable")
	}
	if err := m.Apply(true); err != nil {
		t.Errorf("repeated Apply(true) error = %v", err)
	}
	if err := m.Apply(false); err != nil {
		t.Fatalf("Apply(false) error = %v", err)
	}
	if enabled, _ := m.IsEnabled(); enabled {
		t.Error("Apply(false) did not disable")
	}
}
