package idle

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// tmuxTimeout bounds each tmux invocation.
const tmuxTimeout = 2 * time.Second

// errNoTmux is returned when the process is not attached to a tmux server.
var errNoTmux = errors.New("not running under tmux")

// commandRunner runs an external command and returns its stdout.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// TmuxIdleDetector measures idle time from the most recent keystroke of
// any client attached to the tmux server this process runs under. It
// covers terminal-only sessions where no desktop idle monitor exists.
type TmuxIdleDetector struct {
	socket string
	run    commandRunner
	now    func() time.Time
}

// NewTmuxIdleDetector creates a detector bound to the server named by $TMUX.
func NewTmuxIdleDetector() *TmuxIdleDetector {
	return &TmuxIdleDetector{
		socket: tmuxSocket(os.Getenv("TMUX")),
		run:    runCommand,
		now:    time.Now,
	}
}

// tmuxSocket extracts the socket path from a $TMUX value
// ("socket,pid,session").
func tmuxSocket(env string) string {
	socket, _, _ := strings.Cut(env, ",")
	return socket
}

func (d *TmuxIdleDetector) tmux(args ...string) ([]byte, error) {
	if d.socket == "" {
		return nil, errNoTmux
	}
	ctx, cancel := context.WithTimeout(context.Background(), tmuxTimeout)
	defer cancel()
	return d.run(ctx, "tmux", append([]string{"-S", d.socket}, args...)...)
}

// IdleTime returns the time since the newest client activity on the server.
func (d *TmuxIdleDetector) IdleTime() (time.Duration, error) {
	out, err := d.tmux("list-clients", "-F", "#{client_activity}")
	if err != nil {
		return 0, err
	}

	latest, ok := latestActivity(out)
	if !ok {
		return 0, errors.New("tmux reported no attached clients")
	}

	idle := d.now().Sub(latest)
	if idle < 0 {
		idle = 0
	}
	return idle, nil
}

// latestActivity parses one epoch-seconds value per line and returns the newest.
func latestActivity(out []byte) (time.Time, bool) {
	var latest time.Time
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		secs, err := strconv.ParseInt(strings.TrimSpace(scanner.Text()), 10, 64)
		if err != nil || secs <= 0 {
			continue
		}
		if at := time.Unix(secs, 0); at.After(latest) {
			latest = at
		}
	}
	return latest, !latest.IsZero()
}

// IsAvailable reports whether a tmux server answers on the socket.
func (d *TmuxIdleDetector) IsAvailable() bool {
	_, err := d.tmux("-V")
	return err == nil
}
