package main

import (
	"bufio"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Veraticus/online-check/pkg/tray"
)

// handleConsoleInput reads one command per line and applies it until
// quit or end of input. Every line, recognised or not, counts as user
// activity for rec.
func handleConsoleInput(r io.Reader, c *tray.Controller, rec tray.ActivityRecorder, logger zerolog.Logger) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if rec != nil {
			rec.UpdateActivity()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		action, err := tray.ParseAction(line)
		if err != nil {
			logger.Warn().Str("input", line).Msg("Unknown command (use show, hide, toggle or quit)")
			continue
		}
		c.Handle(action)
		if action == tray.ActionQuit {
			return
		}
	}
}
