// Package tray runs the system tray menu.
package tray

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Veraticus/online-check/pkg/ui"
)

// Action is a tray menu command.
type Action int

const (
	ActionShow Action = iota
	ActionHide
	ActionToggle
	ActionQuit
)

func (a Action) String() string {
	switch a {
	case ActionShow:
		return "show"
	case ActionHide:
		return "hide"
	case ActionToggle:
		return "toggle"
	case ActionQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// ParseAction maps a command word to an action.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "show":
		return ActionShow, nil
	case "hide", "close":
		return ActionHide, nil
	case "toggle":
		return ActionToggle, nil
	case "quit", "exit":
		return ActionQuit, nil
	default:
		return 0, fmt.Errorf("unknown action %q", s)
	}
}

// ActivityRecorder is told about user activity. Idle detectors that fall
// back to application activity implement it.
type ActivityRecorder interface {
	UpdateActivity()
}

// Controller applies tray actions to the window and the process.
type Controller struct {
	lifecycle *ui.Lifecycle
	quit      func()
	quitOnce  sync.Once
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewController creates a controller. quit is called at most once, on ActionQuit.
func NewController(lifecycle *ui.Lifecycle, quit func(), logger zerolog.Logger) *Controller {
	return &Controller{lifecycle: lifecycle, quit: quit, logger: logger}
}

// SetActivityRecorder makes every handled action count as user activity.
func (c *Controller) SetActivityRecorder(r ActivityRecorder) {
	c.activity = r
}

// Handle applies a.
func (c *Controller) Handle(a Action) {
	c.logger.Debug().Stringer("action", a).Msg("Tray action")
	if c.activity != nil {
		c.activity.UpdateActivity()
	}

	switch a {
	case ActionShow:
		c.lifecycle.Show()
	case ActionHide:
		c.lifecycle.Hide()
	case ActionToggle:
		c.lifecycle.Toggle()
	case ActionQuit:
		c.quitOnce.Do(func() {
			if c.quit != nil {
				c.quit()
			}
		})
	default:
		c.logger.Warn().Int("action", int(a)).Msg("Unknown tray action")
	}
}
