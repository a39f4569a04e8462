package tray

import (
	"fyne.io/systray"
	"github.com/rs/zerolog"

	"github.com/Veraticus/online-check/pkg/notification"
	"github.com/Veraticus/online-check/pkg/status"
)

// Tray owns the system tray icon and menu.
type Tray struct {
	controller *Controller
	indicator  *status.Indicator
	history    *notification.History
	logger     zerolog.Logger

	mQuit   *systray.MenuItem
	mHide   *systray.MenuItem
	mShow   *systray.MenuItem
	mStatus *systray.MenuItem
	mRecent *systray.MenuItem
	recent  []*systray.MenuItem
	ready   chan struct{}
}

// New creates a tray. indicator and history may be nil.
func New(controller *Controller, indicator *status.Indicator, history *notification.History, logger zerolog.Logger) *Tray {
	return &Tray{
		controller: controller,
		indicator:  indicator,
		history:    history,
		logger:     logger,
		ready:      make(chan struct{}),
	}
}

// Run blocks on the platform event loop until Quit is called.
// On macOS it must be called from the main goroutine.
func (t *Tray) Run(onExit func()) {
	systray.Run(t.onReady, onExit)
}

// Quit stops the event loop.
func (t *Tray) Quit() {
	systray.Quit()
}

// Ready is closed once the menu has been built.
func (t *Tray) Ready() <-chan struct{} {
	return t.ready
}

func (t *Tray) onReady() {
	state := status.State{}
	if t.indicator != nil {
		state = t.indicator.State()
	}

	systray.SetIcon(IconFor(state))
	systray.SetTitle(Title)
	systray.SetTooltip(Tooltip(state))

	t.mQuit = systray.AddMenuItem("Quit", "Exit online-check")
	systray.AddSeparator()
	t.mHide = systray.AddMenuItem("Hide", "Hide the activity window")
	t.mShow = systray.AddMenuItem("Show", "Show the activity window")

	systray.AddSeparator()
	t.mStatus = systray.AddMenuItem(StatusLabel(state), "Presence reporting status")
	t.mStatus.Disable()

	t.mRecent = systray.AddMenuItem("Recent activity", "Latest presence reports")
	for i := 0; i < RecentItems; i++ {
		item := t.mRecent.AddSubMenuItem("", "")
		item.Disable()
		item.Hide()
		t.recent = append(t.recent, item)
	}
	t.refreshRecent()

	if t.indicator != nil {
		t.indicator.OnChange(t.updateState)
	}
	if t.history != nil {
		t.history.OnAdd(func(notification.Notification) { t.refreshRecent() })
	}

	go t.handleMenuClicks()

	t.logger.Info().Msg("Tray ready")
	close(t.ready)
}

func (t *Tray) updateState(s status.State) {
	systray.SetIcon(IconFor(s))
	systray.SetTooltip(Tooltip(s))
	t.mStatus.SetTitle(StatusLabel(s))
}

func (t *Tray) refreshRecent() {
	var labels []string
	if t.history != nil {
		labels = RecentLabels(t.history.Entries(), len(t.recent))
	}

	for i, item := range t.recent {
		if i < len(labels) {
			item.SetTitle(labels[i])
			item.Show()
		} else {
			item.Hide()
		}
	}
	if len(labels) == 0 {
		t.mRecent.Disable()
	} else {
		t.mRecent.Enable()
	}
}

func (t *Tray) handleMenuClicks() {
	for {
		select {
		case <-t.mShow.ClickedCh:
			t.controller.Handle(ActionShow)
		case <-t.mHide.ClickedCh:
			t.controller.Handle(ActionHide)
		case <-t.mQuit.ClickedCh:
			t.controller.Handle(ActionQuit)
			return
		}
	}
}
