package tray

import (
	"fmt"
	"unicode/utf8"

	"github.com/Veraticus/online-check/pkg/notification"
	"github.com/Veraticus/online-check/pkg/presence"
	"github.com/Veraticus/online-check/pkg/status"
)

// Title is the tray tooltip prefix.
const Title = "Online Check"

// RecentItems is the number of entries in the recent activity submenu.
const RecentItems = 5

const maxLabelLen = 60

// Tooltip describes the state for the tray icon.
func Tooltip(s status.State) string {
	return fmt.Sprintf("%s - %s", Title, s.Summary())
}

// StatusLabel is the text of the disabled status menu item.
func StatusLabel(s status.State) string {
	return "Status: " + s.Summary()
}

// RecentLabels renders up to n history entries, newest first.
func RecentLabels(entries []notification.Notification, n int) []string {
	if len(entries) > n {
		entries = entries[:n]
	}
	labels := make([]string, 0, len(entries))
	for _, e := range entries {
		marker := "•"
		if outcome, ok := notification.OutcomeOf(e.Data); ok {
			marker = "✓"
			if outcome == presence.DeliveryFailed {
				marker = "✗"
			}
		}
		labels = append(labels, truncate(marker+" "+notification.PlainText(e.Data), maxLabelLen))
	}
	return labels
}

func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	return string(r[:maxLen-3]) + "..."
}
