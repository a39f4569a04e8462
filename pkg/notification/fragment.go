package notification

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/Veraticus/online-check/pkg/presence"
)

// PlainText strips markup from an HTML fragment and collapses whitespace.
func PlainText(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var parts []string
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(parts, " ")
		case html.TextToken:
			if t := strings.Join(strings.Fields(string(z.Text())), " "); t != "" {
				parts = append(parts, t)
			}
		}
	}
}

// OutcomeOf reports the outcome marked by the first element carrying a
// known status class.
func OutcomeOf(fragment string) (presence.Outcome, bool) {
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return 0, false
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		for _, attr := range z.Token().Attr {
			if attr.Key != "class" {
				continue
			}
			for _, class := range strings.Fields(attr.Val) {
				switch class {
				case presence.SuccessClass:
					return presence.Delivered, true
				case presence.ErrorClass:
					return presence.DeliveryFailed, true
				}
			}
		}
	}
}

// Timestamp returns the text of the first status-marked element.
func Timestamp(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	inMarked := false
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			for _, attr := range z.Token().Attr {
				if attr.Key == "class" && (strings.Contains(attr.Val, presence.SuccessClass) || strings.Contains(attr.Val, presence.ErrorClass)) {
					inMarked = true
				}
			}
		case html.TextToken:
			if inMarked {
				return strings.TrimSpace(string(z.Text()))
			}
		case html.EndTagToken:
			inMarked = false
		}
	}
}
