package idle

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/Veraticus/online-check/pkg/interfaces"
)

// fallbackNotice warns once when a platform detector first has to use
// application activity instead of the system idle source.
type fallbackNotice struct {
	mu     sync.Mutex
	logger zerolog.Logger
	warned bool
}

// SetLogger sets the logger used for the fallback warning.
func (f *fallbackNotice) SetLogger(l zerolog.Logger) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logger = l
}

func (f *fallbackNotice) noteFallback(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.warned {
		return
	}
	f.warned = true
	f.logger.Warn().Err(err).Msg("System idle time unavailable; only tray and console activity will count")
}

// SetLogger attaches l to detectors that can fall back to application
// activity. Other detectors are left unchanged.
func SetLogger(d interfaces.IdleDetector, l zerolog.Logger) {
	if s, ok := d.(interface{ SetLogger(zerolog.Logger) }); ok {
		s.SetLogger(l)
	}
}
