package service

import (
	"log/slog"
	"strconv"

	"coinboard/internal/domain"
)

// KeyDarkMode is the storage slot of the display preference.
const KeyDarkMode = "darkMode"

// Preferences persists user display settings.
type Preferences struct {
	store domain.KeyValueStore
}

// NewPreferences creates a Preferences over store
func NewPreferences(store domain.KeyValueStore) *Preferences {
	return &Preferences{store: store}
}

// DarkMode reports the saved preference; anything but "true" is off.
func (p *Preferences) DarkMode() bool {
	v, _ := p.store.Get(KeyDarkMode)
	return v == "true"
}

// SetDarkMode saves the preference. A storage failure only costs durability.
func (p *Preferences) SetDarkMode(on bool) {
	if err := p.store.Put(KeyDarkMode, strconv.FormatBool(on)); err != nil {
		slog.Warn("Preference not persisted", slog.String("key", KeyDarkMode), slog.Any("error", err))
	}
}

// ToggleDarkMode flips the preference and returns the new value
func (p *Preferences) ToggleDarkMode() bool {
	on := !p.DarkMode()
	p.SetDarkMode(on)
	return on
}
