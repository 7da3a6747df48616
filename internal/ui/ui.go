package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/soracore/internal/facade"
)

// ErrUnknownScreen is returned for a screen the provider has no controller
// for.
var ErrUnknownScreen = errors.New("ui: unknown screen")

// Operation names.
const (
	FacadeName         = "ui"
	OpShowScreen       = "ui.show_screen"
	OpUpdateLoadScreen = "ui.update_load_screen"
)

// ScreenType identifies a screen.
type ScreenType int

const (
	ScreenMenu ScreenType = iota
	ScreenLoad
	ScreenGameplay
	ScreenInventory
)

var screenNames = [...]string{"menu", "load", "gameplay", "inventory"}

// String returns the screen name.
func (s ScreenType) String() string {
	if s >= 0 && int(s) < len(screenNames) {
		return screenNames[s]
	}
	return fmt.Sprintf("ScreenType(%d)", int(s))
}

// ParseScreenType parses a screen name.
func ParseScreenType(name string) (ScreenType, error) {
	for i, n := range screenNames {
		if strings.EqualFold(n, name) {
			return ScreenType(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownScreen, name)
}

// ShowScreen requests a visibility change.
type ShowScreen struct {
	Screen  ScreenType
	Visible bool
}

// LoadProgress carries the loading screen's two progress bars, each in
// [0, 1].
type LoadProgress struct {
	Main float64
	Sub  float64
}

// Manager is the caller-side surface of the UI facility.
type Manager struct {
	facade         *facade.Facade
	showScreen     *facade.Slot[ShowScreen]
	updateProgress *facade.Slot[LoadProgress]
}

// NewManager adds the UI operations to f.
func NewManager(f *facade.Facade) *Manager {
	return &Manager{
		facade:         f,
		showScreen:     facade.NewSlot[ShowScreen](f, OpShowScreen),
		updateProgress: facade.NewSlot[LoadProgress](f, OpUpdateLoadScreen),
	}
}

// Facade returns the underlying facade.
func (m *Manager) Facade() *facade.Facade { return m.facade }

// ShowScreen shows or hides a screen.
func (m *Manager) ShowScreen(s ScreenType, visible bool) {
	m.showScreen.Invoke(ShowScreen{Screen: s, Visible: visible})
}

// UpdateLoadScreen sets the loading screen progress.
func (m *Manager) UpdateLoadScreen(main, sub float64) {
	m.updateProgress.Invoke(LoadProgress{Main: main, Sub: sub})
}
