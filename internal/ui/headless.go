package ui

import (
	"sync"

	"github.com/dshills/soracore/internal/diag"
)

// HeadlessScreen is a LoadingScreen without a display. It records its state
// and reports changes as debug diagnostics.
type HeadlessScreen struct {
	report diag.Reporter

	mu       sync.Mutex
	visible  bool
	progress LoadProgress
}

// NewHeadlessScreen creates a screen reporting to sink under name.
func NewHeadlessScreen(name string, sink diag.Sink) *HeadlessScreen {
	return &HeadlessScreen{report: diag.For(sink, "ui."+name)}
}

// Show implements Screen.
func (s *HeadlessScreen) Show(visible bool) {
	s.mu.Lock()
	s.visible = visible
	s.mu.Unlock()
	s.report.Debug("show", "visible", visible)
}

// SetProgress implements LoadingScreen.
func (s *HeadlessScreen) SetProgress(main, sub float64) {
	s.mu.Lock()
	s.progress = LoadProgress{Main: main, Sub: sub}
	s.mu.Unlock()
	s.report.Debug("progress", "main", main, "sub", sub)
}

// Visible reports the last visibility.
func (s *HeadlessScreen) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// Progress returns the last progress.
func (s *HeadlessScreen) Progress() LoadProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

// HeadlessScreens returns a headless controller for menu, gameplay and
// inventory plus a headless loading screen.
func HeadlessScreens(sink diag.Sink) (map[ScreenType]Screen, *HeadlessScreen) {
	screens := map[ScreenType]Screen{
		ScreenMenu:      NewHeadlessScreen(ScreenMenu.String(), sink),
		ScreenGameplay:  NewHeadlessScreen(ScreenGameplay.String(), sink),
		ScreenInventory: NewHeadlessScreen(ScreenInventory.String(), sink),
	}
	return screens, NewHeadlessScreen(ScreenLoad.String(), sink)
}
