// Package ui is the screen facility: callers show and hide screens and feed
// the loading screen's progress bars through a Manager, and a Provider
// forwards those requests to screen controllers owned by the host.
package ui
