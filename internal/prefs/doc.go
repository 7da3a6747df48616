// Package prefs persists player preferences as a flat JSON document.
package prefs
