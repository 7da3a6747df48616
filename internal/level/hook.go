package level

import (
	"github.com/dshills/soracore/internal/ui"
)

// HookLoadingScreen drives the loading screen from the load channels: it is
// shown on LoadStarted when requested, fed on LoadProgressChanged and hidden
// on LoadFinished. The returned function removes the hooks.
func HookLoadingScreen(levels *Manager, screens *ui.Manager) (unhook func()) {
	started := levels.LoadStarted.Subscribe(func(lc LoadContext) {
		if lc.ShowLoadingScreen {
			screens.ShowScreen(ui.ScreenLoad, true)
		}
	})
	progress := levels.LoadProgressChanged.Subscribe(func(lc LoadContext) {
		if lc.ShowLoadingScreen {
			screens.UpdateLoadScreen(lc.MainProgress, lc.SubProgress)
		}
	})
	finished := levels.LoadFinished.Subscribe(func(lc LoadContext) {
		if lc.ShowLoadingScreen {
			screens.ShowScreen(ui.ScreenLoad, false)
		}
	})
	return func() {
		started.Cancel()
		progress.Cancel()
		finished.Cancel()
	}
}
