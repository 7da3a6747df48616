// Package level is the level loading facility.
//
// Manager.Load asks the active Provider to load a level. The provider drives
// a host Loader and reports the load on three channels: LoadStarted, then any
// number of LoadProgressChanged, then LoadFinished. LoadFinished is emitted
// even when the load fails, with LoadContext.Err set.
package level
