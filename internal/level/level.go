package level

import (
	"errors"

	"github.com/dshills/soracore/internal/event"
	"github.com/dshills/soracore/internal/facade"
)

// Operation and channel names.
const (
	FacadeName          = "level"
	OpLoad              = "level.load"
	LoadStartedChannel  = "level.load_started"
	LoadProgressChannel = "level.load_progress"
	LoadFinishedChannel = "level.load_finished"
)

// Errors reported by the provider.
var (
	ErrEmptyLevel     = errors.New("level: empty level name")
	ErrLoadInProgress = errors.New("level: load already in progress")
)

// LoadRequest asks for a level.
type LoadRequest struct {
	Level             string
	ShowLoadingScreen bool
}

// LoadContext describes a load in progress.
type LoadContext struct {
	Level             string
	ShowLoadingScreen bool
	MainProgress      float64
	SubProgress       float64

	// Err is set on LoadFinished when the load failed.
	Err error
}

// Manager is the caller-side surface of the level facility.
type Manager struct {
	facade *facade.Facade
	load   *facade.Slot[LoadRequest]

	LoadStarted         *event.Channel[LoadContext]
	LoadProgressChanged *event.Channel[LoadContext]
	LoadFinished        *event.Channel[LoadContext]
}

// Channels groups the level channels. Nil fields get private channels.
type Channels struct {
	Started  *event.Channel[LoadContext]
	Progress *event.Channel[LoadContext]
	Finished *event.Channel[LoadContext]
}

// NewManager adds the level operation to f.
func NewManager(f *facade.Facade, ch Channels) *Manager {
	if ch.Started == nil {
		ch.Started = event.NewChannel[LoadContext](LoadStartedChannel)
	}
	if ch.Progress == nil {
		ch.Progress = event.NewChannel[LoadContext](LoadProgressChannel)
	}
	if ch.Finished == nil {
		ch.Finished = event.NewChannel[LoadContext](LoadFinishedChannel)
	}
	return &Manager{
		facade:              f,
		load:                facade.NewSlot[LoadRequest](f, OpLoad, facade.WithPolicy(facade.PolicyExclusive)),
		LoadStarted:         ch.Started,
		LoadProgressChanged: ch.Progress,
		LoadFinished:        ch.Finished,
	}
}

// Facade returns the underlying facade.
func (m *Manager) Facade() *facade.Facade { return m.facade }

// Load loads level, optionally behind the loading screen.
func (m *Manager) Load(level string, showLoadingScreen bool) {
	m.load.Invoke(LoadRequest{Level: level, ShowLoadingScreen: showLoadingScreen})
}
