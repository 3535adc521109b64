package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/villagedex/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgProgressUpdate MsgKind = iota
	MsgLoaded
	MsgSearchTick
	MsgDatasetChanged
)

type loadOutcome struct {
	result *tasks.LoadResult
	err    error
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// loadedMsg is the constructor for [MsgLoaded]
func loadedMsg(result *tasks.LoadResult, err error) Msg {
	return Msg{kind: MsgLoaded, data: loadOutcome{result: result, err: err}}
}

// searchTickMsg is the constructor for [MsgSearchTick]. seq identifies the
// keystroke that scheduled it; stale ticks are dropped.
func searchTickMsg(seq int) Msg {
	return Msg{kind: MsgSearchTick, data: seq}
}

// datasetChangedMsg is the constructor for [MsgDatasetChanged]
func datasetChangedMsg() Msg {
	return Msg{kind: MsgDatasetChanged}
}
