package service

import (
	"log"

	"github.com/tieubaoca/chatpdf/types"
)

// Notifier delivers out-of-band notices to the user.
type Notifier interface {
	Notify(level, text string)
}

// StateObserver is told about every change of the chat client state.
type StateObserver interface {
	StateChanged(state types.ChatState)
}

type LogNotifier struct{}

func (LogNotifier) Notify(level, text string) {
	log.Printf("[%s] %s", level, text)
}

// MultiNotifier fans a notice out to several notifiers.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(level, text string) {
	for _, n := range m {
		n.Notify(level, text)
	}
}
