// Package notify defines the notification dispatcher contract. Dispatch
// is fire-and-forget: a dispatcher must never block or fail the ledger
// operation that triggered it.
package notify

import (
	"github.com/sirupsen/logrus"
)

// Message is one outbound notification, optionally with an attached
// document (a rendered receipt or dues notice).
type Message struct {
	To             []string
	Subject        string
	Body           string
	Attachment     []byte
	AttachmentName string
}

// Dispatcher sends messages asynchronously. Implementations swallow and
// log their own failures; nothing propagates back to the caller.
type Dispatcher interface {
	Dispatch(msg Message)
}

// LogDispatcher records every message through the logger instead of an
// outbound channel. It is the default dispatcher and the test double.
type LogDispatcher struct {
	log *logrus.Logger
}

// NewLogDispatcher creates a LogDispatcher.
func NewLogDispatcher(log *logrus.Logger) *LogDispatcher {
	return &LogDispatcher{log: log}
}

// Dispatch logs the message.
func (d *LogDispatcher) Dispatch(msg Message) {
	d.log.WithFields(logrus.Fields{
		"to":         msg.To,
		"subject":    msg.Subject,
		"attachment": msg.AttachmentName,
		"bytes":      len(msg.Attachment),
	}).Info("notification dispatched")
}
