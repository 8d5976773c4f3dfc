package storage

import "context"

// Update is broadcast whenever a single talk entry changes.
type Update struct {
	Event  string
	Script string
}

// Store holds a ghost's talk dictionary: the sakura scripts it answers
// events with, keyed by event identifier.
type Store interface {
	Lookup(ctx context.Context, event string) (string, bool, error)
	Teach(ctx context.Context, event, script string) error

	Restore(talks []byte) error
	Backup() ([]byte, error)

	ListenToUpdates() <-chan *Update

	Close() error
}
