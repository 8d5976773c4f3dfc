package storage

import (
	"context"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// InmemoryStore keeps the talk dictionary as a single JSON document of
// event → script pairs. Event identifiers are used as JSON paths, so
// they should not contain gjson path syntax beyond the dot.
type InmemoryStore struct {
	mu    sync.Mutex
	talks []byte

	updateChans []chan *Update

	// stop will be closed when Close() is called
	stop chan struct{}
}

func NewInmemoryStore() *InmemoryStore {
	return &InmemoryStore{
		talks:       []byte(""),
		stop:        make(chan struct{}),
		updateChans: make([]chan *Update, 0),
	}
}

func (i *InmemoryStore) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	// close(stop) must happen under the mutex, or two racing Close
	// calls can both see the store as running and double-close it.
	if i.isRunning() {
		close(i.stop)
	}

	for _, updateChan := range i.updateChans {
		close(updateChan)
	}

	i.updateChans = nil

	return nil
}

// Lookup returns the script taught for event, if any.
func (i *InmemoryStore) Lookup(ctx context.Context, event string) (string, bool, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	result := gjson.GetBytes(i.talks, event)
	if !result.Exists() {
		return "", false, nil
	}

	return result.String(), true, nil
}

// Teach writes the script for event, overwriting any previous one, and
// broadcasts the change to update listeners.
func (i *InmemoryStore) Teach(ctx context.Context, event, script string) (err error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.talks, err = sjson.SetBytes(i.talks, event, script)
	if err != nil {
		return err
	}

	if i.isRunning() {
		for _, updateChan := range i.updateChans {
			select {
			case updateChan <- &Update{Event: event, Script: script}:

			default:
				// A listener that stopped draining loses updates rather
				// than wedging Teach while the mutex is held.
			}
		}
	}

	return nil
}

func (i *InmemoryStore) ListenToUpdates() <-chan *Update {
	i.mu.Lock()
	defer i.mu.Unlock()

	updateChan := make(chan *Update, 255)
	i.updateChans = append(i.updateChans, updateChan)

	return updateChan
}

func (i *InmemoryStore) Restore(talks []byte) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.talks = talks
	return nil
}

func (i *InmemoryStore) Backup() ([]byte, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if len(i.talks) == 0 {
		return []byte("{}"), nil
	}

	return i.talks, nil
}

// isRunning returns true if Close has not been called
func (i *InmemoryStore) isRunning() bool {
	select {
	case <-i.stop:
		return false

	default:
		return true
	}
}

var _ Store = (*InmemoryStore)(nil)
