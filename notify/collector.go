package notify

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/propstore"
)

// Update identifies one property of one instance.
type Update struct {
	Store      *propstore.Store
	Descriptor *propstore.Descriptor
}

// Collector records pending updates in first-update order. Thread-safe.
type Collector struct {
	seen    map[Update]struct{}
	pending []Update
	mu      sync.Mutex
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		seen: make(map[Update]struct{}),
	}
}

// PropertyUpdated implements propstore.UpdateHook.
func (c *Collector) PropertyUpdated(s *propstore.Store, d *propstore.Descriptor) {
	u := Update{Store: s, Descriptor: d}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.seen[u]; ok {
		return
	}
	c.seen[u] = struct{}{}
	c.pending = append(c.pending, u)
}

// Install makes c the process-wide update hook. The returned function
// reinstates the previous hook.
func (c *Collector) Install() (restore func()) {
	prev := propstore.SetUpdateHook(c)
	return func() { propstore.SetUpdateHook(prev) }
}

// Pending returns a snapshot of the pending updates.
func (c *Collector) Pending() []Update {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Update, len(c.pending))
	copy(out, c.pending)
	return out
}

// Len returns the number of pending updates.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Reset drops every pending update without transferring it.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pending = nil
	clear(c.seen)
}

// Publish transfers every pending update and returns how many were
// transferred. On the first Transfer error it stops; the failed update and
// those after it stay pending.
func (c *Collector) Publish() (int, error) {
	return c.publish(func(Update) bool { return true })
}

// PublishStore is like Publish but only transfers the updates of s.
func (c *Collector) PublishStore(s *propstore.Store) (int, error) {
	return c.publish(func(u Update) bool { return u.Store == s })
}

func (c *Collector) publish(match func(Update) bool) (int, error) {
	c.mu.Lock()
	batch := c.pending
	c.pending = nil
	c.mu.Unlock()

	var keep []Update
	done := 0
	var err error
	for i, u := range batch {
		if !match(u) {
			keep = append(keep, u)
			continue
		}
		if err = u.Store.Transfer(u.Descriptor); err != nil {
			keep = append(keep, batch[i:]...)
			break
		}
		done++
	}

	c.mu.Lock()
	clear(c.seen)
	// Updates recorded while publishing go after the ones kept back.
	merged := make([]Update, 0, len(keep)+len(c.pending))
	for _, u := range append(keep, c.pending...) {
		if _, dup := c.seen[u]; dup {
			continue
		}
		c.seen[u] = struct{}{}
		merged = append(merged, u)
	}
	c.pending = merged
	c.mu.Unlock()

	if err != nil {
		Logger().Debug("publish stopped",
			zap.Int("transferred", done),
			zap.Int("pending", len(merged)),
			zap.Error(err))
		return done, err
	}
	Logger().Debug("published", zap.Int("transferred", done), zap.Int("pending", len(merged)))
	return done, nil
}
