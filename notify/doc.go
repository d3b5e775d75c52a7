// Package notify collects property updates reported through
// propstore.UpdateHook and publishes them with Store.Transfer.
//
// A Collector is the pending-update list a frame loop or command processor
// drains at its synchronization point:
//
//	c := notify.NewCollector()
//	restore := c.Install()
//	defer restore()
//
//	_ = scene.NodePosition.Set(mesh, pos) // recorded
//	n, err := c.Publish()                 // transferred to the cached region
//
// Each (store, descriptor) pair is recorded once until it is published.
// The Collector is safe for concurrent use; the stores it publishes are not,
// so Publish must not race with writers of the same store.
package notify
