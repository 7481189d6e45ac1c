// Package logout delivers the "session ended" signal from the request
// gateway to whichever screen is currently active.
package logout

import "sync"

// Notifier holds at most one handler. Registering a new handler replaces the
// previous one.
type Notifier struct {
	mu      sync.Mutex
	handler func()
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

// SetHandler installs fn as the only handler. A nil fn unregisters.
func (n *Notifier) SetHandler(fn func()) {
	n.mu.Lock()
	n.handler = fn
	n.mu.Unlock()
}

// Trigger invokes the current handler, if any. The handler runs outside the
// lock so it may call SetHandler itself.
func (n *Notifier) Trigger() {
	n.mu.Lock()
	fn := n.handler
	n.mu.Unlock()

	if fn != nil {
		fn()
	}
}
