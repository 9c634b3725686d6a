package monitor

// Notifier is a level-triggered "status changed" signal. Notify coalesces:
// however many cycles complete between reads, the consumer wakes once and
// re-reads the cache. A slow or absent consumer never blocks the loop.
type Notifier struct {
	ch chan struct{}
}

// NewNotifier creates a notifier.
func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan struct{}, 1)}
}

// Notify marks the status as changed. Never blocks.
func (n *Notifier) Notify() {
	select {
	case n.ch <- struct{}{}:
	default:
	}
}

// Wait returns the channel the consumer receives on. One receive observes
// all notifications since the previous receive.
func (n *Notifier) Wait() <-chan struct{} {
	return n.ch
}
