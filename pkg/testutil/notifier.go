package testutil

import "context"

// ChannelNotifier is a types.Notifier driven by the test. Every Wait first
// announces itself on Waiting, then blocks until Notify, Fail or ctx.
type ChannelNotifier struct {
	signals chan error
	waiting chan struct{}
}

// NewChannelNotifier returns an idle notifier.
func NewChannelNotifier() *ChannelNotifier {
	return &ChannelNotifier{
		signals: make(chan error),
		waiting: make(chan struct{}, 64),
	}
}

// Waiting receives one value each time Wait starts blocking.
func (n *ChannelNotifier) Waiting() <-chan struct{} {
	return n.waiting
}

// Notify wakes the waiter with a change.
func (n *ChannelNotifier) Notify() {
	n.signals <- nil
}

// Fail wakes the waiter with err.
func (n *ChannelNotifier) Fail(err error) {
	n.signals <- err
}

// Wait implements types.Notifier.
func (n *ChannelNotifier) Wait(ctx context.Context) error {
	select {
	case n.waiting <- struct{}{}:
	default:
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-n.signals:
		return err
	}
}
