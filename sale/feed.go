package sale

import "context"

// Feed is a subscription source of sale events, typically backed by a POS
// webhook receiver or a realtime changefeed. The engine consumes the channel
// until it closes or the context is canceled. How events arrive on the
// channel is the caller's concern; the feed is the integration boundary.
type Feed interface {
	Events(ctx context.Context) (<-chan *Event, error)
}

// ChannelFeed adapts a plain channel into a Feed. Useful in tests and for
// callers that already have their own receive loop.
type ChannelFeed struct {
	C chan *Event
}

func NewChannelFeed(buffer int) *ChannelFeed {
	return &ChannelFeed{C: make(chan *Event, buffer)}
}

func (f *ChannelFeed) Events(_ context.Context) (<-chan *Event, error) {
	return f.C, nil
}

// Publish enqueues an event without blocking. Returns false if the channel
// buffer is full.
func (f *ChannelFeed) Publish(e *Event) bool {
	select {
	case f.C <- e:
		return true
	default:
		return false
	}
}

// Close stops the feed. The engine's consume loop exits when the channel drains.
func (f *ChannelFeed) Close() {
	close(f.C)
}
