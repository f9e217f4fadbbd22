package websockets

import "context"

// NoOpPublisher drops every message. It is used when no Redis address is configured.
type NoOpPublisher struct{}

// Publish does nothing.
func (p *NoOpPublisher) Publish(ctx context.Context, message Message) error {
	return nil
}
