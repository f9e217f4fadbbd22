package websockets

import (
	"context"
)

// Publisher defines the interface for publishing messages to realtime clients.
type Publisher interface {
	Publish(ctx context.Context, message Message) error
}
