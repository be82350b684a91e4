package messaging

import "context"

// Broker publishes messages to named channels for out-of-process
// consumers. Dispatch through a Broker is always best-effort.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Close() error
}
