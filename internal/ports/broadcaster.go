package ports

import "manygolf/internal/protocol"

// Broadcaster delivers messages to the clients of one session.
// Delivery is fire-and-forget; an error means the message was dropped and
// must not be retried by the caller.
type Broadcaster interface {
	// SendAll delivers msg to every connected client.
	SendAll(msg protocol.Message) error

	// SendTo delivers msg to the client of the given player only.
	SendTo(playerID string, msg protocol.Message) error
}
