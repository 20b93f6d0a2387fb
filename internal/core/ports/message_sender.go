package ports

import "context"

// MessageSender is the outbound message-send primitive. Implementations are
// expected to bound each call with a finite timeout; an error describes a
// delivery failure the dispatcher may retry.
type MessageSender interface {
	// Send delivers one message and returns the channel-side message
	// identifier when the channel provides one.
	Send(ctx context.Context, recipient, subject, body string) (externalID string, err error)
}
