package irisfast

import "context"

// MessageCallback receives every chat line pushed by the bridge.
type MessageCallback func(message *Message)

type StateCallback func(state WebSocketState)

// ReplyWriter is the part of the WebSocket that egress needs: replies go out
// as JSON frames while a connection is up.
type ReplyWriter interface {
	Connected() bool
	WriteJSON(ctx context.Context, v any) error
}

// WSClient is the bridge connection: message ingress, state changes and
// reply frames.
type WSClient interface {
	ReplyWriter
	Connect(ctx context.Context) error
	OnMessage(cb MessageCallback) int
	RemoveMessageCallback(id int)
	OnStateChange(cb StateCallback) int
	RemoveStateCallback(id int)
	Close(ctx context.Context) error
}
