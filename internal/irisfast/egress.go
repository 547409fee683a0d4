package irisfast

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Egress abstracts message/image sending over HTTP or WebSocket.
type Egress interface {
	SendText(ctx context.Context, room, message string) error
	SendImage(ctx context.Context, room, imageBase64 string) error
}

type transportMode string

const (
	transportHTTP transportMode = "http"
	transportWS   transportMode = "ws"
	transportAuto transportMode = "auto"
)

var errNotConnected = errors.New("ws not connected")

// NewEgress creates an Egress based on mode ("http", "ws" or "auto"). In auto
// mode the WebSocket is preferred while connected and a failed write falls
// back to HTTP once. dryrun only logs outgoing frames.
func NewEgress(mode string, dryrun bool, c *Client, ws ReplyWriter, logger *zap.Logger) Egress {
	if logger == nil {
		logger = zap.NewNop()
	}
	var out Egress
	switch transportMode(mode) {
	case transportWS:
		out = &wsEgress{ws: ws}
	case transportAuto:
		out = &autoEgress{ws: &wsEgress{ws: ws}, http: &httpEgress{c: c}, logger: logger}
	default:
		out = &httpEgress{c: c}
	}
	if dryrun {
		return &dryrunEgress{logger: logger}
	}
	return out
}

type httpEgress struct{ c *Client }

func (h *httpEgress) SendText(ctx context.Context, room, message string) error {
	if h == nil || h.c == nil {
		return errors.New("http egress not available")
	}
	return h.c.SendMessage(ctx, room, message)
}

func (h *httpEgress) SendImage(ctx context.Context, room, imageBase64 string) error {
	if h == nil || h.c == nil {
		return errors.New("http egress not available")
	}
	return h.c.SendImage(ctx, room, imageBase64)
}

// wsEgress writes ReplyRequest frames over the WebSocket.
type wsEgress struct {
	ws ReplyWriter
}

func (w *wsEgress) SendText(ctx context.Context, room, message string) error {
	return w.write(ctx, &ReplyRequest{Type: "text", Room: room, Data: message})
}

func (w *wsEgress) SendImage(ctx context.Context, room, imageBase64 string) error {
	return w.write(ctx, &ImageReplyRequest{Type: "image", Room: room, Data: imageBase64})
}

func (w *wsEgress) write(ctx context.Context, v any) error {
	if w == nil || w.ws == nil {
		return errors.New("ws egress not available")
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	return w.ws.WriteJSON(ctx, v)
}

type autoEgress struct {
	ws     *wsEgress
	http   *httpEgress
	logger *zap.Logger
}

func (a *autoEgress) SendText(ctx context.Context, room, message string) error {
	if a.ws.ws != nil && a.ws.ws.Connected() {
		if err := a.ws.SendText(ctx, room, message); err == nil {
			return nil
		}
		a.logger.Warn("egress_fallback", zap.String("type", "text"), zap.String("room", room))
	}
	return a.http.SendText(ctx, room, message)
}

func (a *autoEgress) SendImage(ctx context.Context, room, imageBase64 string) error {
	if a.ws.ws != nil && a.ws.ws.Connected() {
		if err := a.ws.SendImage(ctx, room, imageBase64); err == nil {
			return nil
		}
		a.logger.Warn("egress_fallback", zap.String("type", "image"), zap.String("room", room))
	}
	return a.http.SendImage(ctx, room, imageBase64)
}

type dryrunEgress struct{ logger *zap.Logger }

func (d *dryrunEgress) SendText(_ context.Context, room, message string) error {
	d.logger.Info("egress_dryrun", zap.String("type", "text"), zap.String("room", room), zap.String("text", message))
	return nil
}

func (d *dryrunEgress) SendImage(_ context.Context, room, imageBase64 string) error {
	d.logger.Info("egress_dryrun", zap.String("type", "image"), zap.String("room", room), zap.Int("bytes", len(imageBase64)))
	return nil
}
