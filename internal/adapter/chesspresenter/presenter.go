package chesspresenter

import (
	"context"
	"encoding/base64"
	"strings"

	"go.uber.org/zap"

	"github.com/park285/room-chess-bot/pkg/chessdto"
)

// Sender delivers replies to a room. irisfast.Egress satisfies it.
type Sender interface {
	SendText(ctx context.Context, room, message string) error
	SendImage(ctx context.Context, room, imageBase64 string) error
}

// ImageFetcher downloads a rendered board. irisfast.Client satisfies it.
type ImageFetcher interface {
	Download(ctx context.Context, rawURL string) ([]byte, error)
}

// Presenter delivers formatted messages and board images without coupling to the command layer.
type Presenter struct {
	out       Sender
	fetcher   ImageFetcher
	imageBase string
	logger    *zap.Logger
}

// NewPresenter builds a presenter. With a nil fetcher boards are sent as
// image links.
func NewPresenter(out Sender, fetcher ImageFetcher, imageBase string, logger *zap.Logger) *Presenter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Presenter{out: out, fetcher: fetcher, imageBase: imageBase, logger: logger}
}

func (p *Presenter) Text(ctx context.Context, room, message string) error {
	if p == nil || p.out == nil || strings.TrimSpace(message) == "" {
		return nil
	}
	return p.out.SendText(ctx, room, message)
}

// Board sends the caption and then the board image. When the image cannot
// be fetched the link is sent instead.
func (p *Presenter) Board(ctx context.Context, room, caption string, s chessdto.BoardSnapshot) error {
	if p == nil || p.out == nil {
		return nil
	}
	if err := p.Text(ctx, room, caption); err != nil {
		return err
	}

	link := ImageURL(p.imageBase, s)
	if p.fetcher != nil {
		png, err := p.fetcher.Download(ctx, link)
		if err == nil {
			return p.out.SendImage(ctx, room, base64.StdEncoding.EncodeToString(png))
		}
		p.logger.Warn("board_image_fetch_error", zap.String("room", room), zap.String("url", link), zap.Error(err))
	}
	return p.out.SendText(ctx, room, link)
}
