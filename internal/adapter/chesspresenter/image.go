package chesspresenter

import (
	"net/url"
	"strings"

	"github.com/park285/room-chess-bot/pkg/chessdto"
)

// DefaultImageBase renders a PNG for a FEN placement.
const DefaultImageBase = "https://backscattering.de/web-boardimage/board.png"

// ImageURL builds the board image address for s. Parameters keep a fixed
// order (fen, orientation, last_move, check) and empty ones are left out.
func ImageURL(base string, s chessdto.BoardSnapshot) string {
	base = strings.TrimSpace(base)
	if base == "" {
		base = DefaultImageBase
	}
	var b strings.Builder
	b.WriteString(base)
	sep := byte('?')
	if strings.Contains(base, "?") {
		sep = '&'
	}
	add := func(k, v string) {
		if v == "" {
			return
		}
		b.WriteByte(sep)
		sep = '&'
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(v))
	}
	add("fen", s.FEN)
	add("orientation", s.Orientation)
	add("last_move", s.LastMove)
	add("check", s.Check)
	return b.String()
}
