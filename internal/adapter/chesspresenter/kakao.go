package chesspresenter

import "strings"

const (
	kakaoSeeMorePadding = 500
	kakaoZeroWidthSpace = "\u200b"
)

// 카카오톡 '전체보기' 접기: 첫 줄만 미리보기에 남기고 나머지는 펼쳐야 보이도록 제로폭 문자를 채운다.
func seeMore(text string) string {
	text = strings.TrimSpace(text)
	head, body, ok := strings.Cut(text, "\n")
	if !ok || strings.TrimSpace(body) == "" {
		return text
	}
	var b strings.Builder
	b.Grow(len(text) + kakaoSeeMorePadding*len(kakaoZeroWidthSpace) + 1)
	b.WriteString(head)
	b.WriteString(strings.Repeat(kakaoZeroWidthSpace, kakaoSeeMorePadding))
	b.WriteByte('\n')
	b.WriteString(body)
	return b.String()
}
