// Package emoji renders unified emoji codes such as "1f3e0" or
// "1f469-200d-1f4bb" as terminal glyphs.
package emoji

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/nhle/taskdeck/internal/model"
)

const variationSelector16 = '\uFE0F'

// Render returns the glyph for a unified code. Invalid codes render as an
// empty string. Terminals draw their own artwork, so the style only
// decides whether emoji presentation selectors are kept: the native style
// drops them.
func Render(style model.EmojiStyle, code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}

	var sb strings.Builder
	for _, part := range strings.Split(code, "-") {
		v, err := strconv.ParseUint(part, 16, 32)
		if err != nil {
			return ""
		}
		r := rune(v)
		if !utf8.ValidRune(r) {
			return ""
		}
		if r == variationSelector16 && style == model.EmojiStyleNative {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Code returns the unified code of the first glyph cluster in s, the
// inverse of Render. It returns "" for an empty string.
func Code(s string) string {
	var parts []string
	for _, r := range s {
		if r == ' ' {
			break
		}
		parts = append(parts, strconv.FormatInt(int64(r), 16))
	}
	return strings.Join(parts, "-")
}

// Expand replaces **code** markers in text with rendered glyphs.
func Expand(style model.EmojiStyle, text string) string {
	var sb strings.Builder
	for {
		start := strings.Index(text, "**")
		if start < 0 {
			break
		}
		end := strings.Index(text[start+2:], "**")
		if end < 0 {
			break
		}
		sb.WriteString(text[:start])
		sb.WriteString(Render(style, text[start+2:start+2+end]))
		text = text[start+2+end+2:]
	}
	sb.WriteString(text)
	return sb.String()
}

// Normalize turns user input, either a glyph or a unified code, into a
// unified code. It returns "" for empty input and for plain text.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if code := strings.ToLower(s); isEmojiCode(code) {
		return code
	}
	if code := Code(s); isEmojiCode(code) {
		return code
	}
	return ""
}

// isEmojiCode reports whether code renders and looks like an emoji rather
// than text: it starts at or above the letterlike symbols block or carries
// a presentation or keycap selector.
func isEmojiCode(code string) bool {
	if Render(model.EmojiStyleApple, code) == "" {
		return false
	}
	parts := strings.Split(code, "-")
	first, err := strconv.ParseUint(parts[0], 16, 32)
	if err != nil {
		return false
	}
	if first >= 0x2100 {
		return true
	}
	for _, p := range parts[1:] {
		if p == "fe0f" || p == "20e3" {
			return true
		}
	}
	return false
}
