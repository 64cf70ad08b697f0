package ir

import "strings"

// anchorStrip is removed from titles before the character filter runs.
const anchorStrip = "()[]{}<>\"'/\\|?*&%$#@!^~`+=,.;:"

// Anchor derives the in-document link target for a heading title.
// Duplicate titles produce duplicate anchors.
func Anchor(title string) string {
	s := strings.ToLower(title)
	s = strings.ReplaceAll(s, " ", "-")

	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(anchorStrip, r) {
			continue
		}
		if isAnchorRune(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func isAnchorRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_'
}
