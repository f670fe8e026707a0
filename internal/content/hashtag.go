package content

import "strings"

// NormalizeHashtags cleans model-provided hashtags before they reach the
// publish client. For each tag: surrounding whitespace is trimmed, empty
// results are dropped, any run of leading '#' characters is collapsed to
// exactly one, and tags that were made of '#' characters only are dropped.
// Order is preserved and duplicates are kept. The transform is idempotent.
func NormalizeHashtags(raw []string) []string {
	normalized := make([]string, 0, len(raw))
	for _, tag := range raw {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		tag = "#" + strings.TrimLeft(tag, "#")
		if tag == "#" {
			continue
		}
		normalized = append(normalized, tag)
	}
	return normalized
}
