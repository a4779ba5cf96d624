package extract

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
)

var (
	scriptRe = regexp.MustCompile(`(?is)<script\b.*?</script>`)
	styleRe  = regexp.MustCompile(`(?is)<style\b.*?</style>`)
	tagRe    = regexp.MustCompile(`<[^>]+>`)
)

// readMarkdown renders markdown to HTML with goldmark, then strips the tags.
// Rendering first keeps link text and drops raw markdown punctuation.
func readMarkdown(data []byte) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert(data, &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return stripHTML(buf.String()), nil
}

// readHTML removes script and style blocks, then the remaining tags.
func readHTML(data []byte) (string, error) {
	return stripHTML(strings.ToValidUTF8(string(data), "")), nil
}

func stripHTML(s string) string {
	s = scriptRe.ReplaceAllString(s, " ")
	s = styleRe.ReplaceAllString(s, " ")
	s = tagRe.ReplaceAllString(s, " ")
	s = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&#39;", "'", "&nbsp;", " ").Replace(s)
	return s
}
