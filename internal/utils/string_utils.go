package utils

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	reScript = regexp.MustCompile(`(?i)<script[^>]*>[\s\S]*?</script>`)
	reStyle  = regexp.MustCompile(`(?i)<style[^>]*>[\s\S]*?</style>`)
	reBreak  = regexp.MustCompile(`(?i)<(br|/p|/tr|/h[1-6]|/div)[^>]*>`)
	stripper = bluemonday.StripTagsPolicy()
)

// HTMLToText turns an HTML email body into its plain-text alternative.
// Block-level closings become line breaks, everything else is stripped.
func HTMLToText(s string) string {
	// Remove script and style blocks content
	s = reScript.ReplaceAllString(s, "")
	s = reStyle.ReplaceAllString(s, "")
	s = reBreak.ReplaceAllString(s, "\n")

	// Strip tags using bluemonday, then decode what it escaped
	s = html.UnescapeString(stripper.Sanitize(s))

	// Collapse whitespace per line and drop blank lines
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// FirstForwardedFor returns the first hop of an X-Forwarded-For header.
func FirstForwardedFor(header string) string {
	first, _, _ := strings.Cut(header, ",")
	return strings.TrimSpace(first)
}
