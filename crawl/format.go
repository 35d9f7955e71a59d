package crawl

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// contentIndex remembers which page first produced each context.
type contentIndex struct {
	first map[uint64]string
}

func newContentIndex() *contentIndex {
	return &contentIndex{first: make(map[uint64]string)}
}

// add records url as the source of context and returns the URL of an
// earlier page with the same context, or "".
func (ix *contentIndex) add(context, url string) string {
	h := xxhash.Sum64String(context)
	if prev, ok := ix.first[h]; ok {
		return prev
	}
	ix.first[h] = url
	return ""
}

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatBytes formats bytes in human-readable form.
func FormatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatTokens formats a token count in human-readable form.
func FormatTokens(tokens int) string {
	if tokens < 1000 {
		return fmt.Sprintf("~%d tokens", tokens)
	}
	return fmt.Sprintf("~%dk tokens", (tokens+500)/1000)
}
