package crawl_test

import (
	"testing"

	"github.com/RadchaneepornC/officebuddy/crawl"
	"github.com/stretchr/testify/assert"
)

func TestTruncateURL(t *testing.T) {
	t.Parallel()

	t.Run("returns URL unchanged when shorter than max", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "https://x.com", crawl.TruncateURL("https://x.com", 50))
	})

	t.Run("truncates with ellipsis when longer than max", func(t *testing.T) {
		t.Parallel()
		url := "https://www.rd.go.th/kb/personal/allowance/548.html"
		result := crawl.TruncateURL(url, 20)
		assert.Equal(t, "...llowance/548.html", result)
		assert.Len(t, result, 20)
	})

	t.Run("returns a prefix for tiny limits", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "htt", crawl.TruncateURL("https://x.com", 3))
		assert.Empty(t, crawl.TruncateURL("https://x.com", 0))
	})
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	t.Run("formats bytes as B", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "512 B", crawl.FormatBytes(512))
	})

	t.Run("formats kilobytes as KB", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "1.5 KB", crawl.FormatBytes(1536))
	})

	t.Run("formats megabytes as MB", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "2.0 MB", crawl.FormatBytes(2*1024*1024))
	})
}

func TestFormatTokens(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "~999 tokens", crawl.FormatTokens(999))
	assert.Equal(t, "~1k tokens", crawl.FormatTokens(1000))
	assert.Equal(t, "~13k tokens", crawl.FormatTokens(12500))
}
