// Package htmltomarkdown converts HTML documents to Markdown so job
// descriptions saved from web pages keep their headings and bullet lists.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/RadchaneepornC/officebuddy"
)

// Ensure Converter implements officebuddy.Converter at compile time.
var _ officebuddy.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a Converter with the commonmark and table plugins.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML into Markdown. Input without any visible text
// is rejected.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", officebuddy.Errorf(officebuddy.EINVALID, "empty HTML input")
	}

	md, err := c.conv.ConvertString(html)
	if err != nil {
		return "", officebuddy.Errorf(officebuddy.EINVALID, "convert HTML: %v", err)
	}

	md = strings.TrimSpace(md)
	if md == "" {
		return "", officebuddy.Errorf(officebuddy.EINVALID, "HTML has no text")
	}
	return md, nil
}
