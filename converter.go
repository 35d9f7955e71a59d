package officebuddy

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML into Markdown, keeping headings, lists and
	// tables so later stages can see the document structure.
	Convert(html string) (string, error)
}
