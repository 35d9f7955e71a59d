package main_test

import (
	"bytes"
	"testing"
	"time"

	main "github.com/RadchaneepornC/officebuddy/cmd/officebuddy"
	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLI_Defaults(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	parser, err := kong.New(cli,
		kong.Writers(&bytes.Buffer{}, &bytes.Buffer{}),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	_, err = parser.Parse([]string{"crawl"})
	require.NoError(t, err)

	assert.Equal(t, "https://www.rd.go.th/548.html", cli.Crawl.URL)
	assert.Equal(t, 15*time.Second, cli.Crawl.Timeout)
	assert.Equal(t, 1, cli.Crawl.Concurrency)
	assert.Equal(t, "knowledge_base.json", cli.Crawl.Output)
	assert.Equal(t, []string{".env"}, cli.EnvFile)
	assert.Equal(t, "blocks", cli.Crawl.Extractor)
	assert.False(t, cli.Crawl.Browser)
	assert.False(t, cli.Verbose)
}

func TestCLI_ExtractDefaults(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	parser, err := kong.New(cli, kong.Exit(func(int) {}))
	require.NoError(t, err)

	_, err = parser.Parse([]string{"extract", "some text"})
	require.NoError(t, err)

	assert.Equal(t, "job", cli.Extract.Kind)
	assert.Equal(t, main.DefaultJobOutput, cli.Extract.Output)
	assert.Zero(t, cli.Extract.Steps)

	_, err = parser.Parse([]string{"extract", "--kind", "letter", "some text"})
	assert.Error(t, err)
}

func TestCLI_SearchKeywords(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	parser, err := kong.New(cli, kong.Exit(func(int) {}))
	require.NoError(t, err)

	_, err = parser.Parse([]string{"search", "-k", "vat", "-k", "tax", "question"})
	require.NoError(t, err)

	assert.Equal(t, []string{"vat", "tax"}, cli.Search.Keyword)
	assert.Equal(t, 3, cli.Search.Limit)
	assert.Equal(t, "knowledge_base.json", cli.Search.Corpus)
}
