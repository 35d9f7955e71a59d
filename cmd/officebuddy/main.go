package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/RadchaneepornC/officebuddy"
	"github.com/RadchaneepornC/officebuddy/config"
	"github.com/RadchaneepornC/officebuddy/crawl"
	"github.com/RadchaneepornC/officebuddy/docconv"
	"github.com/RadchaneepornC/officebuddy/extract"
	"github.com/RadchaneepornC/officebuddy/fs"
	"github.com/RadchaneepornC/officebuddy/gemini"
	"github.com/RadchaneepornC/officebuddy/goquery"
	"github.com/RadchaneepornC/officebuddy/htmltomarkdown"
	obhttp "github.com/RadchaneepornC/officebuddy/http"
	"github.com/RadchaneepornC/officebuddy/openai"
	"github.com/RadchaneepornC/officebuddy/readability"
	"github.com/RadchaneepornC/officebuddy/retry"
	"github.com/RadchaneepornC/officebuddy/rod"
	obslog "github.com/RadchaneepornC/officebuddy/slog"
	"github.com/RadchaneepornC/officebuddy/trafilatura"
	"github.com/alecthomas/kong"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Services for end-to-end testing. When set, Run uses them instead of
	// connecting to a model provider or the network.
	Completer    officebuddy.Completer
	Fetcher      officebuddy.Fetcher
	TokenCounter officebuddy.TokenCounter

	// RetryPolicy overrides retry.DefaultPolicy when set.
	RetryPolicy *retry.Policy
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("officebuddy"),
		kong.Description("Extract structured data from documents and build question/answer corpora"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'officebuddy --help' to see available commands")
	}
	if len(args) == 1 && (args[0] == "help" || args[0] == "--help" || args[0] == "-h") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Logger = newLogger(stderr, cli.Verbose)

	var cmd string
	if node := kongCtx.Selected(); node != nil {
		cmd = node.Name
	}

	// Wire command-specific dependencies based on command
	switch cmd {
	case "extract":
		completer, err := m.completer(ctx, cli, deps.Logger, stderr)
		if err != nil {
			return err
		}
		deps.Pipeline = extract.NewPipeline(completer,
			extract.WithStages(cli.Extract.stages()...),
			extract.WithLogger(deps.Logger),
		)
		deps.Loader = docconv.NewLoader(docconv.WithHTMLConverter(htmltomarkdown.NewConverter()))
		if cli.Extract.CountTokens {
			if deps.TokenCounter, err = m.tokenCounter(); err != nil {
				return err
			}
		}

	case "crawl":
		fetcher, err := m.fetcher(cli.Crawl, stderr)
		if err != nil {
			return err
		}
		defer fetcher.Close()

		deps.Crawler = &crawl.Crawler{
			Fetcher:     obslog.NewLoggingFetcher(fetcher, deps.Logger),
			Links:       goquery.NewSidebarSelector(),
			Records:     recordExtractor(cli.Crawl.Extractor),
			Timeout:     cli.Crawl.Timeout,
			Concurrency: cli.Crawl.Concurrency,
		}
		if cli.Crawl.RPS > 0 {
			deps.Crawler.RateLimiter = crawl.NewDomainLimiter(cli.Crawl.RPS)
		}
		if cli.Crawl.CountTokens {
			if deps.TokenCounter, err = m.tokenCounter(); err != nil {
				return err
			}
		}

	case "search":
		corpus, err := openCorpus(cli.Search.CorpusFlags, stderr)
		if err != nil {
			return err
		}
		deps.KnowledgeBase = corpus

	case "ask":
		corpus, err := openCorpus(cli.Ask.CorpusFlags, stderr)
		if err != nil {
			return err
		}
		completer, err := m.completer(ctx, cli, deps.Logger, stderr)
		if err != nil {
			return err
		}
		deps.KnowledgeBase = corpus
		deps.Asker = extract.NewAsker(corpus, completer)
	}

	return kongCtx.Run(deps)
}

// completer builds the provider Completer selected by configuration and
// wraps it with logging and retry.
func (m *Main) completer(ctx context.Context, cli *CLI, logger *slog.Logger, stderr io.Writer) (officebuddy.Completer, error) {
	base := m.Completer
	if base == nil {
		cfg, err := config.Load(cli.EnvFile...)
		if err != nil {
			return nil, err
		}
		cfg.Override(cli.Provider, cli.Model)
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(stderr, "error: %s\n", officebuddy.ErrorMessage(err))
			fmt.Fprintln(stderr, "Hint: set the key in the environment or a .env file")
			return nil, err
		}

		if base, err = newProviderCompleter(ctx, cfg, stderr); err != nil {
			return nil, err
		}
		logger.Debug("provider configured", "provider", cfg.Provider, "model", cfg.ResolvedModel())
	}

	opts := []retry.Option{retry.WithLogger(logger)}
	if m.RetryPolicy != nil {
		opts = append(opts, retry.WithPolicy(*m.RetryPolicy))
	}
	return retry.NewCompleter(obslog.NewLoggingCompleter(base, logger), opts...), nil
}

func newProviderCompleter(ctx context.Context, cfg *config.Config, stderr io.Writer) (officebuddy.Completer, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		return gemini.NewCompleter(client, cfg.ResolvedModel()), nil
	default:
		return openai.NewCompleter(openai.Config{
			Token:   cfg.OpenAIAPIKey,
			Model:   cfg.ResolvedModel(),
			BaseURL: cfg.OpenAIBaseURL,
		})
	}
}

// fetcher returns the test fetcher, a headless browser, or plain HTTP.
func (m *Main) fetcher(cmd CrawlCmd, stderr io.Writer) (officebuddy.Fetcher, error) {
	if m.Fetcher != nil {
		return m.Fetcher, nil
	}
	if cmd.Browser {
		f, err := rod.NewFetcher(rod.WithFetchTimeout(cmd.Timeout))
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		return f, nil
	}
	return obhttp.NewFetcher(obhttp.WithTimeout(cmd.Timeout)), nil
}

func recordExtractor(name string) officebuddy.RecordExtractor {
	switch name {
	case "trafilatura":
		return trafilatura.NewRecordExtractor()
	case "readability":
		return readability.NewRecordExtractor()
	default:
		return goquery.NewRecordExtractor()
	}
}

// tokenizerModel selects the local Gemini tokenizer. Counts are estimates
// when another provider serves completions.
const tokenizerModel = gemini.DefaultModel

func (m *Main) tokenCounter() (officebuddy.TokenCounter, error) {
	if m.TokenCounter != nil {
		return m.TokenCounter, nil
	}
	tc, err := gemini.NewTokenCounter(tokenizerModel)
	if err != nil {
		return nil, fmt.Errorf("failed to create token counter: %w", err)
	}
	return tc, nil
}

func openCorpus(flags CorpusFlags, stderr io.Writer) (*fs.Corpus, error) {
	corpus, err := fs.LoadCorpus(flags.Corpus)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", officebuddy.ErrorMessage(err))
		if officebuddy.ErrorCode(err) == officebuddy.ENOTFOUND {
			fmt.Fprintln(stderr, "Hint: run 'officebuddy crawl' to build a corpus")
		}
		return nil, err
	}
	corpus.Keywords = flags.Keyword
	return corpus, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
