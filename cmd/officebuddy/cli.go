package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/RadchaneepornC/officebuddy"
	"github.com/RadchaneepornC/officebuddy/crawl"
	"github.com/RadchaneepornC/officebuddy/extract"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx           context.Context
	Stdout        io.Writer
	Stderr        io.Writer
	Logger        *slog.Logger
	Loader        officebuddy.DocumentLoader
	Pipeline      *extract.Pipeline
	TokenCounter  officebuddy.TokenCounter
	Crawler       *crawl.Crawler
	KnowledgeBase officebuddy.KnowledgeBase
	Asker         officebuddy.Asker
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose  bool     `short:"v" help:"Enable debug logging"`
	Provider string   `help:"Model provider (openai or gemini); overrides OFFICEBUDDY_PROVIDER"`
	Model    string   `help:"Model name; overrides OFFICEBUDDY_MODEL"`
	EnvFile  []string `name:"env-file" default:".env" help:"Dotenv files to load (repeatable)"`

	Extract ExtractCmd `cmd:"" help:"Extract a structured job description or CV from text or a document"`
	Crawl   CrawlCmd   `cmd:"" help:"Crawl a knowledge-base site into a question/answer corpus"`
	Search  SearchCmd  `cmd:"" help:"Search a corpus by keyword overlap"`
	Ask     AskCmd     `cmd:"" help:"Answer a question from a corpus"`
}

// Default result files for extract, one per document kind.
const (
	DefaultJobOutput = "job_description.json"
	DefaultCVOutput  = "cv_extracted.json"
)

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	Text         string `arg:"" optional:"" help:"Text to extract from (or use --file)"`
	File         string `short:"f" help:"Read input from a document (PDF, DOCX, ODT, HTML, TXT)"`
	Kind         string `enum:"job,cv" default:"job" help:"Document kind selecting the built-in stages (job, cv)"`
	Instructions string `short:"i" help:"YAML file with an instructions list, one per stage"`
	Steps        int    `help:"Run only the first N stages (0 runs all)"`
	Output       string `short:"o" default:"job_description.json" help:"Write the result to this file (empty to skip; cv_extracted.json by default with --kind cv)"`
	All          bool   `help:"Print every stage result instead of the final document"`
	CountTokens  bool   `name:"count-tokens" help:"Report the input size in tokens"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URL         string        `arg:"" optional:"" default:"https://www.rd.go.th/548.html" help:"Seed page with the sidebar menu"`
	Timeout     time.Duration `default:"15s" help:"Per-request timeout"`
	Concurrency int           `short:"c" default:"1" help:"Concurrent fetch limit"`
	RPS         float64       `name:"rps" default:"0" help:"Requests per second per domain (0 for unlimited)"`
	Output      string        `short:"o" default:"knowledge_base.json" help:"Write records to this file (empty to skip)"`
	Extractor   string        `short:"e" enum:"blocks,trafilatura,readability" default:"blocks" help:"Record extraction strategy (blocks, trafilatura, readability)"`
	Browser     bool          `short:"b" help:"Render pages with headless Chrome"`
	CountTokens bool          `name:"count-tokens" help:"Report the harvested corpus size in tokens"`
}

// CorpusFlags selects and tunes a corpus for search and ask.
type CorpusFlags struct {
	Corpus  string   `default:"knowledge_base.json" help:"Corpus JSON file (a list or an object with records)"`
	Keyword []string `short:"k" default:"ภาษี,ลดหย่อน,เงินได้,ยกเว้น,ชำระ,ยื่นแบบ" help:"Extra keywords added to every question (repeatable)"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	CorpusFlags `embed:""`

	Question string `arg:"" help:"Question to search for"`
	Limit    int    `short:"n" default:"3" help:"Maximum number of entries"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	CorpusFlags `embed:""`

	Question string `arg:"" help:"Question to answer"`
}
