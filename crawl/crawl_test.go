package crawl_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/RadchaneepornC/officebuddy"
	"github.com/RadchaneepornC/officebuddy/crawl"
	"github.com/RadchaneepornC/officebuddy/goquery"
	obhttp "github.com/RadchaneepornC/officebuddy/http"
	"github.com/RadchaneepornC/officebuddy/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seed = "https://kb.example.com/548.html"

var pages = []string{
	"https://kb.example.com/549.html",
	"https://kb.example.com/550.html",
	"https://kb.example.com/551.html",
}

// staticFetcher serves pages from a map; missing URLs fail.
func staticFetcher(content map[string]string) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			html, ok := content[url]
			if !ok {
				return "", fmt.Errorf("HTTP 404 for %s", url)
			}
			return html, nil
		},
		CloseFn: func() error { return nil },
	}
}

func fixedLinks(links ...string) *mock.LinkSelector {
	return &mock.LinkSelector{
		SelectLinksFn: func(string, string) ([]string, error) {
			return links, nil
		},
	}
}

// echoExtractor uses the page HTML as the record context.
func echoExtractor() *mock.RecordExtractor {
	return &mock.RecordExtractor{
		ExtractFn: func(html string) (*officebuddy.QARecord, error) {
			if html == "bad" {
				return nil, officebuddy.Errorf(officebuddy.EINVALID, "page has no text content")
			}
			return &officebuddy.QARecord{Context: html}, nil
		},
	}
}

func TestCrawler_Crawl(t *testing.T) {
	t.Parallel()

	t.Run("returns one record per page in discovery order", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher: staticFetcher(map[string]string{
				seed: "seed", pages[0]: "first", pages[1]: "second", pages[2]: "third",
			}),
			Links:   fixedLinks(pages...),
			Records: echoExtractor(),
		}

		records, err := c.Crawl(context.Background(), seed)

		require.NoError(t, err)
		assert.Equal(t, []officebuddy.QARecord{
			{Context: "first"}, {Context: "second"}, {Context: "third"},
		}, records)
	})

	t.Run("substitutes placeholders for failed pages", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher: staticFetcher(map[string]string{seed: "seed", pages[0]: "bad", pages[2]: "third"}),
			Links:   fixedLinks(pages...),
			Records: echoExtractor(),
		}

		records, err := c.Crawl(context.Background(), seed)

		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "[ERROR] Could not crawl https://kb.example.com/549.html", records[0].Context)
		assert.Equal(t, "[ERROR] Could not crawl https://kb.example.com/550.html", records[1].Context)
		assert.Empty(t, records[1].Question)
		assert.Equal(t, "third", records[2].Context)
	})

	t.Run("treats empty context as a failed page", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher: staticFetcher(map[string]string{seed: "seed", pages[0]: ""}),
			Links:   fixedLinks(pages[0]),
			Records: echoExtractor(),
		}

		records, err := c.Crawl(context.Background(), seed)

		require.NoError(t, err)
		assert.Equal(t, []officebuddy.QARecord{crawl.Placeholder(pages[0])}, records)
	})

	t.Run("fails when seed cannot be fetched", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher: staticFetcher(nil),
			Links:   fixedLinks(pages...),
			Records: echoExtractor(),
		}

		records, err := c.Crawl(context.Background(), seed)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "fetch seed")
		assert.Nil(t, records)
	})

	t.Run("fails when sidebar is missing", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher: staticFetcher(map[string]string{seed: "seed"}),
			Links: &mock.LinkSelector{
				SelectLinksFn: func(string, string) ([]string, error) {
					return nil, officebuddy.Errorf(officebuddy.ELAYOUT, "sidebar menu not found")
				},
			},
			Records: echoExtractor(),
		}

		_, err := c.Crawl(context.Background(), seed)

		assert.Equal(t, officebuddy.ELAYOUT, officebuddy.ErrorCode(err))
	})

	t.Run("rejects invalid seed URL", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{Fetcher: staticFetcher(nil), Links: fixedLinks(), Records: echoExtractor()}

		for _, u := range []string{"", "kb.example.com/548.html", "ftp://kb.example.com/x.html"} {
			_, err := c.Crawl(context.Background(), u)
			assert.Equal(t, officebuddy.EINVALID, officebuddy.ErrorCode(err), u)
		}
	})

	t.Run("returns empty list when sidebar has no pages", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher: staticFetcher(map[string]string{seed: "seed"}),
			Links:   fixedLinks(),
			Records: echoExtractor(),
		}

		records, err := c.Crawl(context.Background(), seed)

		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("applies per-request timeout", func(t *testing.T) {
		t.Parallel()

		var deadlines []time.Duration
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				deadline, ok := ctx.Deadline()
				if !ok {
					return "", errors.New("no deadline")
				}
				deadlines = append(deadlines, time.Until(deadline))
				return "page", nil
			},
		}
		c := &crawl.Crawler{
			Fetcher: fetcher,
			Links:   fixedLinks(pages[0]),
			Records: echoExtractor(),
			Timeout: 2 * time.Second,
		}

		_, err := c.Crawl(context.Background(), seed)

		require.NoError(t, err)
		require.Len(t, deadlines, 2)
		for _, d := range deadlines {
			assert.LessOrEqual(t, d, 2*time.Second)
			assert.Greater(t, d, time.Second)
		}
	})

	t.Run("waits on rate limiter per host", func(t *testing.T) {
		t.Parallel()

		var domains []string
		c := &crawl.Crawler{
			Fetcher: staticFetcher(map[string]string{seed: "seed", pages[0]: "a", pages[1]: "b"}),
			Links:   fixedLinks(pages[0], pages[1]),
			Records: echoExtractor(),
			RateLimiter: &mock.DomainLimiter{
				WaitFn: func(_ context.Context, domain string) error {
					domains = append(domains, domain)
					return nil
				},
			},
		}

		_, err := c.Crawl(context.Background(), seed)

		require.NoError(t, err)
		assert.Equal(t, []string{"kb.example.com", "kb.example.com", "kb.example.com"}, domains)
	})

	t.Run("reports progress events", func(t *testing.T) {
		t.Parallel()

		var events []crawl.ProgressEvent
		c := &crawl.Crawler{
			Fetcher: staticFetcher(map[string]string{seed: "seed", pages[0]: "same", pages[1]: "same"}),
			Links:   fixedLinks(pages...),
			Records: echoExtractor(),
			Progress: func(e crawl.ProgressEvent) {
				events = append(events, e)
			},
		}

		_, err := c.Crawl(context.Background(), seed)

		require.NoError(t, err)
		require.Len(t, events, 5)
		assert.Equal(t, crawl.ProgressStarted, events[0].Type)
		assert.Equal(t, 3, events[0].Total)

		assert.Equal(t, crawl.ProgressCompleted, events[1].Type)
		assert.Equal(t, pages[0], events[1].URL)
		assert.Equal(t, 1, events[1].Completed)
		assert.Equal(t, len("same"), events[1].Bytes)
		assert.Empty(t, events[1].DuplicateOf)

		assert.Equal(t, crawl.ProgressCompleted, events[2].Type)
		assert.Equal(t, pages[0], events[2].DuplicateOf)

		assert.Equal(t, crawl.ProgressFailed, events[3].Type)
		assert.Equal(t, pages[2], events[3].URL)
		assert.Error(t, events[3].Error)

		assert.Equal(t, crawl.ProgressFinished, events[4].Type)
		assert.Equal(t, 3, events[4].Completed)
	})

	t.Run("stops when context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				if url == pages[0] {
					cancel()
				}
				if err := ctx.Err(); err != nil {
					return "", err
				}
				return "page", nil
			},
		}
		c := &crawl.Crawler{Fetcher: fetcher, Links: fixedLinks(pages...), Records: echoExtractor()}

		records, err := c.Crawl(ctx, seed)

		require.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, records)
	})
}

func TestCrawler_Crawl_Concurrent(t *testing.T) {
	t.Parallel()

	t.Run("preserves discovery order", func(t *testing.T) {
		t.Parallel()

		urls := make([]string, 20)
		for i := range urls {
			urls[i] = fmt.Sprintf("https://kb.example.com/%d.html", 600+i)
		}

		var mu sync.Mutex
		inFlight, maxInFlight := 0, 0
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				if url == seed {
					return "seed", nil
				}
				mu.Lock()
				inFlight++
				maxInFlight = max(maxInFlight, inFlight)
				mu.Unlock()

				// Later pages finish first.
				n := strings.TrimSuffix(strings.TrimPrefix(url, "https://kb.example.com/"), ".html")
				var i int
				_, _ = fmt.Sscanf(n, "%d", &i)
				time.Sleep(time.Duration(620-i) * time.Millisecond)

				mu.Lock()
				inFlight--
				mu.Unlock()
				return url, nil
			},
		}
		c := &crawl.Crawler{
			Fetcher:     fetcher,
			Links:       fixedLinks(urls...),
			Records:     echoExtractor(),
			Concurrency: 4,
		}

		records, err := c.Crawl(context.Background(), seed)

		require.NoError(t, err)
		require.Len(t, records, len(urls))
		for i, rec := range records {
			assert.Equal(t, urls[i], rec.Context)
		}
		assert.LessOrEqual(t, maxInFlight, 4)
	})

	t.Run("returns placeholders for failed pages", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher:     staticFetcher(map[string]string{seed: "seed", pages[1]: "second"}),
			Links:       fixedLinks(pages...),
			Records:     echoExtractor(),
			Concurrency: 3,
		}

		records, err := c.Crawl(context.Background(), seed)

		require.NoError(t, err)
		assert.Equal(t, []officebuddy.QARecord{
			crawl.Placeholder(pages[0]), {Context: "second"}, crawl.Placeholder(pages[2]),
		}, records)
	})
}

func TestCrawler_Crawl_Site(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	var sidebar strings.Builder
	sidebar.WriteString(`<ul class="menu">`)
	for i, p := range []string{"/kb/1.html", "/kb/2.html", "/kb/missing.html", "/kb/1.html#faq"} {
		fmt.Fprintf(&sidebar, `<li><a href="%s">Topic %d</a></li>`, p, i)
	}
	for range 8 {
		sidebar.WriteString(`<li><a href="/about">About</a></li>`)
	}
	sidebar.WriteString(`</ul>`)

	mux.HandleFunc("/kb/index.html", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body><nav>%s</nav><div>Welcome</div></body></html>`, sidebar.String())
	})
	mux.HandleFunc("/kb/1.html", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
<div class="header">Revenue Department</div>
<div class="content"><h3>What is personal income tax?</h3>
<p>: A tax levied on income earned by individuals.</p></div>
</body></html>`)
	})
	mux.HandleFunc("/kb/2.html", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><h1>Filing</h1><article>Returns are filed online by March.</article></body></html>`)
	})

	c := &crawl.Crawler{
		Fetcher: obhttp.NewFetcher(),
		Links:   goquery.NewSidebarSelector(),
		Records: goquery.NewRecordExtractor(),
		Timeout: 5 * time.Second,
	}

	records, err := c.Crawl(context.Background(), server.URL+"/kb/index.html")

	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, officebuddy.QARecord{
		Context:  "What is personal income tax? : A tax levied on income earned by individuals.",
		Question: "What is personal income tax?",
		Answer:   "A tax levied on income earned by individuals.",
	}, records[0])
	assert.Equal(t, officebuddy.QARecord{Context: "Returns are filed online by March."}, records[1])
	assert.Equal(t, "[ERROR] Could not crawl "+server.URL+"/kb/missing.html", records[2].Context)
}

func TestCrawler_Crawl_EmptySeed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}))
	defer server.Close()

	c := &crawl.Crawler{
		Fetcher: obhttp.NewFetcher(),
		Links:   goquery.NewSidebarSelector(),
		Records: goquery.NewRecordExtractor(),
	}

	_, err := c.Crawl(context.Background(), server.URL+"/548.html")

	require.Error(t, err)
	assert.Equal(t, officebuddy.ELAYOUT, officebuddy.ErrorCode(err))
}
