// Package chromefetch is the rendering fetcher: a headless browser used as
// the escalation step when the static fetcher is blocked or comes back
// empty. It waits for content to settle, runs one round of "load more"
// clicks, and collects same-origin iframe documents.
package chromefetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/user/esg-discovery/internal/entity"
	"github.com/user/esg-discovery/internal/repository"
)

const userAgent = `Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36`

// One click round, bounded: expands "load more" style listings without
// letting a pathological page keep the browser busy.
const expandScript = `(() => {
	const patterns = [/load more/i, /show all/i, /view all/i, /archive/i];
	let clicked = 0;
	for (const el of document.querySelectorAll('a,button')) {
		if (clicked >= 3) break;
		const text = (el.innerText || '').trim();
		if (text.length < 40 && patterns.some(p => p.test(text))) {
			try { el.click(); clicked++; } catch (e) {}
		}
	}
	return clicked;
})()`

// Same-origin iframes only; cross-origin contentDocument access throws and
// is swallowed.
const iframeScript = `(() => {
	const out = [];
	for (const f of document.querySelectorAll('iframe')) {
		try {
			if (f.contentDocument && f.contentDocument.documentElement) {
				out.push(f.contentDocument.documentElement.outerHTML);
			}
		} catch (e) {}
	}
	return out;
})()`

// Fetcher implements repository.Fetcher with chromedp.
type Fetcher struct {
	allocatorPool *sync.Pool
	timeout       time.Duration
	settle        time.Duration
}

func New(timeout, settle time.Duration) *Fetcher {
	pool := &sync.Pool{
		New: func() interface{} {
			opts := append(chromedp.DefaultExecAllocatorOptions[:],
				chromedp.Flag("headless", true),
				chromedp.Flag("disable-gpu", true),
				chromedp.Flag("no-sandbox", true),
				chromedp.Flag("disable-dev-shm-usage", true),
				chromedp.UserAgent(userAgent),
			)
			allocCtx, _ := chromedp.NewExecAllocator(context.Background(), opts...)
			return allocCtx
		},
	}
	return &Fetcher{
		allocatorPool: pool,
		timeout:       timeout,
		settle:        settle,
	}
}

// Fetch renders a URL and returns the settled main document plus any
// same-origin iframe documents.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*entity.Page, error) {
	allocCtx := f.allocatorPool.Get().(context.Context)
	defer f.allocatorPool.Put(allocCtx)

	taskCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()
	taskCtx, cancelTimeout := context.WithTimeout(taskCtx, f.timeout)
	defer cancelTimeout()

	var (
		effectiveURL string
		html         string
		frames       []string
		clicked      int
	)

	err := chromedp.Run(taskCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{
			"Accept-Language": "en-US,en;q=0.9",
		}),
		chromedp.Navigate(url),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.Sleep(f.settle),
		chromedp.Evaluate(expandScript, &clicked),
		chromedp.Sleep(f.settle),
		chromedp.Location(&effectiveURL),
		chromedp.OuterHTML("html", &html),
		chromedp.Evaluate(iframeScript, &frames),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: rendering %s", repository.ErrFetchTimeout, url)
		}
		return nil, fmt.Errorf("%w: %v", repository.ErrRenderFailed, err)
	}

	if clicked > 0 {
		slog.Debug("expanded page listings", "url", url, "clicks", clicked)
	}

	return &entity.Page{
		URL:        effectiveURL,
		StatusCode: 200,
		HTML:       html,
		FrameHTML:  frames,
		Rendered:   true,
	}, nil
}
