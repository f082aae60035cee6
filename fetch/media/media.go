package media

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/zishang520/engine.io/events"

	"github.com/Pioneer6/glfetch/fetch"
)

// Source is one candidate URL for an element, in fallback order.
type Source struct {
	URL string
}

// Element is a muted multi-source media element. Body streams the
// first source that answered; the element emits "loadstart" when the
// stream opens and "error" when every source failed.
type Element struct {
	events.EventEmitter

	Muted bool
	// CrossOrigin is "anonymous" when any source is cross-origin with
	// the loader's origin. One shared flag covers the whole element,
	// not individual sources.
	CrossOrigin string
	Sources     []Source
	Body        io.ReadCloser
}

// Loader builds media elements from remote URLs.
type Loader struct {
	hc     *http.Client
	origin string
	logger *slog.Logger
}

// Option is a functional option for configuring a [Loader].
type Option func(*options) error

type options struct {
	hc     *http.Client
	logger *slog.Logger
}

// WithHTTPClient replaces the default [http.Client] used for source
// requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) error {
		if hc == nil {
			return errors.New("client must not be nil")
		}
		o.hc = hc
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Loader].
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

// NewLoader creates a Loader. origin is the loader's own origin
// (scheme + host), compared against each source URL.
func NewLoader(origin string, optFns ...Option) (*Loader, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, err
		}
	}

	l := &Loader{
		hc:     &http.Client{},
		origin: origin,
		logger: slog.Default(),
	}
	if opts.hc != nil {
		l.hc = opts.hc
	}
	if opts.logger != nil {
		l.logger = opts.logger
	}

	return l, nil
}

// Load constructs a muted element over urls, preserving their order,
// and begins loading. The callback fires once the first answering
// source has started streaming (headers received), so the element is
// playable but possibly incomplete. If every source fails, the last
// failure is delivered instead.
//
// The returned handle's Cancel is an intentional no-op: there is no
// mechanism to abort media loading in this design. Bound the load with
// ctx if a deadline is needed.
func (l *Loader) Load(ctx context.Context, urls []string, cb func(err error, el *Element)) fetch.Cancelable {
	el := newElement(urls, l.origin)

	el.Once("loadstart", func(...any) {
		cb(nil, el)
	})
	el.Once("error", func(args ...any) {
		err, _ := args[0].(error)
		cb(err, nil)
	})

	go l.load(ctx, el)

	return noopCancel{}
}

// noopCancel is the handle returned by Load. Its Cancel is the
// documented no-op: nothing can abort media loading in this design.
type noopCancel struct{}

var _ fetch.Cancelable = noopCancel{}

func (noopCancel) Cancel() {}

// newElement builds the element synchronously: sources in input order,
// and the shared cross-origin flag set if any source needs it.
func newElement(urls []string, origin string) *Element {
	el := &Element{
		EventEmitter: events.New(),
		Muted:        true,
	}

	for _, u := range urls {
		if !fetch.SameOrigin(u, origin) {
			el.CrossOrigin = "anonymous"
		}
		el.Sources = append(el.Sources, Source{URL: u})
	}

	return el
}

// load walks the sources in order until one starts streaming.
func (l *Loader) load(ctx context.Context, el *Element) {
	var lastErr error

	for _, src := range el.Sources {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
		if err != nil {
			lastErr = &fetch.TransportError{URL: src.URL, Err: err}
			continue
		}

		resp, err := l.hc.Do(req)
		if err != nil {
			lastErr = &fetch.TransportError{URL: src.URL, Err: err}
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if err := resp.Body.Close(); err != nil {
				l.logger.Error("failed to close rejected source body", "url", src.URL, "error", err)
			}
			lastErr = &fetch.AJAXError{Status: resp.StatusCode, URL: src.URL, Message: http.StatusText(resp.StatusCode)}
			continue
		}

		el.Body = resp.Body
		el.Emit("loadstart")
		return
	}

	if lastErr == nil {
		lastErr = errors.New("no media sources provided")
	}
	el.Emit("error", lastErr)
}
